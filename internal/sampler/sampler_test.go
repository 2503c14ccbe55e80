package sampler

import (
	"reflect"
	"sort"
	"testing"
)

func TestSelectEffectiveCount(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		count     int
		effective int
	}{
		{"fewer than total", 100, 10, 10},
		{"exactly total", 10, 10, 10},
		{"more than total", 5, 50, 5},
		{"zero count", 10, 0, 0},
		{"empty dataset", 0, 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel := Select(tc.total, tc.count, 42)
			if sel.Effective() != tc.effective {
				t.Errorf("effective = %d, want %d", sel.Effective(), tc.effective)
			}
		})
	}
}

func TestSelectDeterministic(t *testing.T) {
	first := Select(1000, 25, 42)
	second := Select(1000, 25, 42)
	if !reflect.DeepEqual(first.Indices, second.Indices) {
		t.Errorf("same seed produced different selections:\n%v\n%v", first.Indices, second.Indices)
	}

	other := Select(1000, 25, 43)
	if reflect.DeepEqual(first.Indices, other.Indices) {
		t.Error("different seeds produced identical selections")
	}
}

func TestSelectSortedUniqueInRange(t *testing.T) {
	sel := Select(200, 50, 7)
	if !sort.IntsAreSorted(sel.Indices) {
		t.Errorf("indices not sorted: %v", sel.Indices)
	}
	seen := make(map[int]struct{}, len(sel.Indices))
	for _, idx := range sel.Indices {
		if idx < 0 || idx >= 200 {
			t.Errorf("index %d out of range", idx)
		}
		if _, dup := seen[idx]; dup {
			t.Errorf("duplicate index %d", idx)
		}
		seen[idx] = struct{}{}
	}
}

func TestSelectFullDatasetIsIdentity(t *testing.T) {
	sel := Select(4, 10, 99)
	if !reflect.DeepEqual(sel.Indices, []int{0, 1, 2, 3}) {
		t.Errorf("expected identity selection, got %v", sel.Indices)
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	records := []string{"a", "b", "c", "d", "e"}
	sel := Selection{Total: 5, Requested: 3, Indices: []int{0, 2, 4}}
	got := Apply(records, sel)
	if !reflect.DeepEqual(got, []string{"a", "c", "e"}) {
		t.Errorf("Apply = %v", got)
	}
}
