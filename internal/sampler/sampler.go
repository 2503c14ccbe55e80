// Package sampler selects a deterministic random subset of dataset indices.
//
// The generator is constructed explicitly from the caller's seed so repeated
// runs with the same (total, count, seed) triple always pick the same subset;
// no process-global randomness is touched.
package sampler

import (
	"math/rand/v2"
	"sort"
)

// pcgStream fixes the second PCG seed word so a run is fully determined by
// the user-supplied seed alone.
const pcgStream = 0x5380c24d20255c19

// Selection is a sorted set of indices into an ordered dataset.
type Selection struct {
	Total     int
	Requested int
	Indices   []int
}

// Effective reports how many indices were actually selected,
// min(Requested, Total).
func (s Selection) Effective() int {
	return len(s.Indices)
}

// Select draws count indices from [0, total) without replacement, uniformly,
// using a generator seeded from seed. A count at or above total selects
// everything; the result is sorted ascending so downstream output follows
// source order.
func Select(total, count int, seed uint64) Selection {
	sel := Selection{Total: total, Requested: count}
	if total <= 0 || count <= 0 {
		return sel
	}
	if count >= total {
		sel.Indices = make([]int, total)
		for i := range sel.Indices {
			sel.Indices[i] = i
		}
		return sel
	}

	rng := rand.New(rand.NewPCG(seed, pcgStream))
	pool := make([]int, total)
	for i := range pool {
		pool[i] = i
	}
	// Partial Fisher-Yates: only the first count slots need shuffling.
	for i := 0; i < count; i++ {
		j := i + rng.IntN(total-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	sel.Indices = pool[:count]
	sort.Ints(sel.Indices)
	return sel
}

// Apply returns the records at the selected indices, preserving order.
func Apply[T any](records []T, sel Selection) []T {
	out := make([]T, 0, len(sel.Indices))
	for _, idx := range sel.Indices {
		out = append(out, records[idx])
	}
	return out
}
