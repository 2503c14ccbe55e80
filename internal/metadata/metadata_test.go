package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeIndexFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), IndexFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	return path
}

func TestReadIndex(t *testing.T) {
	path := writeIndexFile(t, "LJ001|Printing, then|printing, then\nLJ002|Second line|second line\n")

	records, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	want := Record{ID: "LJ001", Text: "Printing, then", NormalizedText: "printing, then"}
	if records[0] != want {
		t.Errorf("record mismatch: got %+v, want %+v", records[0], want)
	}
}

func TestReadIndexTwoFieldFallback(t *testing.T) {
	path := writeIndexFile(t, "LJ001|only raw text\n")

	records, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if records[0].NormalizedText != "only raw text" {
		t.Errorf("normalized text not defaulted: %+v", records[0])
	}
}

func TestReadIndexSkipsUnusableLines(t *testing.T) {
	path := writeIndexFile(t, "\nno delimiter here\nLJ001|text|norm\n\n")

	records, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(records) != 1 || records[0].ID != "LJ001" {
		t.Fatalf("expected single LJ001 record, got %+v", records)
	}
}

func TestReadIndexPreservesPipesInNormalizedText(t *testing.T) {
	path := writeIndexFile(t, "LJ001|text|norm with | extra pipe\n")

	records, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if records[0].NormalizedText != "norm with | extra pipe" {
		t.Errorf("third field truncated: %q", records[0].NormalizedText)
	}
}

func TestReadIndexEmpty(t *testing.T) {
	path := writeIndexFile(t, "\n\nnot-a-record\n")

	_, err := ReadIndex(path)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Fatalf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestReadIndexMissingFile(t *testing.T) {
	_, err := ReadIndex(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("expected error for missing index")
	}
}

func TestWriteIndexRoundTrip(t *testing.T) {
	records := []Record{
		{ID: "LJ001", Text: "First", NormalizedText: "first"},
		{ID: "LJ002", Text: "Second", NormalizedText: "second"},
	}
	path := filepath.Join(t.TempDir(), "nested", "out", IndexFileName)

	if err := WriteIndex(path, records); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}

	got, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d mismatch: got %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestWriteIndexOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), IndexFileName)
	if err := WriteIndex(path, []Record{{ID: "OLD", Text: "a", NormalizedText: "a"}}); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}
	if err := WriteIndex(path, []Record{{ID: "NEW", Text: "b", NormalizedText: "b"}}); err != nil {
		t.Fatalf("WriteIndex overwrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if strings.Contains(string(data), "OLD") {
		t.Errorf("old content survived overwrite: %q", data)
	}
}

func TestAssetName(t *testing.T) {
	if got := AssetName("LJ010"); got != "LJ010.wav" {
		t.Errorf("AssetName: got %q", got)
	}
	if got := AssetPath("/data/wavs", "LJ010"); got != filepath.Join("/data/wavs", "LJ010.wav") {
		t.Errorf("AssetPath: got %q", got)
	}
}
