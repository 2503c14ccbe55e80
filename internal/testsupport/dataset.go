package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subsample/internal/metadata"
)

// WriteDataset lays out a source dataset root: metadata.csv plus one wav per
// record. Records listed in skipWavs get an index entry but no asset file.
func WriteDataset(t testing.TB, root string, records []metadata.Record, skipWavs ...string) {
	t.Helper()

	skip := make(map[string]struct{}, len(skipWavs))
	for _, id := range skipWavs {
		skip[id] = struct{}{}
	}

	wavsDir := filepath.Join(root, metadata.WavsDirName)
	if err := os.MkdirAll(wavsDir, 0o755); err != nil {
		t.Fatalf("mkdir wavs: %v", err)
	}

	var index strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&index, "%s|%s|%s\n", rec.ID, rec.Text, rec.NormalizedText)
		if _, skipped := skip[rec.ID]; skipped {
			continue
		}
		WriteWav(t, metadata.AssetPath(wavsDir, rec.ID), 256)
	}
	if err := os.WriteFile(filepath.Join(root, metadata.IndexFileName), []byte(index.String()), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
}

// Records generates n sequential records in the LJSpeech naming convention.
func Records(n int) []metadata.Record {
	records := make([]metadata.Record, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("LJ%03d", i)
		records = append(records, metadata.Record{
			ID:             id,
			Text:           "Raw text for " + id,
			NormalizedText: "raw text for " + id,
		})
	}
	return records
}

// WriteWav fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteWav(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}
