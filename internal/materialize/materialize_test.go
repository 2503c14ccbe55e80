package materialize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"subsample/internal/metadata"
)

func record(id string) metadata.Record {
	return metadata.Record{ID: id, Text: id, NormalizedText: id}
}

func writeWav(t *testing.T, dir, id string, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(metadata.AssetPath(dir, id), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunLinksAssets(t *testing.T) {
	base := t.TempDir()
	srcDir := filepath.Join(base, "src")
	dstDir := filepath.Join(base, "dst")
	writeWav(t, srcDir, "LJ001", "first")
	writeWav(t, srcDir, "LJ002", "second")

	m := New(srcDir, dstDir, Options{})
	results, tally, err := m.Run(context.Background(), []metadata.Record{record("LJ001"), record("LJ002")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tally.Linked != 2 || tally.Written() != 2 {
		t.Fatalf("tally = %+v", tally)
	}
	for _, result := range results {
		if result.Outcome != OutcomeLinked {
			t.Errorf("outcome for %s = %s", result.Record.ID, result.Outcome)
		}
	}

	// Same inode means a true hardlink, not a copy.
	srcInfo, err := os.Stat(metadata.AssetPath(srcDir, "LJ001"))
	if err != nil {
		t.Fatal(err)
	}
	dstInfo, err := os.Stat(metadata.AssetPath(dstDir, "LJ001"))
	if err != nil {
		t.Fatal(err)
	}
	if !os.SameFile(srcInfo, dstInfo) {
		t.Error("destination is not a hardlink of the source")
	}
}

func TestRunCopyOnly(t *testing.T) {
	base := t.TempDir()
	srcDir := filepath.Join(base, "src")
	dstDir := filepath.Join(base, "dst")
	writeWav(t, srcDir, "LJ001", "copy fidelity bytes")

	m := New(srcDir, dstDir, Options{CopyOnly: true})
	_, tally, err := m.Run(context.Background(), []metadata.Record{record("LJ001")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tally.Copied != 1 {
		t.Fatalf("tally = %+v", tally)
	}

	got, err := os.ReadFile(metadata.AssetPath(dstDir, "LJ001"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "copy fidelity bytes" {
		t.Errorf("copied content mismatch: %q", got)
	}

	srcInfo, _ := os.Stat(metadata.AssetPath(srcDir, "LJ001"))
	dstInfo, _ := os.Stat(metadata.AssetPath(dstDir, "LJ001"))
	if os.SameFile(srcInfo, dstInfo) {
		t.Error("copy-only mode produced a hardlink")
	}
}

func TestRunVerifiedCopy(t *testing.T) {
	base := t.TempDir()
	srcDir := filepath.Join(base, "src")
	dstDir := filepath.Join(base, "dst")
	writeWav(t, srcDir, "LJ001", "verified bytes")

	m := New(srcDir, dstDir, Options{CopyOnly: true, VerifyCopies: true})
	_, tally, err := m.Run(context.Background(), []metadata.Record{record("LJ001")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tally.Copied != 1 {
		t.Fatalf("tally = %+v", tally)
	}
}

func TestRunMissingSourceContinues(t *testing.T) {
	base := t.TempDir()
	srcDir := filepath.Join(base, "src")
	dstDir := filepath.Join(base, "dst")
	writeWav(t, srcDir, "LJ001", "present")

	records := []metadata.Record{record("LJ001"), record("LJ010"), record("LJ001x")}
	m := New(srcDir, dstDir, Options{})
	results, tally, err := m.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tally.Linked != 1 || tally.Missing != 2 {
		t.Fatalf("tally = %+v", tally)
	}
	if results[1].Outcome != OutcomeMissing || results[2].Outcome != OutcomeMissing {
		t.Errorf("missing outcomes not tagged: %+v", results)
	}
	if tally.Written() != 1 {
		t.Errorf("Written() = %d, want 1", tally.Written())
	}
}

func TestRunSkipsExistingDestination(t *testing.T) {
	base := t.TempDir()
	srcDir := filepath.Join(base, "src")
	dstDir := filepath.Join(base, "dst")
	writeWav(t, srcDir, "LJ001", "source")
	writeWav(t, dstDir, "LJ001", "already there")

	m := New(srcDir, dstDir, Options{})
	results, tally, err := m.Run(context.Background(), []metadata.Record{record("LJ001")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tally.Skipped != 1 {
		t.Fatalf("tally = %+v", tally)
	}
	if results[0].Outcome != OutcomeSkipped {
		t.Errorf("outcome = %s", results[0].Outcome)
	}

	// The pre-existing file must be untouched.
	got, _ := os.ReadFile(metadata.AssetPath(dstDir, "LJ001"))
	if string(got) != "already there" {
		t.Errorf("existing destination rewritten: %q", got)
	}
}

func TestRunIdempotentRerun(t *testing.T) {
	base := t.TempDir()
	srcDir := filepath.Join(base, "src")
	dstDir := filepath.Join(base, "dst")
	writeWav(t, srcDir, "LJ001", "a")
	writeWav(t, srcDir, "LJ002", "b")
	records := []metadata.Record{record("LJ001"), record("LJ002")}

	m := New(srcDir, dstDir, Options{})
	if _, _, err := m.Run(context.Background(), records); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	_, tally, err := m.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if tally.Skipped != 2 || tally.Linked != 0 {
		t.Errorf("rerun tally = %+v, want all skipped", tally)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	base := t.TempDir()
	srcDir := filepath.Join(base, "src")
	writeWav(t, srcDir, "LJ001", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(srcDir, filepath.Join(base, "dst"), Options{})
	_, _, err := m.Run(ctx, []metadata.Record{record("LJ001")})
	if err == nil {
		t.Fatal("expected context error")
	}
}
