package materialize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sys/unix"

	"subsample/internal/fileutil"
	"subsample/internal/logging"
	"subsample/internal/metadata"
)

// Outcome tags how a single asset resolved.
type Outcome string

const (
	OutcomeLinked  Outcome = "linked"
	OutcomeCopied  Outcome = "copied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeMissing Outcome = "missing"
	OutcomeFailed  Outcome = "failed"
)

// Result pairs a record with its placement outcome. Err is set only for
// OutcomeFailed.
type Result struct {
	Record  metadata.Record
	Outcome Outcome
	Err     error
}

// SourcePath returns the asset path the result was read from.
func (r Result) SourcePath(srcDir string) string {
	return metadata.AssetPath(srcDir, r.Record.ID)
}

// Tally aggregates outcomes across a run.
type Tally struct {
	Linked  int
	Copied  int
	Skipped int
	Missing int
	Failed  int
}

// Written reports assets present at the destination after the run, including
// pre-existing ones.
func (t Tally) Written() int {
	return t.Linked + t.Copied + t.Skipped
}

// Count sums every processed record.
func (t Tally) Count() int {
	return t.Linked + t.Copied + t.Skipped + t.Missing + t.Failed
}

// Options adjusts placement behavior.
type Options struct {
	// CopyOnly skips the hardlink attempt and always copies.
	CopyOnly bool
	// VerifyCopies runs fallback copies through the hash-verified copier.
	VerifyCopies bool
	// Progress, when non-nil, receives a progress bar during the run.
	Progress io.Writer
	// Logger receives one structured event per non-success outcome.
	Logger *slog.Logger
}

// Materializer places assets for selected records one at a time.
type Materializer struct {
	srcDir string
	dstDir string
	opts   Options
	logger *slog.Logger
}

// New constructs a materializer moving assets from srcDir to dstDir.
func New(srcDir, dstDir string, opts Options) *Materializer {
	return &Materializer{
		srcDir: srcDir,
		dstDir: dstDir,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "materializer"),
	}
}

// Run resolves every record sequentially and returns one result per record in
// input order. It only errors on context cancellation or when the destination
// directory cannot be created; per-record failures are results, not errors.
func (m *Materializer) Run(ctx context.Context, records []metadata.Record) ([]Result, Tally, error) {
	if err := os.MkdirAll(m.dstDir, 0o755); err != nil {
		return nil, Tally{}, fmt.Errorf("create asset directory %s: %w", m.dstDir, err)
	}

	var bar *progressbar.ProgressBar
	if m.opts.Progress != nil && len(records) > 0 {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetWriter(m.opts.Progress),
			progressbar.OptionSetDescription("materializing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]Result, 0, len(records))
	var tally Tally
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return results, tally, err
		}

		result := m.place(rec)
		results = append(results, result)
		switch result.Outcome {
		case OutcomeLinked:
			tally.Linked++
		case OutcomeCopied:
			tally.Copied++
		case OutcomeSkipped:
			tally.Skipped++
		case OutcomeMissing:
			tally.Missing++
			m.logger.Warn("source asset missing",
				logging.String("id", rec.ID),
				logging.String("path", metadata.AssetPath(m.srcDir, rec.ID)),
			)
		case OutcomeFailed:
			tally.Failed++
			m.logger.Error("asset transfer failed",
				logging.String("id", rec.ID),
				logging.Error(result.Err),
			)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return results, tally, nil
}

// place resolves one record through the link-then-copy strategy.
func (m *Materializer) place(rec metadata.Record) Result {
	src := metadata.AssetPath(m.srcDir, rec.ID)
	dst := metadata.AssetPath(m.dstDir, rec.ID)

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return Result{Record: rec, Outcome: OutcomeMissing}
		}
		return Result{Record: rec, Outcome: OutcomeFailed, Err: fmt.Errorf("stat %s: %w", src, err)}
	}
	if _, err := os.Stat(dst); err == nil {
		return Result{Record: rec, Outcome: OutcomeSkipped}
	}

	if !m.opts.CopyOnly {
		linkErr := os.Link(src, dst)
		if linkErr == nil {
			return Result{Record: rec, Outcome: OutcomeLinked}
		}
		if errors.Is(linkErr, unix.EXDEV) {
			m.logger.Debug("hardlink crossed filesystems, copying",
				logging.String("id", rec.ID),
			)
		} else {
			m.logger.Debug("hardlink failed, copying",
				logging.String("id", rec.ID),
				logging.Error(linkErr),
			)
		}
	}

	if err := m.copy(src, dst); err != nil {
		return Result{Record: rec, Outcome: OutcomeFailed, Err: fmt.Errorf("copy %s -> %s: %w", src, dst, err)}
	}
	return Result{Record: rec, Outcome: OutcomeCopied}
}

func (m *Materializer) copy(src, dst string) error {
	if m.opts.VerifyCopies {
		return fileutil.CopyFileVerified(src, dst)
	}
	return fileutil.CopyFilePreserve(src, dst)
}
