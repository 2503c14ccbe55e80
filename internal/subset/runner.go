package subset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subsample/internal/config"
	"subsample/internal/ledger"
	"subsample/internal/logging"
	"subsample/internal/materialize"
	"subsample/internal/metadata"
	"subsample/internal/preflight"
	"subsample/internal/sampler"
)

// lockFileName guards a destination against concurrent runs.
const lockFileName = ".subsample.lock"

// Request holds one invocation's parameters, already resolved from flags and
// config defaults.
type Request struct {
	Source      string
	Destination string
	Count       int
	Seed        int64
	CopyOnly    bool
	Strict      bool
}

// Summary reports what a completed run did.
type Summary struct {
	RunID        string
	Total        int
	Requested    int
	Effective    int
	Tally        materialize.Tally
	Results      []materialize.Result
	MetadataPath string
	WavsPath     string
}

// Written reports how many selected records have an asset at the destination.
func (s *Summary) Written() int {
	return s.Tally.Written()
}

// Failures reports record-level failures (missing sources plus transfer
// errors).
func (s *Summary) Failures() int {
	return s.Tally.Missing + s.Tally.Failed
}

// Runner executes the sampling pipeline.
type Runner struct {
	cfg     *config.Config
	store   *ledger.Store
	logger  *slog.Logger
	console io.Writer
	// progress receives a materialization progress bar; nil disables it.
	progress io.Writer
}

// NewRunner constructs a runner. The ledger store may be nil, which disables
// run recording; a nil console discards the human-readable report.
func NewRunner(cfg *config.Config, store *ledger.Store, logger *slog.Logger, console io.Writer) *Runner {
	if console == nil {
		console = io.Discard
	}
	return &Runner{
		cfg:     cfg,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "runner"),
		console: console,
	}
}

// WithProgress enables a progress bar on the given writer during
// materialization.
func (r *Runner) WithProgress(w io.Writer) *Runner {
	r.progress = w
	return r
}

// Run executes the pipeline. Only dataset-level conditions return an error;
// record-level failures land in the summary. Under Request.Strict a run with
// record-level failures additionally returns ErrPartial after all output is
// written.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	startedAt := time.Now().UTC()

	src, err := config.ExpandPath(req.Source)
	if err != nil {
		return nil, wrap(ErrValidation, "resolve source", "", err)
	}
	dst, err := config.ExpandPath(req.Destination)
	if err != nil {
		return nil, wrap(ErrValidation, "resolve destination", "", err)
	}
	if req.Count <= 0 {
		return nil, wrap(ErrValidation, "check count", fmt.Sprintf("count must be positive (got %d)", req.Count), nil)
	}
	if req.Seed < 0 {
		return nil, wrap(ErrValidation, "check seed", fmt.Sprintf("seed must not be negative (got %d)", req.Seed), nil)
	}

	if failure := preflight.FirstFailure(preflight.CheckSourceLayout(src)); failure != nil {
		return nil, wrap(ErrPrecondition, failure.Name, failure.Detail, nil)
	}

	srcWavs := filepath.Join(src, metadata.WavsDirName)
	records, err := metadata.ReadIndex(filepath.Join(src, metadata.IndexFileName))
	if err != nil {
		return nil, wrap(ErrPrecondition, "parse index", "", err)
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, wrap(ErrPrecondition, "create destination", "", err)
	}

	lock := flock.New(filepath.Join(dst, lockFileName))
	held, err := lock.TryLock()
	if err != nil {
		return nil, wrap(ErrLocked, "acquire destination lock", "", err)
	}
	if !held {
		return nil, wrap(ErrLocked, "acquire destination lock",
			fmt.Sprintf("another run is writing to %s", dst), nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	selection := sampler.Select(len(records), req.Count, uint64(req.Seed))
	selected := sampler.Apply(records, selection)

	fmt.Fprintf(r.console, "Total items: %d. Selecting: %d (seed=%d)\n",
		selection.Total, selection.Effective(), req.Seed)
	r.logger.Info("selection made",
		logging.Int("total", selection.Total),
		logging.Int("requested", req.Count),
		logging.Int("selected", selection.Effective()),
		logging.Int64("seed", req.Seed),
	)

	// Free space can only be sized meaningfully when every asset will be
	// copied; link mode stays on one filesystem in the common case.
	if req.CopyOnly && r.cfg.Materialize.CheckFreeSpace {
		required := assetBytes(srcWavs, selected)
		if failure := preflight.CheckFreeSpace(dst, required); !failure.Passed {
			return nil, wrap(ErrPrecondition, failure.Name, failure.Detail, nil)
		}
	}

	metadataPath := filepath.Join(dst, metadata.IndexFileName)
	if err := metadata.WriteIndex(metadataPath, selected); err != nil {
		return nil, wrap(ErrPrecondition, "write index", "", err)
	}

	dstWavs := filepath.Join(dst, metadata.WavsDirName)
	m := materialize.New(srcWavs, dstWavs, materialize.Options{
		CopyOnly:     req.CopyOnly,
		VerifyCopies: r.cfg.Materialize.VerifyCopies,
		Progress:     r.progress,
		Logger:       r.logger,
	})
	results, tally, err := m.Run(ctx, selected)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:        uuid.NewString(),
		Total:        selection.Total,
		Requested:    req.Count,
		Effective:    selection.Effective(),
		Tally:        tally,
		Results:      results,
		MetadataPath: metadataPath,
		WavsPath:     dstWavs,
	}

	r.report(summary, srcWavs, dstWavs, dst)
	r.record(ctx, summary, req, src, dst, startedAt)

	if req.Strict && summary.Failures() > 0 {
		return summary, wrap(ErrPartial, "",
			fmt.Sprintf("%d of %d selected items failed", summary.Failures(), summary.Effective), nil)
	}
	return summary, nil
}

// report prints the human-readable console contract: one line per
// record-level failure, then the final summary with both output paths.
func (r *Runner) report(summary *Summary, srcWavs, dstWavs, dst string) {
	for _, result := range summary.Results {
		switch result.Outcome {
		case materialize.OutcomeMissing:
			fmt.Fprintf(r.console, "[WARN] Missing wav: %s\n", result.SourcePath(srcWavs))
		case materialize.OutcomeFailed:
			fmt.Fprintf(r.console, "[ERROR] Could not copy/link %s -> %s: %v\n",
				result.SourcePath(srcWavs), metadata.AssetPath(dstWavs, result.Record.ID), result.Err)
		}
	}
	fmt.Fprintf(r.console, "Done. Wrote %d items to: %s\n", summary.Written(), dst)
	fmt.Fprintln(r.console, "New files:")
	fmt.Fprintf(r.console, " - %s\n", summary.MetadataPath)
	fmt.Fprintf(r.console, " - %s\n", summary.WavsPath)
}

// record writes the run to the ledger. Best-effort: a ledger problem is a
// warning, never a run failure.
func (r *Runner) record(ctx context.Context, summary *Summary, req Request, src, dst string, startedAt time.Time) {
	if r.store == nil {
		return
	}
	run := ledger.Run{
		ID:          summary.RunID,
		StartedAt:   startedAt,
		FinishedAt:  time.Now().UTC(),
		Source:      src,
		Destination: dst,
		Seed:        req.Seed,
		Requested:   req.Count,
		Total:       summary.Total,
		Selected:    summary.Effective,
		Linked:      summary.Tally.Linked,
		Copied:      summary.Tally.Copied,
		Skipped:     summary.Tally.Skipped,
		Missing:     summary.Tally.Missing,
		Failed:      summary.Tally.Failed,
		CopyOnly:    req.CopyOnly,
		Strict:      req.Strict,
	}
	var failures []ledger.Failure
	for _, result := range summary.Results {
		switch result.Outcome {
		case materialize.OutcomeMissing:
			failures = append(failures, ledger.Failure{
				RunID:    summary.RunID,
				RecordID: result.Record.ID,
				Kind:     string(result.Outcome),
				Detail:   "source wav absent",
			})
		case materialize.OutcomeFailed:
			failures = append(failures, ledger.Failure{
				RunID:    summary.RunID,
				RecordID: result.Record.ID,
				Kind:     string(result.Outcome),
				Detail:   result.Err.Error(),
			})
		}
	}
	if err := r.store.RecordRun(ctx, run, failures); err != nil {
		r.logger.Warn("ledger write failed", logging.Error(err))
	}
}

func assetBytes(wavsDir string, records []metadata.Record) uint64 {
	var total uint64
	for _, rec := range records {
		info, err := os.Stat(metadata.AssetPath(wavsDir, rec.ID))
		if err != nil {
			continue
		}
		total += uint64(info.Size())
	}
	return total
}
