package ledger

import (
	"context"
	"fmt"
	"time"
)

// Run is one recorded invocation of the sampling pipeline.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Source      string
	Destination string
	Seed        int64
	Requested   int
	Total       int
	Selected    int
	Linked      int
	Copied      int
	Skipped     int
	Missing     int
	Failed      int
	CopyOnly    bool
	Strict      bool
}

// Written reports how many selected records ended up with an asset present at
// the destination.
func (r Run) Written() int {
	return r.Selected - r.Missing - r.Failed
}

// Failure is one record-level failure within a run.
type Failure struct {
	RunID    string
	RecordID string
	Kind     string
	Detail   string
}

// RecordRun inserts a completed run and its failures in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, failures []Failure) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO runs (
                id, started_at, finished_at, source, destination, seed,
                requested, total, selected, linked, copied, skipped,
                missing, failed, copy_only, strict
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.FinishedAt.UTC().Format(time.RFC3339Nano),
			run.Source,
			run.Destination,
			run.Seed,
			run.Requested,
			run.Total,
			run.Selected,
			run.Linked,
			run.Copied,
			run.Skipped,
			run.Missing,
			run.Failed,
			boolToInt(run.CopyOnly),
			boolToInt(run.Strict),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, failure := range failures {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO run_failures (run_id, record_id, kind, detail) VALUES (?, ?, ?, ?)",
				run.ID, failure.RecordID, failure.Kind, failure.Detail,
			)
			if err != nil {
				return fmt.Errorf("insert failure for %s: %w", failure.RecordID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
}

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns
// everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, started_at, finished_at, source, destination, seed,
            requested, total, selected, linked, copied, skipped,
            missing, failed, copy_only, strict
        FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                  Run
			started, finished    string
			copyOnly, strictFlag int
		)
		err := rows.Scan(
			&run.ID, &started, &finished, &run.Source, &run.Destination, &run.Seed,
			&run.Requested, &run.Total, &run.Selected, &run.Linked, &run.Copied,
			&run.Skipped, &run.Missing, &run.Failed, &copyOnly, &strictFlag,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		run.CopyOnly = copyOnly != 0
		run.Strict = strictFlag != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Failures returns the record-level failures recorded for a run.
func (s *Store) Failures(ctx context.Context, runID string) ([]Failure, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, record_id, kind, detail FROM run_failures WHERE run_id = ? ORDER BY record_id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var failure Failure
		if err := rows.Scan(&failure.RunID, &failure.RecordID, &failure.Kind, &failure.Detail); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		failures = append(failures, failure)
	}
	return failures, rows.Err()
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
