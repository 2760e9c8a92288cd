package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/ddverify/internal/dd"
)

// ErrReadOnly is returned when writing to a store opened with OpenReadOnly.
var ErrReadOnly = errors.New("store is read-only")

// RunRecord is one row of verification history.
type RunRecord struct {
	Seq     int64
	RunID   string
	DD      string
	Report  dd.Report
	Elapsed time.Duration
}

// RecordRun appends a run to the history.
// Uses ON CONFLICT(run_id) DO NOTHING for idempotency - recording the same
// run twice is silently ignored. Returns the assigned seq, or 0 if ignored.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) (int64, error) {
	if s.readOnly {
		return 0, fmt.Errorf("record run: %w", ErrReadOnly)
	}

	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ddverify_runs
		(run_id, dd, holds, lhs_pairs, violating_pairs, error_rate, fingerprint, elapsed_ns, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		rec.RunID,
		rec.DD,
		rec.Report.Holds,
		rec.Report.LhsPairs,
		rec.Report.ViolatingPairs,
		rec.Report.ErrorRate,
		rec.Report.Fingerprint(),
		rec.Elapsed.Nanoseconds(),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	if n == 0 {
		return 0, nil
	}
	return res.LastInsertId()
}

// ListRuns returns recorded runs ordered by seq. limit <= 0 returns all;
// otherwise the most recent limit runs are returned, still in seq order.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT seq, run_id, dd, elapsed_ns, report FROM (
			SELECT * FROM ddverify_runs ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			rec        RunRecord
			elapsedNS  int64
			reportJSON string
		)
		if err := rows.Scan(&rec.Seq, &rec.RunID, &rec.DD, &elapsedNS, &reportJSON); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
			return nil, fmt.Errorf("list runs: decode report %s: %w", rec.RunID, err)
		}
		rec.Elapsed = time.Duration(elapsedNS)
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}
