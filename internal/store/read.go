package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
)

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const runColumns = `id, seq, source, fingerprint, recursive, passed, diagnostic_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r                 Run
		recursive, passed int
	)
	if err := row.Scan(&r.ID, &r.Seq, &r.Source, &r.Fingerprint, &recursive, &passed, &r.DiagnosticCount); err != nil {
		return Run{}, err
	}
	r.Recursive = recursive != 0
	r.Passed = passed != 0
	return r, nil
}

func getRun(ctx context.Context, q queryer, id string) (Run, error) {
	return scanRun(q.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
}

// GetRun returns the run with the given id. The bool is false if no such
// run exists.
func (s *Store) GetRun(ctx context.Context, id string) (Run, bool, error) {
	r, err := getRun(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("get run: %w", err)
	}
	return r, true, nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns every
// run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestByFingerprint returns the newest run of an IR with the given
// fingerprint.
func (s *Store) LatestByFingerprint(ctx context.Context, fingerprint string) (Run, bool, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE fingerprint = ?
		ORDER BY seq DESC
		LIMIT 1
	`, fingerprint))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("latest by fingerprint: %w", err)
	}
	return r, true, nil
}

// RunDiagnostics returns the diagnostics of a run in emission order. It
// returns an empty slice, not nil, for a clean run.
func (s *Store) RunDiagnostics(ctx context.Context, runID string) ([]diag.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT severity, code, location, message, notes
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []diag.Diagnostic{}
	for rows.Next() {
		var severity, loc, notes string
		var d diag.Diagnostic
		if err := rows.Scan(&severity, &d.Code, &loc, &d.Message, &notes); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		if d.Severity, err = diag.ParseSeverity(severity); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		d.Loc = ir.ParseLocation(loc)
		if d.Notes, err = unmarshalNotes(notes); err != nil {
			return nil, err
		}
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return diags, nil
}
