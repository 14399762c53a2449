package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/irverify/internal/diag"
)

// Run is one recorded verification.
type Run struct {
	ID              string
	Seq             int64
	Source          string
	Fingerprint     string
	Recursive       bool
	Passed          bool
	DiagnosticCount int
}

// RecordRun stores run and its diagnostics in one transaction. An empty
// run.ID is filled from the store's generator; Seq and DiagnosticCount are
// always assigned by the store.
//
// Recording an id that already exists is a no-op and returns the stored
// run unchanged.
func (s *Store) RecordRun(ctx context.Context, run Run, diags []diag.Diagnostic) (Run, error) {
	if run.ID == "" {
		run.ID = s.ids.NewID()
	}
	run.DiagnosticCount = len(diags)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, fingerprint, recursive, passed, diagnostic_count)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Source,
		run.Fingerprint,
		boolToInt(run.Recursive),
		boolToInt(run.Passed),
		run.DiagnosticCount,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	if inserted == 0 {
		existing, err := getRun(ctx, tx, run.ID)
		if err != nil {
			return Run{}, fmt.Errorf("record run: %w", err)
		}
		return existing, nil
	}

	for i, d := range diags {
		if err := insertDiagnostic(ctx, tx, run.ID, i, d); err != nil {
			return Run{}, fmt.Errorf("record run: %w", err)
		}
	}

	if err := tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("record run: read seq: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}

func insertDiagnostic(ctx context.Context, tx *sql.Tx, runID string, ordinal int, d diag.Diagnostic) error {
	notes, err := marshalNotes(d.Notes)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO diagnostics
		(run_id, ordinal, severity, code, location, message, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		runID,
		ordinal,
		d.Severity.String(),
		d.Code,
		formatLoc(d.Loc),
		d.Message,
		notes,
	)
	if err != nil {
		return fmt.Errorf("insert diagnostic %d: %w", ordinal, err)
	}
	return nil
}
