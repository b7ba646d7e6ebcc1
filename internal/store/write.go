package store

import (
	"context"
	"fmt"

	"github.com/ordinaryegi/svcheck/internal/harness"
)

// WriteReport persists a run and its ordered results in one
// transaction. Writing the same run token twice is a silent no-op
// (ON CONFLICT DO NOTHING), so re-persisting a report is idempotent.
func (s *Store) WriteReport(ctx context.Context, report *harness.Report) error {
	if report == nil {
		return fmt.Errorf("write report: report is required")
	}
	if report.RunToken == "" {
		return fmt.Errorf("write report: run token is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write report: begin: %w", err)
	}
	defer tx.Rollback()

	passed, failed := report.Counts()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (token, subject, service, passed, failed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, report.RunToken, report.Subject, report.Service, passed, failed)
	if err != nil {
		return fmt.Errorf("write report: insert run: %w", err)
	}

	for _, res := range report.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO results (run_token, seq, tag, kind, passed, message)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, report.RunToken, res.Seq, res.Tag, string(res.Kind), res.Passed, res.Message)
		if err != nil {
			return fmt.Errorf("write report: insert result seq %d: %w", res.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write report: commit: %w", err)
	}
	return nil
}
