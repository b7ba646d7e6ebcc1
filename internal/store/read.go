package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ordinaryegi/svcheck/internal/harness"
)

// ErrRunNotFound is returned when a run token has no stored run.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the run listing.
type RunSummary struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	Service   string `json:"service"`
	Passed    int    `json:"passed"`
	Failed    int    `json:"failed"`
	CreatedAt string `json:"created_at"`
}

// ListRuns returns all stored runs, newest token first. UUIDv7 tokens
// are time-ordered, so token order is chronological.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, subject, service, passed, failed, created_at
		FROM runs
		ORDER BY token DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.Token, &r.Subject, &r.Service, &r.Passed, &r.Failed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadRun reconstructs a stored run as a harness.Report, results in
// their original sequence order.
func (s *Store) ReadRun(ctx context.Context, token string) (*harness.Report, error) {
	var subject, service string
	err := s.db.QueryRowContext(ctx, `
		SELECT subject, service FROM runs WHERE token = ?
	`, token).Scan(&subject, &service)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %q: %w", token, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %q: %w", token, err)
	}

	report := harness.NewReport(subject, service, token)

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, tag, kind, passed, message
		FROM results
		WHERE run_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read run %q: results: %w", token, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res  harness.TestResult
			kind string
		)
		if err := rows.Scan(&res.Seq, &res.Tag, &kind, &res.Passed, &res.Message); err != nil {
			return nil, fmt.Errorf("read run %q: scan result: %w", token, err)
		}
		res.Kind = harness.ResultKind(kind)
		report.Add(res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read run %q: %w", token, err)
	}
	return report, nil
}
