package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordinaryegi/svcheck/internal/harness"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "svcheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleReport(token string) *harness.Report {
	report := harness.NewReport("service", "snmp", token)
	report.Add(harness.TestResult{Tag: "+service#1", Passed: true, Kind: harness.KindCheck, Seq: 1})
	report.Add(harness.TestResult{
		Tag:     "+service#2",
		Passed:  false,
		Message: "Could not set service property",
		Kind:    harness.KindCheck,
		Seq:     2,
	})
	report.Add(harness.TestResult{
		Tag:     "service_destroy",
		Passed:  true,
		Message: "destroy completed",
		Kind:    harness.KindLifecycle,
		Seq:     3,
	})
	return report
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcheck.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestWriteAndReadRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	original := sampleReport("test-run-0001")
	require.NoError(t, st.WriteReport(ctx, original))

	got, err := st.ReadRun(ctx, "test-run-0001")
	require.NoError(t, err)

	assert.Equal(t, original.Subject, got.Subject)
	assert.Equal(t, original.Service, got.Service)
	assert.Equal(t, original.RunToken, got.RunToken)
	require.Len(t, got.Results, 3)
	assert.Equal(t, original.Results, got.Results)
}

func TestWriteReport_Idempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	report := sampleReport("test-run-0001")
	require.NoError(t, st.WriteReport(ctx, report))
	require.NoError(t, st.WriteReport(ctx, report))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got, err := st.ReadRun(ctx, "test-run-0001")
	require.NoError(t, err)
	assert.Len(t, got.Results, 3)
}

func TestWriteReport_Validation(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	assert.Error(t, st.WriteReport(ctx, nil))
	assert.Error(t, st.WriteReport(ctx, harness.NewReport("service", "snmp", "")))
}

func TestListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteReport(ctx, sampleReport("test-run-0001")))
	require.NoError(t, st.WriteReport(ctx, sampleReport("test-run-0002")))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest token first.
	assert.Equal(t, "test-run-0002", runs[0].Token)
	assert.Equal(t, "test-run-0001", runs[1].Token)
	assert.Equal(t, 2, runs[0].Passed)
	assert.Equal(t, 1, runs[0].Failed)
	assert.NotEmpty(t, runs[0].CreatedAt)
}

func TestReadRun_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.ReadRun(context.Background(), "no-such-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestQuery(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.WriteReport(ctx, sampleReport("test-run-0001")))

	rows, err := st.Query(ctx, "SELECT COUNT(*) FROM results WHERE passed = 0")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var count int
	require.NoError(t, rows.Scan(&count))
	assert.Equal(t, 1, count)
}
