package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ordinaryegi/svcheck/internal/svc"
)

// RunWithGolden executes a scenario and compares its report snapshot
// against a golden file in testdata/golden/{scenario.Subject}.golden.
//
// The scenario must pin its run token (run_token in the YAML or via a
// fixed generator) or the snapshot can never match. To regenerate
// golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the run itself fails; a snapshot mismatch fails
// the test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario, mgr svc.Manager) error {
	t.Helper()

	report, err := Run(context.Background(), scenario, mgr)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Subject, report)
}

// AssertGolden compares an already-produced report against the golden
// file named after the subject.
func AssertGolden(t *testing.T, name string, report *Report) error {
	t.Helper()

	snapshot, err := report.Snapshot()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
	return nil
}
