package harness

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordinaryegi/svcheck/internal/svc"
	"github.com/ordinaryegi/svcheck/internal/testutil"
)

func lifecycleScenario() *Scenario {
	return &Scenario{
		Subject:  "service",
		Service:  "snmp",
		RunToken: "test-run-0001",
		Steps: []Step{
			{Action: ActionStart, Tag: "+service#1", FailMessage: "Could not start service"},
			{Action: ActionStatusGet, Attribute: "pid", Mode: ModeCapture, Tag: "+service#2", FailMessage: "Could not read service pid"},
			{Action: ActionStop, Tag: "+service#3", FailMessage: "Could not stop service"},
		},
	}
}

func TestRun_SuccessPath(t *testing.T) {
	mgr := svc.NewLocalManager(snmpProfile())

	report, err := Run(context.Background(), lifecycleScenario(), mgr)
	require.NoError(t, err)

	assert.Equal(t, "service", report.Subject)
	assert.Equal(t, "snmp", report.Service)
	assert.Equal(t, "test-run-0001", report.RunToken)
	assert.True(t, report.Passed())

	// Three checks plus the destroy-phase completion entry, in order.
	require.Len(t, report.Results, 4)
	for i, res := range report.Results {
		assert.Equal(t, int64(i+1), res.Seq)
	}
	assert.Equal(t, KindCheck, report.Results[0].Kind)
	assert.Equal(t, KindLifecycle, report.Results[3].Kind)
	assert.Equal(t, "service_destroy", report.Results[3].Tag)
	assert.Equal(t, "destroy completed", report.Results[3].Message)

	assert.False(t, mgr.Running("snmp"))
}

func TestRun_FailureIsDataAndRunContinues(t *testing.T) {
	mgr := svc.NewLocalManager(snmpProfile())
	scenario := &Scenario{
		Subject:  "service",
		Service:  "snmp",
		RunToken: "test-run-0002",
		Steps: []Step{
			{Action: ActionConfigSet, Property: "sftp_log_level", Value: "LOUD", Tag: "+service#1", FailMessage: "Could not set log level"},
			{Action: ActionStart, Tag: "+service#2", FailMessage: "Could not start service"},
		},
	}

	report, err := Run(context.Background(), scenario, mgr)
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.False(t, report.Results[0].Passed)
	// The recorded failure message is the scenario's literal text.
	assert.Equal(t, "Could not set log level", report.Results[0].Message)

	// The failing step did not stop the next one.
	assert.True(t, report.Results[1].Passed)
	passed, failed := report.Counts()
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, failed)
}

func TestRun_SnapshotRestoredSilently(t *testing.T) {
	mgr := svc.NewLocalManager(snmpProfile())
	scenario := &Scenario{
		Subject:  "service",
		Service:  "snmp",
		RunToken: "test-run-0003",
		Snapshot: []string{"enable"},
		Steps: []Step{
			{Action: ActionConfigSet, Property: "enable", Value: "yes", Tag: "+service#1", FailMessage: "Could not enable service"},
		},
	}

	report, err := Run(context.Background(), scenario, mgr)
	require.NoError(t, err)

	// A successful restore produces no result, only the check and the
	// destroy entry appear.
	require.Len(t, report.Results, 2)
	assert.Equal(t, KindCheck, report.Results[0].Kind)
	assert.Equal(t, KindLifecycle, report.Results[1].Kind)

	got, getErr := mgr.GetProperty(context.Background(), "snmp", "enable")
	require.NoError(t, getErr)
	assert.Equal(t, "no", got)
}

func TestRun_SnapshotSkipDiagnostic(t *testing.T) {
	mgr := svc.NewLocalManager(snmpProfile())
	scenario := &Scenario{
		Subject:  "service",
		Service:  "snmp",
		RunToken: "test-run-0004",
		Snapshot: []string{"no_such_property"},
		Steps: []Step{
			{Action: ActionStart, Tag: "+service#1", FailMessage: "Could not start service"},
		},
	}

	report, err := Run(context.Background(), scenario, mgr)
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	diag := report.Results[1]
	assert.Equal(t, KindRestore, diag.Kind)
	assert.Equal(t, "service:restore:no_such_property", diag.Tag)
	assert.False(t, diag.Passed)
	assert.Contains(t, diag.Message, "restore skipped:")
}

func TestRun_HardTrack(t *testing.T) {
	mgr := svc.NewLocalManager(snmpProfile())
	scenario := lifecycleScenario()
	scenario.Hard = []Step{
		{Action: ActionStart, Tag: "+service#hard1", FailMessage: "Could not start service under stress"},
		{Action: ActionStop, Tag: "+service#hard2", FailMessage: "Could not stop service under stress"},
	}

	report, err := Run(context.Background(), scenario, mgr)
	require.NoError(t, err)
	assert.True(t, report.Passed())

	// Normal track: 3 checks + destroy. Hard track: 2 checks +
	// hard_destroy. Sequence numbers stay strictly increasing across
	// both tracks.
	require.Len(t, report.Results, 7)
	for i, res := range report.Results {
		assert.Equal(t, int64(i+1), res.Seq)
	}
	assert.Equal(t, "+service#hard1", report.Results[4].Tag)
	assert.Equal(t, "service_hard_destroy", report.Results[6].Tag)
	assert.Equal(t, "hard_destroy completed", report.Results[6].Message)
}

func TestRun_NoHardStepsSkipsHardPhases(t *testing.T) {
	mgr := svc.NewLocalManager(snmpProfile())

	report, err := Run(context.Background(), lifecycleScenario(), mgr)
	require.NoError(t, err)

	for _, res := range report.Results {
		assert.NotContains(t, res.Tag, "hard")
	}
}

func TestRun_TokenGeneratorUsedWhenUnpinned(t *testing.T) {
	mgr := svc.NewLocalManager(snmpProfile())
	scenario := lifecycleScenario()
	scenario.RunToken = ""

	report, err := RunWithOptions(context.Background(), scenario, mgr, RunOptions{
		Tokens: testutil.NewFixedTokenGenerator("pinned-by-generator"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pinned-by-generator", report.RunToken)
}

func TestRun_DefaultTokenIsUUIDv7(t *testing.T) {
	mgr := svc.NewLocalManager(snmpProfile())
	scenario := lifecycleScenario()
	scenario.RunToken = ""

	report, err := Run(context.Background(), scenario, mgr)
	require.NoError(t, err)

	id, parseErr := uuid.Parse(report.RunToken)
	require.NoError(t, parseErr)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestRun_NilScenario(t *testing.T) {
	_, err := Run(context.Background(), nil, svc.NewLocalManager())
	assert.Error(t, err)
}

func TestRun_NilManager(t *testing.T) {
	_, err := Run(context.Background(), lifecycleScenario(), nil)
	assert.Error(t, err)
}

func TestRun_UnknownServiceFailsEveryStep(t *testing.T) {
	mgr := svc.NewLocalManager() // no profiles registered
	scenario := lifecycleScenario()

	report, err := Run(context.Background(), scenario, mgr)
	require.NoError(t, err)

	assert.False(t, report.Passed())
	_, failed := report.Counts()
	assert.Equal(t, 3, failed)
}
