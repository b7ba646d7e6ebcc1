package svc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedManager returns canned results per operation and records the
// calls it received.
type scriptedManager struct {
	startErr  error
	stopErr   error
	getValue  string
	getErr    error
	setErr    error
	statValue string
	statErr   error
	calls     []string
}

func (m *scriptedManager) Start(_ context.Context, service string) error {
	m.calls = append(m.calls, "start "+service)
	return m.startErr
}

func (m *scriptedManager) Stop(_ context.Context, service string) error {
	m.calls = append(m.calls, "stop "+service)
	return m.stopErr
}

func (m *scriptedManager) GetProperty(_ context.Context, service, name string) (string, error) {
	m.calls = append(m.calls, "get "+service+"."+name)
	return m.getValue, m.getErr
}

func (m *scriptedManager) SetProperty(_ context.Context, service, name, value string) error {
	m.calls = append(m.calls, "set "+service+"."+name+"="+value)
	return m.setErr
}

func (m *scriptedManager) Status(_ context.Context, service, attribute string) (string, error) {
	m.calls = append(m.calls, "status "+service+"."+attribute)
	return m.statValue, m.statErr
}

func TestExecutorDo_Success(t *testing.T) {
	mgr := &scriptedManager{}
	exec := NewExecutor(mgr, nil)

	out := exec.Do(context.Background(), "snmp", Start())

	assert.True(t, out.OK)
	assert.Empty(t, out.Value)
	assert.Empty(t, out.ErrorDetail)
	assert.Equal(t, []string{"start snmp"}, mgr.calls)
}

func TestExecutorDo_DiscardsValue(t *testing.T) {
	mgr := &scriptedManager{getValue: "INFO"}
	exec := NewExecutor(mgr, nil)

	out := exec.Do(context.Background(), "snmp", ConfigGet("sftp_log_level"))

	assert.True(t, out.OK)
	assert.Empty(t, out.Value, "fire-and-wait must discard the returned value")
}

func TestExecutorCapture_KeepsValue(t *testing.T) {
	mgr := &scriptedManager{getValue: "INFO"}
	exec := NewExecutor(mgr, nil)

	out := exec.Capture(context.Background(), "snmp", ConfigGet("sftp_log_level"))

	assert.True(t, out.OK)
	assert.Equal(t, "INFO", out.Value)
}

func TestExecutorCapture_StatusValue(t *testing.T) {
	mgr := &scriptedManager{statValue: "1001"}
	exec := NewExecutor(mgr, nil)

	out := exec.Capture(context.Background(), "snmp", StatusGet("pid"))

	assert.True(t, out.OK)
	assert.Equal(t, "1001", out.Value)
}

func TestExecutor_FailureIsData(t *testing.T) {
	mgr := &scriptedManager{setErr: NewInvalidValueError("snmp", `property "enable" requires yes/no or true/false, got "maybe"`)}
	exec := NewExecutor(mgr, nil)

	out := exec.Do(context.Background(), "snmp", ConfigSet("enable", "maybe"))

	require.False(t, out.OK)
	assert.Contains(t, out.ErrorDetail, "INVALID_VALUE")
	assert.Contains(t, out.ErrorDetail, "enable")
}

func TestExecutor_EmptyServiceName(t *testing.T) {
	mgr := &scriptedManager{}
	exec := NewExecutor(mgr, nil)

	out := exec.Do(context.Background(), "", Start())

	require.False(t, out.OK)
	assert.Contains(t, out.ErrorDetail, "service name is required")
	assert.Empty(t, mgr.calls, "malformed calls must not reach the management layer")
}

func TestExecutor_MalformedAction(t *testing.T) {
	mgr := &scriptedManager{}
	exec := NewExecutor(mgr, nil)

	out := exec.Do(context.Background(), "snmp", ConfigGet(""))

	require.False(t, out.OK)
	assert.Contains(t, out.ErrorDetail, "property name")
	assert.Empty(t, mgr.calls)
}

func TestExecutor_CancelledContext(t *testing.T) {
	mgr := &scriptedManager{}
	exec := NewExecutor(mgr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := exec.Do(ctx, "snmp", Start())

	require.False(t, out.OK)
	assert.Contains(t, out.ErrorDetail, "TIMEOUT")
	assert.Empty(t, mgr.calls)
}

func TestManagerErrorHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("snmp")))
	assert.False(t, IsNotFound(NewTimeoutError("snmp", context.Canceled)))
	assert.True(t, IsTimeout(NewTimeoutError("snmp", context.Canceled)))
	assert.True(t, IsInvalidValue(NewInvalidValueError("snmp", "bad value")))
	assert.False(t, IsInvalidValue(nil))
}
