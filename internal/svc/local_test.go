package svc

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordinaryegi/svcheck/internal/profile"
)

// snmpProfile is the fixture profile used across the LocalManager tests.
func snmpProfile() profile.Service {
	return profile.Service{
		Name: "snmp",
		Properties: []profile.Property{
			{Name: "enable", Type: "bool", Default: "no"},
			{
				Name:    "sftp_log_level",
				Type:    "string",
				Enum:    []string{"QUIET", "FATAL", "ERROR", "INFO", "DEBUG"},
				Default: "INFO",
			},
			{Name: "contact", Type: "string"},
		},
	}
}

func TestLocalManager_StartStop(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "snmp"))
	assert.True(t, mgr.Running("snmp"))

	pid, err := mgr.Status(ctx, "snmp", "pid")
	require.NoError(t, err)
	n, err := strconv.ParseInt(pid, 10, 64)
	require.NoError(t, err)
	assert.Greater(t, n, int64(1000))

	require.NoError(t, mgr.Stop(ctx, "snmp"))
	assert.False(t, mgr.Running("snmp"))

	_, err = mgr.Status(ctx, "snmp", "pid")
	require.Error(t, err, "pid must be unavailable while stopped")
}

func TestLocalManager_StartIsIdempotent(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "snmp"))
	pid1, err := mgr.Status(ctx, "snmp", "pid")
	require.NoError(t, err)

	require.NoError(t, mgr.Start(ctx, "snmp"))
	pid2, err := mgr.Status(ctx, "snmp", "pid")
	require.NoError(t, err)

	assert.Equal(t, pid1, pid2, "restarting a running service must not change its pid")
}

func TestLocalManager_StateAttribute(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	state, err := mgr.Status(ctx, "snmp", "state")
	require.NoError(t, err)
	assert.Equal(t, "stopped", state)

	require.NoError(t, mgr.Start(ctx, "snmp"))
	state, err = mgr.Status(ctx, "snmp", "state")
	require.NoError(t, err)
	assert.Equal(t, "running", state)
}

func TestLocalManager_PropertyDefaults(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	v, err := mgr.GetProperty(ctx, "snmp", "sftp_log_level")
	require.NoError(t, err)
	assert.Equal(t, "INFO", v)

	v, err = mgr.GetProperty(ctx, "snmp", "enable")
	require.NoError(t, err)
	assert.Equal(t, "no", v)
}

func TestLocalManager_SetProperty(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	require.NoError(t, mgr.SetProperty(ctx, "snmp", "sftp_log_level", "QUIET"))
	v, err := mgr.GetProperty(ctx, "snmp", "sftp_log_level")
	require.NoError(t, err)
	assert.Equal(t, "QUIET", v)
}

func TestLocalManager_SetProperty_EnumViolation(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	err := mgr.SetProperty(ctx, "snmp", "sftp_log_level", "LOUD")
	require.Error(t, err)
	assert.True(t, IsInvalidValue(err))

	// The stored value must be untouched by the rejected write.
	v, getErr := mgr.GetProperty(ctx, "snmp", "sftp_log_level")
	require.NoError(t, getErr)
	assert.Equal(t, "INFO", v)
}

func TestLocalManager_SetProperty_TypeViolation(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	err := mgr.SetProperty(ctx, "snmp", "enable", "maybe")
	require.Error(t, err)
	assert.True(t, IsInvalidValue(err))
}

func TestLocalManager_UnknownProperty(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	_, err := mgr.GetProperty(ctx, "snmp", "nonsense")
	require.Error(t, err)

	err = mgr.SetProperty(ctx, "snmp", "nonsense", "x")
	require.Error(t, err)
}

func TestLocalManager_UnknownService(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	ctx := context.Background()

	err := mgr.Start(ctx, "ntpd")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = mgr.GetProperty(ctx, "ntpd", "enable")
	assert.True(t, IsNotFound(err))
}

func TestLocalManager_UnknownAttribute(t *testing.T) {
	mgr := NewLocalManager(snmpProfile())
	_, err := mgr.Status(context.Background(), "snmp", "uptime")
	require.Error(t, err)
}
