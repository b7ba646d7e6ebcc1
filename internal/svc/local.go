package svc

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ordinaryegi/svcheck/internal/profile"
)

// localState tracks one service inside the LocalManager.
type localState struct {
	prof    profile.Service
	props   map[string]string
	running bool
	pid     int64
}

// LocalManager is an in-memory Manager seeded from compiled service
// profiles. The CLI runner and the tests use it as the management
// layer; it enforces the same contracts a real layer would: unknown
// services are NOT_FOUND, schema-violating property writes are
// INVALID_VALUE, and pid exists only while a service runs.
//
// Safe for concurrent use; all state is guarded by one mutex.
type LocalManager struct {
	mu       sync.Mutex
	services map[string]*localState
	nextPID  int64
}

// NewLocalManager creates a manager hosting one service per profile.
// All services start stopped with their properties at profile defaults.
func NewLocalManager(profiles ...profile.Service) *LocalManager {
	m := &LocalManager{
		services: make(map[string]*localState, len(profiles)),
		nextPID:  1000,
	}
	for _, p := range profiles {
		m.services[p.Name] = &localState{
			prof:  p,
			props: p.Defaults(),
		}
	}
	return m
}

// lookup returns the state for a service or a NOT_FOUND error.
// Caller must hold m.mu.
func (m *LocalManager) lookup(service string) (*localState, error) {
	st, ok := m.services[service]
	if !ok {
		return nil, NewNotFoundError(service)
	}
	return st, nil
}

// Start implements Manager. Starting a running service is a no-op.
func (m *LocalManager) Start(ctx context.Context, service string) error {
	if err := ctx.Err(); err != nil {
		return NewTimeoutError(service, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.lookup(service)
	if err != nil {
		return err
	}
	if st.running {
		return nil
	}
	m.nextPID++
	st.running = true
	st.pid = m.nextPID
	return nil
}

// Stop implements Manager. Stopping a stopped service is a no-op.
func (m *LocalManager) Stop(ctx context.Context, service string) error {
	if err := ctx.Err(); err != nil {
		return NewTimeoutError(service, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.lookup(service)
	if err != nil {
		return err
	}
	st.running = false
	st.pid = 0
	return nil
}

// GetProperty implements Manager.
func (m *LocalManager) GetProperty(ctx context.Context, service, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewTimeoutError(service, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.lookup(service)
	if err != nil {
		return "", err
	}
	value, ok := st.props[name]
	if !ok {
		return "", NewUnsupportedError(service, fmt.Sprintf("unknown property %q", name))
	}
	return value, nil
}

// SetProperty implements Manager. The write is validated against the
// service's profile before anything changes.
func (m *LocalManager) SetProperty(ctx context.Context, service, name, value string) error {
	if err := ctx.Err(); err != nil {
		return NewTimeoutError(service, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.lookup(service)
	if err != nil {
		return err
	}
	prop, ok := st.prof.Property(name)
	if !ok {
		return NewUnsupportedError(service, fmt.Sprintf("unknown property %q", name))
	}
	if err := prop.ValidateValue(value); err != nil {
		return NewInvalidValueError(service, err.Error())
	}
	st.props[name] = value
	return nil
}

// Status implements Manager. Supported attributes:
//
//	pid   - the process id; fails while the service is stopped
//	state - "running" or "stopped"
func (m *LocalManager) Status(ctx context.Context, service, attribute string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewTimeoutError(service, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.lookup(service)
	if err != nil {
		return "", err
	}
	switch attribute {
	case "pid":
		if !st.running {
			return "", NewUnsupportedError(service, "pid is unavailable while the service is stopped")
		}
		return strconv.FormatInt(st.pid, 10), nil
	case "state":
		if st.running {
			return "running", nil
		}
		return "stopped", nil
	default:
		return "", NewUnsupportedError(service, fmt.Sprintf("unknown status attribute %q", attribute))
	}
}

// Running reports whether the service is currently running. Test hook;
// not part of the Manager interface.
func (m *LocalManager) Running(service string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.services[service]
	return ok && st.running
}
