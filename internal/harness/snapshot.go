package harness

import (
	"context"
	"fmt"

	"github.com/ordinaryegi/svcheck/internal/svc"
)

// Snapshot captures one service property so it can be written back
// after the phase mutated it. The restore is best-effort, not
// transactional: it is attempted even when every assertion in between
// failed, and its own failure becomes a diagnostic result rather than
// an abort.
type Snapshot struct {
	service  string
	property string
	value    string
	captured bool
	detail   string
}

// TakeSnapshot reads the property's current value in capture mode.
// A failed read yields a snapshot that will skip its restore; the
// failure detail is kept for the diagnostic.
func TakeSnapshot(ctx context.Context, exec *svc.Executor, service, property string) *Snapshot {
	s := &Snapshot{service: service, property: property}
	out := exec.Capture(ctx, service, svc.ConfigGet(property))
	if !out.OK {
		s.detail = out.ErrorDetail
		return s
	}
	s.captured = true
	s.value = out.Value
	return s
}

// Captured reports whether the initial read succeeded.
func (s *Snapshot) Captured() bool {
	return s.captured
}

// Value returns the captured property value. Meaningless when
// Captured is false.
func (s *Snapshot) Value() string {
	return s.value
}

// Property returns the logical property name the snapshot covers.
func (s *Snapshot) Property() string {
	return s.property
}

// Restore writes the captured value back. The bool reports whether a
// write was attempted at all: when the initial read failed the restore
// is skipped and the returned outcome explains why.
func (s *Snapshot) Restore(ctx context.Context, exec *svc.Executor) (svc.Outcome, bool) {
	if !s.captured {
		return svc.Failure(fmt.Sprintf("initial read of %q failed: %s", s.property, s.detail)), false
	}
	return exec.Do(ctx, s.service, svc.ConfigSet(s.property, s.value)), true
}
