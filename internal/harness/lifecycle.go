package harness

import (
	"fmt"
	"sync"
)

// Phase names one of the four lifecycle entry points a test subject
// exposes to the external runner.
type Phase int

const (
	// PhaseCreate sets the subject up and runs its assertions.
	PhaseCreate Phase = iota

	// PhaseDestroy tears down and reports completion. Terminal for the
	// normal track.
	PhaseDestroy

	// PhaseHardCreate runs the stress variant of create on the
	// independent hard track.
	PhaseHardCreate

	// PhaseHardDestroy is the hard track's terminal phase.
	PhaseHardDestroy
)

// String returns the phase suffix used in entry-point names
// (<subject>_create and so on).
func (p Phase) String() string {
	switch p {
	case PhaseCreate:
		return "create"
	case PhaseDestroy:
		return "destroy"
	case PhaseHardCreate:
		return "hard_create"
	case PhaseHardDestroy:
		return "hard_destroy"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// TrackState is the position of a subject on one lifecycle track.
// Tracks only move forward: NotStarted -> Created -> Destroyed, no
// skips, and Destroyed is terminal for the run.
type TrackState int

const (
	StateNotStarted TrackState = iota
	StateCreated
	StateDestroyed
)

// String returns a readable state name.
func (s TrackState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateCreated:
		return "created"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Hooks are the four phase entry points of one subject. Each takes no
// arguments and returns nothing; phases communicate only through side
// effects on the subject's report. A nil hook is a no-op for that
// phase (the state machine still advances).
type Hooks struct {
	Create      func()
	Destroy     func()
	HardCreate  func()
	HardDestroy func()
}

// PhaseError reports a phase invoked out of lifecycle order or on an
// unknown subject.
type PhaseError struct {
	Subject string
	Phase   Phase
	State   TrackState
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("subject %q: phase %s not allowed in state %s",
		e.Subject, e.Phase, e.State)
}

// subject tracks one registered subject: its hooks plus the two
// independent lifecycle tracks.
type subject struct {
	hooks Hooks
	norm  TrackState
	hard  TrackState
}

// Suite is the registry of test subjects. The external runner invokes
// phases through it; the Suite guarantees each phase runs at most once
// per subject and in order. It does not schedule anything itself.
type Suite struct {
	mu       sync.Mutex
	subjects map[string]*subject
	order    []string
}

// NewSuite creates an empty registry.
func NewSuite() *Suite {
	return &Suite{subjects: make(map[string]*subject)}
}

// Register adds a subject with its phase hooks. Registering the same
// subject twice is an error.
func (s *Suite) Register(name string, hooks Hooks) error {
	if name == "" {
		return fmt.Errorf("subject name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subjects[name]; exists {
		return fmt.Errorf("subject %q already registered", name)
	}
	s.subjects[name] = &subject{hooks: hooks}
	s.order = append(s.order, name)
	return nil
}

// Subjects returns the registered subject names in registration order.
func (s *Suite) Subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// States returns the subject's position on the normal and hard tracks.
func (s *Suite) States(name string) (norm, hard TrackState, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, exists := s.subjects[name]
	if !exists {
		return 0, 0, false
	}
	return sub.norm, sub.hard, true
}

// Invoke runs one phase of one subject. The relevant track must be in
// the state the phase transitions out of; otherwise a *PhaseError is
// returned and neither the state nor the subject changes. The hook
// runs outside the suite lock so hooks may query the suite.
func (s *Suite) Invoke(name string, phase Phase) error {
	s.mu.Lock()
	sub, exists := s.subjects[name]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("unknown subject %q", name)
	}

	var hook func()
	switch phase {
	case PhaseCreate:
		if sub.norm != StateNotStarted {
			err := &PhaseError{Subject: name, Phase: phase, State: sub.norm}
			s.mu.Unlock()
			return err
		}
		sub.norm = StateCreated
		hook = sub.hooks.Create
	case PhaseDestroy:
		if sub.norm != StateCreated {
			err := &PhaseError{Subject: name, Phase: phase, State: sub.norm}
			s.mu.Unlock()
			return err
		}
		sub.norm = StateDestroyed
		hook = sub.hooks.Destroy
	case PhaseHardCreate:
		if sub.hard != StateNotStarted {
			err := &PhaseError{Subject: name, Phase: phase, State: sub.hard}
			s.mu.Unlock()
			return err
		}
		sub.hard = StateCreated
		hook = sub.hooks.HardCreate
	case PhaseHardDestroy:
		if sub.hard != StateCreated {
			err := &PhaseError{Subject: name, Phase: phase, State: sub.hard}
			s.mu.Unlock()
			return err
		}
		sub.hard = StateDestroyed
		hook = sub.hooks.HardDestroy
	default:
		s.mu.Unlock()
		return fmt.Errorf("unknown phase %d", int(phase))
	}
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}
