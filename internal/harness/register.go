package harness

import (
	"sync"

	"github.com/ordinaryegi/svcheck/internal/svc"
)

// OutcomeRegister is the single-slot "last outcome" state for one test
// subject. Each executor call overwrites the slot; the next assertion
// reads it. No history is kept: only the immediately preceding outcome
// is addressable, matching the read-immediately-after-write usage of
// the fixtures.
//
// The register starts unset. An assertion against the unset register is
// a sentinel failure, distinguishable from a genuine command failure.
//
// Each runner owns its own register, so subjects running concurrently
// never share one. The internal mutex only protects callers that drive
// a single subject from more than one goroutine.
type OutcomeRegister struct {
	mu   sync.Mutex
	set  bool
	last svc.Outcome
}

// NewOutcomeRegister creates an unset register.
func NewOutcomeRegister() *OutcomeRegister {
	return &OutcomeRegister{}
}

// Record stores the outcome of the command that just executed,
// replacing whatever was there.
func (r *OutcomeRegister) Record(o svc.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = true
	r.last = o
}

// Last returns the most recent outcome. The second return is false
// while the register is still at its unset sentinel.
func (r *OutcomeRegister) Last() (svc.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.set
}

// Reset returns the register to the unset sentinel. Called between
// lifecycle phases so a stale outcome from a previous phase can never
// satisfy a later assertion.
func (r *OutcomeRegister) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = false
	r.last = svc.Outcome{}
}
