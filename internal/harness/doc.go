// Package harness is the test-orchestration core for the service
// management surface.
//
// A run executes a scenario's steps strictly sequentially: each step
// invokes one administrative command through svc.Executor, records the
// resulting Outcome in the subject's OutcomeRegister, and immediately
// asserts it under a stable test-case tag. Assertions are
// observational: a failed check appends a failed TestResult and the
// run continues to the next step. Nothing in this package aborts a
// run; every failure degrades to a recorded result.
//
// The lifecycle of a test subject is four explicit phases invoked in a
// fixed order by an external runner: create (setup + assertions),
// destroy (completion reporting), and the independent stress track
// hard_create / hard_destroy. The Suite registry enforces the phase
// state machines.
//
// Properties mutated during a phase are captured beforehand and
// restored best-effort afterwards, even when intervening assertions
// failed. A restore that cannot be attempted (the initial read failed)
// or does not succeed is recorded as its own diagnostic result rather
// than silently swallowed.
package harness
