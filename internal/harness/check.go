package harness

import (
	"fmt"

	"github.com/ordinaryegi/svcheck/internal/svc"
	"github.com/ordinaryegi/svcheck/internal/testutil"
)

// Checker evaluates assertions and appends their results to a report.
//
// A check never alters control flow: pass or fail, the calling phase
// continues with its next statement. There is exactly one evaluation
// per check; no retries, no partial credit.
type Checker struct {
	report *Report
	clock  *testutil.SeqClock
}

// NewChecker creates a checker writing into the given report. The
// clock stamps each result's sequence number.
func NewChecker(report *Report, clock *testutil.SeqClock) *Checker {
	return &Checker{report: report, clock: clock}
}

// Check evaluates a condition under a test-case tag and records the
// verdict. The condition is either a svc.Outcome, whose OK flag
// decides the verdict, or a plain bool, for callers that pass a
// pre-reduced success flag. A nil condition is treated as the unset
// sentinel.
//
// On failure the recorded message is exactly failMsg, never an
// auto-generated text, so the result matches the fixture's catalog
// entry verbatim.
func (c *Checker) Check(cond any, tag, failMsg string) TestResult {
	var passed bool
	switch v := cond.(type) {
	case svc.Outcome:
		passed = v.OK
	case *svc.Outcome:
		if v == nil {
			return c.sentinel(tag)
		}
		passed = v.OK
	case bool:
		passed = v
	case nil:
		return c.sentinel(tag)
	default:
		res := TestResult{
			Tag:     tag,
			Passed:  false,
			Message: fmt.Sprintf("unsupported assertion condition type %T", cond),
			Kind:    KindSentinel,
			Seq:     c.clock.Next(),
		}
		c.report.Add(res)
		return res
	}

	res := TestResult{
		Tag:    tag,
		Passed: passed,
		Kind:   KindCheck,
		Seq:    c.clock.Next(),
	}
	if !passed {
		res.Message = failMsg
	}
	c.report.Add(res)
	return res
}

// CheckLast asserts the register's most recent outcome. An unset
// register records a sentinel failure with its own distinguishing
// message instead of the caller's failMsg, so a missing command is
// never mistaken for a failed one.
func (c *Checker) CheckLast(reg *OutcomeRegister, tag, failMsg string) TestResult {
	out, ok := reg.Last()
	if !ok {
		return c.sentinel(tag)
	}
	return c.Check(out, tag, failMsg)
}

// sentinel records the failure for an assertion evaluated before any
// command outcome existed.
func (c *Checker) sentinel(tag string) TestResult {
	res := TestResult{
		Tag:     tag,
		Passed:  false,
		Message: "assertion evaluated before any command outcome was recorded",
		Kind:    KindSentinel,
		Seq:     c.clock.Next(),
	}
	c.report.Add(res)
	return res
}

// Diagnostic records a harness-generated result (restore and lifecycle
// bookkeeping) without evaluating a condition.
func (c *Checker) Diagnostic(kind ResultKind, tag string, passed bool, message string) TestResult {
	res := TestResult{
		Tag:     tag,
		Passed:  passed,
		Message: message,
		Kind:    kind,
		Seq:     c.clock.Next(),
	}
	c.report.Add(res)
	return res
}
