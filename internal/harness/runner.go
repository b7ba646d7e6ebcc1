package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ordinaryegi/svcheck/internal/svc"
	"github.com/ordinaryegi/svcheck/internal/testutil"
)

// TokenGenerator produces run tokens for report identity.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDs as run tokens, so
// stored runs sort chronologically by token.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RunOptions tune a scenario run. The zero value is fine: logging is
// suppressed and tokens come from UUIDv7Generator.
type RunOptions struct {
	Logger *slog.Logger
	Tokens TokenGenerator
}

// Run executes a scenario against the given management layer and
// returns the ordered report.
//
// The create phase takes the scenario's snapshots, runs every step
// (command, outcome, assertion) strictly sequentially, and restores
// the snapshots best-effort. The destroy phase records completion.
// When the scenario declares hard steps, the stress track runs the
// same way under hard_create / hard_destroy.
//
// Step failures never abort the run; the returned error covers only
// structural problems (nil scenario, lifecycle misuse) that prevent
// the run from being meaningful at all.
func Run(ctx context.Context, scenario *Scenario, mgr svc.Manager) (*Report, error) {
	return RunWithOptions(ctx, scenario, mgr, RunOptions{})
}

// RunWithOptions is Run with explicit logging and token control.
func RunWithOptions(ctx context.Context, scenario *Scenario, mgr svc.Manager, opts RunOptions) (*Report, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	if mgr == nil {
		return nil, fmt.Errorf("manager is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	token := scenario.RunToken
	if token == "" {
		gen := opts.Tokens
		if gen == nil {
			gen = UUIDv7Generator{}
		}
		token = gen.Generate()
	}

	r := &runner{
		scenario: scenario,
		exec:     svc.NewExecutor(mgr, logger),
		register: NewOutcomeRegister(),
		report:   NewReport(scenario.Subject, scenario.Service, token),
		clock:    testutil.NewSeqClock(),
		logger:   logger,
	}
	r.checker = NewChecker(r.report, r.clock)

	suite := NewSuite()
	err := suite.Register(scenario.Subject, Hooks{
		Create:      func() { r.stepPhase(ctx, scenario.Steps, scenario.Snapshot) },
		Destroy:     func() { r.completePhase(PhaseDestroy) },
		HardCreate:  func() { r.stepPhase(ctx, scenario.Hard, scenario.Snapshot) },
		HardDestroy: func() { r.completePhase(PhaseHardDestroy) },
	})
	if err != nil {
		return nil, err
	}

	phases := []Phase{PhaseCreate, PhaseDestroy}
	if len(scenario.Hard) > 0 {
		phases = append(phases, PhaseHardCreate, PhaseHardDestroy)
	}
	for _, phase := range phases {
		if err := suite.Invoke(scenario.Subject, phase); err != nil {
			return nil, fmt.Errorf("invoke %s: %w", phase, err)
		}
	}

	return r.report, nil
}

// runner holds the per-subject execution state: its own executor,
// register, and report, so independent subjects can run concurrently
// without sharing anything.
type runner struct {
	scenario *Scenario
	exec     *svc.Executor
	register *OutcomeRegister
	report   *Report
	checker  *Checker
	clock    *testutil.SeqClock
	logger   *slog.Logger
}

// stepPhase is the body of create and hard_create: snapshot, steps,
// best-effort restore.
func (r *runner) stepPhase(ctx context.Context, steps []Step, snapshotProps []string) {
	// Stale outcomes from a previous phase must not satisfy this
	// phase's assertions.
	r.register.Reset()

	snapshots := make([]*Snapshot, 0, len(snapshotProps))
	for _, prop := range snapshotProps {
		snap := TakeSnapshot(ctx, r.exec, r.scenario.Service, prop)
		if !snap.Captured() {
			r.logger.Warn("snapshot capture failed",
				"service", r.scenario.Service,
				"property", prop,
			)
		}
		snapshots = append(snapshots, snap)
	}

	for i, step := range steps {
		r.runStep(ctx, i, step)
	}

	r.restoreAll(ctx, snapshots)
}

// runStep executes one command and asserts its outcome. Exactly one
// outcome is recorded per step and exactly one result per assertion.
func (r *runner) runStep(ctx context.Context, index int, step Step) {
	action, err := step.action()

	var out svc.Outcome
	if err != nil {
		// Scenario validation catches this at load time; a stray
		// malformed step still degrades to a failing outcome.
		out = svc.Failure(err.Error())
	} else if step.Mode == ModeCapture {
		out = r.exec.Capture(ctx, r.scenario.Service, action)
	} else {
		out = r.exec.Do(ctx, r.scenario.Service, action)
	}

	r.register.Record(out)
	res := r.checker.Check(out, step.Tag, step.FailMessage)

	r.logger.Info("step completed",
		"step", index,
		"action", step.Action,
		"tag", step.Tag,
		"passed", res.Passed,
	)
}

// restoreAll writes every captured snapshot back. Snapshots whose read
// failed are skipped with a diagnostic; failed write-backs are
// recorded the same way. Successful restores stay silent.
func (r *runner) restoreAll(ctx context.Context, snapshots []*Snapshot) {
	for _, snap := range snapshots {
		out, attempted := snap.Restore(ctx, r.exec)
		if !attempted {
			r.checker.Diagnostic(KindRestore, restoreTag(r.scenario.Subject, snap.Property()), false,
				fmt.Sprintf("restore skipped: %s", out.ErrorDetail))
			continue
		}
		if !out.OK {
			r.checker.Diagnostic(KindRestore, restoreTag(r.scenario.Subject, snap.Property()), false,
				fmt.Sprintf("restore failed: %s", out.ErrorDetail))
			continue
		}
		r.logger.Info("property restored",
			"service", r.scenario.Service,
			"property", snap.Property(),
		)
	}
}

// completePhase is the body of destroy and hard_destroy: report
// completion, nothing else. Restores already ran at the end of the
// step phase so the before/after pair stays within one phase.
func (r *runner) completePhase(phase Phase) {
	r.checker.Diagnostic(KindLifecycle,
		fmt.Sprintf("%s_%s", r.scenario.Subject, phase), true,
		fmt.Sprintf("%s completed", phase))
	r.logger.Info("phase completed", "subject", r.scenario.Subject, "phase", phase.String())
}

// restoreTag labels a restore diagnostic with the subject and the
// logical property name whose captured value it pairs with.
func restoreTag(subject, property string) string {
	return fmt.Sprintf("%s:restore:%s", subject, property)
}
