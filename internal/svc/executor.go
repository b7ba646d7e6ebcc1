package svc

import (
	"context"
	"io"
	"log/slog"
)

// Executor invokes typed Actions through a Manager and reduces every
// result to an Outcome.
//
// The two execution modes share one failure contract:
//
//   - Do (fire-and-wait) blocks until the action fully completes and
//     discards any returned value.
//   - Capture (fire-and-capture) additionally retains the returned
//     scalar, e.g. a property's prior value before mutating it.
//
// The executor itself never fails: an empty service name, a malformed
// action, a cancelled context, and a management-layer rejection all
// degrade to Outcome{OK: false}.
type Executor struct {
	mgr    Manager
	logger *slog.Logger
}

// NewExecutor creates an executor over the given management layer.
// A nil logger suppresses executor logging.
func NewExecutor(mgr Manager, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{mgr: mgr, logger: logger}
}

// Do executes the action in fire-and-wait mode. The returned outcome
// carries no value even for operations that produce one.
func (e *Executor) Do(ctx context.Context, service string, action Action) Outcome {
	out := e.dispatch(ctx, service, action)
	out.Value = ""
	return out
}

// Capture executes the action in fire-and-capture mode, retaining the
// scalar the operation returned.
func (e *Executor) Capture(ctx context.Context, service string, action Action) Outcome {
	return e.dispatch(ctx, service, action)
}

// dispatch runs one action and folds any error into a failure outcome.
func (e *Executor) dispatch(ctx context.Context, service string, action Action) Outcome {
	if service == "" {
		return Failure("service name is required")
	}
	if err := action.validate(); err != nil {
		return Failure(err.Error())
	}
	if err := ctx.Err(); err != nil {
		return Failure(NewTimeoutError(service, err).Error())
	}

	var (
		value string
		err   error
	)
	switch action.Op {
	case OpStart:
		err = e.mgr.Start(ctx, service)
	case OpStop:
		err = e.mgr.Stop(ctx, service)
	case OpConfigGet:
		value, err = e.mgr.GetProperty(ctx, service, action.Property)
	case OpConfigSet:
		err = e.mgr.SetProperty(ctx, service, action.Property, action.Value)
	case OpStatusGet:
		value, err = e.mgr.Status(ctx, service, action.Attribute)
	}

	if err != nil {
		// Context expiry during a blocking call surfaces as a timeout
		// so it is distinguishable from a plain rejection.
		if ctx.Err() != nil && !IsTimeout(err) {
			err = NewTimeoutError(service, err)
		}
		e.logger.Debug("action failed",
			"service", service,
			"action", action.String(),
			"error", err,
		)
		return Failure(err.Error())
	}

	e.logger.Debug("action completed",
		"service", service,
		"action", action.String(),
	)
	return Success(value)
}
