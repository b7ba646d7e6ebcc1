// Package svc executes administrative operations against named managed
// services and reports each operation as a structured Outcome.
//
// The package deliberately separates three roles:
//
//   - Manager is the external service-management layer (start/stop,
//     property get/set, status queries). Real deployments adapt their
//     management CLI or API behind this interface.
//   - Executor invokes a single typed Action through a Manager and
//     converts every failure into Outcome data. It never panics and
//     never returns a Go error to the caller: a rejected or timed-out
//     operation is a result, not an exceptional event.
//   - LocalManager is an in-memory Manager used by the CLI runner and
//     the tests. It enforces property schemas from compiled profiles.
package svc
