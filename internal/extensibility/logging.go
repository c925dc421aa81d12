package extensibility

import (
	"log"
	"time"

	"github.com/latticefsm/hfsm/internal/core"
	"github.com/latticefsm/hfsm/internal/primitives"
)

// LoggingGuardEvaluator wraps a core.GuardEvaluator and logs the outcome of
// every evaluation: delegate, then log once.
type LoggingGuardEvaluator struct {
	inner core.GuardEvaluator
}

// NewLoggingGuardEvaluator wraps inner with logging.
func NewLoggingGuardEvaluator(inner core.GuardEvaluator) *LoggingGuardEvaluator {
	return &LoggingGuardEvaluator{inner: inner}
}

// Eval delegates to inner, then logs the node, event type, outcome, error
// and elapsed time. The guard expression itself is not logged.
func (g *LoggingGuardEvaluator) Eval(ctx primitives.Context, expr *primitives.GuardExpr, event primitives.Event, nodeID string, reg *core.Registry) (bool, error) {
	start := time.Now()
	ok, err := g.inner.Eval(ctx, expr, event, nodeID, reg)
	log.Printf("LOG: guard at %q for event %q evaluated %v (err=%v) in %v", nodeID, event.Type, ok, err, time.Since(start))
	return ok, err
}

// LoggingReducerRunner wraps a core.ReducerRunner and logs each reducer
// invocation and its elapsed time.
type LoggingReducerRunner struct {
	inner core.ReducerRunner
}

// NewLoggingReducerRunner wraps inner with logging.
func NewLoggingReducerRunner(inner core.ReducerRunner) *LoggingReducerRunner {
	return &LoggingReducerRunner{inner: inner}
}

// Run logs before and after delegating to inner.
func (r *LoggingReducerRunner) Run(ctx primitives.Context, name string, event primitives.Event, nodeID string, reg *core.Registry) (map[string]any, error) {
	log.Printf("LOG: running reducer %q at %q for event %q", name, nodeID, event.Type)
	start := time.Now()
	partial, err := r.inner.Run(ctx, name, event, nodeID, reg)
	log.Printf("LOG: reducer %q at %q completed in %v: %v", name, nodeID, time.Since(start), err)
	return partial, err
}
