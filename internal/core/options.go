package core

// Option configures an Engine at construction time: a functional-options
// pattern for swapping in alternate GuardEvaluator/ReducerRunner/
// ActivityObserver implementations without widening the Engine
// constructor's signature.
type Option func(*Engine)

// WithGuardEvaluator overrides the default AND/OR/NOT guard evaluator.
func WithGuardEvaluator(g GuardEvaluator) Option {
	return func(e *Engine) { e.GuardEval = g }
}

// WithReducerRunner overrides the default name-lookup-and-call reducer
// runner.
func WithReducerRunner(r ReducerRunner) Option {
	return func(e *Engine) { e.ReducerRun = r }
}

// WithActivityObserver wires a synchronous activity start/stop observer.
func WithActivityObserver(obs ActivityObserver) Option {
	return func(e *Engine) { e.Activities = obs }
}

// Apply applies opts to e in order.
func (e *Engine) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
}
