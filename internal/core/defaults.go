package core

import "github.com/latticefsm/hfsm/internal/primitives"

// GuardEvaluator evaluates a (possibly AND/OR/NOT-composed) guard
// expression. It is a pluggable component so a host can swap in logging,
// tracing, or an alternate expression language without touching the step
// engine.
type GuardEvaluator interface {
	Eval(ctx primitives.Context, expr *primitives.GuardExpr, event primitives.Event, nodeID string, reg *Registry) (bool, error)
}

// ReducerRunner resolves and applies a single named reducer.
type ReducerRunner interface {
	Run(ctx primitives.Context, name string, event primitives.Event, nodeID string, reg *Registry) (map[string]any, error)
}

// defaultGuardEvaluator is the built-in GuardEvaluator: a nil expression
// passes unconditionally; otherwise it recursively evaluates AND/OR/NOT
// over named guard lookups in the registry.
type defaultGuardEvaluator struct{}

func (defaultGuardEvaluator) Eval(ctx primitives.Context, expr *primitives.GuardExpr, event primitives.Event, nodeID string, reg *Registry) (bool, error) {
	if expr == nil {
		return true, nil
	}
	switch expr.Kind {
	case primitives.GuardRef:
		fn, err := reg.LookupGuard(expr.Ref)
		if err != nil {
			return false, err
		}
		return fn(ctx, event, nodeID), nil
	case primitives.GuardAnd:
		for _, op := range expr.Operands {
			ok, err := (defaultGuardEvaluator{}).Eval(ctx, &op, event, nodeID, reg)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case primitives.GuardOr:
		for _, op := range expr.Operands {
			ok, err := (defaultGuardEvaluator{}).Eval(ctx, &op, event, nodeID, reg)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case primitives.GuardNot:
		if len(expr.Operands) != 1 {
			return false, nil
		}
		ok, err := (defaultGuardEvaluator{}).Eval(ctx, &expr.Operands[0], event, nodeID, reg)
		if err != nil {
			return false, err
		}
		return !ok, nil
	default:
		return false, nil
	}
}

// defaultReducerRunner is the built-in ReducerRunner: plain name lookup and
// call, propagating reducer panics unchanged. The interpreter never wraps
// or translates a reducer's own panic or error.
type defaultReducerRunner struct{}

func (defaultReducerRunner) Run(ctx primitives.Context, name string, event primitives.Event, nodeID string, reg *Registry) (map[string]any, error) {
	fn, err := reg.LookupReducer(name)
	if err != nil {
		return nil, err
	}
	return fn(ctx, event, nodeID), nil
}
