// Package extensibility holds optional decorators over the core
// GuardEvaluator/ReducerRunner interfaces — cross-cutting behavior a host
// can layer on without the step engine itself knowing about it.
package extensibility
