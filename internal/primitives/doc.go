// Package primitives defines the foundational, declarative data structures
// for the hierarchical state machine interpreter: the raw configuration
// value a host hands to the compiler, events, guard expressions, and the
// opaque context value reducers fold over.
//
// This package and internal/core use only the Go standard library. No
// external dependencies are permitted here: configuration values must stay
// trivially serializable (json/yaml tags only) so a host can load them from
// a file without the interpreter ever parsing or evaluating anything
// itself.
//
// Core invariants:
//   - Event and GuardExpr are immutable once constructed.
//   - Context is never mutated in place; Merge always returns a new value.
package primitives
