// Package core implements the interpreter: the configuration compiler, the
// immutable state tree, the registry, the mutable runtime, the step engine,
// and time-travel history. It depends only on internal/primitives and the
// standard library.
package core
