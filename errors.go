package hfsm

import "github.com/latticefsm/hfsm/internal/core"

// Sentinel errors surfaced by the public API, re-exported from internal/core
// so callers can errors.Is against them without importing an internal
// package. Lifecycle errors are raised synchronously at the call that
// violates a precondition.
var (
	ErrNotStarted      = core.ErrNotStarted
	ErrAlreadyStarted  = core.ErrAlreadyStarted
	ErrLoadAfterStart  = core.ErrLoadAfterStart
	ErrEmptySnapshot   = core.ErrEmptySnapshot
	ErrTimeTravelOff   = core.ErrTimeTravelOff
	ErrNoSnapshots     = core.ErrNoSnapshots
	ErrReentrantSend   = core.ErrReentrantSend
	ErrFixpointCapped  = core.ErrFixpointCapped
	ErrUnresolvedState = core.ErrUnresolvedState
)

// CompileError is returned by Construct when the configuration is
// malformed. No machine is produced in that case.
type CompileError = core.CompileError
