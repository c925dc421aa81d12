package core

import (
	"sort"

	"github.com/latticefsm/hfsm/internal/primitives"
)

// Runtime is the mutable interpreter core: the active context, the active
// configuration (set of node ids), per-node entry counters, and the
// started/loaded/halted lifecycle flags.
type Runtime struct {
	Context       primitives.Context
	Configuration map[string]struct{}
	EntryCounters map[string]int
	Halted        bool
	Started       bool
	Loaded        bool
}

// NewRuntime builds an empty Runtime seeded with the given initial context.
func NewRuntime(initialContext map[string]any) *Runtime {
	return &Runtime{
		Context:       primitives.NewContext(initialContext),
		Configuration: map[string]struct{}{},
		EntryCounters: map[string]int{},
	}
}

// ActiveIDs returns the current configuration as a slice. Order is not
// semantically significant; callers needing a stable order should sort
// the result themselves.
func (r *Runtime) ActiveIDs() []string {
	ids := make([]string, 0, len(r.Configuration))
	for id := range r.Configuration {
		ids = append(ids, id)
	}
	return ids
}

// IsActive reports whether node id is in the current configuration.
func (r *Runtime) IsActive(id string) bool {
	_, ok := r.Configuration[id]
	return ok
}

// Snapshot is the only form the outside world sees the runtime in:
// `{ context, configuration, stateCounters }`.
type Snapshot struct {
	Context       map[string]any `json:"context" yaml:"context"`
	Configuration []string       `json:"configuration" yaml:"configuration"`
	StateCounters map[string]int `json:"stateCounters" yaml:"stateCounters"`
}

// Snapshot captures the current runtime state. Configuration is emitted in
// sorted order purely for stable, human-diffable output; the order itself
// carries no meaning.
func (r *Runtime) Snapshot() Snapshot {
	cfg := r.ActiveIDs()
	sort.Strings(cfg)
	counters := make(map[string]int, len(r.EntryCounters))
	for id, n := range r.EntryCounters {
		if n > 0 {
			counters[id] = n
		}
	}
	return Snapshot{
		Context:       r.Context.Values(),
		Configuration: cfg,
		StateCounters: counters,
	}
}

// Restore installs snapshot into r. It does not run the eventless fixpoint;
// the caller must call Start afterward. Callers are responsible for
// validating the snapshot against a compiled Tree before calling Restore
// (see Engine.Load).
func (r *Runtime) Restore(snap Snapshot) {
	r.Context = primitives.NewContext(snap.Context)
	r.Configuration = make(map[string]struct{}, len(snap.Configuration))
	for _, id := range snap.Configuration {
		r.Configuration[id] = struct{}{}
	}
	r.EntryCounters = make(map[string]int, len(snap.StateCounters))
	for id, n := range snap.StateCounters {
		r.EntryCounters[id] = n
	}
}

