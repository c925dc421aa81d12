package hfsm

import "github.com/latticefsm/hfsm/internal/core"

// StateValue is the read-only derived view of a configuration:
//   - at an atomic node: its key, as a plain string
//   - at a compound node: map[key]StateValue with exactly one entry (the
//     active child)
//   - at a parallel node: map[key]map[regionKey]StateValue over every
//     region
//
// It is returned as `any` because its shape varies by node kind; callers
// that know the machine's topology can type-assert freely.
type StateValue = any

// Snapshot is the externally-visible runtime snapshot:
// `{ context, configuration, stateCounters }`.
type Snapshot = core.Snapshot

// ActivityMetadata identifies one running instance of an activity:
// `{ type, stateId, instanceId }`.
type ActivityMetadata = core.ActivityMetadata

// stateValue computes the projection for n given the active configuration,
// recursively, starting at the root's single active child (the root itself
// is invisible in the projected value).
func stateValue(n *core.Node, active func(id string) bool) StateValue {
	switch n.Kind {
	case core.Atomic:
		return n.Key
	case core.Compound:
		for _, child := range n.Children {
			if active(child.ID) {
				return map[string]StateValue{n.Key: stateValue(child, active)}
			}
		}
		// No active child is structurally impossible for a well-formed
		// configuration, but fall back to the bare key rather than
		// panicking on a caller that inspects a half-restored runtime.
		return n.Key
	case core.Parallel:
		regions := make(map[string]StateValue, len(n.Regions))
		for _, region := range n.Regions {
			regions[region.Key] = stateValue(region, active)
		}
		return map[string]StateValue{n.Key: regions}
	default:
		return n.Key
	}
}
