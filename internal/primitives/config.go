package primitives

// StateDecl is the declarative, pre-compilation description of a single
// state, as a host would write it (by hand, or decoded from JSON/YAML).
// The compiler infers the node Kind from Type/States/Initial rather than
// the host stating it outright, except for "final", which must be named
// explicitly. "parallel" may be named, and is also inferred for a state
// that has children but no Initial.
//
// States is an ordered slice, not a map, because declaration order is
// semantically load-bearing for parallel nodes: their children are regions,
// and regions activate in declaration order. Every StateDecl carries its
// own Key so the slice can be built and reordered freely without a
// separate name index.
//
// Each On entry and Always accept three equivalent shapes for transitions: a
// bare string target, a single transition object, or an ordered list of
// transition objects. Whatever a host supplies — a typed
// TransitionDecl/[]TransitionDecl built programmatically, or the
// map[string]any/[]any shape produced by decoding JSON/YAML — the compiler
// normalizes it the same way.
type StateDecl struct {
	Key        string       `json:"key" yaml:"key"`
	Type       string       `json:"type,omitempty" yaml:"type,omitempty"` // "" | "final" | "parallel"
	Initial    string       `json:"initial,omitempty" yaml:"initial,omitempty"`
	States     []*StateDecl `json:"states,omitempty" yaml:"states,omitempty"`
	On         map[string]any `json:"on,omitempty" yaml:"on,omitempty"`
	Always     any          `json:"always,omitempty" yaml:"always,omitempty"`
	OnEntry    []string     `json:"onEntry,omitempty" yaml:"onEntry,omitempty"`
	OnExit     []string     `json:"onExit,omitempty" yaml:"onExit,omitempty"`
	Activities []string     `json:"activities,omitempty" yaml:"activities,omitempty"`
}

// State appends and returns a new child StateDecl with the given key.
func (s *StateDecl) State(key string) *StateDecl {
	child := &StateDecl{Key: key}
	s.States = append(s.States, child)
	return child
}

// TransitionDecl is the normalized shape of a single transition: either
// internal (Target == "") or external (Target names a node to resolve to).
type TransitionDecl struct {
	Target string     `json:"target,omitempty" yaml:"target,omitempty"`
	Guard  *GuardExpr `json:"guard,omitempty" yaml:"guard,omitempty"`
	Assign string     `json:"assign,omitempty" yaml:"assign,omitempty"`
}

// Config is the top-level configuration value the host hands to the
// compiler: `{ initialContext, initial, states, guards?, reducers?, on?,
// debug?, timeTravel? }`. Guards and Reducers are resolved by name at
// evaluation time, not at compile time: an unknown name only fails the
// first time a step tries to evaluate it, since it may belong to a branch
// that never becomes active.
type Config struct {
	InitialContext map[string]any
	Initial        string
	States         []*StateDecl // ordered; children of the synthetic root
	Guards         map[string]GuardFunc
	Reducers       map[string]ReducerFunc
	On             map[string]any // transitions attached to the synthetic root itself
	Debug          bool
	TimeTravel     bool
}

// GuardFunc is a named, pure predicate over (context, event, sourceNodeID).
type GuardFunc func(ctx Context, event Event, nodeID string) bool

// ReducerFunc is a named, pure function over (context, event, nodeID)
// returning a partial context to shallow-merge into the existing one.
type ReducerFunc func(ctx Context, event Event, nodeID string) map[string]any
