package builder

import "github.com/latticefsm/hfsm/internal/primitives"

// MachineBuilder builds a primitives.Config fluently: a stack of
// "currently open" compound/parallel declarations, pushed on Child and
// popped on Up, so callers can write deeply nested trees without manually
// wiring parent pointers or intermediate slices.
type MachineBuilder struct {
	cfg   *primitives.Config
	stack []*primitives.StateDecl
}

// NewMachineBuilder starts a builder whose top-level initial state is
// initial.
func NewMachineBuilder(initial string) *MachineBuilder {
	return &MachineBuilder{cfg: &primitives.Config{Initial: initial}}
}

// WithContext sets the initial context.
func (b *MachineBuilder) WithContext(ctx map[string]any) *MachineBuilder {
	b.cfg.InitialContext = ctx
	return b
}

// WithGuards installs the named guard table.
func (b *MachineBuilder) WithGuards(guards map[string]primitives.GuardFunc) *MachineBuilder {
	b.cfg.Guards = guards
	return b
}

// WithReducers installs the named reducer table.
func (b *MachineBuilder) WithReducers(reducers map[string]primitives.ReducerFunc) *MachineBuilder {
	b.cfg.Reducers = reducers
	return b
}

// WithTimeTravel turns snapshot history on or off.
func (b *MachineBuilder) WithTimeTravel(on bool) *MachineBuilder {
	b.cfg.TimeTravel = on
	return b
}

// WithDebug turns debug mode on or off.
func (b *MachineBuilder) WithDebug(on bool) *MachineBuilder {
	b.cfg.Debug = on
	return b
}

// On attaches a transition to the synthetic root itself.
func (b *MachineBuilder) On(event string, t primitives.TransitionDecl) *MachineBuilder {
	if b.cfg.On == nil {
		b.cfg.On = map[string]any{}
	}
	b.cfg.On[event] = appendTransition(b.cfg.On[event], t)
	return b
}

// State starts a new state at the current nesting level (top-level, or
// inside whichever Child call is currently open).
func (b *MachineBuilder) State(key string) *StateBuilder {
	decl := &primitives.StateDecl{Key: key}
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		parent.States = append(parent.States, decl)
	} else {
		b.cfg.States = append(b.cfg.States, decl)
	}
	return &StateBuilder{mb: b, decl: decl}
}

// Build returns the assembled Config.
func (b *MachineBuilder) Build() primitives.Config {
	return *b.cfg
}

// StateBuilder configures a single state declaration and its children.
type StateBuilder struct {
	mb   *MachineBuilder
	decl *primitives.StateDecl
}

// Parallel marks this state as a parallel region container.
func (sb *StateBuilder) Parallel() *StateBuilder {
	sb.decl.Type = "parallel"
	return sb
}

// Final marks this state as a final (atomic) state.
func (sb *StateBuilder) Final() *StateBuilder {
	sb.decl.Type = "final"
	return sb
}

// Initial sets this compound state's default child key.
func (sb *StateBuilder) Initial(key string) *StateBuilder {
	sb.decl.Initial = key
	return sb
}

// OnEntry appends reducer names to run on entry, in order.
func (sb *StateBuilder) OnEntry(names ...string) *StateBuilder {
	sb.decl.OnEntry = append(sb.decl.OnEntry, names...)
	return sb
}

// OnExit appends reducer names to run on exit, in order.
func (sb *StateBuilder) OnExit(names ...string) *StateBuilder {
	sb.decl.OnExit = append(sb.decl.OnExit, names...)
	return sb
}

// Activity appends activity type names this state runs while active.
func (sb *StateBuilder) Activity(names ...string) *StateBuilder {
	sb.decl.Activities = append(sb.decl.Activities, names...)
	return sb
}

// On appends an ordered transition for event.
func (sb *StateBuilder) On(event string, t primitives.TransitionDecl) *StateBuilder {
	if sb.decl.On == nil {
		sb.decl.On = map[string]any{}
	}
	sb.decl.On[event] = appendTransition(sb.decl.On[event], t)
	return sb
}

// Always appends an ordered eventless transition.
func (sb *StateBuilder) Always(t primitives.TransitionDecl) *StateBuilder {
	sb.decl.Always = appendTransition(sb.decl.Always, t)
	return sb
}

// Child opens a nested scope: subsequent State calls add children of this
// state until a matching Up.
func (sb *StateBuilder) Child(key string) *StateBuilder {
	sb.mb.stack = append(sb.mb.stack, sb.decl)
	return sb.mb.State(key)
}

// Up closes the current nesting scope and returns to the parent's
// StateBuilder, so further On/OnEntry/etc. calls configure the parent
// again. Up on an already-top-level builder is a no-op.
func (sb *StateBuilder) Up() *StateBuilder {
	if len(sb.mb.stack) == 0 {
		return sb
	}
	parent := sb.mb.stack[len(sb.mb.stack)-1]
	sb.mb.stack = sb.mb.stack[:len(sb.mb.stack)-1]
	return &StateBuilder{mb: sb.mb, decl: parent}
}

// End returns to the MachineBuilder, for adding further top-level states.
func (sb *StateBuilder) End() *MachineBuilder {
	return sb.mb
}

// appendTransition normalizes an existing On/Always slot (nil, a single
// TransitionDecl, or a []TransitionDecl) into a slot holding every
// transition added so far plus t, preserving declaration order.
func appendTransition(existing any, t primitives.TransitionDecl) any {
	switch v := existing.(type) {
	case nil:
		return t
	case primitives.TransitionDecl:
		return []primitives.TransitionDecl{v, t}
	case []primitives.TransitionDecl:
		return append(v, t)
	default:
		return t
	}
}
