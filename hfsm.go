// Package hfsm is a hierarchical finite-state-machine interpreter in the
// tradition of Harel statecharts and the SCXML execution model, restricted
// to pure reducers over an opaque context value. The interpreter is
// synchronous, deterministic, and owns no side-effect machinery: no
// timers, no asynchronous invocations, no spawned actors. Effects are the
// concern of the host.
//
// A Machine is built once from a Config via Construct, started exactly
// once via Start, and driven thereafter with Send. Guards and reducers are
// referenced by name from side tables rather than embedded as closures in
// the tree, so a Config stays serializable and a running Machine stays
// snapshot-portable across processes (Dump/Load).
package hfsm

import (
	"github.com/latticefsm/hfsm/internal/core"
	"github.com/latticefsm/hfsm/internal/primitives"
)

// Re-exported declarative types (internal/primitives), so a host never
// needs to import an internal package to build a Config.
type (
	Config          = primitives.Config
	StateDecl       = primitives.StateDecl
	TransitionDecl  = primitives.TransitionDecl
	GuardExpr       = primitives.GuardExpr
	Event           = primitives.Event
	Context         = primitives.Context
	GuardFunc       = primitives.GuardFunc
	ReducerFunc     = primitives.ReducerFunc
)

// Guard expression constructors, re-exported for convenience.
var (
	Guard = primitives.Guard
	And   = primitives.And
	Or    = primitives.Or
	Not   = primitives.Not
)

// NewEvent builds an Event. The two reserved synthetic event types are
// exposed as constants below; a host must never construct an Event with
// one of those Types.
func NewEvent(eventType string, data any) Event {
	return primitives.NewEvent(eventType, data)
}

// Reserved synthetic event types the step engine raises internally; a host
// event must never collide with either.
const (
	InitEventType   = primitives.InitEventType
	AlwaysEventType = primitives.AlwaysEventType
)

// Option configures a Machine at construction time (functional-options
// pattern, mirroring internal/core.Option).
type Option func(*Machine)

// WithGuardEvaluator overrides the built-in AND/OR/NOT guard evaluator —
// for example to wrap it with extensibility.LoggingGuardEvaluator.
func WithGuardEvaluator(g core.GuardEvaluator) Option {
	return func(m *Machine) { m.engine.Apply(core.WithGuardEvaluator(g)) }
}

// WithReducerRunner overrides the built-in name-lookup-and-call reducer
// runner.
func WithReducerRunner(r core.ReducerRunner) Option {
	return func(m *Machine) { m.engine.Apply(core.WithReducerRunner(r)) }
}

// WithActivityObserver wires a synchronous activity start/stop observer:
// no hidden async work, the observer is invoked on the caller's own
// goroutine for every node that Start or Send enters or exits. Load,
// Rewind and Forward install a snapshot without notifying the observer.
func WithActivityObserver(obs core.ActivityObserver) Option {
	return func(m *Machine) { m.engine.Apply(core.WithActivityObserver(obs)) }
}

// Machine is a compiled, running (or not-yet-started) instance of the
// interpreter: the immutable compiled tree, the registry, and the mutable
// runtime/step-engine bundled behind the public operations below.
type Machine struct {
	tree   *core.Tree
	reg    *core.Registry
	engine *core.Engine
}

// Construct compiles cfg into an immutable state tree and registry and
// seeds a fresh runtime from cfg.InitialContext. Compilation errors are
// fatal: no Machine is produced. Construct never runs any entry action;
// call Start for that.
func Construct(cfg Config, opts ...Option) (*Machine, error) {
	tree, reg, err := core.Compile(cfg)
	if err != nil {
		return nil, err
	}
	m := &Machine{
		tree:   tree,
		reg:    reg,
		engine: core.NewEngine(tree, reg, cfg.InitialContext, cfg.TimeTravel),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load installs snapshot as the Machine's starting runtime state instead of
// the configuration's declared initial state. Load is only legal before
// Start and does not run the eventless fixpoint; the caller must call
// Start afterward.
func (m *Machine) Load(snapshot Snapshot) error {
	return m.engine.Load(snapshot)
}

// Start activates the machine exactly once: from a fresh construction it
// enters the declared initial configuration; from a loaded snapshot it
// instead runs the eventless microstep fixpoint over the restored
// configuration.
func (m *Machine) Start() error {
	return m.engine.Start()
}

// Send delivers one external event through a full macrostep — transition
// selection and application, followed by the eventless fixpoint, followed
// by halted detection and (if time travel is enabled) a history append.
// A halted machine silently ignores further sends.
func (m *Machine) Send(event Event) error {
	return m.engine.Send(event)
}

// Rewind moves the time-travel cursor back by n steps (clamped to the
// start of history) and restores that snapshot into the live runtime.
// Requires time travel to be enabled and the machine started.
func (m *Machine) Rewind(n int) (Snapshot, error) {
	return m.engine.Rewind(n)
}

// Forward moves the time-travel cursor ahead by n steps (clamped to the
// end of history) and restores that snapshot into the live runtime.
func (m *Machine) Forward(n int) (Snapshot, error) {
	return m.engine.Forward(n)
}

// Dump serialises the current runtime state as a Snapshot. Requires a
// non-empty configuration (i.e. the machine has been started or loaded).
func (m *Machine) Dump() (Snapshot, error) {
	return m.engine.Dump()
}

// GetContext returns a defensive copy of the current opaque context value.
func (m *Machine) GetContext() map[string]any {
	return m.engine.Runtime.Context.Values()
}

// GetConfiguration returns the current active configuration as a slice of
// node ids. Order is not semantically significant.
func (m *Machine) GetConfiguration() []string {
	return m.engine.Runtime.ActiveIDs()
}

// GetStateValue derives the hierarchical state value from the state tree
// against the active configuration: the value of the root's single active
// child, with the root itself unwrapped and invisible.
func (m *Machine) GetStateValue() StateValue {
	active := func(id string) bool { return m.engine.Runtime.IsActive(id) }
	for _, child := range m.tree.Root.Children {
		if active(child.ID) {
			return stateValue(child, active)
		}
	}
	return nil
}

// IsHalted reports whether a final atomic node is currently active.
func (m *Machine) IsHalted() bool {
	return m.engine.Runtime.Halted
}

// GetActiveActivities lists every (activity type, node) pair currently
// active, each stamped with the entry counter recorded when that node was
// last entered.
func (m *Machine) GetActiveActivities() []ActivityMetadata {
	return m.engine.ActiveActivities()
}

// IsActivityRelevant reports whether meta still describes a live activity
// instance: the node must be currently active and its counter must match
// the one recorded in meta.
func (m *Machine) IsActivityRelevant(meta ActivityMetadata) bool {
	return m.engine.IsActivityRelevant(meta)
}

// Tree exposes the compiled state tree read-only, for hosts building a
// visualizer or other read-only tooling atop internal/production.
func (m *Machine) Tree() *core.Tree {
	return m.tree
}

// Registry exposes the compiled name -> guard/reducer tables read-only.
func (m *Machine) Registry() *core.Registry {
	return m.reg
}
