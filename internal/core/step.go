package core

import (
	"fmt"

	"github.com/latticefsm/hfsm/internal/primitives"
)

// fixpointCap bounds the eventless always-transition loop. Hitting it is
// fatal and reported rather than silently truncated: it means the
// always-transition graph cycles without ever settling.
const fixpointCap = 100

// Engine ties the compiled Tree and Registry to a live Runtime and drives
// the step algorithm and lifecycle operations. Every method here runs to
// completion on the caller's goroutine, synchronously, with no background
// dispatch or channel-fed event loop.
type Engine struct {
	Tree     *Tree
	Registry *Registry
	Runtime  *Runtime
	History  *History // nil unless TimeTravelEnabled

	TimeTravelEnabled bool
	GuardEval         GuardEvaluator
	ReducerRun        ReducerRunner
	Activities        ActivityObserver // nil is valid: no observer wired

	inSend bool
}

// NewEngine wires a compiled Tree/Registry to a fresh Runtime, using the
// built-in GuardEvaluator/ReducerRunner unless overridden afterward (see
// options.go).
func NewEngine(tree *Tree, reg *Registry, initialContext map[string]any, timeTravel bool) *Engine {
	e := &Engine{
		Tree:              tree,
		Registry:          reg,
		Runtime:           NewRuntime(initialContext),
		TimeTravelEnabled: timeTravel,
		GuardEval:         defaultGuardEvaluator{},
		ReducerRun:        defaultReducerRunner{},
	}
	if timeTravel {
		e.History = NewHistory()
	}
	return e
}

// selected pairs a chosen transition with its source node: the ancestor an
// active atomic's walk had climbed to when a guard passed (which need not be
// the atomic itself).
type selected struct {
	source *Node
	trans  *Transition
}

// selectionMode distinguishes an event-driven selection pass from the
// eventless always-transition pass; the two never mix within one pass —
// the always pass runs in isolation after event transitions settle.
type selectionMode int

const (
	modeEvent selectionMode = iota
	modeAlways
)

// activeAtomicsOrdered returns the currently active Atomic nodes in a
// stable declaration-preorder, so that selection order (and therefore
// dedup/shadowing outcomes) never depends on Go's unordered map iteration.
func (e *Engine) activeAtomicsOrdered() []*Node {
	var out []*Node
	for _, n := range e.Tree.order {
		if n.Kind == Atomic && e.Runtime.IsActive(n.ID) {
			out = append(out, n)
		}
	}
	return out
}

// selectTransitions implements transition selection: for every active
// atomic, climb ancestors until a transition for the event (or an
// always-transition) passes its guard, stopping at the first hit; dedup by
// transition identity; then discard any selected transition whose source
// is a parallel ancestor of another selected transition's source
// (shadowing).
func (e *Engine) selectTransitions(mode selectionMode, event primitives.Event) ([]selected, error) {
	var result []selected
	seen := map[*Transition]bool{}
	shadowedParents := map[*Node]bool{}

	for _, atomic := range e.activeAtomicsOrdered() {
		var hit *selected
		for cur := atomic; cur != nil; cur = cur.Parent {
			var list []*Transition
			if mode == modeAlways {
				list = e.Tree.AlwaysTransitions(cur)
			} else {
				list = e.Tree.TransitionsFor(cur, event.Type)
			}
			for _, t := range list {
				if !t.IsInternal() && t.Target == nil {
					if err := t.ResolutionError(); err != nil {
						return nil, err
					}
				}
				ok, err := e.GuardEval.Eval(e.Runtime.Context, t.Guard, event, cur.ID, e.Registry)
				if err != nil {
					return nil, err
				}
				if ok {
					hit = &selected{source: cur, trans: t}
					break
				}
			}
			if hit != nil {
				break
			}
		}
		if hit == nil || seen[hit.trans] {
			continue
		}
		seen[hit.trans] = true
		result = append(result, *hit)
		for cur := hit.source.Parent; cur != nil; cur = cur.Parent {
			if cur.Kind == Parallel {
				shadowedParents[cur] = true
			}
		}
	}

	filtered := result[:0:0]
	for _, s := range result {
		if s.source.Kind == Parallel && shadowedParents[s.source] {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}

// activate enters n: bump its entry counter, run its entry reducers in
// order, optionally follow into its own initial child/regions, then mark
// it active and publish activity starts.
func (e *Engine) activate(n *Node, follow bool, event primitives.Event) error {
	e.Runtime.EntryCounters[n.ID]++
	for _, name := range n.Entry {
		partial, err := e.ReducerRun.Run(e.Runtime.Context, name, event, n.ID, e.Registry)
		if err != nil {
			return fmt.Errorf("hfsm: entry reducer %q on %q: %w", name, n.ID, err)
		}
		e.Runtime.Context = e.Runtime.Context.Merge(partial)
	}
	if follow {
		switch n.Kind {
		case Compound:
			if n.Initial != nil {
				if err := e.activate(n.Initial, true, event); err != nil {
					return err
				}
			}
		case Parallel:
			for _, region := range n.Regions {
				if err := e.activate(region, true, event); err != nil {
					return err
				}
			}
		}
	}
	e.Runtime.Configuration[n.ID] = struct{}{}
	e.publishActivate(n)
	return nil
}

// deactivateSubtree tears down n and every currently-active descendant of
// n, leaf-first: as each node is removed from the configuration, every
// descendant still in the configuration is removed too. This is what
// makes exiting a parallel ancestor correctly tear down every one of its
// active regions, not just the branch the triggering transition's source
// happened to be on.
func (e *Engine) deactivateSubtree(n *Node, event primitives.Event) error {
	for _, child := range n.Children {
		if e.Runtime.IsActive(child.ID) {
			if err := e.deactivateSubtree(child, event); err != nil {
				return err
			}
		}
	}
	for _, name := range n.Exit {
		partial, err := e.ReducerRun.Run(e.Runtime.Context, name, event, n.ID, e.Registry)
		if err != nil {
			return fmt.Errorf("hfsm: exit reducer %q on %q: %w", name, n.ID, err)
		}
		e.Runtime.Context = e.Runtime.Context.Merge(partial)
	}
	e.publishDeactivate(n)
	delete(e.Runtime.Configuration, n.ID)
	return nil
}

func (e *Engine) publishActivate(n *Node) {
	if e.Activities == nil {
		return
	}
	for _, actType := range n.Activities {
		e.Activities.Activate(ActivityMetadata{Type: actType, StateID: n.ID, InstanceID: e.Runtime.EntryCounters[n.ID]})
	}
}

func (e *Engine) publishDeactivate(n *Node) {
	if e.Activities == nil {
		return
	}
	for _, actType := range n.Activities {
		e.Activities.Deactivate(ActivityMetadata{Type: actType, StateID: n.ID, InstanceID: e.Runtime.EntryCounters[n.ID]})
	}
}

// applyTransition applies a single selected transition. Internal
// transitions only run their assign reducer. External transitions compute
// the least common ancestor of source and target, exit the chain from
// source up to (but normally excluding) the LCA leaf-first, run the assign
// reducer, then enter the chain from the LCA down to target root-first,
// following the target's own initial/regions only for the final (explicit
// target) node in that chain. When target is itself the LCA — a
// transition to a literal ancestor of source — the LCA is folded into
// both the exit and entry sets instead of being skipped, so a
// self-transition (source == target) is just the special case where that
// chain collapses to a single node.
func (e *Engine) applyTransition(t *Transition, event primitives.Event) error {
	if t.IsInternal() {
		if t.Assign == "" {
			return nil
		}
		partial, err := e.ReducerRun.Run(e.Runtime.Context, t.Assign, event, t.SourceID, e.Registry)
		if err != nil {
			return fmt.Errorf("hfsm: assign reducer %q on internal transition from %q: %w", t.Assign, t.SourceID, err)
		}
		e.Runtime.Context = e.Runtime.Context.Merge(partial)
		return nil
	}

	if t.Target == nil {
		if err := t.ResolutionError(); err != nil {
			return err
		}
		return fmt.Errorf("hfsm: transition target %q unresolved", t.TargetPath)
	}

	source, ok := e.Tree.ByID[t.SourceID]
	if !ok {
		return fmt.Errorf("hfsm: transition source %q not found in tree", t.SourceID)
	}
	target := t.Target
	lca := e.Tree.LCA(source, target)

	var exitSet []*Node
	for cur := source; cur != lca; cur = cur.Parent {
		exitSet = append(exitSet, cur)
	}
	if target == lca {
		exitSet = append(exitSet, lca)
	}
	for _, n := range exitSet {
		if !e.Runtime.IsActive(n.ID) {
			continue
		}
		if err := e.deactivateSubtree(n, event); err != nil {
			return err
		}
	}

	if t.Assign != "" {
		partial, err := e.ReducerRun.Run(e.Runtime.Context, t.Assign, event, t.SourceID, e.Registry)
		if err != nil {
			return fmt.Errorf("hfsm: assign reducer %q on transition from %q: %w", t.Assign, t.SourceID, err)
		}
		e.Runtime.Context = e.Runtime.Context.Merge(partial)
	}

	var entrySet []*Node
	if target == lca {
		entrySet = []*Node{lca}
	} else {
		for cur := target; cur != lca; cur = cur.Parent {
			entrySet = append(entrySet, cur)
		}
		for i, j := 0, len(entrySet)-1; i < j; i, j = i+1, j-1 {
			entrySet[i], entrySet[j] = entrySet[j], entrySet[i]
		}
	}
	for i, n := range entrySet {
		follow := i == len(entrySet)-1
		if err := e.activate(n, follow, event); err != nil {
			return err
		}
	}
	return nil
}

// runFixpointLoop repeatedly selects and applies always-transitions until a
// round selects nothing, or every transition a round selected was
// internal: an all-internal round cannot change the configuration, so it
// cannot be followed by a newly-enabled external always-transition;
// continuing would spin forever on a guard that keeps re-passing.
func (e *Engine) runFixpointLoop() (bool, error) {
	changed := false
	event := primitives.NewEvent(primitives.AlwaysEventType, nil)
	for i := 0; i < fixpointCap; i++ {
		round, err := e.selectTransitions(modeAlways, event)
		if err != nil {
			return changed, err
		}
		if len(round) == 0 {
			return changed, nil
		}
		allInternal := true
		for _, s := range round {
			if !s.trans.IsInternal() {
				allInternal = false
			}
			if err := e.applyTransition(s.trans, event); err != nil {
				return changed, err
			}
			changed = true
		}
		if allInternal {
			return changed, nil
		}
	}
	return changed, ErrFixpointCapped
}

// detectHalted recomputes Runtime.Halted from the current configuration:
// halted iff at least one active atomic is final. It is a recomputation,
// not a latch, because a rewind can move the configuration back out of a
// final state.
func (e *Engine) detectHalted() {
	for _, n := range e.activeAtomicsOrdered() {
		if n.Final {
			e.Runtime.Halted = true
			return
		}
	}
	e.Runtime.Halted = false
}

// Start activates the initial configuration (construction path) or runs the
// eventless fixpoint over an already-restored configuration (load path),
// then records the first history entry. Start is legal exactly once.
func (e *Engine) Start() error {
	if e.Runtime.Started {
		return ErrAlreadyStarted
	}
	e.Runtime.Started = true

	if !e.Runtime.Loaded {
		if err := e.activate(e.Tree.Root.Initial, true, primitives.NewEvent(primitives.InitEventType, nil)); err != nil {
			return err
		}
	}
	if _, err := e.runFixpointLoop(); err != nil {
		return err
	}
	e.detectHalted()
	if e.TimeTravelEnabled {
		e.History.Record(e.Runtime.Snapshot())
	}
	return nil
}

// Load installs snap as the starting configuration instead of activating
// the tree's declared initial state. Load is only legal before Start, and
// does not itself run the fixpoint; the caller must call Start afterward.
func (e *Engine) Load(snap Snapshot) error {
	if e.Runtime.Started {
		return ErrLoadAfterStart
	}
	if len(snap.Configuration) == 0 {
		return ErrEmptySnapshot
	}
	for _, id := range snap.Configuration {
		if _, ok := e.Tree.ByID[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnresolvedState, id)
		}
	}
	e.Runtime.Restore(snap)
	e.Runtime.Loaded = true
	return nil
}

// Send delivers one event through a full macrostep: event-driven selection
// and application, followed by the eventless fixpoint, followed by halted
// detection and (if enabled) a history append. A halted machine silently
// ignores further sends. Re-entrant calls — a reducer invoked by Send
// calling Send again on the same Engine — are rejected rather than
// silently nesting.
func (e *Engine) Send(event primitives.Event) error {
	if !e.Runtime.Started {
		return ErrNotStarted
	}
	if e.Runtime.Halted {
		return nil
	}
	if e.inSend {
		return ErrReentrantSend
	}
	e.inSend = true
	defer func() { e.inSend = false }()

	if e.TimeTravelEnabled && e.History.Cursor() < e.History.Len()-1 {
		e.History.DiscardAfterCursor()
	}

	round, err := e.selectTransitions(modeEvent, event)
	if err != nil {
		return err
	}
	changed := false
	for _, s := range round {
		if err := e.applyTransition(s.trans, event); err != nil {
			return err
		}
		changed = true
	}

	fixChanged, err := e.runFixpointLoop()
	if err != nil {
		return err
	}
	changed = changed || fixChanged

	e.detectHalted()
	if e.TimeTravelEnabled && changed {
		e.History.Record(e.Runtime.Snapshot())
	}
	return nil
}

// Rewind moves the time-travel cursor back by n steps (clamped) and
// restores that snapshot into the live Runtime.
func (e *Engine) Rewind(n int) (Snapshot, error) {
	if !e.TimeTravelEnabled {
		return Snapshot{}, ErrTimeTravelOff
	}
	if !e.Runtime.Started {
		return Snapshot{}, ErrNotStarted
	}
	snap := e.History.Rewind(n)
	e.Runtime.Restore(snap)
	e.detectHalted()
	return snap, nil
}

// Forward moves the time-travel cursor ahead by n steps (clamped) and
// restores that snapshot into the live Runtime.
func (e *Engine) Forward(n int) (Snapshot, error) {
	if !e.TimeTravelEnabled {
		return Snapshot{}, ErrTimeTravelOff
	}
	if !e.Runtime.Started {
		return Snapshot{}, ErrNotStarted
	}
	snap := e.History.Forward(n)
	e.Runtime.Restore(snap)
	e.detectHalted()
	return snap, nil
}

// Dump returns the current snapshot, independent of whether time travel is
// enabled.
func (e *Engine) Dump() (Snapshot, error) {
	if len(e.Runtime.Configuration) == 0 {
		return Snapshot{}, ErrNoSnapshots
	}
	return e.Runtime.Snapshot(), nil
}
