package core

import (
	"fmt"
	"strings"

	"github.com/latticefsm/hfsm/internal/primitives"
)

// CompileError is a fatal error raised at construction time: an unknown
// initial key, a malformed state declaration, or duplicate keys within a
// parent. No machine is produced when compilation fails.
type CompileError struct {
	Path string
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("hfsm: compile error: %s", e.Msg)
	}
	return fmt.Sprintf("hfsm: compile error at %q: %s", e.Path, e.Msg)
}

// Compile turns a declarative primitives.Config into an immutable Tree and
// the Registry needed to evaluate it. Compilation is one-shot and never
// mutates cfg.
func Compile(cfg primitives.Config) (*Tree, *Registry, error) {
	if cfg.Initial == "" {
		return nil, nil, &CompileError{Msg: "top-level initial is required"}
	}
	if len(cfg.States) == 0 {
		return nil, nil, &CompileError{Msg: "at least one top-level state is required"}
	}

	root := &Node{ID: "", Key: "", Kind: Compound}
	tree := &Tree{Root: root, ByID: map[string]*Node{"": root}, order: []*Node{root}}

	seen := map[string]bool{}
	for _, decl := range cfg.States {
		if decl.Key == "" {
			return nil, nil, &CompileError{Msg: "state declaration missing key"}
		}
		if seen[decl.Key] {
			return nil, nil, &CompileError{Path: decl.Key, Msg: "duplicate key within parent"}
		}
		seen[decl.Key] = true
		child, err := buildNode(decl, root, tree)
		if err != nil {
			return nil, nil, err
		}
		root.Children = append(root.Children, child)
	}

	initialChild, ok := tree.ByID[cfg.Initial]
	if !ok || initialChild.Parent != root {
		return nil, nil, &CompileError{Msg: fmt.Sprintf("unknown initial state %q", cfg.Initial)}
	}
	root.Initial = initialChild

	rootOn, rootAlways, err := compileTransitionSet(root.ID, cfg.On, nil)
	if err != nil {
		return nil, nil, err
	}
	root.On = rootOn
	_ = rootAlways // the synthetic root has no `always` field in the Config shape

	// Second pass: resolve every transition target now that every id exists.
	for _, n := range tree.ByID {
		for _, list := range n.On {
			for _, t := range list {
				resolveTarget(t, n, tree)
			}
		}
		for _, t := range n.Always {
			resolveTarget(t, n, tree)
		}
	}

	registry := NewRegistry(cfg.Guards, cfg.Reducers, tree)
	return tree, registry, nil
}

// buildNode compiles decl (and its subtree) into a Node, assigning it the
// absolute id parent.ID + "." + decl.Key (or bare decl.Key under the root).
func buildNode(decl *primitives.StateDecl, parent *Node, tree *Tree) (*Node, error) {
	id := decl.Key
	if parent.ID != "" {
		id = parent.ID + "." + decl.Key
	}
	if _, exists := tree.ByID[id]; exists {
		return nil, &CompileError{Path: id, Msg: "duplicate node id"}
	}

	kind, final, err := inferKind(decl)
	if err != nil {
		return nil, &CompileError{Path: id, Msg: err.Error()}
	}

	n := &Node{
		ID:         id,
		Key:        decl.Key,
		Kind:       kind,
		Final:      final,
		Parent:     parent,
		Entry:      append([]string(nil), decl.OnEntry...),
		Exit:       append([]string(nil), decl.OnExit...),
		Activities: append([]string(nil), decl.Activities...),
	}
	tree.ByID[id] = n
	tree.order = append(tree.order, n)

	seen := map[string]bool{}
	for _, childDecl := range decl.States {
		if childDecl.Key == "" {
			return nil, &CompileError{Path: id, Msg: "child state declaration missing key"}
		}
		if seen[childDecl.Key] {
			return nil, &CompileError{Path: id, Msg: fmt.Sprintf("duplicate key %q within parent", childDecl.Key)}
		}
		seen[childDecl.Key] = true
		child, err := buildNode(childDecl, n, tree)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
		if n.Kind == Parallel {
			n.Regions = append(n.Regions, child)
		}
	}

	if n.Kind == Compound {
		if decl.Initial == "" {
			return nil, &CompileError{Path: id, Msg: "compound state requires initial"}
		}
		initialID := id + "." + decl.Initial
		initialChild, ok := tree.ByID[initialID]
		if !ok {
			return nil, &CompileError{Path: id, Msg: fmt.Sprintf("initial child %q not found", decl.Initial)}
		}
		n.Initial = initialChild
	}

	on, always, err := compileTransitionSet(id, decl.On, decl.Always)
	if err != nil {
		return nil, err
	}
	n.On = on
	n.Always = always

	return n, nil
}

// inferKind applies the declared-vs-inferred kind rules: an explicit
// "parallel"/"final" type always wins; otherwise a state with children and
// no Initial is inferred as parallel, and one with children and an
// Initial is inferred as compound.
func inferKind(decl *primitives.StateDecl) (NodeKind, bool, error) {
	switch decl.Type {
	case "parallel":
		if len(decl.States) == 0 {
			return 0, false, fmt.Errorf("parallel state requires states")
		}
		return Parallel, false, nil
	case "final":
		if len(decl.States) > 0 {
			return 0, false, fmt.Errorf("final state cannot have children")
		}
		return Atomic, true, nil
	case "":
		if len(decl.States) == 0 {
			return Atomic, false, nil
		}
		if decl.Initial == "" {
			// Backwards-compatible inference: states without an explicit
			// initial are treated as parallel.
			return Parallel, false, nil
		}
		return Compound, false, nil
	default:
		return 0, false, fmt.Errorf("unknown state type %q", decl.Type)
	}
}

// compileTransitionSet normalizes a state's On map and Always value into
// ordered *Transition lists, indexed for later target resolution.
func compileTransitionSet(sourceID string, on map[string]any, always any) (map[string][]*Transition, []*Transition, error) {
	var onOut map[string][]*Transition
	if len(on) > 0 {
		onOut = make(map[string][]*Transition, len(on))
		for eventType, raw := range on {
			decls, err := NormalizeTransitions(raw)
			if err != nil {
				return nil, nil, &CompileError{Path: sourceID, Msg: fmt.Sprintf("event %q: %v", eventType, err)}
			}
			list := make([]*Transition, len(decls))
			for i, d := range decls {
				list[i] = &Transition{
					SourceID:   sourceID,
					EventType:  eventType,
					Index:      i,
					TargetPath: d.Target,
					Guard:      d.Guard,
					Assign:     d.Assign,
				}
			}
			onOut[eventType] = list
		}
	}

	var alwaysOut []*Transition
	if always != nil {
		decls, err := NormalizeTransitions(always)
		if err != nil {
			return nil, nil, &CompileError{Path: sourceID, Msg: fmt.Sprintf("always: %v", err)}
		}
		alwaysOut = make([]*Transition, len(decls))
		for i, d := range decls {
			alwaysOut[i] = &Transition{
				SourceID:   sourceID,
				EventType:  "",
				Index:      i,
				TargetPath: d.Target,
				Guard:      d.Guard,
				Assign:     d.Assign,
			}
		}
	}

	return onOut, alwaysOut, nil
}

// NormalizeTransitions accepts any of the three shapes allowed for a
// transition set — a bare string target, a single transition object, or
// an ordered list — in either their native Go form or the
// map[string]any/[]any shape produced by decoding JSON/YAML, and returns
// the canonical ordered []primitives.TransitionDecl.
func NormalizeTransitions(v any) ([]primitives.TransitionDecl, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []primitives.TransitionDecl{{Target: x}}, nil
	case primitives.TransitionDecl:
		return []primitives.TransitionDecl{x}, nil
	case []primitives.TransitionDecl:
		return x, nil
	case map[string]any:
		d, err := decodeTransitionMap(x)
		if err != nil {
			return nil, err
		}
		return []primitives.TransitionDecl{d}, nil
	case []any:
		var out []primitives.TransitionDecl
		for i, elem := range x {
			decls, err := NormalizeTransitions(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, decls...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported transition shape %T", v)
	}
}

func decodeTransitionMap(m map[string]any) (primitives.TransitionDecl, error) {
	var d primitives.TransitionDecl
	if t, ok := m["target"]; ok {
		s, ok := t.(string)
		if !ok {
			return d, fmt.Errorf("target must be a string")
		}
		d.Target = s
	}
	if a, ok := m["assign"]; ok {
		s, ok := a.(string)
		if !ok {
			return d, fmt.Errorf("assign must be a string")
		}
		d.Assign = s
	}
	if g, ok := m["guard"]; ok {
		expr, err := decodeGuardAny(g)
		if err != nil {
			return d, err
		}
		d.Guard = expr
	}
	return d, nil
}

// decodeGuardAny accepts a bare guard name (string), a typed GuardExpr, or
// the map[string]any shape {kind, ref, operands} for full AND/OR/NOT nesting.
func decodeGuardAny(v any) (*primitives.GuardExpr, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		g := primitives.Guard(x)
		return &g, nil
	case primitives.GuardExpr:
		return &x, nil
	case *primitives.GuardExpr:
		return x, nil
	case map[string]any:
		kind, _ := x["kind"].(string)
		switch primitives.GuardExprKind(kind) {
		case primitives.GuardRef:
			ref, _ := x["ref"].(string)
			g := primitives.Guard(ref)
			return &g, nil
		case primitives.GuardAnd, primitives.GuardOr, primitives.GuardNot:
			rawOperands, _ := x["operands"].([]any)
			operands := make([]primitives.GuardExpr, 0, len(rawOperands))
			for _, raw := range rawOperands {
				sub, err := decodeGuardAny(raw)
				if err != nil {
					return nil, err
				}
				if sub != nil {
					operands = append(operands, *sub)
				}
			}
			return &primitives.GuardExpr{Kind: primitives.GuardExprKind(kind), Operands: operands}, nil
		default:
			return nil, fmt.Errorf("unknown guard kind %q", kind)
		}
	default:
		return nil, fmt.Errorf("unsupported guard shape %T", v)
	}
}

// resolveTarget applies the two-pass target resolution precedence:
// (1) exact absolute id, (2) sibling of the source, (3) any top-level key.
// Unresolved targets are left as written (t.Target stays nil) and surface
// as a resolution error the first time the step engine considers them.
func resolveTarget(t *Transition, source *Node, tree *Tree) {
	if t.IsInternal() {
		return
	}

	// (1) Exact match of a genuine absolute id: only meaningful for
	// multi-segment paths, since a bare (single-segment) key is ambiguous
	// between "sibling of the source" and "top-level key" and must go
	// through the precedence below instead. This ordering is load-bearing:
	// it means a bare key refers to a sibling, not an unrelated top-level
	// state of the same name.
	if strings.Contains(t.TargetPath, ".") {
		if n, ok := tree.ByID[t.TargetPath]; ok {
			t.Target = n
			return
		}
	}

	// (2) Sibling of the source: same parent, matching key.
	if source.Parent != nil {
		siblingID := t.TargetPath
		if source.Parent.ID != "" {
			siblingID = source.Parent.ID + "." + t.TargetPath
		}
		if n, ok := tree.ByID[siblingID]; ok && n.Parent == source.Parent {
			t.Target = n
			return
		}
	}

	// (3) Any top-level state key.
	if n, ok := tree.ByID[t.TargetPath]; ok && n.Parent == tree.Root {
		t.Target = n
		return
	}

	t.resolutionErr = fmt.Errorf("hfsm: transition target %q (from %q, event %q) does not resolve to any node", t.TargetPath, source.ID, t.EventType)
}
