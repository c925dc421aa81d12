package core

import "github.com/latticefsm/hfsm/internal/primitives"

// NodeKind is the closed variant over the three kinds of node the compiler
// ever produces. Kind affects only which structural fields on Node are
// meaningful; entry/exit/activities and transitions attach uniformly to
// every kind.
type NodeKind int

const (
	Atomic NodeKind = iota
	Compound
	Parallel
)

func (k NodeKind) String() string {
	switch k {
	case Atomic:
		return "atomic"
	case Compound:
		return "compound"
	case Parallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// Node is a single immutable node of the compiled state tree, identified by
// its absolute dotted path from the synthetic root. Once compiled, nothing
// about a Node changes for the lifetime of the Tree.
type Node struct {
	ID     string
	Key    string
	Kind   NodeKind
	Final  bool // only meaningful on Atomic nodes
	Parent *Node

	Children []*Node // declaration order
	Initial  *Node   // compound only: default substate
	Regions  []*Node // parallel only: same nodes as Children, kept separately for readability

	On     map[string][]*Transition // event type -> ordered transitions
	Always []*Transition            // ordered, no triggering event

	Entry      []string // ordered reducer names, run on entry
	Exit       []string // ordered reducer names, run on exit
	Activities []string // ordered activity type names
}

// Transition is either internal (Target == nil, reducer-only) or external
// (Target names the single node to enter). SourceID/EventType/Index
// together identify the transition instance for the selection dedup step.
type Transition struct {
	SourceID  string
	EventType string // "" for an always-transition
	Index     int    // position within its source node's list for this event

	TargetPath string // as written in configuration; "" means internal
	Target     *Node  // resolved by the compiler; nil if unresolved or internal
	Guard      *primitives.GuardExpr
	Assign     string // reducer name, or "" for none

	resolutionErr error // set if TargetPath could not be resolved to any node
}

// IsInternal reports whether t has no transition target.
func (t *Transition) IsInternal() bool {
	return t.TargetPath == ""
}

// Tree is the compiled, immutable structural model produced by the
// compiler. The synthetic root is never part of the active configuration
// but is a real *Node so that ancestor-walks and LCA computation don't need
// a special case for "above the top-level states".
type Tree struct {
	Root  *Node
	ByID  map[string]*Node // every node, including Root, keyed by absolute ID
	order []*Node          // all nodes in a stable declaration-preorder, for deterministic iteration
}

// Ancestors returns n and every ancestor up to and including the root, in
// that order (self first, root last).
func (t *Tree) Ancestors(n *Node) []*Node {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	return chain
}

// Depth returns the number of ancestor hops from n to the root (root has
// depth 0).
func (t *Tree) Depth(n *Node) int {
	d := 0
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		d++
	}
	return d
}

// IsDescendant reports whether n is a strict descendant of ancestor.
func (t *Tree) IsDescendant(n, ancestor *Node) bool {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// LCA returns the least common ancestor of a and b (always defined: the
// synthetic root is a common ancestor of every node).
func (t *Tree) LCA(a, b *Node) *Node {
	ancA := t.Ancestors(a)
	ancB := t.Ancestors(b)
	inB := make(map[*Node]bool, len(ancB))
	for _, n := range ancB {
		inB[n] = true
	}
	for _, n := range ancA {
		if inB[n] {
			return n
		}
	}
	return t.Root
}

// AtomicDescendants returns every Atomic node reachable below n (n itself
// included if n is Atomic).
func (t *Tree) AtomicDescendants(n *Node) []*Node {
	if n.Kind == Atomic {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, t.AtomicDescendants(c)...)
	}
	return out
}
