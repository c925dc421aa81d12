package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/latticefsm/hfsm/internal/core"
)

// DefaultVisualizer renders a compiled Tree as Graphviz DOT or as a JSON
// tree dump, highlighting the currently active configuration. It walks
// *core.Node directly: each transition already carries its resolved
// *Node target, so no separate id-to-node lookup is needed while
// rendering edges.
type DefaultVisualizer struct{}

// jsonNode is the exported shape for ExportJSON — a plain tree, not the
// internal Node (which carries unexported fields and back-pointers that
// would make json.Marshal recurse forever through Parent).
type jsonNode struct {
	ID       string      `json:"id"`
	Kind     string      `json:"kind"`
	Final    bool        `json:"final,omitempty"`
	Active   bool        `json:"active,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

// ExportDOT generates Graphviz DOT source for tree, coloring every node
// currently present in active.
func (v *DefaultVisualizer) ExportDOT(tree *core.Tree, active map[string]struct{}) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Statechart {\n  rankdir=LR;\n  node [shape=box, fontsize=10, style=rounded];\n  edge [fontsize=9];\n")

	for _, child := range tree.Root.Children {
		renderNode(&buf, child, active)
	}
	renderEdges(&buf, tree.Root)

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes tree's shape (without the synthetic root) and the
// active configuration to JSON.
func (v *DefaultVisualizer) ExportJSON(tree *core.Tree, active map[string]struct{}) ([]byte, error) {
	roots := make([]*jsonNode, 0, len(tree.Root.Children))
	for _, child := range tree.Root.Children {
		roots = append(roots, toJSONNode(child, active))
	}
	return json.MarshalIndent(roots, "", "  ")
}

func toJSONNode(n *core.Node, active map[string]struct{}) *jsonNode {
	_, isActive := active[n.ID]
	jn := &jsonNode{ID: n.ID, Kind: n.Kind.String(), Final: n.Final, Active: isActive}
	for _, c := range n.Children {
		jn.Children = append(jn.Children, toJSONNode(c, active))
	}
	return jn
}

func renderNode(buf *bytes.Buffer, n *core.Node, active map[string]struct{}) {
	_, isActive := active[n.ID]
	if len(n.Children) > 0 {
		fmt.Fprintf(buf, "  subgraph cluster_%s {\n", dotSafe(n.ID))
		style := ""
		if isActive {
			style = " style=filled fillcolor=orange"
		}
		fmt.Fprintf(buf, "    label=\"%s (%s)\"%s;\n", n.ID, n.Kind, style)
		for _, c := range n.Children {
			renderNode(buf, c, active)
		}
		buf.WriteString("  }\n")
		return
	}
	style := ""
	if isActive {
		style = " style=filled fillcolor=lightgreen"
	}
	fmt.Fprintf(buf, "  \"%s\" [label=\"%s\"%s];\n", n.ID, n.ID, style)
}

func renderEdges(buf *bytes.Buffer, n *core.Node) {
	for eventType, list := range n.On {
		for _, t := range list {
			if t.Target != nil {
				fmt.Fprintf(buf, "  \"%s\" -> \"%s\" [label=\"%s\"];\n", n.ID, t.Target.ID, eventType)
			}
		}
	}
	for _, t := range n.Always {
		if t.Target != nil {
			fmt.Fprintf(buf, "  \"%s\" -> \"%s\" [label=\"always\"];\n", n.ID, t.Target.ID)
		}
	}
	for _, c := range n.Children {
		renderEdges(buf, c)
	}
}

func dotSafe(id string) string {
	out := []byte(id)
	for i, b := range out {
		if b == '.' {
			out[i] = '_'
		}
	}
	return string(out)
}
