// Package benchmarks holds shared generators for the engine's performance
// benchmarks.
package benchmarks

import (
	"fmt"

	"github.com/latticefsm/hfsm"
	"github.com/latticefsm/hfsm/builder"
)

// GenFlatConfig builds a machine with n atomic siblings cycling on "tick".
func GenFlatConfig(n int) hfsm.Config {
	if n < 1 {
		n = 1
	}
	mb := builder.NewMachineBuilder("s0")
	for i := 0; i < n; i++ {
		target := fmt.Sprintf("s%d", (i+1)%n)
		mb.State(fmt.Sprintf("s%d", i)).On("tick", hfsm.TransitionDecl{Target: target})
	}
	return mb.Build()
}

// GenDeepConfig builds depth nested compound states, each holding a
// two-leaf cycle flipping on "tick".
func GenDeepConfig(depth int) hfsm.Config {
	if depth < 1 {
		depth = 1
	}
	mb := builder.NewMachineBuilder("c0")
	sb := mb.State("c0").Initial("leaf1")
	sb.Child("leaf1").On("tick", hfsm.TransitionDecl{Target: "leaf2"}).Up()
	sb.Child("leaf2").On("tick", hfsm.TransitionDecl{Target: "leaf1"}).Up()
	for i := 1; i < depth; i++ {
		sb = sb.Child(fmt.Sprintf("c%d", i)).Initial("leaf1")
		sb.Child("leaf1").On("tick", hfsm.TransitionDecl{Target: "leaf2"}).Up()
		sb.Child("leaf2").On("tick", hfsm.TransitionDecl{Target: "leaf1"}).Up()
	}
	return mb.Build()
}
