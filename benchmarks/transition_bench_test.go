// Package benchmarks measures step-engine transition throughput for a
// handful of representative topologies.
package benchmarks

import (
	"testing"

	"github.com/latticefsm/hfsm"
	"github.com/latticefsm/hfsm/builder"
)

func simpleConfig() hfsm.Config {
	return builder.NewMachineBuilder("idle").
		State("idle").On("tick", hfsm.TransitionDecl{Target: "idle"}).End().
		Build()
}

func BenchmarkSimpleTransition(b *testing.B) {
	cfg := simpleConfig()
	m, err := hfsm.Construct(cfg)
	if err != nil {
		b.Fatal(err)
	}
	if err := m.Start(); err != nil {
		b.Fatal(err)
	}
	event := hfsm.NewEvent("tick", nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := m.Send(event); err != nil {
			b.Fatal(err)
		}
	}
}

func hierarchicalConfig() hfsm.Config {
	mb := builder.NewMachineBuilder("parent")
	sb := mb.State("parent").Initial("leaf1")
	sb.Child("leaf1").On("tick", hfsm.TransitionDecl{Target: "leaf2"})
	sb.Child("leaf2").On("tick", hfsm.TransitionDecl{Target: "leaf1"})
	return mb.Build()
}

func BenchmarkHierarchicalTransition(b *testing.B) {
	cfg := hierarchicalConfig()
	m, err := hfsm.Construct(cfg)
	if err != nil {
		b.Fatal(err)
	}
	if err := m.Start(); err != nil {
		b.Fatal(err)
	}
	event := hfsm.NewEvent("tick", nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := m.Send(event); err != nil {
			b.Fatal(err)
		}
	}
}

func parallelConfig() hfsm.Config {
	mb := builder.NewMachineBuilder("par")
	sb := mb.State("par").Parallel()
	sb.Child("region1").On("tick", hfsm.TransitionDecl{Target: "region1"})
	sb.Child("region2").On("tick", hfsm.TransitionDecl{Target: "region2"})
	return mb.Build()
}

func BenchmarkParallelTransition(b *testing.B) {
	cfg := parallelConfig()
	m, err := hfsm.Construct(cfg)
	if err != nil {
		b.Fatal(err)
	}
	if err := m.Start(); err != nil {
		b.Fatal(err)
	}
	event := hfsm.NewEvent("tick", nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := m.Send(event); err != nil {
			b.Fatal(err)
		}
	}
}

func guardedConfig() hfsm.Config {
	always := hfsm.Guard("always")
	return builder.NewMachineBuilder("idle").
		State("idle").On("tick", hfsm.TransitionDecl{Target: "idle", Guard: &always}).End().
		Build()
}

func BenchmarkGuardedTransition(b *testing.B) {
	cfg := guardedConfig()
	cfg.Guards = map[string]hfsm.GuardFunc{
		"always": func(ctx hfsm.Context, event hfsm.Event, nodeID string) bool { return true },
	}
	m, err := hfsm.Construct(cfg)
	if err != nil {
		b.Fatal(err)
	}
	if err := m.Start(); err != nil {
		b.Fatal(err)
	}
	event := hfsm.NewEvent("tick", nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := m.Send(event); err != nil {
			b.Fatal(err)
		}
	}
}
