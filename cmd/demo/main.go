// Command demo walks the traffic-light and form-workflow scenarios
// end-to-end against the public hfsm API, persisting a snapshot between
// steps and printing a DOT rendering of the compiled tree.
package main

import (
	"fmt"
	"os"

	"github.com/latticefsm/hfsm"
	"github.com/latticefsm/hfsm/internal/production"
)

func main() {
	if err := trafficLightDemo(); err != nil {
		fmt.Fprintln(os.Stderr, "traffic light demo:", err)
		os.Exit(1)
	}
	fmt.Println()
	if err := formWorkflowDemo(); err != nil {
		fmt.Fprintln(os.Stderr, "form workflow demo:", err)
		os.Exit(1)
	}
}

func trafficLightDemo() error {
	fmt.Println("--- Traffic Light ---")

	cfg := hfsm.Config{
		InitialContext: map[string]any{"cycleCount": 0},
		Initial:        "green",
		TimeTravel:     true,
		States: []*hfsm.StateDecl{
			{Key: "green", On: map[string]any{"TIMER": hfsm.TransitionDecl{Target: "yellow", Assign: "countCycle"}}},
			{Key: "yellow", On: map[string]any{"TIMER": hfsm.TransitionDecl{Target: "red"}}},
			{Key: "red", On: map[string]any{"TIMER": hfsm.TransitionDecl{Target: "green"}}},
		},
		Reducers: map[string]hfsm.ReducerFunc{
			"countCycle": func(ctx hfsm.Context, event hfsm.Event, nodeID string) map[string]any {
				n, _ := ctx.Get("cycleCount")
				return map[string]any{"cycleCount": n.(int) + 1}
			},
		},
	}

	m, err := hfsm.Construct(cfg)
	if err != nil {
		return fmt.Errorf("construct: %w", err)
	}
	if err := m.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	persister, err := production.NewJSONPersister(os.TempDir())
	if err != nil {
		return fmt.Errorf("new persister: %w", err)
	}

	for cycle := 1; cycle <= 3; cycle++ {
		if err := m.Send(hfsm.NewEvent("TIMER", nil)); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		fmt.Printf("  cycle %d: %v (cycleCount=%v)\n", cycle, m.GetStateValue(), m.GetContext()["cycleCount"])

		snap, err := m.Dump()
		if err != nil {
			return fmt.Errorf("dump: %w", err)
		}
		if err := persister.Save("traffic-light", snap); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}

	active := make(map[string]struct{})
	for _, id := range m.GetConfiguration() {
		active[id] = struct{}{}
	}
	viz := &production.DefaultVisualizer{}
	fmt.Println(viz.ExportDOT(m.Tree(), active))

	restored, err := persister.Load("traffic-light")
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	fmt.Printf("  restored snapshot configuration: %v\n", restored.Configuration)
	return nil
}

func formWorkflowDemo() error {
	fmt.Println("--- Form Workflow ---")

	isValid := hfsm.Guard("isValid")
	cfg := hfsm.Config{
		InitialContext: map[string]any{
			"formData":       map[string]any{"email": "user@example.com"},
			"submitAttempts": 0,
		},
		Initial: "editing",
		States: []*hfsm.StateDecl{
			{Key: "editing", On: map[string]any{"SUBMIT": hfsm.TransitionDecl{Target: "submitting"}}},
			{
				Key:     "submitting",
				Initial: "validating",
				OnEntry: []string{"countSubmitAttempt"},
				States: []*hfsm.StateDecl{
					{Key: "validating", Always: []hfsm.TransitionDecl{
						{Target: "sending", Guard: &isValid},
						{Target: "failed"},
					}},
					{Key: "sending"},
					{Key: "failed"},
				},
			},
		},
		Guards: map[string]hfsm.GuardFunc{
			"isValid": func(ctx hfsm.Context, event hfsm.Event, nodeID string) bool {
				data, _ := ctx.Get("formData")
				email, _ := data.(map[string]any)["email"].(string)
				return email != ""
			},
		},
		Reducers: map[string]hfsm.ReducerFunc{
			"countSubmitAttempt": func(ctx hfsm.Context, event hfsm.Event, nodeID string) map[string]any {
				n, _ := ctx.Get("submitAttempts")
				return map[string]any{"submitAttempts": n.(int) + 1}
			},
		},
	}

	m, err := hfsm.Construct(cfg)
	if err != nil {
		return fmt.Errorf("construct: %w", err)
	}
	if err := m.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := m.Send(hfsm.NewEvent("SUBMIT", nil)); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	fmt.Printf("  state value:    %v\n", m.GetStateValue())
	fmt.Printf("  submitAttempts: %v\n", m.GetContext()["submitAttempts"])
	return nil
}
