package production

import (
	"reflect"
	"testing"

	"github.com/latticefsm/hfsm/internal/core"
)

// JSON decodes every number into float64, so the round-trip fixture for
// the JSON persister uses a float64 context value to stay comparable
// with reflect.DeepEqual after Load.
func jsonSampleSnapshot() core.Snapshot {
	return core.Snapshot{
		Context:       map[string]any{"count": float64(3)},
		Configuration: []string{"active"},
		StateCounters: map[string]int{"active": 1},
	}
}

// yaml.v3 decodes a whole-number scalar into int, so the YAML fixture uses
// an int context value instead.
func yamlSampleSnapshot() core.Snapshot {
	return core.Snapshot{
		Context:       map[string]any{"count": 3},
		Configuration: []string{"active"},
		StateCounters: map[string]int{"active": 1},
	}
}

func TestJSONPersister_RoundTrip(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}
	want := jsonSampleSnapshot()
	if err := p.Save("m1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := p.Load("m1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestJSONPersister_LoadMissingIsError(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}
	if _, err := p.Load("nonexistent"); err == nil {
		t.Fatal("expected an error loading a snapshot that was never saved")
	}
}

func TestYAMLPersister_RoundTrip(t *testing.T) {
	p, err := NewYAMLPersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewYAMLPersister: %v", err)
	}
	want := yamlSampleSnapshot()
	if err := p.Save("m1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := p.Load("m1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestYAMLPersister_LoadMissingIsError(t *testing.T) {
	p, err := NewYAMLPersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewYAMLPersister: %v", err)
	}
	if _, err := p.Load("nonexistent"); err == nil {
		t.Fatal("expected an error loading a snapshot that was never saved")
	}
}
