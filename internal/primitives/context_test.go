package primitives

import "testing"

func TestContext_MergeDoesNotMutateOriginal(t *testing.T) {
	base := NewContext(map[string]any{"count": 0})
	merged := base.Merge(map[string]any{"count": 1})

	if v, _ := base.Get("count"); v != 0 {
		t.Fatalf("base.Get(count) = %v, want unchanged 0", v)
	}
	if v, _ := merged.Get("count"); v != 1 {
		t.Fatalf("merged.Get(count) = %v, want 1", v)
	}
}

func TestContext_MergeEmptyPartialReturnsSameValues(t *testing.T) {
	base := NewContext(map[string]any{"a": 1})
	merged := base.Merge(nil)

	if got := merged.Values(); got["a"] != 1 {
		t.Fatalf("merged.Values() = %v, want a=1", got)
	}
}

func TestContext_ValuesIsDefensiveCopy(t *testing.T) {
	base := NewContext(map[string]any{"a": 1})
	copy1 := base.Values()
	copy1["a"] = 999

	if v, _ := base.Get("a"); v != 1 {
		t.Fatalf("mutating a Values() copy leaked into Context: Get(a) = %v, want 1", v)
	}
}

func TestContext_NewContextCopiesInputMap(t *testing.T) {
	initial := map[string]any{"a": 1}
	ctx := NewContext(initial)
	initial["a"] = 999

	if v, _ := ctx.Get("a"); v != 1 {
		t.Fatalf("mutating the caller's map leaked into Context: Get(a) = %v, want 1", v)
	}
}

func TestContext_GetMissingKey(t *testing.T) {
	ctx := NewContext(nil)
	if _, ok := ctx.Get("missing"); ok {
		t.Fatal("Get(missing) ok = true, want false")
	}
}

// Purity check: applying the same reducer result to equal
// inputs yields equal outputs, and the input is never aliased by the
// output.
func TestContext_PurityAppliesSameEventTwiceToEqualInputsYieldsEqualOutputs(t *testing.T) {
	base := NewContext(map[string]any{"count": 5})
	reducer := func(c Context) Context {
		v, _ := c.Get("count")
		return c.Merge(map[string]any{"count": v.(int) + 1})
	}

	a := reducer(base)
	b := reducer(base)

	if av, _ := a.Get("count"); av != 6 {
		t.Fatalf("a count = %v, want 6", av)
	}
	bv, _ := b.Get("count")
	av, _ := a.Get("count")
	if av != bv {
		t.Fatalf("applying the same reducer to equal inputs diverged: %v != %v", av, bv)
	}
	if baseV, _ := base.Get("count"); baseV != 5 {
		t.Fatalf("base mutated by reducer application: count = %v, want 5", baseV)
	}
}
