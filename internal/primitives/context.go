// Context is the opaque value the interpreter owns on behalf of the host.
// It is never mutated in place: every reducer application produces a new
// Context via Merge, so that a reducer's input is never aliased by its
// output and so that History snapshots captured before a step remain
// valid after it.
package primitives

// Context wraps a flat key/value map. The zero value is an empty context.
type Context struct {
	data map[string]any
}

// NewContext builds a Context seeded from initial. initial is copied
// defensively; the caller's map is never retained.
func NewContext(initial map[string]any) Context {
	data := make(map[string]any, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	return Context{data: data}
}

// Get returns the value stored under key and whether it was present.
func (c Context) Get(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// Values returns a defensive copy of the underlying map, safe for a caller
// to read or mutate without affecting c.
func (c Context) Values() map[string]any {
	out := make(map[string]any, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

// Merge shallow-overlays partial onto c and returns the resulting Context.
// c itself is untouched: merge is the only way a Context ever changes, and
// a non-empty partial always gets a fresh backing map; an empty partial
// returns c as it is. Reducers never mutate in place.
func (c Context) Merge(partial map[string]any) Context {
	if len(partial) == 0 {
		return c
	}
	out := make(map[string]any, len(c.data)+len(partial))
	for k, v := range c.data {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return Context{data: out}
}
