// History implements time travel: a linear, branching stack of snapshots
// with a cursor, rewind/forward, and discard-on-branch semantics. It holds
// no per-node history markers and performs no history-state target
// resolution; it is pure linear snapshot history, indexed by cursor
// position rather than by any node identity.
package core

// History holds the ordered snapshots captured after start and after every
// step that changed configuration or context.
type History struct {
	snapshots []Snapshot
	cursor    int
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}

// Cursor returns the current position (0-indexed).
func (h *History) Cursor() int {
	return h.cursor
}

// Record appends snap as the new tail and advances the cursor to it. Any
// callers about to Record after a Rewind must call DiscardAfterCursor
// first if branching semantics are wanted (Engine.Send does this).
func (h *History) Record(snap Snapshot) {
	h.snapshots = append(h.snapshots, snap)
	h.cursor = len(h.snapshots) - 1
}

// DiscardAfterCursor drops every snapshot strictly after the current
// cursor position. Called before applying a new event while the cursor
// isn't at the tail, so that sending after a rewind branches history
// instead of leaving stale future snapshots in place.
func (h *History) DiscardAfterCursor() {
	h.snapshots = h.snapshots[:h.cursor+1]
}

// Current returns the snapshot at the cursor.
func (h *History) Current() Snapshot {
	return h.snapshots[h.cursor]
}

// Rewind moves the cursor back by min(n, cursor) and returns the snapshot
// there.
func (h *History) Rewind(n int) Snapshot {
	if n > h.cursor {
		n = h.cursor
	}
	h.cursor -= n
	return h.Current()
}

// Forward moves the cursor ahead by min(n, length-1-cursor) and returns the
// snapshot there.
func (h *History) Forward(n int) Snapshot {
	max := len(h.snapshots) - 1 - h.cursor
	if n > max {
		n = max
	}
	h.cursor += n
	return h.Current()
}
