package core

// ActivityMetadata identifies one running instance of an activity: the
// activity's declared type, the node that declared it, and the entry
// counter value stamped at the moment that node was entered.
type ActivityMetadata struct {
	Type       string
	StateID    string
	InstanceID int
}

// ActivityObserver is notified synchronously as part of activation/
// deactivation — never from a background goroutine, since the interpreter
// itself does no hidden async work. A host wanting asynchronous fan-out is
// free to do that on its own side of the callback.
type ActivityObserver interface {
	Activate(meta ActivityMetadata)
	Deactivate(meta ActivityMetadata)
}

// ActiveActivities returns every (activity type, node) pair currently
// active, derived from the configuration and the entry counters.
func (e *Engine) ActiveActivities() []ActivityMetadata {
	var out []ActivityMetadata
	for _, n := range e.Tree.order {
		if n == e.Tree.Root || !e.Runtime.IsActive(n.ID) {
			continue
		}
		for _, actType := range n.Activities {
			out = append(out, ActivityMetadata{
				Type:       actType,
				StateID:    n.ID,
				InstanceID: e.Runtime.EntryCounters[n.ID],
			})
		}
	}
	return out
}

// IsActivityRelevant reports whether meta still describes a live activity
// instance: the node must be currently active and its current counter must
// equal the counter recorded at meta's entry time.
func (e *Engine) IsActivityRelevant(meta ActivityMetadata) bool {
	if !e.Runtime.IsActive(meta.StateID) {
		return false
	}
	return e.Runtime.EntryCounters[meta.StateID] == meta.InstanceID
}
