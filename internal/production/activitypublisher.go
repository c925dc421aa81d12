package production

import "github.com/latticefsm/hfsm/internal/core"

// ActivityEvent bundles an activity transition (start or stop) with its
// metadata, the shape a host actually wants to receive.
type ActivityEvent struct {
	Metadata core.ActivityMetadata
	Started  bool // true on activation, false on deactivation
}

// ChannelActivityPublisher forwards activity start/stop notifications to a
// Go channel, synchronously, as part of whatever Engine call triggered the
// activation/deactivation. The send happens directly on the caller's own
// goroutine; nothing here spawns a background sender.
type ChannelActivityPublisher struct {
	ch chan<- ActivityEvent
}

// NewChannelActivityPublisher wraps ch. A full, unbuffered channel with no
// reader will make activation/deactivation block; size ch accordingly.
func NewChannelActivityPublisher(ch chan<- ActivityEvent) *ChannelActivityPublisher {
	return &ChannelActivityPublisher{ch: ch}
}

// Activate implements core.ActivityObserver.
func (p *ChannelActivityPublisher) Activate(meta core.ActivityMetadata) {
	p.ch <- ActivityEvent{Metadata: meta, Started: true}
}

// Deactivate implements core.ActivityObserver.
func (p *ChannelActivityPublisher) Deactivate(meta core.ActivityMetadata) {
	p.ch <- ActivityEvent{Metadata: meta, Started: false}
}

// CallbackActivityPublisher invokes a plain function synchronously on
// every activity start/stop — the simplest possible core.ActivityObserver,
// useful for tests and for hosts that just want to append to a slice.
type CallbackActivityPublisher struct {
	OnEvent func(ActivityEvent)
}

// NewCallbackActivityPublisher wraps fn.
func NewCallbackActivityPublisher(fn func(ActivityEvent)) *CallbackActivityPublisher {
	return &CallbackActivityPublisher{OnEvent: fn}
}

// Activate implements core.ActivityObserver.
func (p *CallbackActivityPublisher) Activate(meta core.ActivityMetadata) {
	p.OnEvent(ActivityEvent{Metadata: meta, Started: true})
}

// Deactivate implements core.ActivityObserver.
func (p *CallbackActivityPublisher) Deactivate(meta core.ActivityMetadata) {
	p.OnEvent(ActivityEvent{Metadata: meta, Started: false})
}
