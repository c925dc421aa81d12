package production

import (
	"testing"

	"github.com/latticefsm/hfsm/internal/core"
)

func TestCallbackActivityPublisher_ReceivesStartAndStop(t *testing.T) {
	var events []ActivityEvent
	pub := NewCallbackActivityPublisher(func(e ActivityEvent) {
		events = append(events, e)
	})

	meta := core.ActivityMetadata{Type: "polling", StateID: "active", InstanceID: 1}
	pub.Activate(meta)
	pub.Deactivate(meta)

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if !events[0].Started {
		t.Error("first event should be Started=true")
	}
	if events[1].Started {
		t.Error("second event should be Started=false")
	}
	if events[0].Metadata != meta {
		t.Errorf("metadata mismatch: %+v != %+v", events[0].Metadata, meta)
	}
}

func TestChannelActivityPublisher_SendsSynchronously(t *testing.T) {
	ch := make(chan ActivityEvent, 2)
	pub := NewChannelActivityPublisher(ch)

	meta := core.ActivityMetadata{Type: "polling", StateID: "active", InstanceID: 1}
	pub.Activate(meta)
	pub.Deactivate(meta)

	close(ch)
	var got []ActivityEvent
	for e := range ch {
		got = append(got, e)
	}
	if len(got) != 2 || !got[0].Started || got[1].Started {
		t.Fatalf("unexpected events: %+v", got)
	}
}
