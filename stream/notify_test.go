package stream

import (
	"testing"
	"time"
)

func TestNotifierDeliversInOrder(t *testing.T) {
	n := NewNotifier()
	events, cancel := n.Subscribe(4)
	defer cancel()

	n.Publish(Status{Text: "one"})
	n.Publish(Status{Text: "two"})

	first := (<-events).(Status)
	second := (<-events).(Status)
	if first.Text != "one" || second.Text != "two" {
		t.Errorf("order = %q, %q; want one, two", first.Text, second.Text)
	}
}

func TestNotifierNeverBlocksOnSlowSubscriber(t *testing.T) {
	n := NewNotifier()
	_, cancel := n.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Publish(Status{Text: "flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publishing blocked on an unread subscriber")
	}
}

func TestNotifierCancelClosesChannel(t *testing.T) {
	n := NewNotifier()
	events, cancel := n.Subscribe(1)
	cancel()
	cancel() // idempotent

	if _, open := <-events; open {
		t.Error("cancel should close the subscription channel")
	}
	n.Publish(Status{Text: "late"}) // must not panic on a removed subscriber
}
