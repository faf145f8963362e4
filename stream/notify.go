package stream

import "sync"

// Events published by the pipeline. Subscribers receive them in the order
// produced within a tick; the asynchronous dispatch path gives no ordering
// guarantee relative to later ticks.

// FrameReady announces a freshly rendered pixel frame.
type FrameReady struct {
	Frame *Frame
}

// FrameEncoded carries a compressed frame.
type FrameEncoded struct {
	Data    []byte
	Quality int
}

// SendResult reports one device fan-out.
type SendResult struct {
	Bytes     int
	Succeeded int
	Total     int
	Quality   int
}

// Status carries diagnostic text.
type Status struct {
	Text string
}

// RenderError reports a failed render.
type RenderError struct {
	Err error
}

// A Notifier fans pipeline events out to subscribers. Publishing never
// blocks; a subscriber that falls behind loses events rather than stalling
// the tick.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan interface{}]struct{}
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	n := new(Notifier)
	n.subs = make(map[chan interface{}]struct{})
	return n
}

// Subscribe registers a subscriber with the given channel buffer. The
// returned cancel func drops the subscription and closes the channel.
func (n *Notifier) Subscribe(buffer int) (<-chan interface{}, func()) {
	ch := make(chan interface{}, buffer)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if _, ok := n.subs[ch]; ok {
			delete(n.subs, ch)
			close(ch)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (n *Notifier) Publish(event interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
