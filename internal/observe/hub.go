package observe

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/trichroma/internal/ipc"
	"github.com/GriffinCanCode/trichroma/internal/supervisor"
)

// subscriberBuffer bounds how far a stream subscriber may lag before
// events are dropped for it.
const subscriberBuffer = 16

// Event is a single progress frame pushed to stream subscribers.
type Event struct {
	Type      string     `json:"type"`
	Best      int        `json:"best"`
	Pairs     []ipc.Pair `json:"pairs,omitempty"`
	Consumed  uint64     `json:"consumed"`
	Timestamp int64      `json:"timestamp"`
}

// EventFrom converts supervisor progress into a stream event.
func EventFrom(p supervisor.Progress) Event {
	typ := "improvement"
	if p.Solved {
		typ = "solved"
	}
	return Event{
		Type:      typ,
		Best:      p.Best,
		Pairs:     p.Pairs,
		Consumed:  p.Consumed,
		Timestamp: time.Now().Unix(),
	}
}

// Hub fans progress events out to stream subscribers.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a buffered event feed. The feed closes when the
// returned cancel function runs or when the hub shuts down.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Broadcast delivers ev to every subscriber without blocking. A
// subscriber with a full buffer misses the event.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Len reports the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close terminates every subscription. Further broadcasts are no-ops
// and further subscriptions receive a closed feed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
