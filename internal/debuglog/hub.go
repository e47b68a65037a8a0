package debuglog

import "sync"

// subscriberBuffer is the per-subscriber channel depth. A subscriber
// that falls this far behind starts losing entries rather than blocking
// the selection path.
const subscriberBuffer = 16

// Hub fans entries out to live subscribers (the websocket stream).
// Publishing never blocks: slow subscribers drop entries.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Entry]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Entry]struct{})}
}

// Subscribe registers a new subscriber and returns its channel plus a
// cancel func. Cancel closes the channel and must be called exactly once.
func (h *Hub) Subscribe() (<-chan Entry, func()) {
	ch := make(chan Entry, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the entry to every subscriber that has room.
func (h *Hub) Publish(entry Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- entry:
		default:
		}
	}
}

// Subscribers reports the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
