package debuglog

import "sync"

// DefaultRingSize is the bounded capacity of the in-memory debug ring.
const DefaultRingSize = 100

// Ring is a bounded in-memory log of the most recent entries. Appends
// past capacity evict the oldest entry.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
}

// NewRing creates a ring holding at most size entries. A non-positive
// size falls back to DefaultRingSize.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{cap: size}
}

// Append records an entry, evicting the oldest when full. Never fails;
// the error return satisfies Sink.
func (r *Ring) Append(entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if len(r.entries) > r.cap {
		// Shift instead of reslice so evicted entries are collectable.
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:r.cap]
	}
	return nil
}

// Snapshot returns the current entries oldest-first. The returned slice
// is a copy.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Len reports the number of buffered entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

var _ Sink = (*Ring)(nil)
