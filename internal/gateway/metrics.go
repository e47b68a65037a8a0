package gateway

import (
	"sync/atomic"
	"time"
)

// Metrics tracks gateway-level counters using atomic operations for
// lock-free concurrency. These are the request-level counters; the
// engine's own outcome metrics live on the Prometheus registry.
type Metrics struct {
	selections   atomic.Int64
	included     atomic.Int64
	errors       atomic.Int64
	totalLatency atomic.Int64 // nanoseconds
}

// RecordSelection records a completed selection request.
func (m *Metrics) RecordSelection(included int, latency time.Duration) {
	m.selections.Add(1)
	m.included.Add(int64(included))
	m.totalLatency.Add(int64(latency))
}

// RecordError records a rejected or failed request.
func (m *Metrics) RecordError() {
	m.errors.Add(1)
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	selections := m.selections.Load()
	snap := MetricsSnapshot{
		Selections:    selections,
		IncludedItems: m.included.Load(),
		Errors:        m.errors.Load(),
	}
	if selections > 0 {
		snap.AvgLatency = time.Duration(m.totalLatency.Load() / selections)
	}
	return snap
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Selections    int64         `json:"selections"`
	IncludedItems int64         `json:"included_items"`
	Errors        int64         `json:"errors"`
	AvgLatency    time.Duration `json:"avg_latency_ns"`
}
