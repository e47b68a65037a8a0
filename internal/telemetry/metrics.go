// Package telemetry wires the engine's observability: Prometheus
// collectors for selection outcomes and the OpenTelemetry trace
// pipeline.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/exafyltd/vitana-context/internal/selection"
)

// Metrics holds the Prometheus collectors for the selection engine.
type Metrics struct {
	registry *prometheus.Registry

	// Selections counts completed selection calls.
	Selections prometheus.Counter

	// SelectionDuration measures end-to-end selection latency in seconds.
	SelectionDuration prometheus.Histogram

	// IncludedItems observes how many items each selection admitted.
	IncludedItems prometheus.Histogram

	// Exclusions counts rejected candidates by reason.
	Exclusions *prometheus.CounterVec

	// Diversity observes the mean pairwise dissimilarity of final sets.
	Diversity prometheus.Histogram

	// LowDiversity counts selections that fell under the configured
	// diversity minimum.
	LowDiversity prometheus.Counter
}

// NewMetrics registers the engine collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Selections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vitana",
			Subsystem: "selection",
			Name:      "total",
			Help:      "Completed selection calls.",
		}),
		SelectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vitana",
			Subsystem: "selection",
			Name:      "duration_seconds",
			Help:      "End-to-end selection latency.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		IncludedItems: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vitana",
			Subsystem: "selection",
			Name:      "included_items",
			Help:      "Items admitted per selection.",
			Buckets:   []float64{0, 2, 5, 10, 15, 20, 30, 50},
		}),
		Exclusions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitana",
			Subsystem: "selection",
			Name:      "exclusions_total",
			Help:      "Rejected candidates by reason.",
		}, []string{"reason"}),
		Diversity: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vitana",
			Subsystem: "selection",
			Name:      "diversity",
			Help:      "Mean pairwise dissimilarity of the final set.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		LowDiversity: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vitana",
			Subsystem: "selection",
			Name:      "low_diversity_total",
			Help:      "Selections whose diversity fell under the configured minimum.",
		}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Record updates every collector from one finished selection.
func (m *Metrics) Record(res *selection.Result) {
	m.Selections.Inc()
	m.SelectionDuration.Observe(float64(res.Metrics.Duration) / float64(time.Second))
	m.IncludedItems.Observe(float64(res.Metrics.TotalItems))
	m.Diversity.Observe(res.Metrics.Diversity)
	if res.Metrics.BelowMinDiversity {
		m.LowDiversity.Inc()
	}
	for reason, n := range res.Metrics.Exclusions {
		m.Exclusions.WithLabelValues(string(reason)).Add(float64(n))
	}
}
