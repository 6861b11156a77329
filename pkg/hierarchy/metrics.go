package hierarchy

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the build's progress to a prometheus registry; the
// orchestrator owns one per Builder and registers it once.
type Metrics struct {
	shortcutsCreated prometheus.Counter
	nodesContracted  prometheus.Counter
	buildDuration    prometheus.Histogram
}

// NewMetrics constructs and registers a Metrics against reg. Passing a
// nil registry (tests, one-off CLI runs without a debug server) is
// valid: the counters still work, they're just never scraped.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		shortcutsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hierarchybuilder",
			Name:      "shortcuts_created_total",
			Help:      "Shortcut edges created while assembling coarser-level tiles.",
		}),
		nodesContracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hierarchybuilder",
			Name:      "nodes_contracted_total",
			Help:      "Promoted nodes whose through-edges were replaced by shortcuts.",
		}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hierarchybuilder",
			Name:      "level_build_duration_seconds",
			Help:      "Wall-clock time spent assembling one level transition.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.shortcutsCreated, m.nodesContracted, m.buildDuration)
	}
	return m
}
