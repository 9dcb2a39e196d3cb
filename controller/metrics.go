package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "nlinkbasin"
	metricsSubsystem = "controller"
)

// Metrics holds the Prometheus instruments a Run reports phase progress,
// worker occupancy, and truncation backpressure through. Construct once
// per process via NewMetrics and reuse across Runs; a Run never
// registers its own collectors.
type Metrics struct {
	// PhaseNodesProcessed counts nodes crossed during a phase, labeled by
	// phase and n. Run reports the succ and cycles phases.
	PhaseNodesProcessed *prometheus.CounterVec

	// ActiveWorkers gauges how many D/E workers are currently running,
	// labeled by n.
	ActiveWorkers *prometheus.GaugeVec

	// QueueDepth gauges how many cycle requests are queued but not yet
	// claimed by a worker, labeled by n.
	QueueDepth *prometheus.GaugeVec

	// BasinsTruncated counts basin.Result.Truncated occurrences, labeled
	// by n.
	BasinsTruncated *prometheus.CounterVec

	// RunDurationSeconds observes total Run wall-clock time, labeled by
	// outcome (ok, cancelled, error).
	RunDurationSeconds *prometheus.HistogramVec
}

// NewMetrics registers a Metrics set against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PhaseNodesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "phase_nodes_processed_total",
				Help:      "Nodes processed per phase and N.",
			},
			[]string{"phase", "n"},
		),
		ActiveWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "active_workers",
				Help:      "D/E worker goroutines currently running, by N.",
			},
			[]string{"n"},
		),
		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "queue_depth",
				Help:      "Cycle materialization requests queued but unclaimed, by N.",
			},
			[]string{"n"},
		),
		BasinsTruncated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "basins_truncated_total",
				Help:      "Basin materializations that hit their member budget, by N.",
			},
			[]string{"n"},
		),
		RunDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of a controller Run.",
				Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 3600},
			},
			[]string{"outcome"},
		),
	}
}
