package flow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus metrics for engine monitoring.
//
// All metrics are namespaced under "flowgrid":
//
//	inflight_nodes            gauge      nodes currently executing
//	node_duration_seconds     histogram  per-attempt execution time, by node type and status
//	node_retries_total        counter    retry attempts, by node type
//	checkpoints_total         counter    checkpoints persisted
//	runs_total                counter    terminal runs, by status
//
// Expose them by registering on a prometheus.Registry served via
// promhttp.HandlerFor.
type Metrics struct {
	InflightNodes prometheus.Gauge
	NodeDuration  *prometheus.HistogramVec
	RetriesTotal  *prometheus.CounterVec
	Checkpoints   prometheus.Counter
	RunsTotal     *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics on the given
// registerer. Pass prometheus.DefaultRegisterer to use the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		InflightNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowgrid",
			Name:      "inflight_nodes",
			Help:      "Number of workflow nodes currently executing.",
		}),
		NodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowgrid",
			Name:      "node_duration_seconds",
			Help:      "Node execution attempt duration in seconds.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
		}, []string{"node_type", "status"}),
		RetriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgrid",
			Name:      "node_retries_total",
			Help:      "Total retry attempts across all nodes.",
		}, []string{"node_type"}),
		Checkpoints: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgrid",
			Name:      "checkpoints_total",
			Help:      "Total checkpoints persisted.",
		}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgrid",
			Name:      "runs_total",
			Help:      "Total workflow runs reaching a terminal state.",
		}, []string{"status"}),
	}
}

func (m *Metrics) nodeStarted() {
	if m != nil {
		m.InflightNodes.Inc()
	}
}

func (m *Metrics) nodeFinished(nodeType, status string, seconds float64) {
	if m != nil {
		m.InflightNodes.Dec()
		m.NodeDuration.WithLabelValues(nodeType, status).Observe(seconds)
	}
}

func (m *Metrics) retryScheduled(nodeType string) {
	if m != nil {
		m.RetriesTotal.WithLabelValues(nodeType).Inc()
	}
}

func (m *Metrics) checkpointSaved() {
	if m != nil {
		m.Checkpoints.Inc()
	}
}

func (m *Metrics) runFinished(status RunStatus) {
	if m != nil {
		m.RunsTotal.WithLabelValues(string(status)).Inc()
	}
}
