package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"horror-pipeline/types"
)

// Metrics exposes cycle outcomes as Prometheus counters
type Metrics struct {
	registry           *prometheus.Registry
	cyclesTotal        *prometheus.CounterVec
	artifactsPublished prometheus.Counter
}

// New creates a Metrics instance with its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		registry: reg,
		cyclesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "automation_cycles_total",
			Help: "Completed automation cycles by outcome.",
		}, []string{"status"}),
		artifactsPublished: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "automation_artifacts_published_total",
			Help: "Artifacts successfully published to YouTube.",
		}),
	}
}

// RecordCycle updates counters for one completed cycle
func (m *Metrics) RecordCycle(result types.CycleResult) {
	m.cyclesTotal.WithLabelValues(string(result.Status)).Inc()
	m.artifactsPublished.Add(float64(len(result.Artifacts)))
}

// Handler returns the /metrics HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
