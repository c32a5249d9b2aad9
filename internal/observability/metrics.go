package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors the pipeline reports to.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	SlicesEmitted prometheus.Counter
}

// NewMetrics creates the collectors and registers them with the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marine_fields_runs_total",
				Help: "Pipeline runs by parameter and outcome.",
			},
			[]string{"parameter", "outcome"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marine_fields_stage_duration_seconds",
				Help:    "Duration of each pipeline stage.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"stage"},
		),
		SlicesEmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "marine_fields_slices_emitted_total",
				Help: "Field slices written by the emitter.",
			},
		),
	}
	reg.MustRegister(m.RunsTotal, m.StageDuration, m.SlicesEmitted)
	return m
}

// NewMetricsForTesting creates collectors on a private registry so tests
// never collide on the default one.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// ObserveStage records the elapsed time of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}
