// Package metrics exposes Prometheus counters for parameter translation.
package metrics

import (
	"time"

	"github.com/germanamz/solveparams/pkg/strictness"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "solveparams"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the translation collectors. A nil *Metrics records nothing.
type Metrics struct {
	translations *prometheus.CounterVec
	warnings     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New registers the collectors on reg. Each registerer can hold one set.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		translations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Parameter translations by back-end and outcome",
		}, []string{"backend", "outcome"}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Recorded translation warnings by back-end and kind",
		}, []string{"backend", "kind"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "translation_duration_seconds",
			Help:      "Time spent translating one request",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"backend"}),
	}
}

// Observe records one translation.
func (m *Metrics) Observe(backend, outcome string, warnings []strictness.Warning, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.translations.WithLabelValues(backend, outcome).Inc()
	for _, w := range warnings {
		m.warnings.WithLabelValues(backend, w.Kind.String()).Inc()
	}
	m.duration.WithLabelValues(backend).Observe(elapsed.Seconds())
}
