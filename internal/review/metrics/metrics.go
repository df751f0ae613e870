// Package metrics provides Prometheus metrics for code review requests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// CompletionsTotal counts model calls by mode (review, explain, test) and result.
	CompletionsTotal          *prometheus.CounterVec
	CompletionDurationSeconds prometheus.Histogram
	// DetectionsTotal counts detected languages, including "unknown".
	DetectionsTotal *prometheus.CounterVec
}

// New registers the review metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CompletionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyphex_review_completions_total",
			Help: "Model completions by mode and result",
		}, []string{"mode", "result"}),

		CompletionDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cyphex_review_completion_duration_seconds",
			Help:    "Latency of model completions",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),

		DetectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyphex_review_language_detections_total",
			Help: "Language detections by detected language",
		}, []string{"language"}),
	}
}

func (m *Metrics) ObserveCompletion(mode, result string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.CompletionsTotal.WithLabelValues(mode, result).Inc()
	m.CompletionDurationSeconds.Observe(durationSeconds)
}

func (m *Metrics) RecordDetection(language string) {
	if m == nil {
		return
	}
	m.DetectionsTotal.WithLabelValues(language).Inc()
}
