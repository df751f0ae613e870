// Package metrics provides Prometheus metrics for breach lookups.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// LookupsTotal counts finished lookups by answering provider and outcome.
	LookupsTotal *prometheus.CounterVec
	// ProviderCallsTotal counts individual provider calls by result category
	// ("ok" or a provider error category).
	ProviderCallsTotal *prometheus.CounterVec
	// ProviderCallDurationSeconds is per-call upstream latency.
	ProviderCallDurationSeconds *prometheus.HistogramVec
	// FallbacksTotal counts advances from one provider to the next after a denial.
	FallbacksTotal *prometheus.CounterVec
	// BreachScore is the distribution of scores returned to clients.
	BreachScore prometheus.Histogram
}

// New registers the breach metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyphex_breach_lookups_total",
			Help: "Breach lookups by answering provider and outcome",
		}, []string{"provider", "outcome"}),

		ProviderCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyphex_breach_provider_calls_total",
			Help: "Breach provider calls by provider and result",
		}, []string{"provider", "result"}),

		ProviderCallDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cyphex_breach_provider_call_duration_seconds",
			Help:    "Latency of breach provider calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),

		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyphex_breach_fallbacks_total",
			Help: "Fallbacks from a denied provider to the next one in the chain",
		}, []string{"from", "to"}),

		BreachScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cyphex_breach_score",
			Help:    "Breach scores returned to clients",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
	}
}

func (m *Metrics) RecordLookup(provider, outcome string) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveProviderCall(provider, result string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ProviderCallsTotal.WithLabelValues(provider, result).Inc()
	m.ProviderCallDurationSeconds.WithLabelValues(provider).Observe(durationSeconds)
}

func (m *Metrics) RecordFallback(from, to string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveScore(score int) {
	if m == nil {
		return
	}
	m.BreachScore.Observe(float64(score))
}
