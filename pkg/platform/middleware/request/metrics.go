package request

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	Requests        *prometheus.CounterVec
}

// NewMetrics registers the HTTP metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cyphex_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cyphex_http_requests_total",
			Help: "HTTP requests by endpoint, method and status code",
		}, []string{"endpoint", "method", "status"}),
	}
}

func (m *Metrics) ObserveEndpointLatency(endpoint, method string, status int, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint, method).Observe(durationSeconds)
	m.Requests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
}
