package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects request and provider dispatch metrics.
type Metrics struct {
	RequestsTotal         *prometheus.CounterVec
	ProviderRequestsTotal *prometheus.CounterVec
	ProviderLatency       *prometheus.HistogramVec
}

// NewMetrics creates the metric collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "panel_requests_total",
				Help: "Total ask requests handled, labeled by outcome status.",
			},
			[]string{"status"},
		),
		ProviderRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "panel_provider_requests_total",
				Help: "Total provider invocations, labeled by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		ProviderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "panel_provider_latency_seconds",
				Help:    "Provider invocation latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.ProviderRequestsTotal, m.ProviderLatency)
	return m
}

// ObserveRequest records one handled ask request.
func (m *Metrics) ObserveRequest(status string) {
	m.RequestsTotal.WithLabelValues(status).Inc()
}

// ObserveProvider records one provider invocation with its latency.
func (m *Metrics) ObserveProvider(provider string, success bool, seconds float64) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(seconds)
}
