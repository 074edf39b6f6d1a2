package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for outgoing API traffic.
type Metrics struct {
	registry *prometheus.Registry

	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	AuthFailuresTotal  prometheus.Counter
	TransportErrors    *prometheus.CounterVec
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		APIRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acmlctl_api_requests_total",
			Help: "Total number of requests issued to the platform API.",
		}, []string{"method", "resource", "status_code"}),

		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acmlctl_api_request_duration_seconds",
			Help:    "Platform API request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "resource"}),

		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acmlctl_auth_failures_total",
			Help: "Total number of requests rejected by the platform as unauthenticated.",
		}),

		TransportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acmlctl_transport_errors_total",
			Help: "Total number of transport-level request failures by error type.",
		}, []string{"error_type"}),
	}

	reg.MustRegister(
		m.APIRequestsTotal,
		m.APIRequestDuration,
		m.AuthFailuresTotal,
		m.TransportErrors,
	)

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one completed API request.
func (m *Metrics) ObserveRequest(method, resource string, statusCode int, seconds float64) {
	m.APIRequestsTotal.WithLabelValues(method, resource, fmt.Sprintf("%d", statusCode)).Inc()
	m.APIRequestDuration.WithLabelValues(method, resource).Observe(seconds)
}

// IncAuthFailure increments the authentication failure counter.
func (m *Metrics) IncAuthFailure() {
	m.AuthFailuresTotal.Inc()
}

// IncTransportError increments the transport error counter.
func (m *Metrics) IncTransportError(errorType string) {
	m.TransportErrors.WithLabelValues(errorType).Inc()
}
