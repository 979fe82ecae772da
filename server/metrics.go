package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the workbench's Prometheus instruments on a private
// registry so tests can run servers side by side.
type metrics struct {
	registry *prometheus.Registry

	// operations counts algebra and computation executions by
	// operation name and outcome ("ok" or "error").
	operations *prometheus.CounterVec

	// requestDuration observes handler latency by route.
	requestDuration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "codsl_operations_total",
			Help: "Ontology operations executed, by operation and outcome.",
		}, []string{"operation", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codsl_http_request_duration_seconds",
			Help:    "HTTP handler latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *metrics) recordOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.operations.WithLabelValues(operation, status).Inc()
}
