package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Bank-aggregation provider metrics
	ProviderAPIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_api_requests_total",
			Help: "Total number of bank provider API requests",
		},
		[]string{"endpoint", "status"},
	)
	ProviderAPIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "provider_api_request_duration_seconds",
			Help: "Duration of bank provider API requests in seconds",
		},
		[]string{"endpoint"},
	)

	// Reconciliation metrics
	ReconcileRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_runs_total",
			Help: "Total number of reconciliation passes",
		},
	)
	ReconcileStreamsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_streams_total",
			Help: "Recurring streams handled during reconciliation, by outcome",
		},
		[]string{"result"}, // processed, duplicate, failed
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsInFlight)

	prometheus.MustRegister(ProviderAPIRequestsTotal)
	prometheus.MustRegister(ProviderAPIRequestDuration)

	prometheus.MustRegister(ReconcileRunsTotal)
	prometheus.MustRegister(ReconcileStreamsTotal)

	prometheus.MustRegister(prometheus.NewGoCollector())
	prometheus.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
}
