package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session metrics
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arcscan_sessions_started_total",
			Help: "Total number of research sessions started",
		},
	)

	SessionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arcscan_sessions_completed_total",
			Help: "Total number of research sessions that completed successfully",
		},
	)

	SessionsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arcscan_sessions_failed_total",
			Help: "Total number of research sessions that ended in error",
		},
	)

	// Gateway metrics
	GatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcscan_gateway_calls_total",
			Help: "Total number of upstream gateway calls",
		},
		[]string{"gateway", "status"},
	)

	GatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arcscan_gateway_call_duration_seconds",
			Help:    "Upstream gateway call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"gateway"},
	)

	ReportsRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arcscan_reports_rendered_total",
			Help: "Total number of PDF reports rendered",
		},
	)
)

// ObserveGatewayCall records one upstream call outcome.
func ObserveGatewayCall(gateway string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	GatewayCalls.WithLabelValues(gateway, status).Inc()
	GatewayCallDuration.WithLabelValues(gateway).Observe(elapsed.Seconds())
}
