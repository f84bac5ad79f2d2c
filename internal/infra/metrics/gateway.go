package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		gatewayRequestsTotal,
		gatewayRequestDuration,
	)
}

var (
	// result: ok|fail
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Outbound gateway calls by gateway, operation, and result.",
		},
		[]string{"gateway", "op", "result"},
	)

	gatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of outbound gateway calls in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"gateway", "op"},
	)
)

func ObserveGatewayRequest(gateway, op string, seconds float64, ok bool) {
	result := "ok"
	if !ok {
		result = "fail"
	}
	gatewayRequestsTotal.WithLabelValues(norm(gateway), norm(op), result).Inc()
	gatewayRequestDuration.WithLabelValues(norm(gateway), norm(op)).Observe(seconds)
}
