package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkoutSelectionsTotal,
		checkoutSubmissionsTotal,
		checkoutRateLimitedTotal,
	)
}

var (
	checkoutSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_selections_total",
			Help: "Initial payment-method selections by method kind.",
		},
		[]string{"method"},
	)

	checkoutSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_submissions_total",
			Help: "Checkout submissions by method and outcome (success/failed/redirect).",
		},
		[]string{"method", "outcome"},
	)

	checkoutRateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_rate_limited_total",
			Help: "Total number of checkout submissions rejected by the rate limiter.",
		},
	)
)

func IncCheckoutSelection(method string) {
	checkoutSelectionsTotal.WithLabelValues(norm(method)).Inc()
}

func IncCheckoutSubmission(method, outcome string) {
	checkoutSubmissionsTotal.WithLabelValues(norm(method), norm(outcome)).Inc()
}

func IncCheckoutRateLimited() {
	checkoutRateLimitedTotal.Inc()
}
