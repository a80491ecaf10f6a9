package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Total HTTP requests served, by method, route and status class
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gomart_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "path", "status"})

	// Latency of HTTP handlers
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gomart_http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Checkout outcomes, by result (approved, gateway_declined, failed)
	CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gomart_checkout_total",
		Help: "Total number of checkout attempts by outcome",
	}, []string{"result"})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		CheckoutTotal,
	)
}
