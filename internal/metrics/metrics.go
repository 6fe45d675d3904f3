package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banasuko_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banasuko_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ScoringsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banasuko_scorings_total",
			Help: "Total number of scoring invocations by pattern and outcome.",
		},
		[]string{"pattern", "status"},
	)

	QuotaDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banasuko_quota_denials_total",
			Help: "Total number of requests rejected by plan or quota gating.",
		},
		[]string{"reason"},
	)

	AICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banasuko_ai_call_duration_seconds",
			Help:    "Latency of external AI model calls.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ScoringsTotal,
		QuotaDenialsTotal,
		AICallDuration,
	)
}
