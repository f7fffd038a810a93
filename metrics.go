package venmo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venmo_client",
			Name:      "requests_total",
			Help:      "Venmo API calls by operation and outcome (ok or error kind).",
		},
		[]string{"operation", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "venmo_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of Venmo API calls, retries included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observeRequest(op string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if e, ok := err.(*Error); ok {
			outcome = e.Kind.String()
		}
	}

	requestsTotal.WithLabelValues(op, outcome).Inc()
	requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}
