package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginRequests records magic-link request attempts by result
	// (sent|user_not_found|rate_limited|failure).
	LoginRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zenbild_login_requests_total",
			Help: "Total number of magic-link login requests",
		},
		[]string{"result"},
	)

	// LoginConsumes records magic-link consume attempts by result
	// (success|invalid|used|failure).
	LoginConsumes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zenbild_login_consumes_total",
			Help: "Total number of magic-link consume attempts",
		},
		[]string{"result"},
	)

	// EmailsSent counts outbound magic-link emails by provider and result.
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zenbild_emails_sent_total",
			Help: "Total number of outbound email deliveries",
		},
		[]string{"provider", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zenbild_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
