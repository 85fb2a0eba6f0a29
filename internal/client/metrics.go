package client

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// upstreamRequests - исходящие запросы по методу и итоговому статусу
	// (код ответа, "timeout" или "error" при сбое транспорта)
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reseller_upstream_requests_total",
			Help: "Total number of requests sent to the distributor API.",
		},
		[]string{"method", "status"},
	)

	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reseller_upstream_request_duration_seconds",
			Help:    "Duration of distributor API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	tokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reseller_token_refreshes_total",
			Help: "OAuth token refresh attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(upstreamRequests, upstreamLatency, tokenRefreshes)
}
