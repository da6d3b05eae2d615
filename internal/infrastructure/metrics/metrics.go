package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "asset_gateway"

// Outcome labels of upstream calls.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeTimeout     = "timeout"
	OutcomeError       = "error"
)

var (
	// UpstreamRequests counts adapter calls by chain and outcome.
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Outbound chain RPC calls by chain and outcome.",
	}, []string{"chain", "outcome"})

	// UpstreamDuration observes adapter call latency.
	UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of outbound chain RPC calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain"})

	// HTTPRequests counts served API requests by route and status code.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Served API requests by route and status.",
	}, []string{"route", "status"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers the collectors with the default registry. Safe to call repeatedly.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(UpstreamRequests, UpstreamDuration, HTTPRequests)
	})
}
