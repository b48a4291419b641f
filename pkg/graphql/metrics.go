package graphql

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks executed GraphQL requests by operation and result.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odyssey_graphql_requests_total",
			Help: "Total number of GraphQL requests",
		},
		[]string{"operation", "result"},
	)

	// RequestDurationSeconds tracks request round-trip latency.
	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "odyssey_graphql_request_duration_seconds",
			Help:    "GraphQL request round-trip latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
