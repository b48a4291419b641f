package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionActive is 1 while the subscription session is established.
	SessionActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "odyssey_stream_session_active",
		Help: "Whether the subscription session is currently established",
	})

	// ReconnectAttemptsTotal tracks session redial attempts.
	ReconnectAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odyssey_stream_reconnect_attempts_total",
		Help: "Total number of session reconnection attempts",
	})

	// ReconnectFailuresTotal tracks failed redial attempts.
	ReconnectFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odyssey_stream_reconnect_failures_total",
		Help: "Total number of failed session reconnection attempts",
	})

	// ActiveSubscriptions tracks subscriptions multiplexed on the session.
	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "odyssey_stream_active_subscriptions",
		Help: "Number of active subscriptions on the session",
	})

	// EventsReceivedTotal tracks next frames routed to subscribers.
	EventsReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odyssey_stream_events_received_total",
		Help: "Total number of subscription events received",
	})

	// EventsDroppedTotal tracks events dropped because a subscriber buffer
	// was full.
	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odyssey_stream_events_dropped_total",
			Help: "Total number of subscription events dropped",
		},
		[]string{"reason"},
	)

	// SessionDurationSeconds tracks session lifetime before disconnect.
	SessionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "odyssey_stream_session_duration_seconds",
		Help:    "Duration of subscription sessions before disconnect",
		Buckets: []float64{60, 300, 600, 1800, 3600, 7200, 14400, 28800, 43200, 86400},
	})
)
