package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outbound event metrics, labelled by topic and event type so a silent
// moderation stream shows up separately from submissions.
var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events written to Kafka.",
		},
		[]string{"topic", "event_type"},
	)

	eventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "events",
			Name:      "publish_failures_total",
			Help:      "Domain events the writer rejected.",
		},
		[]string{"topic", "event_type"},
	)

	writeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "events",
			Name:      "write_duration_seconds",
			Help:      "Time spent in a single Kafka write.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"topic"},
	)
)
