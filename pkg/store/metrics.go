package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store-level collectors, scraped at /metrics. Registered once on the
// default registry; every Store instance in the process feeds them.
var (
	metricThreadsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clinichat_threads_live",
		Help: "Number of non-archived threads currently held in memory.",
	})
	metricSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clinichat_subscribers_active",
		Help: "Number of live event subscribers (per-thread and admin).",
	})
	metricMessagesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinichat_messages_posted_total",
		Help: "Messages appended across all threads.",
	})
	metricEventsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinichat_events_delivered_total",
		Help: "Events handed to subscriber channels.",
	})
	metricEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinichat_events_dropped_total",
		Help: "Events dropped because a subscriber fell behind its buffer.",
	})
	metricThreadsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinichat_threads_archived_total",
		Help: "Threads archived by inactivity sweeps.",
	})
	metricThreadsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinichat_threads_purged_total",
		Help: "Archived threads hard-evicted by cleanup runs.",
	})
)
