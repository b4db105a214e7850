package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Job source client
	SourceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfeed_source_requests_total",
			Help: "Requests issued to the remote job source",
		},
		[]string{"op", "outcome"},
	)

	SourceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobfeed_source_request_duration_seconds",
			Help:    "Remote job source request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// Feed cache
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfeed_feed_fetches_total",
			Help: "Feed fetch completions by how they were handled (applied, degraded, stale, canceled)",
		},
		[]string{"outcome"},
	)

	FeedDegraded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobfeed_feed_degraded",
			Help: "1 while the displayed feed is the placeholder result",
		},
	)

	PollTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobfeed_poll_ticks_total",
			Help: "Poll scheduler ticks",
		},
	)

	SnapshotsPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobfeed_snapshots_pruned_total",
			Help: "Feed snapshots removed by retention",
		},
	)

	EventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobfeed_event_subscribers",
			Help: "Active event stream subscribers",
		},
	)

	// HTTP surface
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfeed_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobfeed_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
