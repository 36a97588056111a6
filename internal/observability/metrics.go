package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ClassifierVerdicts counts safety classifier verdicts by severity.
	ClassifierVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_classifier_verdicts_total",
		Help: "Total safety classifier verdicts by severity",
	}, []string{"severity"})

	// SubmissionsBlocked counts submissions rejected by the gate.
	SubmissionsBlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_submissions_blocked_total",
		Help: "Total submissions rejected by the submission gate",
	}, []string{"content_type"})

	// AutoFlagReports counts moderation reports created by the auto-flagger.
	AutoFlagReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_autoflag_reports_total",
		Help: "Total moderation reports created by the auto-flagger",
	}, []string{"content_type"})

	// TreeBuildLatency records discussion tree assembly latency by post size bucket.
	TreeBuildLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alcove_tree_build_latency_seconds",
		Help:    "Latency of building and ranking one post's discussion tree",
		Buckets: prometheus.DefBuckets,
	})

	// WebSocketConnectionsTotal is the gauge of active change-stream connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alcove_websocket_connections_total",
		Help: "Total number of active WebSocket change-stream connections",
	})

	// ChangeEventsPublished counts discussion change events published per post.
	ChangeEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_change_events_published_total",
		Help: "Total discussion change events published",
	}, []string{"event"})

	// WebSocketBackpressureDrops counts messages dropped on slow connections.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_websocket_backpressure_drops_total",
		Help: "Total WebSocket messages dropped due to slow or closed clients",
	}, []string{"hub", "reason"})
)

// ObserveTreeBuild records the latency of one tree build, measured from start.
func ObserveTreeBuild(start time.Time) {
	TreeBuildLatency.Observe(time.Since(start).Seconds())
}
