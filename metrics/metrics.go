// Package metrics provides Prometheus metrics for the discovery API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SwipesTotal counts swipes by interaction type and outcome.
	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vibin",
			Name:      "swipes_total",
			Help:      "Total number of swipes",
		},
		[]string{"type", "outcome"},
	)

	// MatchesTotal counts matches created by mutual likes.
	MatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vibin",
			Name:      "matches_total",
			Help:      "Total number of matches created",
		},
	)

	// UndoTotal counts undo requests by result.
	UndoTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vibin",
			Name:      "undo_total",
			Help:      "Total number of undo requests",
		},
		[]string{"result"},
	)

	// DiscoveryBatchSize observes how many candidates a discovery page returned.
	DiscoveryBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vibin",
			Name:      "discovery_batch_size",
			Help:      "Distribution of discovery page sizes",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// DiscoveryDuration measures how long building a discovery page takes.
	DiscoveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vibin",
			Name:      "discovery_duration_seconds",
			Help:      "Duration of discovery queries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// SocketConnections tracks connected Socket.IO clients.
	SocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vibin",
			Name:      "socket_connections",
			Help:      "Number of connected socket clients",
		},
	)
)

// RecordSwipe records a processed swipe.
func RecordSwipe(interactionType, outcome string) {
	SwipesTotal.WithLabelValues(interactionType, outcome).Inc()
}

// RecordMatch records a new match.
func RecordMatch() {
	MatchesTotal.Inc()
}

// RecordUndo records an undo request.
func RecordUndo(undone bool) {
	result := "rejected"
	if undone {
		result = "undone"
	}
	UndoTotal.WithLabelValues(result).Inc()
}

// RecordDiscovery records one discovery page.
func RecordDiscovery(size int, seconds float64) {
	DiscoveryBatchSize.Observe(float64(size))
	DiscoveryDuration.Observe(seconds)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
