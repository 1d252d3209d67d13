package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Read path metrics.
var (
	FeedPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_pages_total",
			Help:      "Feed page requests by sort field, direction and outcome",
		},
		[]string{"sort_by", "direction", "status"},
	)

	FeedHydrationDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_hydration_dropped_total",
			Help:      "Index hits dropped because the record was missing or deleted in the store",
		},
	)

	IndexQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_query_duration_seconds",
			Help:      "Search index call duration in seconds",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"op", "status"},
	)
)

// ObserveIndexQuery records one search index call.
func ObserveIndexQuery(op string, start time.Time, err error) {
	IndexQueryDuration.WithLabelValues(op, statusLabel(err)).Observe(time.Since(start).Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
