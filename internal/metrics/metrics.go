// Package metrics holds the Prometheus collectors of the feed service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "feedex"

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
			FeedPagesTotal,
			FeedHydrationDroppedTotal,
			IndexQueryDuration,
			ReconcileRunsTotal,
			ReconcileRunDuration,
			ReconcileDocumentsTotal,
			ReconcileLastSuccess,
			IndexDocuments,
		)
	})
}
