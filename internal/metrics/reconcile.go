package metrics

import "github.com/prometheus/client_golang/prometheus"

// Reconciliation metrics.
var (
	ReconcileRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation runs by outcome",
		},
		[]string{"outcome"}, // COMPLETED / FAILED / REJECTED
	)

	ReconcileRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_run_duration_seconds",
			Help:      "Reconciliation run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		},
	)

	ReconcileDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_documents_total",
			Help:      "Index documents written or removed by reconciliation",
		},
		[]string{"action"}, // upserted / removed
	)

	ReconcileLastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconcile_last_success_timestamp_seconds",
			Help:      "Unix time of the last completed reconciliation run",
		},
	)

	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_documents",
			Help:      "Documents in the search index as of the last refresh",
		},
	)
)
