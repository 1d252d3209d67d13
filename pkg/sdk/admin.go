package feedex

import (
	"context"
	"time"
)

// Reconcile runs one reconciliation pass synchronously. It fails with
// ErrReconciliationRunning when a run is already in flight on this client.
// A failed run returns both its RunResult and an error matching
// ErrReconciliationFailed.
func (c *Client) Reconcile(ctx context.Context) (_ RunResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reconcile.run", start, err) }()

	res, err := c.reconSvc.Run(ctx)
	return fromRunResult(res), err
}

// ReconcileStatus reports the job state and the last finished run.
func (c *Client) ReconcileStatus() ReconcileStatus {
	return fromStatus(c.reconSvc.Status())
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health pings the search index and the record store concurrently.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
