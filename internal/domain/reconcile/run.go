package reconcile

import "time"

// State is the reconciliation job state.
type State int32

// Job states. A run moves IDLE -> RUNNING -> IDLE; the outcome is kept in RunResult.
const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the terminal status of a finished run.
type Outcome string

// Run outcomes.
const (
	OutcomeCompleted Outcome = "COMPLETED"
	OutcomeFailed    Outcome = "FAILED"
)

// RunResult summarizes one reconciliation run.
type RunResult struct {
	RunID      string        `json:"runId"`
	Outcome    Outcome       `json:"outcome"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Duration   time.Duration `json:"durationNs"`
	Batches    int           `json:"batches"`
	Upserted   int           `json:"upserted"`
	Removed    int           `json:"removed"`
	Error      string        `json:"error,omitempty"`
}

// Status is a snapshot of the job for status endpoints.
type Status struct {
	State   string     `json:"state"`
	LastRun *RunResult `json:"lastRun,omitempty"`
}
