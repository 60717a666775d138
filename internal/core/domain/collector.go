package domain

import (
	"fmt"
	"time"
)

// RateLimit describes the pacing a collector must honour against its source.
// Whichever unit is set governs; PerMinute is the common case for registry
// portals.
type RateLimit struct {
	// PerSecond is the sustained request rate per second. Zero means unset.
	PerSecond float64

	// PerMinute is the sustained request rate per minute. Zero means unset.
	PerMinute float64

	// PerHour is the sustained request rate per hour. Zero means unset.
	PerHour float64
}

// RequestsPerMinute normalises the configured limit to requests per minute.
// Returns zero if no unit is set.
func (r RateLimit) RequestsPerMinute() float64 {
	switch {
	case r.PerMinute > 0:
		return r.PerMinute
	case r.PerSecond > 0:
		return r.PerSecond * 60
	case r.PerHour > 0:
		return r.PerHour / 60
	default:
		return 0
	}
}

// CollectorConfig is the immutable configuration a collector is built with.
// It is set once at construction and never mutated afterwards.
type CollectorConfig struct {
	// ID is the unique collector identity (region code or entry-point id).
	ID string

	// Name is the human-readable collector name.
	Name string

	// Endpoint is the source descriptor (base URL, DSN, or directory path).
	Endpoint string

	// RateLimit paces this collector's sequential calls to the source.
	RateLimit RateLimit

	// Timeout bounds a single call to the source.
	Timeout time.Duration

	// MaxRetries is the retry ceiling beyond the first attempt.
	MaxRetries int
}

// Validate checks the configuration for construction-time errors.
func (c CollectorConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing collector ID", ErrInvalidConfig)
	}
	if c.RateLimit.RequestsPerMinute() <= 0 {
		return fmt.Errorf("%w: %s: rate limit must be positive", ErrInvalidConfig, c.ID)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s: timeout must be positive", ErrInvalidConfig, c.ID)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: %s: retry ceiling must not be negative", ErrInvalidConfig, c.ID)
	}
	return nil
}

// CollectionResult is the outcome of a single collector invocation.
// Results are created fresh per invocation, handed to the immediate
// caller, and never retained by the orchestration core.
type CollectionResult struct {
	// RunID uniquely identifies this invocation.
	RunID string

	// AgentID is the collector that produced this result.
	AgentID string

	// Success indicates whether the collection completed without error.
	Success bool

	// RecordsCollected is the number of leads the collector yielded.
	RecordsCollected int

	// Duration is the wall-clock time the invocation took.
	Duration time.Duration

	// Errors holds failure messages when Success is false.
	Errors []string

	// Leads are the records this invocation yielded, handed to the caller
	// for persistence. Nil on failure.
	Leads []Lead

	// StartedAt is when the invocation began.
	StartedAt time.Time
}

// OrchestrationStatus is the running health of the orchestrator.
// Invariant: SuccessfulCollections + FailedCollections == TotalCollections
// at every observable point, and CollectionsInProgress drains to zero once
// all in-flight work for a call settles.
type OrchestrationStatus struct {
	// ActiveAgents is the number of collectors currently registered.
	ActiveAgents int

	// TotalAgents is the number of collectors the catalog knows about.
	TotalAgents int

	// CollectionsInProgress counts invocations that have started but not settled.
	CollectionsInProgress int

	// TotalCollections counts all settled invocations.
	TotalCollections int

	// SuccessfulCollections counts settled invocations that succeeded.
	SuccessfulCollections int

	// FailedCollections counts settled invocations that failed.
	FailedCollections int

	// LastCollectionTime is when the most recent invocation settled.
	LastCollectionTime time.Time
}

// CollectorMetrics is a collector's self-reported operational history.
type CollectorMetrics struct {
	// TotalRuns counts collection invocations.
	TotalRuns int

	// TotalRecords counts leads collected across all runs.
	TotalRecords int

	// TotalFailures counts failed runs.
	TotalFailures int

	// LastRun is when the collector last ran.
	LastRun time.Time

	// LastError is the most recent failure message, empty when the last
	// run succeeded.
	LastError string

	// AvgDuration is the rolling average run duration.
	AvgDuration time.Duration
}

// MetricsDelta is a partial metrics update applied after a run.
type MetricsDelta struct {
	// Runs is the number of runs to add (normally 1).
	Runs int

	// Records is the number of leads to add.
	Records int

	// Failures is the number of failures to add.
	Failures int

	// Duration is the run duration folded into the average.
	Duration time.Duration

	// Err is the failure to record, nil on success.
	Err error
}
