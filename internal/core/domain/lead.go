package domain

import "time"

// Lead is a single business prospect yielded by a collector.
// The orchestration core passes leads through untouched; persistence is
// the consumer's job.
type Lead struct {
	// ID is the unique lead identifier.
	ID string

	// Company is the registered business name.
	Company string

	// Contact is the primary contact name, if the source exposes one.
	Contact string

	// Email is the contact email address.
	Email string

	// Phone is the contact phone number.
	Phone string

	// Region is the region code the lead was collected from (e.g. "CA").
	Region string

	// Source identifies the collector that produced the lead.
	Source string

	// Score is the 0-100 prospect quality score assigned by the source.
	Score int

	// RegisteredAt is the business registration date, if known.
	RegisteredAt time.Time

	// CollectedAt is when the lead was collected.
	CollectedAt time.Time
}

// AnalysisReport is the outcome of a collector's read-only self-analysis.
type AnalysisReport struct {
	// AgentID is the collector that produced the report.
	AgentID string

	// Findings are observations about the source (volume, freshness, drift).
	Findings []string

	// Improvements are suggested configuration or pacing changes.
	Improvements []string
}
