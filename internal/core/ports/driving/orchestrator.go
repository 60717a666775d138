package driving

import (
	"context"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

// Orchestrator coordinates collector invocations across both families.
// Its operations never panic and never leak collector errors as returned
// errors: every requested collector yields exactly one CollectionResult,
// failed or successful.
type Orchestrator interface {
	// CollectOne invokes a single collector by identity. An unknown
	// identity yields a failed result carrying the not-found error rather
	// than an error return, so bulk callers need no per-item handling.
	CollectOne(ctx context.Context, id string) domain.CollectionResult

	// CollectAll invokes the selected collectors in concurrency-bounded
	// batches and returns one result per collector, in selection order.
	CollectAll(ctx context.Context, opts CollectOptions) []domain.CollectionResult

	// AnalyzeAll runs each collector's read-only analysis. A single
	// collector's failure is logged and skipped, never aborting the scan.
	AnalyzeAll(ctx context.Context) []domain.AnalysisReport

	// Status returns an immutable snapshot of the orchestration counters.
	Status() domain.OrchestrationStatus
}

// CollectOptions narrows and orders a CollectAll run.
type CollectOptions struct {
	// Family restricts the run to one collector family.
	// domain.FamilyAll selects both.
	Family domain.CollectorFamily

	// Priority lists collector identities to run first, in order. The
	// remaining collectors follow in registry order.
	Priority []string

	// Limit caps how many collectors run. Zero means no cap. The cap is
	// applied to the front of the priority-ordered selection.
	Limit int

	// Params is passed through to every collector invocation.
	Params CollectParams
}

// CollectParams mirrors the per-collector collection parameters so CLI
// callers do not import the driven ports.
type CollectParams struct {
	// Industry filters leads to one industry segment.
	Industry string

	// RegisteredSince restricts to businesses registered on or after this
	// date string.
	RegisteredSince string

	// MaxRecords caps leads per collector run.
	MaxRecords int
}
