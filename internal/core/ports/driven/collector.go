package driven

import (
	"context"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

// Collector executes one unit of collection or read-only analysis against a
// single external source. Each collector family (statepages, entrypoints)
// implements this interface. How a collector talks to its source - HTTP,
// DOM scraping, database reads - is internal to the implementation; the
// orchestrator only sees this contract.
//
// Collectors pace and retry their own calls internally. The orchestrator
// never retries; it only bounds concurrency and aggregates results.
type Collector interface {
	// ID returns the collector identity (region code or entry-point id).
	ID() string

	// Family returns which collector population this collector belongs to.
	Family() domain.CollectorFamily

	// Config returns the immutable configuration the collector was built with.
	Config() domain.CollectorConfig

	// Collect fetches leads from the source. The returned slice may be
	// empty; a nil error means the run succeeded.
	Collect(ctx context.Context, params CollectParams) ([]domain.Lead, error)

	// Search runs an ad-hoc query against the source without updating
	// collection state.
	Search(ctx context.Context, query SearchQuery) (SearchResult, error)

	// Analyze inspects the source read-only and reports findings and
	// suggested improvements. It performs no collection.
	Analyze(ctx context.Context) (domain.AnalysisReport, error)

	// Metrics returns a copy of the collector's self-reported metrics.
	Metrics() domain.CollectorMetrics

	// UpdateMetrics folds a partial update into the collector's metrics.
	UpdateMetrics(delta domain.MetricsDelta)

	// Close releases resources held by the collector.
	Close() error
}

// CollectParams narrows a collection run.
type CollectParams struct {
	// Industry filters leads to one industry segment, empty for all.
	Industry string

	// RegisteredSince restricts collection to businesses registered on or
	// after this date, zero for no restriction. Formatted per the source's
	// conventions by the collector.
	RegisteredSince string

	// MaxRecords caps how many leads a single run yields. Zero means the
	// collector's own default.
	MaxRecords int
}

// SearchQuery is an ad-hoc query against a single source.
type SearchQuery struct {
	// Term is the free-text search term (company name fragment).
	Term string

	// Limit caps the number of returned leads. Zero means source default.
	Limit int
}

// SearchResult is the outcome of an ad-hoc search.
type SearchResult struct {
	// Success indicates the search completed.
	Success bool

	// Leads are the matching records, nil on failure.
	Leads []domain.Lead

	// Err holds the failure when Success is false.
	Err string
}
