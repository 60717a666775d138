package driven

import (
	"context"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

// LeadStore persists collected leads. The orchestration core never calls
// this; consumers (CLI, scheduler daemon) persist results through it after
// a collection run returns.
type LeadStore interface {
	// SaveLeads stores a batch of leads, upserting on lead ID.
	SaveLeads(ctx context.Context, leads []domain.Lead) error

	// ListLeads returns leads for a region, or all leads when region is
	// empty, most recently collected first.
	ListLeads(ctx context.Context, region string, limit int) ([]domain.Lead, error)

	// CountLeads returns the number of stored leads.
	CountLeads(ctx context.Context) (int, error)
}

// RunStore records collection-run history for reporting.
type RunStore interface {
	// SaveRun records the outcome of one collector invocation.
	SaveRun(ctx context.Context, result domain.CollectionResult) error

	// ListRuns returns recent runs for a collector, or all collectors when
	// agentID is empty, most recent first.
	ListRuns(ctx context.Context, agentID string, limit int) ([]domain.CollectionResult, error)
}
