package entrypoints

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
)

// SourceAdapter reaches one entry point. The transport mechanics (HTTP
// client, database driver, spool reader) are the adapter's concern; the
// collector only paces, retries, and accounts.
type SourceAdapter interface {
	// Fetch returns the leads currently available at the entry point.
	Fetch(ctx context.Context, ep domain.EntryPoint, params driven.CollectParams) ([]domain.Lead, error)

	// Search runs an ad-hoc query against the entry point.
	Search(ctx context.Context, ep domain.EntryPoint, query driven.SearchQuery) ([]domain.Lead, error)

	// Probe checks the entry point read-only.
	Probe(ctx context.Context, ep domain.EntryPoint) (SourceInfo, error)
}

// SourceInfo is what a read-only probe learns about an entry point.
type SourceInfo struct {
	// Reachable indicates the source answered.
	Reachable bool

	// PendingRecords estimates how many unread records wait at the source.
	PendingRecords int
}

// StubAdapter is a deterministic in-memory SourceAdapter used for the
// API, portal, and database kinds until real clients are wired in.
type StubAdapter struct {
	// BatchSize is how many leads Fetch yields per call.
	BatchSize int
}

// NewStubAdapter returns a stub yielding a small fixed batch.
func NewStubAdapter() *StubAdapter {
	return &StubAdapter{BatchSize: 4}
}

// Fetch generates a deterministic batch of leads for the entry point.
func (a *StubAdapter) Fetch(_ context.Context, ep domain.EntryPoint, params driven.CollectParams) ([]domain.Lead, error) {
	n := a.BatchSize
	if params.MaxRecords > 0 && params.MaxRecords < n {
		n = params.MaxRecords
	}

	leads := make([]domain.Lead, 0, n)
	for i := 0; i < n; i++ {
		leads = append(leads, domain.Lead{
			ID:          uuid.NewString(),
			Company:     fmt.Sprintf("%s Prospect %d Inc", ep.Name, i+1),
			Email:       fmt.Sprintf("lead%d@%s.example.com", i+1, ep.ID),
			Source:      ep.ID,
			Score:       40 + (i*11)%60,
			CollectedAt: time.Now().UTC(),
		})
	}
	return leads, nil
}

// Search filters the generated batch by the search term.
func (a *StubAdapter) Search(ctx context.Context, ep domain.EntryPoint, query driven.SearchQuery) ([]domain.Lead, error) {
	all, err := a.Fetch(ctx, ep, driven.CollectParams{MaxRecords: query.Limit})
	if err != nil {
		return nil, err
	}
	if query.Term == "" {
		return all, nil
	}

	term := strings.ToLower(query.Term)
	var matched []domain.Lead
	for _, lead := range all {
		if strings.Contains(strings.ToLower(lead.Company), term) {
			matched = append(matched, lead)
		}
	}
	return matched, nil
}

// Probe reports the stub source as reachable.
func (a *StubAdapter) Probe(_ context.Context, _ domain.EntryPoint) (SourceInfo, error) {
	return SourceInfo{Reachable: true, PendingRecords: a.BatchSize}, nil
}
