package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
)

// Ensure the stores implement their interfaces.
var (
	_ driven.LeadStore = (*LeadStore)(nil)
	_ driven.RunStore  = (*RunStore)(nil)
)

// LeadStore is an in-memory implementation of driven.LeadStore for testing.
type LeadStore struct {
	mu    sync.RWMutex
	leads map[string]domain.Lead
}

// NewLeadStore creates a new in-memory lead store.
func NewLeadStore() *LeadStore {
	return &LeadStore{
		leads: make(map[string]domain.Lead),
	}
}

// SaveLeads stores a batch of leads, upserting on lead ID.
func (s *LeadStore) SaveLeads(_ context.Context, leads []domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lead := range leads {
		s.leads[lead.ID] = lead
	}
	return nil
}

// ListLeads returns leads for a region, or all leads when region is
// empty, most recently collected first.
func (s *LeadStore) ListLeads(_ context.Context, region string, limit int) ([]domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Lead
	for _, lead := range s.leads {
		if region != "" && lead.Region != region {
			continue
		}
		out = append(out, lead)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CollectedAt.After(out[j].CollectedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountLeads returns the number of stored leads.
func (s *LeadStore) CountLeads(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads), nil
}

// RunStore is an in-memory implementation of driven.RunStore for testing.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.CollectionResult
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// SaveRun records the outcome of one collector invocation.
func (s *RunStore) SaveRun(_ context.Context, result domain.CollectionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, result)
	return nil
}

// ListRuns returns recent runs for a collector, or all collectors when
// agentID is empty, most recent first.
func (s *RunStore) ListRuns(_ context.Context, agentID string, limit int) ([]domain.CollectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CollectionResult
	for _, run := range s.runs {
		if agentID != "" && run.AgentID != agentID {
			continue
		}
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
