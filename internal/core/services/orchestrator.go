package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driving"
	"github.com/leadscout-labs/leadscout-cli/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.Orchestrator = (*Orchestrator)(nil)

// DefaultMaxConcurrent bounds how many collectors run at once when the
// caller does not say otherwise.
const DefaultMaxConcurrent = 3

// Orchestrator coordinates lead collection across the registered
// collector families. Each instance carries its own registries and
// counters; two orchestrators never share state.
type Orchestrator struct {
	registries    []driven.CollectorRegistry
	maxConcurrent int

	// Counters shared by concurrent collection goroutines. All mutation
	// goes through the mu-guarded helpers below.
	mu     sync.Mutex
	status domain.OrchestrationStatus
}

// NewOrchestrator creates an orchestrator over the given registries.
// maxConcurrent caps how many collectors run simultaneously during a
// bulk run; values below one fall back to DefaultMaxConcurrent.
func NewOrchestrator(maxConcurrent int, registries ...driven.CollectorRegistry) *Orchestrator {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Orchestrator{
		registries:    registries,
		maxConcurrent: maxConcurrent,
	}
}

// CollectOne invokes a single collector by identity. An unknown identity
// yields a failed result carrying the not-found error.
func (o *Orchestrator) CollectOne(ctx context.Context, id string) domain.CollectionResult {
	return o.collect(ctx, id, driven.CollectParams{})
}

// CollectAll runs the selected collectors in batches of at most
// maxConcurrent, waiting for each batch to settle before starting the
// next. Both families go through the same batching path. The returned
// slice holds exactly one result per selected collector, in selection
// order.
func (o *Orchestrator) CollectAll(ctx context.Context, opts driving.CollectOptions) []domain.CollectionResult {
	ids := o.selectIDs(opts)
	if len(ids) == 0 {
		return nil
	}

	params := driven.CollectParams{
		Industry:        opts.Params.Industry,
		RegisteredSince: opts.Params.RegisteredSince,
		MaxRecords:      opts.Params.MaxRecords,
	}

	logger.Info("Collecting from %d collectors (%d at a time)", len(ids), o.maxConcurrent)

	results := make([]domain.CollectionResult, len(ids))
	for start := 0; start < len(ids); start += o.maxConcurrent {
		end := start + o.maxConcurrent
		if end > len(ids) {
			end = len(ids)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = o.collect(ctx, ids[i], params)
			}(i)
		}
		wg.Wait()
	}

	return results
}

// AnalyzeAll runs every instantiated collector's read-only analysis.
// Individual failures are logged and skipped.
func (o *Orchestrator) AnalyzeAll(ctx context.Context) []domain.AnalysisReport {
	var reports []domain.AnalysisReport
	for _, registry := range o.registries {
		for _, id := range registry.IDs() {
			collector, ok := registry.Get(id)
			if !ok {
				continue
			}
			report, err := collector.Analyze(ctx)
			if err != nil {
				logger.Warn("Analysis of %s failed: %v", id, err)
				continue
			}
			reports = append(reports, report)
		}
	}
	return reports
}

// Status returns a snapshot of the orchestration counters. The snapshot
// is a copy; later collections do not mutate it.
func (o *Orchestrator) Status() domain.OrchestrationStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	snapshot := o.status
	snapshot.ActiveAgents = 0
	snapshot.TotalAgents = 0
	for _, registry := range o.registries {
		snapshot.ActiveAgents += len(registry.IDs())
		snapshot.TotalAgents += registryCatalogSize(registry)
	}
	return snapshot
}

// collect runs one collector invocation and settles the counters exactly
// once, whatever the outcome.
func (o *Orchestrator) collect(ctx context.Context, id string, params driven.CollectParams) domain.CollectionResult {
	result := domain.CollectionResult{
		RunID:     uuid.NewString(),
		AgentID:   id,
		StartedAt: time.Now().UTC(),
	}

	o.beginCollection()
	defer func() { o.endCollection(result.Success) }()

	collector, ok := o.lookup(id)
	if !ok {
		err := fmt.Errorf("collector %s: %w", id, domain.ErrNotFound)
		logger.Warn("Collection skipped: %v", err)
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(result.StartedAt)
		return result
	}

	logger.Debug("Collecting from %s (run %s)", id, result.RunID)

	leads, err := collector.Collect(ctx, params)
	result.Duration = time.Since(result.StartedAt)
	if err != nil {
		logger.Warn("Collection from %s failed: %v", id, err)
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Success = true
	result.RecordsCollected = len(leads)
	result.Leads = leads
	logger.Info("Collected %d leads from %s in %s", len(leads), id, result.Duration.Round(time.Millisecond))
	return result
}

// selectIDs resolves CollectOptions to the ordered identity list:
// family filter, then priority reordering, then the limit cap.
func (o *Orchestrator) selectIDs(opts driving.CollectOptions) []string {
	var ids []string
	for _, registry := range o.registries {
		if opts.Family != domain.FamilyAll && registry.Family() != opts.Family {
			continue
		}
		ids = append(ids, registry.IDs()...)
	}

	if len(opts.Priority) > 0 {
		ids = reorderByPriority(ids, opts.Priority)
	}
	if opts.Limit > 0 && opts.Limit < len(ids) {
		ids = ids[:opts.Limit]
	}
	return ids
}

func (o *Orchestrator) lookup(id string) (driven.Collector, bool) {
	for _, registry := range o.registries {
		if collector, ok := registry.Get(id); ok {
			return collector, true
		}
	}
	return nil, false
}

func (o *Orchestrator) beginCollection() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.CollectionsInProgress++
}

func (o *Orchestrator) endCollection(success bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.CollectionsInProgress--
	o.status.TotalCollections++
	if success {
		o.status.SuccessfulCollections++
	} else {
		o.status.FailedCollections++
	}
	o.status.LastCollectionTime = time.Now().UTC()
}

// reorderByPriority moves the listed identities to the front, in the
// listed order, keeping the relative order of the rest. Priority entries
// not present in ids are ignored.
func reorderByPriority(ids, priority []string) []string {
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}

	ordered := make([]string, 0, len(ids))
	taken := make(map[string]bool, len(priority))
	for _, id := range priority {
		if present[id] && !taken[id] {
			ordered = append(ordered, id)
			taken[id] = true
		}
	}
	for _, id := range ids {
		if !taken[id] {
			ordered = append(ordered, id)
		}
	}
	return ordered
}

// registryCatalogSize reports how many collectors a registry could
// instantiate. Registries that expose a catalog implement sizer.
func registryCatalogSize(registry driven.CollectorRegistry) int {
	type sizer interface{ CatalogSize() int }
	if s, ok := registry.(sizer); ok {
		return s.CatalogSize()
	}
	return len(registry.IDs())
}
