package entrypoints

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leadscout-labs/leadscout-cli/internal/collectors/ratelimit"
	"github.com/leadscout-labs/leadscout-cli/internal/collectors/retry"
	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
)

// Ensure Collector implements the driven port.
var _ driven.Collector = (*Collector)(nil)

// Collector reads one entry point through a SourceAdapter. Like the
// statepages family it paces and retries internally and keeps mutable
// state confined to its metrics.
type Collector struct {
	config     domain.CollectorConfig
	entryPoint domain.EntryPoint
	adapter    SourceAdapter
	limiter    *ratelimit.Limiter
	executor   *retry.Executor

	mu      sync.Mutex
	metrics domain.CollectorMetrics
	closed  bool
}

// NewCollector builds a collector for one entry point.
func NewCollector(ep domain.EntryPoint, adapter SourceAdapter, executor *retry.Executor, cfg domain.CollectorConfig) (*Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if adapter == nil {
		return nil, fmt.Errorf("%w: %s: nil source adapter", domain.ErrInvalidConfig, cfg.ID)
	}
	if executor == nil {
		executor = retry.NewExecutor(nil)
	}

	return &Collector{
		config:     cfg,
		entryPoint: ep,
		adapter:    adapter,
		limiter:    ratelimit.New(cfg.RateLimit),
		executor:   executor,
	}, nil
}

// ID returns the entry-point identity.
func (c *Collector) ID() string { return c.config.ID }

// Family returns the entrypoints family marker.
func (c *Collector) Family() domain.CollectorFamily { return domain.FamilyEntryPoints }

// Config returns the immutable collector configuration.
func (c *Collector) Config() domain.CollectorConfig { return c.config }

// EntryPoint returns the catalog entry this collector reads.
func (c *Collector) EntryPoint() domain.EntryPoint { return c.entryPoint }

// Adapter returns the source adapter behind this collector.
func (c *Collector) Adapter() SourceAdapter { return c.adapter }

// Collect drains the entry point. Each attempt waits on the rate limiter
// and runs under the configured timeout; transient failures back off and
// retry up to the configured ceiling.
func (c *Collector) Collect(ctx context.Context, params driven.CollectParams) ([]domain.Lead, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	started := time.Now()
	outcome, err := retry.Do(ctx, c.executor, c.config.MaxRetries, "collect "+c.config.ID,
		func(ctx context.Context) ([]domain.Lead, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
			defer cancel()
			return c.adapter.Fetch(attemptCtx, c.entryPoint, params)
		})

	c.UpdateMetrics(domain.MetricsDelta{
		Runs:     1,
		Records:  len(outcome.Result),
		Failures: failureCount(err),
		Duration: time.Since(started),
		Err:      err,
	})

	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", c.config.ID, err)
	}
	return outcome.Result, nil
}

// Search runs an ad-hoc query against the entry point.
func (c *Collector) Search(ctx context.Context, query driven.SearchQuery) (driven.SearchResult, error) {
	if err := c.guard(); err != nil {
		return driven.SearchResult{Err: err.Error()}, err
	}

	outcome, err := retry.Do(ctx, c.executor, c.config.MaxRetries, "search "+c.config.ID,
		func(ctx context.Context) ([]domain.Lead, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
			defer cancel()
			return c.adapter.Search(attemptCtx, c.entryPoint, query)
		})
	if err != nil {
		return driven.SearchResult{Err: err.Error()}, nil
	}

	return driven.SearchResult{Success: true, Leads: outcome.Result}, nil
}

// Analyze probes the entry point read-only.
func (c *Collector) Analyze(ctx context.Context) (domain.AnalysisReport, error) {
	if err := c.guard(); err != nil {
		return domain.AnalysisReport{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.AnalysisReport{}, err
	}
	probeCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	info, err := c.adapter.Probe(probeCtx, c.entryPoint)
	if err != nil {
		return domain.AnalysisReport{}, fmt.Errorf("analyze %s: %w", c.config.ID, err)
	}

	report := domain.AnalysisReport{AgentID: c.config.ID}
	if !info.Reachable {
		report.Findings = append(report.Findings, string(c.entryPoint.Kind)+" source unreachable")
		report.Improvements = append(report.Improvements, "verify endpoint "+c.config.Endpoint)
		return report, nil
	}

	report.Findings = append(report.Findings,
		fmt.Sprintf("source reachable, %d records pending", info.PendingRecords))
	if info.PendingRecords == 0 {
		report.Improvements = append(report.Improvements,
			"source is drained; consider a longer collection interval")
	}

	m := c.Metrics()
	if m.TotalRuns > 0 && m.TotalFailures*2 > m.TotalRuns {
		report.Findings = append(report.Findings,
			fmt.Sprintf("failure rate high: %d of %d runs failed", m.TotalFailures, m.TotalRuns))
		report.Improvements = append(report.Improvements,
			"lower the rate limit or raise the timeout for this source")
	}

	return report, nil
}

// Metrics returns a copy of the collector's metrics.
func (c *Collector) Metrics() domain.CollectorMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// UpdateMetrics folds a delta into the running metrics.
func (c *Collector) UpdateMetrics(delta domain.MetricsDelta) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prevRuns := c.metrics.TotalRuns
	c.metrics.TotalRuns += delta.Runs
	c.metrics.TotalRecords += delta.Records
	c.metrics.TotalFailures += delta.Failures
	if delta.Runs > 0 {
		c.metrics.LastRun = time.Now().UTC()
		if delta.Err != nil {
			c.metrics.LastError = delta.Err.Error()
		} else {
			c.metrics.LastError = ""
		}
		total := c.metrics.AvgDuration*time.Duration(prevRuns) + delta.Duration
		c.metrics.AvgDuration = total / time.Duration(c.metrics.TotalRuns)
	}
}

// Close marks the collector closed.
func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Collector) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("%s: %w", c.config.ID, domain.ErrCollectorClosed)
	}
	return nil
}

func failureCount(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
