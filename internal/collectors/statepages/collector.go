package statepages

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

// Collector scrapes one state registry portal. Configuration is fixed at
// construction; metrics are the only mutable state and sit behind a mutex
// because the orchestrator invokes collectors from batch goroutines.
type Collector struct {
	config   domain.CollectorConfig
	region   domain.Region
	client   PageClient
	limiter  *ratelimit.Limiter
	executor *retry.Executor

	mu      sync.Mutex
	metrics domain.CollectorMetrics
	closed  bool
}

// NewCollector builds a collector for one region. The configuration is
// validated here; an invalid config fails construction rather than the
// first run.
func NewCollector(region domain.Region, client PageClient, executor *retry.Executor, cfg domain.CollectorConfig) (*Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: %s: nil page client", domain.ErrInvalidConfig, cfg.ID)
	}
	if executor == nil {
		executor = retry.NewExecutor(nil)
	}

	return &Collector{
		config:   cfg,
		region:   region,
		client:   client,
		limiter:  ratelimit.New(cfg.RateLimit),
		executor: executor,
	}, nil
}

// ID returns the region code.
func (c *Collector) ID() string { return c.config.ID }

// Family returns the statepages family marker.
func (c *Collector) Family() domain.CollectorFamily { return domain.FamilyStatePages }

// Config returns the immutable collector configuration.
func (c *Collector) Config() domain.CollectorConfig { return c.config }

// Collect fetches new listings from the portal. Each attempt waits on the
// rate limiter first, then calls the portal under the configured timeout;
// transient failures back off and retry up to the configured ceiling.
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
			return c.client.FetchLeads(attemptCtx, c.region, params)
		})

	c.UpdateMetrics(domain.MetricsDelta{
		Runs:     1,
		Records:  len(outcome.Result),
		Failures: boolToCount(err != nil),
		Duration: time.Since(started),
		Err:      err,
	})

	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", c.config.ID, err)
	}
	return outcome.Result, nil
}

// Search runs an ad-hoc portal query. Failures are reported in the
// result rather than returned, matching the capability contract.
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
			return c.client.SearchLeads(attemptCtx, c.region, query)
		})
	if err != nil {
		return driven.SearchResult{Err: err.Error()}, nil
	}

	return driven.SearchResult{Success: true, Leads: outcome.Result}, nil
}

// Analyze probes the portal read-only and derives findings from the
// collector's own history. No collection state changes.
func (c *Collector) Analyze(ctx context.Context) (domain.AnalysisReport, error) {
	if err := c.guard(); err != nil {
		return domain.AnalysisReport{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.AnalysisReport{}, err
	}
	probeCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	info, err := c.client.Probe(probeCtx, c.region)
	if err != nil {
		return domain.AnalysisReport{}, fmt.Errorf("analyze %s: %w", c.config.ID, err)
	}

	report := domain.AnalysisReport{AgentID: c.config.ID}
	if !info.Reachable {
		report.Findings = append(report.Findings, "portal unreachable")
		report.Improvements = append(report.Improvements, "verify portal URL "+c.config.Endpoint)
		return report, nil
	}

	report.Findings = append(report.Findings,
		fmt.Sprintf("portal reachable, ~%d new listings", info.ApproxListings))
	if !info.LastUpdated.IsZero() {
		report.Findings = append(report.Findings,
			"portal data refreshed "+info.LastUpdated.Format(time.RFC3339))
	}

	m := c.Metrics()
	if m.TotalRuns > 0 && m.TotalFailures*2 > m.TotalRuns {
		report.Findings = append(report.Findings,
			fmt.Sprintf("failure rate high: %d of %d runs failed", m.TotalFailures, m.TotalRuns))
		report.Improvements = append(report.Improvements,
			"lower the rate limit or raise the timeout for this portal")
	}
	if m.LastError != "" {
		report.Findings = append(report.Findings, "last error: "+m.LastError)
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
		// Rolling average weighted by run count.
		total := c.metrics.AvgDuration*time.Duration(prevRuns) + delta.Duration
		c.metrics.AvgDuration = total / time.Duration(c.metrics.TotalRuns)
	}
}

// Close marks the collector closed. Subsequent operations fail with
// domain.ErrCollectorClosed.
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

func boolToCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
