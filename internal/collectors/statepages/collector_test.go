package statepages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout-labs/leadscout-cli/internal/collectors/retry"
	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
)

// flakyClient fails a configurable number of FetchLeads calls before
// succeeding.
type flakyClient struct {
	failures int
	err      error
	calls    int
	leads    []domain.Lead
}

func (f *flakyClient) FetchLeads(_ context.Context, _ domain.Region, _ driven.CollectParams) ([]domain.Lead, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.leads, nil
}

func (f *flakyClient) SearchLeads(ctx context.Context, region domain.Region, _ driven.SearchQuery) ([]domain.Lead, error) {
	return f.FetchLeads(ctx, region, driven.CollectParams{})
}

func (f *flakyClient) Probe(_ context.Context, _ domain.Region) (PortalInfo, error) {
	return PortalInfo{Reachable: true, ApproxListings: len(f.leads)}, nil
}

func testRegion() domain.Region {
	return domain.Region{Code: "CA", Name: "California", PortalURL: "https://example.com", RequestsPerMinute: 6000}
}

func testConfig() domain.CollectorConfig {
	return domain.CollectorConfig{
		ID:         "CA",
		Name:       "California Business Registry",
		Endpoint:   "https://example.com",
		RateLimit:  domain.RateLimit{PerMinute: 6000},
		Timeout:    time.Second,
		MaxRetries: 3,
	}
}

func fastExecutor() *retry.Executor {
	return retry.NewExecutor(nil).WithBackoff(time.Millisecond, 4*time.Millisecond)
}

func TestCollect_Succeeds(t *testing.T) {
	client := &flakyClient{leads: []domain.Lead{{ID: "1", Company: "Acme LLC", Region: "CA"}}}
	c, err := NewCollector(testRegion(), client, fastExecutor(), testConfig())
	require.NoError(t, err)

	leads, err := c.Collect(context.Background(), driven.CollectParams{})
	require.NoError(t, err)
	assert.Len(t, leads, 1)

	m := c.Metrics()
	assert.Equal(t, 1, m.TotalRuns)
	assert.Equal(t, 1, m.TotalRecords)
	assert.Equal(t, 0, m.TotalFailures)
	assert.Empty(t, m.LastError)
}

func TestCollect_RetriesTransientFailures(t *testing.T) {
	client := &flakyClient{
		failures: 2,
		err:      errors.New("connection reset by peer"),
		leads:    []domain.Lead{{ID: "1", Company: "Acme LLC", Region: "CA"}},
	}
	c, err := NewCollector(testRegion(), client, fastExecutor(), testConfig())
	require.NoError(t, err)

	leads, err := c.Collect(context.Background(), driven.CollectParams{})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Equal(t, 3, client.calls, "two transient failures then success")
}

func TestCollect_PermanentFailureNotRetried(t *testing.T) {
	client := &flakyClient{
		failures: 10,
		err:      errors.New("unrecognised page layout"),
	}
	c, err := NewCollector(testRegion(), client, fastExecutor(), testConfig())
	require.NoError(t, err)

	_, err = c.Collect(context.Background(), driven.CollectParams{})
	require.Error(t, err)
	assert.Equal(t, 1, client.calls, "permanent failures are attempted once")

	m := c.Metrics()
	assert.Equal(t, 1, m.TotalFailures)
	assert.Contains(t, m.LastError, "unrecognised page layout")
}

func TestCollect_AfterClose(t *testing.T) {
	client := &flakyClient{}
	c, err := NewCollector(testRegion(), client, fastExecutor(), testConfig())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = c.Collect(context.Background(), driven.CollectParams{})
	assert.ErrorIs(t, err, domain.ErrCollectorClosed)
	assert.Equal(t, 0, client.calls)
}

func TestSearch_FailureReportedInResult(t *testing.T) {
	client := &flakyClient{failures: 10, err: errors.New("unrecognised page layout")}
	c, err := NewCollector(testRegion(), client, fastExecutor(), testConfig())
	require.NoError(t, err)

	result, err := c.Search(context.Background(), driven.SearchQuery{Term: "acme"})
	require.NoError(t, err, "search failures ride in the result")
	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "unrecognised page layout")
}

func TestAnalyze_ReportsFindings(t *testing.T) {
	client := &flakyClient{leads: []domain.Lead{{ID: "1"}, {ID: "2"}}}
	c, err := NewCollector(testRegion(), client, fastExecutor(), testConfig())
	require.NoError(t, err)

	report, err := c.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CA", report.AgentID)
	assert.NotEmpty(t, report.Findings)
}

func TestNewCollector_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 0

	_, err := NewCollector(testRegion(), &flakyClient{}, fastExecutor(), cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestStubClient_HonoursMaxRecords(t *testing.T) {
	client := NewStubClient()

	leads, err := client.FetchLeads(context.Background(), testRegion(), driven.CollectParams{MaxRecords: 2})
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}
