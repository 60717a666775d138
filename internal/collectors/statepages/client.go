package statepages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
)

// PageClient fetches listings from one state registry portal. The HTTP
// and DOM mechanics behind it are not this package's concern; production
// builds plug in a scraper, tests plug in fakes.
type PageClient interface {
	// FetchLeads returns new business listings for a region.
	FetchLeads(ctx context.Context, region domain.Region, params driven.CollectParams) ([]domain.Lead, error)

	// SearchLeads runs an ad-hoc portal search.
	SearchLeads(ctx context.Context, region domain.Region, query driven.SearchQuery) ([]domain.Lead, error)

	// Probe checks the portal read-only and estimates listing volume.
	Probe(ctx context.Context, region domain.Region) (PortalInfo, error)
}

// PortalInfo is what a read-only probe learns about a portal.
type PortalInfo struct {
	// Reachable indicates the portal answered.
	Reachable bool

	// ApproxListings estimates how many new listings are available.
	ApproxListings int

	// LastUpdated is the portal's most recent data refresh, if published.
	LastUpdated time.Time
}

// StubClient is a deterministic in-memory PageClient. The CLI uses it
// until a real scraper is wired in; tests use it for predictable data.
type StubClient struct {
	// LeadsPerRegion is how many leads FetchLeads yields per call.
	LeadsPerRegion int
}

// NewStubClient returns a stub yielding a small fixed batch per region.
func NewStubClient() *StubClient {
	return &StubClient{LeadsPerRegion: 5}
}

// FetchLeads generates a deterministic batch of leads for the region.
func (c *StubClient) FetchLeads(_ context.Context, region domain.Region, params driven.CollectParams) ([]domain.Lead, error) {
	n := c.LeadsPerRegion
	if params.MaxRecords > 0 && params.MaxRecords < n {
		n = params.MaxRecords
	}

	leads := make([]domain.Lead, 0, n)
	for i := 0; i < n; i++ {
		company := fmt.Sprintf("%s Ventures %d LLC", region.Name, i+1)
		if params.Industry != "" {
			company = fmt.Sprintf("%s %s %d LLC", region.Name, params.Industry, i+1)
		}
		leads = append(leads, domain.Lead{
			ID:          uuid.NewString(),
			Company:     company,
			Email:       fmt.Sprintf("contact@%s%d.example.com", strings.ToLower(region.Code), i+1),
			Region:      region.Code,
			Source:      region.Code,
			Score:       50 + (i*7)%50,
			CollectedAt: time.Now().UTC(),
		})
	}
	return leads, nil
}

// SearchLeads filters the generated batch by the search term.
func (c *StubClient) SearchLeads(ctx context.Context, region domain.Region, query driven.SearchQuery) ([]domain.Lead, error) {
	all, err := c.FetchLeads(ctx, region, driven.CollectParams{MaxRecords: query.Limit})
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

// Probe reports the stub portal as reachable with a fixed volume.
func (c *StubClient) Probe(_ context.Context, _ domain.Region) (PortalInfo, error) {
	return PortalInfo{
		Reachable:      true,
		ApproxListings: c.LeadsPerRegion,
		LastUpdated:    time.Now().UTC(),
	}, nil
}
