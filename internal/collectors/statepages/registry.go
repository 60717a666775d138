package statepages

import (
	"fmt"
	"sync"
	"time"

	"github.com/leadscout-labs/leadscout-cli/internal/collectors/retry"
	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
)

// Defaults applied when the catalog does not say otherwise.
const (
	// DefaultTimeout bounds a single portal call.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry ceiling per portal call.
	DefaultMaxRetries = 3
)

// Ensure Registry implements the driven port.
var _ driven.CollectorRegistry = (*Registry)(nil)

// Registry owns the region-code-to-collector mapping for the statepages
// family. Construct one per orchestrator; there is no shared default
// instance.
type Registry struct {
	client   PageClient
	executor *retry.Executor
	catalog  []domain.Region

	mu         sync.RWMutex
	collectors map[string]driven.Collector
}

// NewRegistry builds an empty registry over the static region catalog.
// Collectors are created lazily via Create or eagerly via CreateAll.
func NewRegistry(client PageClient, executor *retry.Executor) *Registry {
	return &Registry{
		client:     client,
		executor:   executor,
		catalog:    domain.Regions(),
		collectors: make(map[string]driven.Collector),
	}
}

// Family returns the statepages family marker.
func (r *Registry) Family() domain.CollectorFamily { return domain.FamilyStatePages }

// CatalogSize reports how many regions the catalog knows about.
func (r *Registry) CatalogSize() int { return len(r.catalog) }

// CreateAll instantiates a collector for every catalog region, replacing
// any existing instances. Returns the number created.
func (r *Registry) CreateAll() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := make(map[string]driven.Collector, len(r.catalog))
	for _, region := range r.catalog {
		collector, err := r.build(region)
		if err != nil {
			return 0, fmt.Errorf("create %s: %w", region.Code, err)
		}
		created[region.Code] = collector
	}

	r.collectors = created
	return len(created), nil
}

// Create builds and registers the collector for one region code.
// Returns domain.ErrNotFound for a code the catalog does not know.
func (r *Registry) Create(id string) (driven.Collector, error) {
	region, ok := r.lookupCatalog(id)
	if !ok {
		return nil, fmt.Errorf("region %s: %w", id, domain.ErrNotFound)
	}

	collector, err := r.build(region)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.collectors[id] = collector
	r.mu.Unlock()
	return collector, nil
}

// Get returns the instantiated collector for a region code. The second
// return is false when absent; Get never fails.
func (r *Registry) Get(id string) (driven.Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collectors[id]
	return c, ok
}

// List returns a copy of the identity-to-collector mapping.
func (r *Registry) List() map[string]driven.Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]driven.Collector, len(r.collectors))
	for id, c := range r.collectors {
		out[id] = c
	}
	return out
}

// IDs returns the registered region codes in catalog order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.collectors))
	for _, region := range r.catalog {
		if _, ok := r.collectors[region.Code]; ok {
			ids = append(ids, region.Code)
		}
	}
	return ids
}

func (r *Registry) build(region domain.Region) (driven.Collector, error) {
	return NewCollector(region, r.client, r.executor, domain.CollectorConfig{
		ID:         region.Code,
		Name:       region.Name + " Business Registry",
		Endpoint:   region.PortalURL,
		RateLimit:  domain.RateLimit{PerMinute: region.RequestsPerMinute},
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	})
}

func (r *Registry) lookupCatalog(id string) (domain.Region, bool) {
	for _, region := range r.catalog {
		if region.Code == id {
			return region, true
		}
	}
	return domain.Region{}, false
}
