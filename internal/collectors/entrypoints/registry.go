package entrypoints

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
	// DefaultTimeout bounds a single source call.
	DefaultTimeout = 20 * time.Second

	// DefaultMaxRetries is the retry ceiling per source call.
	DefaultMaxRetries = 3
)

// Ensure Registry implements the driven port.
var _ driven.CollectorRegistry = (*Registry)(nil)

// Registry owns the entry-point-id-to-collector mapping. Adapters are
// chosen by entry-point kind: file feeds and webhook spools read from
// the feed directory, the remaining kinds use the stub adapter until
// real clients are wired in.
type Registry struct {
	executor *retry.Executor
	catalog  []domain.EntryPoint
	adapters map[domain.EntryPointKind]SourceAdapter

	mu         sync.RWMutex
	collectors map[string]driven.Collector
}

// NewRegistry builds an empty registry over the static entry-point
// catalog. feedDir roots the file-feed and webhook-spool adapters.
func NewRegistry(feedDir string, executor *retry.Executor) *Registry {
	feed := NewFileFeedAdapter(feedDir)
	stub := NewStubAdapter()
	return &Registry{
		executor: executor,
		catalog:  domain.EntryPoints(),
		adapters: map[domain.EntryPointKind]SourceAdapter{
			domain.EntryPointAPI:      stub,
			domain.EntryPointPortal:   stub,
			domain.EntryPointDatabase: stub,
			domain.EntryPointWebhook:  feed,
			domain.EntryPointFileFeed: feed,
		},
		collectors: make(map[string]driven.Collector),
	}
}

// SetAdapter overrides the adapter for one entry-point kind. Call before
// Create/CreateAll; existing collectors keep their adapter.
func (r *Registry) SetAdapter(kind domain.EntryPointKind, adapter SourceAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[kind] = adapter
}

// Family returns the entrypoints family marker.
func (r *Registry) Family() domain.CollectorFamily { return domain.FamilyEntryPoints }

// CatalogSize reports how many entry points the catalog knows about.
func (r *Registry) CatalogSize() int { return len(r.catalog) }

// CreateAll instantiates a collector for every catalog entry point,
// replacing any existing instances. Returns the number created.
func (r *Registry) CreateAll() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := make(map[string]driven.Collector, len(r.catalog))
	for _, ep := range r.catalog {
		collector, err := r.build(ep)
		if err != nil {
			return 0, fmt.Errorf("create %s: %w", ep.ID, err)
		}
		created[ep.ID] = collector
	}

	r.collectors = created
	return len(created), nil
}

// Create builds and registers the collector for one entry-point id.
// Returns domain.ErrNotFound for an id the catalog does not know.
func (r *Registry) Create(id string) (driven.Collector, error) {
	ep, ok := r.lookupCatalog(id)
	if !ok {
		return nil, fmt.Errorf("entry point %s: %w", id, domain.ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	collector, err := r.build(ep)
	if err != nil {
		return nil, err
	}
	r.collectors[id] = collector
	return collector, nil
}

// Get returns the instantiated collector for an entry-point id. The
// second return is false when absent; Get never fails.
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

// IDs returns the registered entry-point ids in catalog order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.collectors))
	for _, ep := range r.catalog {
		if _, ok := r.collectors[ep.ID]; ok {
			ids = append(ids, ep.ID)
		}
	}
	return ids
}

// build must be called with r.mu held.
func (r *Registry) build(ep domain.EntryPoint) (driven.Collector, error) {
	adapter, ok := r.adapters[ep.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for kind %s", domain.ErrInvalidConfig, ep.Kind)
	}

	return NewCollector(ep, adapter, r.executor, domain.CollectorConfig{
		ID:         ep.ID,
		Name:       ep.Name,
		Endpoint:   ep.Endpoint,
		RateLimit:  domain.RateLimit{PerMinute: ep.RequestsPerMinute},
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	})
}

func (r *Registry) lookupCatalog(id string) (domain.EntryPoint, bool) {
	for _, ep := range r.catalog {
		if ep.ID == id {
			return ep, true
		}
	}
	return domain.EntryPoint{}, false
}
