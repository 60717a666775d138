package driven

import "github.com/leadscout-labs/leadscout-cli/internal/core/domain"

// CollectorRegistry owns the identity-to-collector mapping for one
// collector family. Registries are constructed explicitly and passed to
// the orchestrator; there is no package-level default instance.
type CollectorRegistry interface {
	// Family returns the collector family this registry manages.
	Family() domain.CollectorFamily

	// CreateAll instantiates every catalog-known identity, replacing any
	// existing instances. Returns the number of collectors created.
	CreateAll() (int, error)

	// Create builds the collector for one catalog identity.
	// Returns domain.ErrNotFound for an identity the catalog does not know.
	Create(id string) (Collector, error)

	// Get returns the instantiated collector for an identity.
	// The second return is false when the identity is absent; Get never
	// fails otherwise.
	Get(id string) (Collector, bool)

	// List returns a copy of the identity-to-collector mapping. Mutating
	// the returned map never affects the registry.
	List() map[string]Collector

	// IDs returns the registered identities in catalog order.
	IDs() []string
}
