// Package driven defines the interfaces the orchestration core depends on:
// collectors, their factories and registries, and the consumer-side stores.
// Adapters under internal/collectors and internal/adapters/driven implement
// these.
package driven
