package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Configuration Errors.

	// ErrInvalidConfig indicates a collector configuration failed validation.
	// Configuration errors fail fast and are never retried.
	ErrInvalidConfig = errors.New("invalid collector configuration")

	// ErrUnknownCollector indicates a collector identity is not in the catalog.
	ErrUnknownCollector = errors.New("unknown collector")

	// Collection Errors.

	// ErrCollectionInProgress indicates a collection cycle is already running.
	ErrCollectionInProgress = errors.New("collection in progress")

	// ErrCollectorClosed indicates the collector has been closed.
	ErrCollectorClosed = errors.New("collector closed")

	// ErrRateLimited indicates the source's rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransient marks a failure as retryable (timeout, reset, DNS).
	// Collectors wrap provider errors with this sentinel when they can
	// tell the failure is transient.
	ErrTransient = errors.New("transient failure")

	// ErrPermanent marks a failure as not retryable (validation,
	// unrecognised page layout). Surfaced immediately, no retry.
	ErrPermanent = errors.New("permanent failure")

	// ErrAnalysisUnavailable indicates a collector has no analysis capability.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
)
