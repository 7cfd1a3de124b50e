package pool

import "errors"

// Failure kinds surfaced by the service. Callers classify with errors.Is.
var (
	// ErrInvalidInput means the caller's payload is missing required fields.
	// It is always detected before any external call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResolverFailure means the chain lookup failed or returned malformed data.
	ErrResolverFailure = errors.New("resolver failure")

	// ErrStoreFailure means the record store rejected or failed the operation.
	ErrStoreFailure = errors.New("store failure")

	// ErrNotFound means update or delete targeted an id with no record.
	ErrNotFound = errors.New("pool not found")
)
