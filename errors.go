package etagops

import "errors"

// Configuration errors.
var (
	// ErrInvalidCapacity indicates a negative cache capacity.
	ErrInvalidCapacity = errors.New("etagops: cache capacity must not be negative")

	// ErrInvalidReadLimit indicates a negative read limit or read wait.
	ErrInvalidReadLimit = errors.New("etagops: read limit must not be negative")
)

// ErrUnknownCache indicates a clear or stats request for a cache name the
// Manager does not own.
var ErrUnknownCache = errors.New("etagops: unknown cache")
