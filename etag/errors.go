package etag

import "errors"

// Sentinel errors for tag parsing.
var (
	// ErrMalformed indicates a header value that is not a valid entity tag.
	ErrMalformed = errors.New("etag: malformed entity tag")

	// ErrEmpty indicates an empty header value.
	ErrEmpty = errors.New("etag: empty entity tag")
)
