package auth

import (
	"context"
	"errors"
	"net/http"
)

// Authenticator validates credentials and returns an identity.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: a rejected credential wraps ErrMissingCredentials,
//     ErrInvalidCredentials, ErrTokenExpired or ErrTokenMalformed. Any other
//     error is internal.
type Authenticator interface {
	// Name returns a unique identifier for this authenticator.
	Name() string

	// Supports reports whether h carries credentials this authenticator reads.
	Supports(h http.Header) bool

	// Authenticate validates the credentials in h.
	Authenticate(ctx context.Context, h http.Header) (*Identity, error)
}

// IsRejection reports whether err means the caller presented bad or no
// credentials, as opposed to an internal failure.
func IsRejection(err error) bool {
	for _, target := range []error{ErrMissingCredentials, ErrInvalidCredentials, ErrTokenExpired, ErrTokenMalformed} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
