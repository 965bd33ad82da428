package auth

import (
	"context"
	"net/http"
)

// CompositeAuthenticator hands a request to the first authenticator that
// supports it.
type CompositeAuthenticator struct {
	authenticators []Authenticator
}

// NewCompositeAuthenticator creates a composite authenticator. Nil entries
// are skipped.
func NewCompositeAuthenticator(auths ...Authenticator) *CompositeAuthenticator {
	c := &CompositeAuthenticator{}
	for _, a := range auths {
		if a != nil {
			c.authenticators = append(c.authenticators, a)
		}
	}
	return c
}

func (c *CompositeAuthenticator) Name() string {
	return "composite"
}

// Len returns how many authenticators are configured.
func (c *CompositeAuthenticator) Len() int {
	return len(c.authenticators)
}

func (c *CompositeAuthenticator) Supports(h http.Header) bool {
	for _, a := range c.authenticators {
		if a.Supports(h) {
			return true
		}
	}
	return false
}

func (c *CompositeAuthenticator) Authenticate(ctx context.Context, h http.Header) (*Identity, error) {
	for _, a := range c.authenticators {
		if a.Supports(h) {
			return a.Authenticate(ctx, h)
		}
	}
	return nil, ErrMissingCredentials
}

var _ Authenticator = (*CompositeAuthenticator)(nil)
