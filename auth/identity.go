package auth

import (
	"slices"
	"time"
)

// RoleCacheAdmin allows clearing caches through the admin API.
const RoleCacheAdmin = "cache:admin"

// AuthMethod indicates how authentication was performed.
type AuthMethod string

const (
	AuthMethodJWT    AuthMethod = "jwt"
	AuthMethodAPIKey AuthMethod = "api_key"
)

// Identity represents an authenticated principal.
type Identity struct {
	Principal string
	Roles     []string
	Method    AuthMethod

	// ExpiresAt is zero for credentials that never expire.
	ExpiresAt time.Time
}

// HasRole checks if the identity has a specific role.
func (id *Identity) HasRole(role string) bool {
	return id != nil && slices.Contains(id.Roles, role)
}

// IsExpired checks if the identity has expired.
func (id *Identity) IsExpired() bool {
	return !id.ExpiresAt.IsZero() && time.Now().After(id.ExpiresAt)
}
