package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIKeyHeader carries API keys when no header is configured.
const DefaultAPIKeyHeader = "X-API-Key"

// APIKey describes one accepted key. Only its SHA-256 hash is kept.
type APIKey struct {
	Principal string
	Hash      string // hex SHA-256, see HashAPIKey
	Roles     []string
	ExpiresAt time.Time
}

// APIKeyAuthenticator validates keys against a fixed set.
type APIKeyAuthenticator struct {
	header string
	keys   []APIKey
}

// NewAPIKeyAuthenticator creates an authenticator reading keys from header.
// An empty header means DefaultAPIKeyHeader.
func NewAPIKeyAuthenticator(header string, keys ...APIKey) *APIKeyAuthenticator {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	return &APIKeyAuthenticator{header: header, keys: keys}
}

func (a *APIKeyAuthenticator) Name() string {
	return string(AuthMethodAPIKey)
}

func (a *APIKeyAuthenticator) Supports(h http.Header) bool {
	return h.Get(a.header) != ""
}

// Authenticate matches the presented key's hash against every registered
// key in constant time.
func (a *APIKeyAuthenticator) Authenticate(_ context.Context, h http.Header) (*Identity, error) {
	presented := strings.TrimSpace(h.Get(a.header))
	if presented == "" {
		return nil, ErrMissingCredentials
	}
	sum := []byte(HashAPIKey(presented))

	var match *APIKey
	for i := range a.keys {
		if subtle.ConstantTimeCompare(sum, []byte(a.keys[i].Hash)) == 1 {
			match = &a.keys[i]
		}
	}
	if match == nil {
		return nil, ErrInvalidCredentials
	}
	if !match.ExpiresAt.IsZero() && time.Now().After(match.ExpiresAt) {
		return nil, fmt.Errorf("%w: api key for %s", ErrTokenExpired, match.Principal)
	}

	return &Identity{
		Principal: match.Principal,
		Roles:     match.Roles,
		Method:    AuthMethodAPIKey,
		ExpiresAt: match.ExpiresAt,
	}, nil
}

// HashAPIKey hashes an API key using SHA-256 for storage.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

var _ Authenticator = (*APIKeyAuthenticator)(nil)
