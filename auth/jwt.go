package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures the JWT authenticator.
type JWTConfig struct {
	// Secret signs and verifies HS256 tokens.
	Secret []byte

	// Issuer is the expected iss claim. Empty skips the check.
	Issuer string

	// Audience is the expected aud claim. Empty skips the check.
	Audience string
}

// Claims are the claims read from admin tokens.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthenticator validates bearer tokens signed with a shared secret.
type JWTAuthenticator struct {
	config JWTConfig
	parser *jwt.Parser
}

// NewJWTAuthenticator creates a new JWT authenticator.
func NewJWTAuthenticator(config JWTConfig) *JWTAuthenticator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}
	return &JWTAuthenticator{config: config, parser: jwt.NewParser(opts...)}
}

func (a *JWTAuthenticator) Name() string {
	return string(AuthMethodJWT)
}

func (a *JWTAuthenticator) Supports(h http.Header) bool {
	_, ok := bearer(h)
	return ok
}

// Authenticate validates the bearer token.
func (a *JWTAuthenticator) Authenticate(_ context.Context, h http.Header) (*Identity, error) {
	raw, ok := bearer(h)
	if !ok {
		return nil, ErrMissingCredentials
	}

	var claims Claims
	_, err := a.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.config.Secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	id := &Identity{
		Principal: claims.Subject,
		Roles:     claims.Roles,
		Method:    AuthMethodJWT,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// SignToken issues an HS256 token carrying claims.
func SignToken(secret []byte, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func bearer(h http.Header) (string, bool) {
	token, ok := strings.CutPrefix(h.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

var _ Authenticator = (*JWTAuthenticator)(nil)
