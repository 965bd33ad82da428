package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type failingAuthenticator struct{}

func (failingAuthenticator) Name() string              { return "failing" }
func (failingAuthenticator) Supports(http.Header) bool { return true }
func (failingAuthenticator) Authenticate(context.Context, http.Header) (*Identity, error) {
	return nil, errors.New("key store unreachable")
}

type fixedAuthenticator struct{ id *Identity }

func (fixedAuthenticator) Name() string              { return "fixed" }
func (fixedAuthenticator) Supports(http.Header) bool { return true }
func (f fixedAuthenticator) Authenticate(context.Context, http.Header) (*Identity, error) {
	return f.id, nil
}

func TestRequire(t *testing.T) {
	keys := NewAPIKeyAuthenticator("",
		APIKey{Principal: "admin", Hash: HashAPIKey("admin-key"), Roles: []string{RoleCacheAdmin}},
		APIKey{Principal: "viewer", Hash: HashAPIKey("viewer-key")},
	)

	tests := []struct {
		name     string
		authn    Authenticator
		header   http.Header
		wantCode int
	}{
		{"admin", keys, keyHeader("admin-key"), http.StatusNoContent},
		{"no role", keys, keyHeader("viewer-key"), http.StatusForbidden},
		{"bad key", keys, keyHeader("wrong"), http.StatusUnauthorized},
		{"no credentials", keys, http.Header{}, http.StatusUnauthorized},
		{"internal failure", failingAuthenticator{}, http.Header{}, http.StatusInternalServerError},
		{"expired identity", fixedAuthenticator{&Identity{
			Principal: "x", Roles: []string{RoleCacheAdmin}, ExpiresAt: time.Now().Add(-time.Second),
		}}, http.Header{}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/caches/clear", nil)
			req.Header = tt.header
			rec := httptest.NewRecorder()
			Require(tt.authn, RoleCacheAdmin)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 without WWW-Authenticate")
			}
			if tt.wantCode == http.StatusNoContent && seen != "admin" {
				t.Errorf("identity in context = %q, want admin", seen)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if IdentityFromContext(ctx) != nil || PrincipalFromContext(ctx) != "" {
		t.Fatal("empty context returned an identity")
	}

	id := &Identity{Principal: "alice", Roles: []string{"a", "b"}}
	ctx = WithIdentity(ctx, id)
	if IdentityFromContext(ctx) != id {
		t.Error("IdentityFromContext did not return the stored identity")
	}
	if PrincipalFromContext(ctx) != "alice" {
		t.Errorf("PrincipalFromContext = %q", PrincipalFromContext(ctx))
	}
}

func TestIdentity_HasRole(t *testing.T) {
	id := &Identity{Roles: []string{"reader", RoleCacheAdmin}}
	if !id.HasRole(RoleCacheAdmin) || id.HasRole("writer") {
		t.Errorf("HasRole mismatch for %v", id.Roles)
	}
	var nilID *Identity
	if nilID.HasRole(RoleCacheAdmin) {
		t.Error("nil identity has a role")
	}
}
