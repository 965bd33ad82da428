package etagops

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"testing/fstest"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/etagops/auth"
	"github.com/jonwraymond/etagops/cache"
	"github.com/jonwraymond/etagops/conditional"
	"github.com/jonwraymond/etagops/observe"
)

func quietObserver(t *testing.T) observe.Observer {
	t.Helper()
	obs, err := observe.NewObserver(context.Background(), observe.Config{ServiceName: "test"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	return obs
}

func newManager(t *testing.T, cfg Config, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithObserver(quietObserver(t))}, opts...)
	m, err := New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })
	return m
}

func testFiles() fstest.MapFS {
	mod := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"www/a.txt": {Data: []byte("alpha"), ModTime: mod},
		"www/b.txt": {Data: []byte("bravo"), ModTime: mod},
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	m := newManager(t, DefaultConfig())

	if m.Keys().Cap() != cache.DefaultCapacity || m.Files().Cap() != cache.DefaultCapacity {
		t.Errorf("caps = %d/%d, want %d", m.Keys().Cap(), m.Files().Cap(), cache.DefaultCapacity)
	}
	names := m.Health().CheckerNames()
	for _, want := range []string{cache.KeyCacheName, cache.FileCacheName} {
		if !slices.Contains(names, want) {
			t.Errorf("health checks %v missing %q", names, want)
		}
	}
	if slices.Contains(names, ReadLimitCheckName) {
		t.Error("read limit check registered without a read limit")
	}
	if m.Authenticator() != nil {
		t.Error("authenticator configured without credentials")
	}
}

func TestNew_ConfiguredCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 2
	cfg.ReadLimit = 1
	m := newManager(t, cfg)

	if m.Keys().Cap() != 2 || m.Files().Cap() != 2 {
		t.Errorf("caps = %d/%d, want 2", m.Keys().Cap(), m.Files().Cap())
	}
	if !slices.Contains(m.Health().CheckerNames(), ReadLimitCheckName) {
		t.Error("read limit check not registered")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = -5

	_, err := New(context.Background(), cfg, WithObserver(quietObserver(t)))
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("New() error = %v, want ErrInvalidCapacity", err)
	}
}

func TestNew_OwnObserver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "error"

	m, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestManager_ClearAndStats(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, DefaultConfig(), WithFileSystem(cache.FS(testFiles())))

	m.Keys().GetOrInsert(ctx, "k1", []byte("one"))
	for _, p := range []string{"www/a.txt", "www/b.txt"} {
		if _, err := m.Files().GetOrInsert(ctx, p); err != nil {
			t.Fatalf("GetOrInsert(%s) error = %v", p, err)
		}
	}

	want := []cache.Stats{
		{Name: cache.KeyCacheName, Len: 1, Cap: 64},
		{Name: cache.FileCacheName, Len: 2, Cap: 64},
	}
	if got := m.Stats(); !slices.Equal(got, want) {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}

	m.ClearFiles(ctx)
	if m.Files().Len() != 0 || m.Keys().Len() != 1 {
		t.Errorf("after ClearFiles: files=%d keys=%d", m.Files().Len(), m.Keys().Len())
	}

	if err := m.Clear(ctx, cache.KeyCacheName); err != nil {
		t.Fatalf("Clear(keys) error = %v", err)
	}
	if m.Keys().Len() != 0 {
		t.Errorf("keys len = %d after Clear", m.Keys().Len())
	}
	if err := m.Clear(ctx, "nope"); !errors.Is(err, ErrUnknownCache) {
		t.Errorf("Clear(nope) error = %v, want ErrUnknownCache", err)
	}

	m.Keys().GetOrInsert(ctx, "k2", []byte("two"))
	m.ClearAll(ctx)
	if m.Keys().Len() != 0 || m.Files().Len() != 0 {
		t.Error("ClearAll left entries")
	}
}

func TestManager_ServesConditional(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, DefaultConfig(), WithFileSystem(cache.FS(testFiles())))

	first, err := conditional.FromFile(ctx, conditional.IfNoneMatch{}, m.Files(), "www/a.txt", "", "")
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	_ = first.Close()

	again, err := conditional.FromFile(ctx, conditional.ParseIfNoneMatch(first.Tag().String()), m.Files(), "www/a.txt", "", "")
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if !again.NotModified() {
		t.Error("second request with current tag should be 304")
	}
}

func TestManager_AdminHandler(t *testing.T) {
	ctx := context.Background()
	jwtSecret := []byte("jwt-secret")

	cfg := DefaultConfig()
	cfg.AdminAPIKey = "k3y"
	cfg.AdminJWTSecret = string(jwtSecret)
	m := newManager(t, cfg)

	token, err := auth.SignToken(jwtSecret, auth.Claims{
		Roles: []string{auth.RoleCacheAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "deployer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"anonymous", "", "", http.StatusUnauthorized},
		{"api key", auth.DefaultAPIKeyHeader, "k3y", http.StatusNoContent},
		{"bearer token", "Authorization", "Bearer " + token, http.StatusNoContent},
		{"bad token", "Authorization", "Bearer nope", http.StatusUnauthorized},
	}
	h := m.AdminHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Keys().GetOrInsert(ctx, "k", []byte("v"))

			req := httptest.NewRequest(http.MethodPost, "/caches/keys/clear", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("code = %d, want %d", rec.Code, tt.want)
			}
			if (m.Keys().Len() == 0) != (tt.want == http.StatusNoContent) {
				t.Errorf("keys len = %d after %d", m.Keys().Len(), rec.Code)
			}
			m.ClearKeys(ctx)
		})
	}
}

func TestManager_WithAuthenticatorOverridesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdminAPIKey = "ignored"
	custom := auth.NewAPIKeyAuthenticator("X-Ops-Key")

	m := newManager(t, cfg, WithAuthenticator(custom))
	if m.Authenticator() != auth.Authenticator(custom) {
		t.Error("WithAuthenticator not honored")
	}
}
