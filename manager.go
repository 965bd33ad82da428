package etagops

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonwraymond/etagops/admin"
	"github.com/jonwraymond/etagops/auth"
	"github.com/jonwraymond/etagops/cache"
	"github.com/jonwraymond/etagops/health"
	"github.com/jonwraymond/etagops/observe"
	"github.com/jonwraymond/etagops/resilience"
	"github.com/jonwraymond/etagops/secret"
)

// ReadLimitCheckName is the health check registered for the file read
// bulkhead.
const ReadLimitCheckName = "read_limit"

// Option configures a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	observer observe.Observer
	fs       cache.FileSystem
	resolver *secret.Resolver
	authn    auth.Authenticator
}

// WithObserver supplies telemetry instead of building it from Config.
// The caller keeps ownership; Shutdown does not stop it.
func WithObserver(obs observe.Observer) Option {
	return func(o *managerOptions) {
		o.observer = obs
	}
}

// WithFileSystem sets the file system the FileCache reads from.
func WithFileSystem(fsys cache.FileSystem) Option {
	return func(o *managerOptions) {
		o.fs = fsys
	}
}

// WithSecretResolver overrides the resolver used for admin credentials.
func WithSecretResolver(r *secret.Resolver) Option {
	return func(o *managerOptions) {
		o.resolver = r
	}
}

// WithAuthenticator guards the admin clear endpoints with authn instead of
// the credentials in Config.
func WithAuthenticator(authn auth.Authenticator) Option {
	return func(o *managerOptions) {
		o.authn = authn
	}
}

// Manager owns the caches of one serving process.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Lifecycle: both caches exist from New until the process ends; Shutdown
//     only flushes telemetry.
type Manager struct {
	obs       observe.Observer
	ownsObs   bool
	logger    observe.Logger
	keys      *cache.KeyCache
	files     *cache.FileCache
	readLimit *resilience.Bulkhead
	health    *health.Aggregator
	authn     auth.Authenticator
}

// New validates cfg and creates both caches with cfg.Capacity.
func New(ctx context.Context, cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := managerOptions{resolver: secret.DefaultResolver()}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{obs: o.observer}
	if m.obs == nil {
		obs, err := observe.NewObserver(ctx, cfg.observeConfig())
		if err != nil {
			return nil, fmt.Errorf("etagops: observer: %w", err)
		}
		m.obs, m.ownsObs = obs, true
	}
	m.logger = m.obs.Logger()

	inst, err := observe.InstrumentationFromObserver(m.obs)
	if err != nil {
		return nil, m.abort(ctx, fmt.Errorf("etagops: instrumentation: %w", err))
	}

	common := []cache.Option{
		cache.WithLogger(m.logger),
		cache.WithInstrumentation(inst),
		cache.WithCoalescing(cfg.Coalesce),
	}
	m.keys = cache.NewKeyCache(cfg.Capacity, common...)

	fileOpts := common
	if o.fs != nil {
		fileOpts = append(fileOpts, cache.WithFileSystem(o.fs))
	}
	if cfg.ReadLimit > 0 {
		m.readLimit = resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: cfg.ReadLimit,
			MaxWait:       cfg.ReadWait,
		})
		fileOpts = append(fileOpts, cache.WithReadLimit(m.readLimit))
	}
	m.files = cache.NewFileCache(cfg.Capacity, fileOpts...)

	m.health = health.NewAggregator()
	m.health.Register(m.keys.Name(), health.NewCacheChecker(m.keys))
	m.health.Register(m.files.Name(), health.NewCacheChecker(m.files))
	if m.readLimit != nil {
		m.health.Register(ReadLimitCheckName, health.NewReadLimitChecker(m.readLimit))
	}

	m.authn = o.authn
	if m.authn == nil {
		m.authn, err = cfg.authenticator(ctx, o.resolver)
		if err != nil {
			return nil, m.abort(ctx, err)
		}
	}

	m.logger.Info(ctx, "etag caches attached",
		observe.Field{Key: "capacity", Value: cfg.Capacity},
		observe.Field{Key: "read_limit", Value: cfg.ReadLimit},
		observe.Field{Key: "coalesce", Value: cfg.Coalesce},
		observe.Field{Key: "admin_auth", Value: m.authn != nil},
	)
	return m, nil
}

// abort releases an observer New created before returning err.
func (m *Manager) abort(ctx context.Context, err error) error {
	if m.ownsObs {
		_ = m.obs.Shutdown(ctx)
	}
	return err
}

// Keys returns the key-keyed cache.
func (m *Manager) Keys() *cache.KeyCache { return m.keys }

// Files returns the path-keyed cache.
func (m *Manager) Files() *cache.FileCache { return m.files }

// Health returns the aggregator holding the cache checks. Callers may
// register their own checks on it.
func (m *Manager) Health() *health.Aggregator { return m.health }

// Logger returns the process logger.
func (m *Manager) Logger() observe.Logger { return m.logger }

// Authenticator returns the admin authenticator, or nil when the admin
// endpoints are open.
func (m *Manager) Authenticator() auth.Authenticator { return m.authn }

// Caches lists the managed caches in a stable order.
func (m *Manager) Caches() []cache.Cache {
	return []cache.Cache{m.keys, m.files}
}

// ClearKeys drops every key-keyed tag.
func (m *Manager) ClearKeys(ctx context.Context) { m.keys.Clear(ctx) }

// ClearFiles drops every path-keyed tag.
func (m *Manager) ClearFiles(ctx context.Context) { m.files.Clear(ctx) }

// ClearAll drops every tag in both caches.
func (m *Manager) ClearAll(ctx context.Context) {
	m.ClearKeys(ctx)
	m.ClearFiles(ctx)
}

// Clear drops every tag of the cache called name.
func (m *Manager) Clear(ctx context.Context, name string) error {
	for _, c := range m.Caches() {
		if c.Name() == name {
			c.Clear(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCache, name)
}

// Stats snapshots the occupancy of both caches.
func (m *Manager) Stats() []cache.Stats {
	caches := m.Caches()
	stats := make([]cache.Stats, len(caches))
	for i, c := range caches {
		stats[i] = cache.StatsOf(c)
	}
	return stats
}

// AdminHandler returns the admin router for the managed caches.
func (m *Manager) AdminHandler() http.Handler {
	return admin.NewRouter(admin.Config{
		Caches:        m.Caches(),
		Health:        m.health,
		Authenticator: m.authn,
		Logger:        m.logger,
	})
}

// Shutdown flushes telemetry. The caches stay usable.
func (m *Manager) Shutdown(ctx context.Context) error {
	if !m.ownsObs {
		return nil
	}
	return m.obs.Shutdown(ctx)
}
