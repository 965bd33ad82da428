package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jonwraymond/etagops/auth"
	"github.com/jonwraymond/etagops/cache"
	"github.com/jonwraymond/etagops/health"
	"github.com/jonwraymond/etagops/observe"
)

// Config wires the router to the caches it administers.
type Config struct {
	Caches []cache.Cache
	Health *health.Aggregator

	// Authenticator guards the clear endpoints. Nil leaves them open.
	Authenticator auth.Authenticator

	Logger observe.Logger
}

type server struct {
	caches map[string]cache.Cache
	order  []string
	logger observe.Logger
}

// NewRouter builds the admin router.
func NewRouter(cfg Config) chi.Router {
	s := &server{
		caches: make(map[string]cache.Cache, len(cfg.Caches)),
		logger: cfg.Logger,
	}
	if s.logger == nil {
		s.logger = observe.NopLogger()
	}
	for _, c := range cfg.Caches {
		if c == nil {
			continue
		}
		if _, dup := s.caches[c.Name()]; !dup {
			s.order = append(s.order, c.Name())
		}
		s.caches[c.Name()] = c
	}

	agg := cfg.Health
	if agg == nil {
		agg = health.NewAggregator()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(agg))
	r.Get("/health", health.DetailedHandler(agg))

	r.Route("/caches", func(r chi.Router) {
		r.Get("/", s.listCaches)
		r.Get("/{name}", s.getCache)

		r.Group(func(r chi.Router) {
			if cfg.Authenticator != nil {
				r.Use(auth.Require(cfg.Authenticator, auth.RoleCacheAdmin))
			}
			r.Post("/clear", s.clearAll)
			r.Post("/{name}/clear", s.clearOne)
		})
	})

	return r
}

func (s *server) listCaches(w http.ResponseWriter, _ *http.Request) {
	stats := make([]cache.Stats, 0, len(s.order))
	for _, name := range s.order {
		stats = append(stats, cache.StatsOf(s.caches[name]))
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *server) getCache(w http.ResponseWriter, r *http.Request) {
	c, ok := s.caches[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, cache.StatsOf(c))
}

func (s *server) clearAll(w http.ResponseWriter, r *http.Request) {
	for _, name := range s.order {
		s.clear(r, s.caches[name])
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) clearOne(w http.ResponseWriter, r *http.Request) {
	c, ok := s.caches[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.clear(r, c)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) clear(r *http.Request, c cache.Cache) {
	ctx := r.Context()
	c.Clear(ctx)
	s.logger.Info(ctx, "admin cache clear",
		observe.Field{Key: observe.AttrCacheName, Value: c.Name()},
		observe.Field{Key: "principal", Value: auth.PrincipalFromContext(ctx)},
		observe.Field{Key: "request_id", Value: chimw.GetReqID(ctx)},
	)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
