package health

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a CheckAll run when AggregatorConfig.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout is the maximum time to wait for all checks.
	// Default: 5 seconds
	Timeout time.Duration

	// MaxParallel caps concurrently running checks. Zero or less runs all
	// checks at once; 1 runs them one after another.
	MaxParallel int
}

// Aggregator combines named health checkers.
type Aggregator struct {
	config AggregatorConfig

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewAggregator creates a new health aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	var cfg AggregatorConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Aggregator{
		config:   cfg,
		checkers: make(map[string]Checker),
	}
}

// Register adds or replaces the checker for name.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = checker
}

// Unregister removes the checker for name.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.checkers, name)
	a.order = slices.DeleteFunc(a.order, func(n string) bool { return n == name })
}

// CheckerNames returns the registered names in registration order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.order)
}

// Check runs a single named health check.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return run(ctx, checker), nil
}

// CheckAll runs every registered check and returns the results by name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	names := slices.Clone(a.order)
	checkers := make([]Checker, len(names))
	for i, name := range names {
		checkers[i] = a.checkers[name]
	}
	a.mu.RUnlock()

	results := make([]Result, len(names))
	if len(names) > 0 {
		ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()

		var g errgroup.Group
		if a.config.MaxParallel > 0 {
			g.SetLimit(a.config.MaxParallel)
		}
		for i, checker := range checkers {
			g.Go(func() error {
				results[i] = run(ctx, checker)
				return nil
			})
		}
		_ = g.Wait()
	}

	out := make(map[string]Result, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out
}

// Overall folds results into the most severe status. No results is healthy.
func Overall(results map[string]Result) Status {
	status := StatusHealthy
	for _, r := range results {
		status = status.Worse(r.Status)
	}
	return status
}

func run(ctx context.Context, checker Checker) Result {
	start := time.Now()
	done := make(chan Result, 1)

	go func() {
		done <- checker.Check(ctx)
	}()

	select {
	case result := <-done:
		result.Duration = time.Since(start)
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
