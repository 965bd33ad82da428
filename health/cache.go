package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/etagops/resilience"
)

// Occupancy is the view of a cache a CacheChecker needs.
type Occupancy interface {
	Name() string
	Len() int
	Cap() int
}

// CacheChecker reports a cache's fill level.
// A zero-capacity cache is degraded: it serves, but recomputes every tag.
type CacheChecker struct {
	cache Occupancy
}

// NewCacheChecker creates a checker for c.
func NewCacheChecker(c Occupancy) *CacheChecker {
	return &CacheChecker{cache: c}
}

func (c *CacheChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context done", err)
	}

	n, capacity := c.cache.Len(), c.cache.Cap()
	details := map[string]any{
		"entries":  n,
		"capacity": capacity,
	}

	if capacity == 0 {
		return Degraded(c.cache.Name() + " cache disabled (capacity 0)").WithDetails(details)
	}
	details["fill"] = float64(n) / float64(capacity)
	return Healthy(fmt.Sprintf("%s cache %d/%d", c.cache.Name(), n, capacity)).WithDetails(details)
}

// ReadLimitChecker reports whether the file read bulkhead is saturated.
type ReadLimitChecker struct {
	bulkhead *resilience.Bulkhead
}

// NewReadLimitChecker creates a checker for b.
func NewReadLimitChecker(b *resilience.Bulkhead) *ReadLimitChecker {
	return &ReadLimitChecker{bulkhead: b}
}

func (c *ReadLimitChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context done", err)
	}

	m := c.bulkhead.Metrics()
	details := map[string]any{
		"active":     m.Active,
		"max_active": m.MaxActive,
		"limit":      m.MaxConcurrent,
		"rejected":   m.Rejected,
	}
	if m.Available <= 0 {
		return Degraded("all read slots busy").WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d of %d read slots free", m.Available, m.MaxConcurrent)).WithDetails(details)
}

var (
	_ Checker = (*CacheChecker)(nil)
	_ Checker = (*ReadLimitChecker)(nil)
)
