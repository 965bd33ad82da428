package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// LookupResult classifies a cache lookup.
type LookupResult string

const (
	// LookupHit means a cached tag was returned without reading content.
	LookupHit LookupResult = "hit"
	// LookupMiss means no entry existed and a tag was computed.
	LookupMiss LookupResult = "miss"
	// LookupStale means an entry existed but had to be recomputed.
	LookupStale LookupResult = "stale"
)

// FingerprintDone finishes a fingerprint started with StartFingerprint.
// n is the number of bytes folded into the checksum.
type FingerprintDone func(n int64, err error)

// CacheInstrumentation receives cache events.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; never blocks on exporters.
// - Errors: implementations must not panic.
type CacheInstrumentation interface {
	RecordLookup(ctx context.Context, cache string, result LookupResult)
	RecordEviction(ctx context.Context, cache string)
	RecordClear(ctx context.Context, cache string)

	// StartFingerprint opens a span for reading and hashing subject.
	// The returned func must be called exactly once.
	StartFingerprint(ctx context.Context, cache, subject string) (context.Context, FingerprintDone)
}

type cacheInstrumentation struct {
	metrics *cacheMetrics
	tracer  trace.Tracer
}

// NewCacheInstrumentation builds instrumentation from a meter and tracer.
func NewCacheInstrumentation(meter metric.Meter, tracer trace.Tracer) (CacheInstrumentation, error) {
	m, err := newCacheMetrics(meter)
	if err != nil {
		return nil, err
	}
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return &cacheInstrumentation{metrics: m, tracer: tracer}, nil
}

// InstrumentationFromObserver builds cache instrumentation from an Observer.
func InstrumentationFromObserver(obs Observer) (CacheInstrumentation, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	return NewCacheInstrumentation(obs.Meter(), obs.Tracer())
}

func (c *cacheInstrumentation) RecordLookup(ctx context.Context, cache string, result LookupResult) {
	c.metrics.recordLookup(ctx, cache, result)
}

func (c *cacheInstrumentation) RecordEviction(ctx context.Context, cache string) {
	c.metrics.recordEviction(ctx, cache)
}

func (c *cacheInstrumentation) RecordClear(ctx context.Context, cache string) {
	c.metrics.recordClear(ctx, cache)
}

func (c *cacheInstrumentation) StartFingerprint(ctx context.Context, cache, subject string) (context.Context, FingerprintDone) {
	start := time.Now()
	ctx, span := startFingerprintSpan(ctx, c.tracer, cache, subject)

	return ctx, func(n int64, err error) {
		endFingerprintSpan(span, n, err)
		c.metrics.recordFingerprint(ctx, cache, n, time.Since(start), err)
	}
}

// NopInstrumentation returns instrumentation that records nothing.
func NopInstrumentation() CacheInstrumentation {
	return nopInstrumentation{}
}

type nopInstrumentation struct{}

func (nopInstrumentation) RecordLookup(context.Context, string, LookupResult) {}
func (nopInstrumentation) RecordEviction(context.Context, string)             {}
func (nopInstrumentation) RecordClear(context.Context, string)                {}

func (nopInstrumentation) StartFingerprint(ctx context.Context, _, _ string) (context.Context, FingerprintDone) {
	return ctx, func(int64, error) {}
}
