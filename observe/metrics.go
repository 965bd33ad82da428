package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names.
const (
	MetricLookups             = "etag.cache.lookups"
	MetricEvictions           = "etag.cache.evictions"
	MetricClears              = "etag.cache.clears"
	MetricFingerprintDuration = "etag.fingerprint.duration_ms"
	MetricFingerprintBytes    = "etag.fingerprint.bytes"
	MetricFingerprintErrors   = "etag.fingerprint.errors"
)

// Attribute keys shared by spans and metrics.
const (
	AttrCacheName   = "cache.name"
	AttrCacheResult = "cache.result"
	AttrSubject     = "etag.subject"
	AttrBytes       = "etag.bytes"
	AttrError       = "etag.error"
)

// cacheMetrics holds the cache instruments.
type cacheMetrics struct {
	lookups      metric.Int64Counter
	evictions    metric.Int64Counter
	clears       metric.Int64Counter
	durationHist metric.Float64Histogram
	bytesRead    metric.Int64Counter
	errorCount   metric.Int64Counter
}

func newCacheMetrics(meter metric.Meter) (*cacheMetrics, error) {
	m := &cacheMetrics{}
	var err error

	if m.lookups, err = meter.Int64Counter(
		MetricLookups,
		metric.WithDescription("Cache lookups by outcome (hit, miss, stale)"),
		metric.WithUnit("{lookup}"),
	); err != nil {
		return nil, err
	}

	if m.evictions, err = meter.Int64Counter(
		MetricEvictions,
		metric.WithDescription("Entries evicted by LRU pressure"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}

	if m.clears, err = meter.Int64Counter(
		MetricClears,
		metric.WithDescription("Administrative cache clears"),
		metric.WithUnit("{clear}"),
	); err != nil {
		return nil, err
	}

	if m.durationHist, err = meter.Float64Histogram(
		MetricFingerprintDuration,
		metric.WithDescription("Fingerprint computation duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.bytesRead, err = meter.Int64Counter(
		MetricFingerprintBytes,
		metric.WithDescription("Bytes folded into fingerprints"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	if m.errorCount, err = meter.Int64Counter(
		MetricFingerprintErrors,
		metric.WithDescription("Fingerprint computations that failed"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *cacheMetrics) recordLookup(ctx context.Context, cache string, result LookupResult) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrCacheName, cache),
		attribute.String(AttrCacheResult, string(result)),
	))
}

func (m *cacheMetrics) recordEviction(ctx context.Context, cache string) {
	m.evictions.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrCacheName, cache)))
}

func (m *cacheMetrics) recordClear(ctx context.Context, cache string) {
	m.clears.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrCacheName, cache)))
}

func (m *cacheMetrics) recordFingerprint(ctx context.Context, cache string, n int64, d time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String(AttrCacheName, cache))

	m.durationHist.Record(ctx, float64(d.Microseconds())/1000, opt)
	if n > 0 {
		m.bytesRead.Add(ctx, n, opt)
	}
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
}
