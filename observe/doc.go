// Package observe provides observability primitives for the entity-tag caches.
//
// It is a pure instrumentation library: it owns exporter setup, a structured
// logger and the cache instruments (lookup outcomes, evictions, clears and
// fingerprint timings). The caches consume it through CacheInstrumentation
// and Logger; they never touch OpenTelemetry directly.
package observe
