package cache

import (
	"github.com/jonwraymond/etagops/observe"
	"github.com/jonwraymond/etagops/resilience"
)

// Option configures a KeyCache or FileCache.
type Option func(*options)

type options struct {
	name      string
	logger    observe.Logger
	inst      observe.CacheInstrumentation
	fs        FileSystem
	readLimit *resilience.Bulkhead
	coalesce  bool
}

func newOptions(name string, opts []Option) options {
	o := options{
		name:   name,
		logger: observe.NopLogger(),
		inst:   observe.NopInstrumentation(),
		fs:     OSFileSystem{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = observe.WithCache(o.logger, o.name)
	return o
}

// WithName overrides the name used in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(l observe.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInstrumentation sets the metrics and tracing hooks.
func WithInstrumentation(inst observe.CacheInstrumentation) Option {
	return func(o *options) {
		if inst != nil {
			o.inst = inst
		}
	}
}

// WithFileSystem sets where FileCache reads from. KeyCache ignores it.
func WithFileSystem(fsys FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithReadLimit bounds concurrent content reads in FileCache.
// A read that cannot get a slot fails and caches nothing.
func WithReadLimit(b *resilience.Bulkhead) Option {
	return func(o *options) {
		o.readLimit = b
	}
}

// WithCoalescing makes concurrent misses for the same key or path share one
// computation.
func WithCoalescing(enabled bool) Option {
	return func(o *options) {
		o.coalesce = enabled
	}
}
