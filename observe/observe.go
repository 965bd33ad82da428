package observe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/etagops/observe/exporters"
)

// ScopeName is the instrumentation scope of every tracer and meter handed
// out by an Observer.
const ScopeName = "github.com/jonwraymond/etagops"

// Config holds all configuration for the Observer.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig

	// Global also installs the providers as the otel globals.
	Global bool
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled   bool
	Exporter  string  // otlp|jaeger|stdout|none
	SamplePct float64 // 0.0-1.0
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	Enabled  bool
	Exporter string // otlp|prometheus|stdout|none
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Enabled bool
	Level   string    // debug|info|warn|error
	Writer  io.Writer // nil means stderr
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}

	if c.Tracing.Enabled {
		if !slices.Contains(ValidTracingExporters, c.Tracing.Exporter) {
			return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Tracing.Exporter)
		}
		if c.Tracing.SamplePct < MinSamplePct || c.Tracing.SamplePct > MaxSamplePct {
			return fmt.Errorf("%w, got: %f", ErrInvalidSamplePct, c.Tracing.SamplePct)
		}
	}

	if c.Metrics.Enabled && !slices.Contains(ValidMetricsExporters, c.Metrics.Exporter) {
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter)
	}

	if c.Logging.Enabled && !slices.Contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return nil
}

// Observer hands out the telemetry primitives the caches record into.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Shutdown flushes pending spans and metrics, honors ctx and is
//     idempotent.
type Observer interface {
	Tracer() trace.Tracer
	Meter() metric.Meter
	Logger() Logger
	Shutdown(ctx context.Context) error
}

type observer struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger Logger

	// providers to flush on Shutdown, in order.
	flush []func(context.Context) error

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewObserver builds an Observer. Disabled subsystems hand out no-op
// primitives, so a zero Config with a service name records nothing.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	obs := &observer{
		tracer: tracenoop.NewTracerProvider().Tracer(ScopeName),
		meter:  noop.NewMeterProvider().Meter(ScopeName),
		logger: NopLogger(),
	}

	if cfg.Tracing.Enabled || cfg.Metrics.Enabled {
		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		))
		if err != nil {
			return nil, fmt.Errorf("observe: resource: %w", err)
		}
		if err := obs.startProviders(ctx, cfg, res); err != nil {
			_ = obs.Shutdown(ctx)
			return nil, err
		}
	}

	if cfg.Logging.Enabled {
		fields := []Field{{Key: "service", Value: cfg.ServiceName}}
		if cfg.Version != "" {
			fields = append(fields, Field{Key: "version", Value: cfg.Version})
		}
		obs.logger = newLogger(cfg.Logging).With(fields...)
	}

	return obs, nil
}

func newLogger(cfg LoggingConfig) Logger {
	if cfg.Writer == nil {
		return NewLogger(cfg.Level)
	}
	return NewLoggerWithWriter(cfg.Level, cfg.Writer)
}

func (o *observer) startProviders(ctx context.Context, cfg Config, res *resource.Resource) error {
	if cfg.Tracing.Enabled {
		exp, err := exporters.NewTracingExporter(ctx, cfg.Tracing.Exporter)
		if err != nil {
			return fmt.Errorf("observe: tracing: %w", err)
		}
		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sampler(cfg.Tracing.SamplePct))),
		}
		if exp != nil {
			opts = append(opts, sdktrace.WithBatcher(exp))
		}
		tp := sdktrace.NewTracerProvider(opts...)
		o.flush = append(o.flush, tp.Shutdown)
		o.tracer = tp.Tracer(ScopeName)
		if cfg.Global {
			otel.SetTracerProvider(tp)
		}
	}

	if cfg.Metrics.Enabled {
		reader, err := exporters.NewMetricsReader(ctx, cfg.Metrics.Exporter)
		if err != nil {
			return fmt.Errorf("observe: metrics: %w", err)
		}
		opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
		if reader != nil {
			opts = append(opts, sdkmetric.WithReader(reader))
		}
		mp := sdkmetric.NewMeterProvider(opts...)
		o.flush = append(o.flush, mp.Shutdown)
		o.meter = mp.Meter(ScopeName)
		if cfg.Global {
			otel.SetMeterProvider(mp)
		}
	}

	return nil
}

// sampler maps a sampling fraction to a sampler; the bounds are exact.
func sampler(pct float64) sdktrace.Sampler {
	switch {
	case pct >= MaxSamplePct:
		return sdktrace.AlwaysSample()
	case pct <= MinSamplePct:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(pct)
	}
}

func (o *observer) Tracer() trace.Tracer { return o.tracer }
func (o *observer) Meter() metric.Meter  { return o.meter }
func (o *observer) Logger() Logger       { return o.logger }

func (o *observer) Shutdown(ctx context.Context) error {
	o.shutdownOnce.Do(func() {
		var errs []error
		for _, f := range o.flush {
			if err := f(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			o.shutdownErr = fmt.Errorf("observe: shutdown: %w", errors.Join(errs...))
		}
	})
	return o.shutdownErr
}
