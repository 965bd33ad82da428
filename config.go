package etagops

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/etagops/auth"
	"github.com/jonwraymond/etagops/cache"
	"github.com/jonwraymond/etagops/observe"
	"github.com/jonwraymond/etagops/secret"
)

// DefaultServiceName names the service in telemetry when unconfigured.
const DefaultServiceName = "etagops"

// AdminPrincipal is the identity granted to holders of the configured admin
// API key.
const AdminPrincipal = "admin"

// Config configures a Manager. Fields map to environment variables read by
// LoadConfig.
type Config struct {
	// Capacity bounds each cache. Zero retains nothing.
	// Default: 64
	Capacity int `env:"ETAG_CACHE_CAPACITY" envDefault:"64"`

	// ReadLimit bounds concurrent file reads. Zero is unlimited.
	ReadLimit int `env:"ETAG_READ_LIMIT"`

	// ReadWait is how long a file read waits for a slot when ReadLimit is
	// reached. Zero fails immediately.
	ReadWait time.Duration `env:"ETAG_READ_WAIT"`

	// Coalesce merges concurrent misses for the same key or file version.
	Coalesce bool `env:"ETAG_COALESCE"`

	ServiceName string `env:"ETAG_SERVICE_NAME" envDefault:"etagops"`
	Version     string `env:"ETAG_SERVICE_VERSION"`

	LogLevel        string  `env:"ETAG_LOG_LEVEL" envDefault:"info"`
	TracingExporter string  `env:"ETAG_TRACING_EXPORTER" envDefault:"none"`
	TraceSamplePct  float64 `env:"ETAG_TRACE_SAMPLE_PCT" envDefault:"1"`
	MetricsExporter string  `env:"ETAG_METRICS_EXPORTER" envDefault:"none"`

	// AdminAPIKey and AdminJWTSecret accept ${VAR} and secretref: values.
	AdminAPIKey    string `env:"ETAG_ADMIN_API_KEY"`
	AdminJWTSecret string `env:"ETAG_ADMIN_JWT_SECRET"`
	AdminJWTIssuer string `env:"ETAG_ADMIN_JWT_ISSUER"`
}

// DefaultConfig returns the configuration LoadConfig yields with an empty
// environment.
func DefaultConfig() Config {
	return Config{
		Capacity:        cache.DefaultCapacity,
		ServiceName:     DefaultServiceName,
		LogLevel:        "info",
		TracingExporter: "none",
		TraceSamplePct:  1,
		MetricsExporter: "none",
	}
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("etagops: load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("%w, got: %d", ErrInvalidCapacity, c.Capacity)
	}
	if c.ReadLimit < 0 || c.ReadWait < 0 {
		return fmt.Errorf("%w, got: %d/%s", ErrInvalidReadLimit, c.ReadLimit, c.ReadWait)
	}
	obs := c.observeConfig()
	return obs.Validate()
}

func (c *Config) observeConfig() observe.Config {
	name := c.ServiceName
	if name == "" {
		name = DefaultServiceName
	}
	return observe.Config{
		ServiceName: name,
		Version:     c.Version,
		Tracing: observe.TracingConfig{
			Enabled:   enabled(c.TracingExporter),
			Exporter:  c.TracingExporter,
			SamplePct: c.TraceSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  enabled(c.MetricsExporter),
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

func enabled(exporter string) bool {
	return exporter != "" && exporter != "none"
}

// authenticator builds the admin authenticator from the configured
// credentials. It returns nil when none are configured.
func (c *Config) authenticator(ctx context.Context, resolver *secret.Resolver) (auth.Authenticator, error) {
	var authns []auth.Authenticator

	if c.AdminAPIKey != "" {
		key, err := resolver.ResolveValue(ctx, c.AdminAPIKey)
		if err != nil {
			return nil, fmt.Errorf("etagops: resolve admin api key: %w", err)
		}
		authns = append(authns, auth.NewAPIKeyAuthenticator("", auth.APIKey{
			Principal: AdminPrincipal,
			Hash:      auth.HashAPIKey(key),
			Roles:     []string{auth.RoleCacheAdmin},
		}))
	}

	if c.AdminJWTSecret != "" {
		s, err := resolver.ResolveValue(ctx, c.AdminJWTSecret)
		if err != nil {
			return nil, fmt.Errorf("etagops: resolve admin jwt secret: %w", err)
		}
		authns = append(authns, auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret: []byte(s),
			Issuer: c.AdminJWTIssuer,
		}))
	}

	switch len(authns) {
	case 0:
		return nil, nil
	case 1:
		return authns[0], nil
	default:
		return auth.NewCompositeAuthenticator(authns...), nil
	}
}
