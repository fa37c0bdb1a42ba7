// Package config assembles the service configuration from defaults, an
// optional YAML file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"article-tagger/internal/infra/db"
	"article-tagger/pkg/config"
)

// Deployment environments accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// AppConfig is the complete runtime configuration of the API server.
type AppConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	AppEnv          string        `yaml:"app_env"`
	Version         string        `yaml:"version"`
	TaggedBy        string        `yaml:"tagged_by"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`

	Database  DatabaseConfig  `yaml:"database"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// DatabaseConfig selects the driver and tunes the connection pool.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	BootstrapSchema bool          `yaml:"bootstrap_schema"`
}

// Pool returns the pool settings in the form db.Open expects.
func (c DatabaseConfig) Pool() db.ConnectionConfig {
	return db.ConnectionConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
	}
}

// RateLimitConfig is the per-client token bucket. RPS 0 disables limiting.
// Clients are keyed by peer address unless the peer is one of TrustedProxies,
// whose forwarding headers are then believed.
type RateLimitConfig struct {
	RPS            float64  `yaml:"rps"`
	Burst          int      `yaml:"burst"`
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// TrustedPrefixes parses TrustedProxies.
func (c RateLimitConfig) TrustedPrefixes() ([]netip.Prefix, error) {
	return config.ParseTrustedProxies(c.TrustedProxies)
}

// TracingConfig controls span sampling.
type TracingConfig struct {
	SampleRatio float64 `yaml:"sample_ratio"`
}

// DefaultAppConfig returns the configuration used when nothing is overridden.
func DefaultAppConfig() AppConfig {
	pool := db.DefaultConnectionConfig()
	return AppConfig{
		HTTPAddr:        ":8080",
		AppEnv:          EnvDevelopment,
		Version:         "dev",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
		Database: DatabaseConfig{
			Driver:          db.DriverPostgres,
			MaxOpenConns:    pool.MaxOpenConns,
			MaxIdleConns:    pool.MaxIdleConns,
			ConnMaxLifetime: pool.ConnMaxLifetime,
			ConnMaxIdleTime: pool.ConnMaxIdleTime,
		},
		RateLimit: RateLimitConfig{RPS: 20, Burst: 40},
		Tracing:   TracingConfig{SampleRatio: 1.0},
	}
}

// LoadAppConfig starts from DefaultAppConfig, applies the YAML file named by
// CONFIG_FILE when set, then applies environment variables, and validates the result.
func LoadAppConfig() (AppConfig, error) {
	cfg := DefaultAppConfig()

	if path := config.GetEnvString("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return AppConfig{}, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides every field whose environment variable is set.
func (c *AppConfig) applyEnv() {
	c.HTTPAddr = config.GetEnvString("HTTP_ADDR", c.HTTPAddr)
	c.AppEnv = config.GetEnvString("APP_ENV", c.AppEnv)
	c.Version = config.GetEnvString("APP_VERSION", c.Version)
	c.TaggedBy = config.GetEnvString("TAGGED_BY", c.TaggedBy)
	c.RequestTimeout = config.GetEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.ShutdownTimeout = config.GetEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.MaxBodyBytes = config.GetEnvInt64("MAX_BODY_BYTES", c.MaxBodyBytes)

	c.Database.Driver = config.GetEnvString("DATABASE_DRIVER", c.Database.Driver)
	c.Database.URL = config.GetEnvString("DATABASE_URL", c.Database.URL)
	c.Database.MaxOpenConns = config.GetEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = config.GetEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = config.GetEnvDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.ConnMaxIdleTime = config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", c.Database.ConnMaxIdleTime)
	c.Database.BootstrapSchema = config.GetEnvBool("DB_BOOTSTRAP_SCHEMA", c.Database.BootstrapSchema)

	c.RateLimit.RPS = config.GetEnvFloat("RATE_LIMIT_RPS", c.RateLimit.RPS)
	c.RateLimit.Burst = config.GetEnvInt("RATE_LIMIT_BURST", c.RateLimit.Burst)
	c.RateLimit.TrustedProxies = config.GetEnvList("RATE_LIMIT_TRUSTED_PROXIES", c.RateLimit.TrustedProxies)

	c.Tracing.SampleRatio = config.GetEnvFloat("TRACE_SAMPLE_RATIO", c.Tracing.SampleRatio)
}

// Validate reports every invalid setting at once.
func (c AppConfig) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}
	if c.AppEnv != EnvDevelopment && c.AppEnv != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.AppEnv))
	}
	if err := config.ValidatePositiveDuration(c.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes))
	}

	switch c.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q",
			db.DriverPostgres, db.DriverSQLite, c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL not set"))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns))
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, fmt.Errorf("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS, got %d", c.Database.MaxIdleConns))
	}
	if err := config.ValidateNonNegativeDuration(c.Database.ConnMaxLifetime); err != nil {
		errs = append(errs, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err))
	}
	if err := config.ValidateNonNegativeDuration(c.Database.ConnMaxIdleTime); err != nil {
		errs = append(errs, fmt.Errorf("DB_CONN_MAX_IDLE_TIME: %w", err))
	}

	if c.RateLimit.RPS < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimit.RPS))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimit.Burst))
	}
	if _, err := c.RateLimit.TrustedPrefixes(); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: %w", err))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("TRACE_SAMPLE_RATIO must be within [0, 1], got %v", c.Tracing.SampleRatio))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether error details may be returned to clients.
func (c AppConfig) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}
