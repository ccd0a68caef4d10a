// Package config loads the server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"ibeer/internal/infrastructure/storage/postgres"
	"ibeer/pkg/logger"
)

// Config holds runtime configuration for the API server and the seeder.
type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppPort string `envconfig:"APP_PORT" default:"8080"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL       string        `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns        int32         `envconfig:"DB_MIN_CONNS" default:"5"`
	DBMaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
	DBAutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	// RedisAddr enables the manufacturer read cache when set.
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	HTTPIdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be provided")
	}
	if c.DBMaxConns <= 0 {
		return errors.New("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and %d", c.DBMaxConns)
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.AppPort
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:       c.LogLevel,
		Development: c.IsDevelopment(),
	}
}

// Pool returns the connection pool configuration.
func (c *Config) Pool() postgres.PoolConfig {
	cfg := postgres.DefaultPoolConfig(c.DatabaseURL)
	cfg.MaxConns = c.DBMaxConns
	cfg.MinConns = c.DBMinConns
	cfg.MaxConnLifetime = c.DBMaxConnLifetime
	cfg.MaxConnIdleTime = c.DBMaxConnIdleTime
	return cfg
}
