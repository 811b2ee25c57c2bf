package config

import (
	"time"

	"github.com/motorline/gateway/internal/core/domain"
	redisclient "github.com/motorline/gateway/internal/infra/redis"
	"github.com/motorline/gateway/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Retry    RetryConfig        `yaml:"retry"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// RetryConfig holds retry policy settings. FallbackEnabled is a pointer so
// an omitted key defaults to enabled.
type RetryConfig struct {
	MaxRetries      int   `yaml:"max_retries"`
	RetryDelayMs    int   `yaml:"retry_delay_ms"`
	FallbackEnabled *bool `yaml:"fallback_enabled"`
}

// Policy converts the config into the executor's retry policy.
func (c RetryConfig) Policy() domain.RetryPolicy {
	fallback := true
	if c.FallbackEnabled != nil {
		fallback = *c.FallbackEnabled
	}
	return domain.RetryPolicy{
		MaxRetries:      c.MaxRetries,
		RetryDelay:      time.Duration(c.RetryDelayMs) * time.Millisecond,
		FallbackEnabled: fallback,
	}
}
