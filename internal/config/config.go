// Package config provides configuration loading and validation for the tracker.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds every setting the CLI and server need. Values come from defaults,
// then an optional config file, then the environment.
type Config struct {
	Driver      string `mapstructure:"driver" json:"driver"`             // sqlite, postgres or memory
	DatabaseURL string `mapstructure:"database_url" json:"database_url"` // PostgreSQL connection URL
	SQLitePath  string `mapstructure:"sqlite_path" json:"sqlite_path"`   // Path to the SQLite database file
	Port        int    `mapstructure:"port" json:"port"`                 // HTTP listen port
	LogLevel    string `mapstructure:"log_level" json:"log_level"`       // debug, info, warn, error
	LogFormat   string `mapstructure:"log_format" json:"log_format"`     // json or console
	Timezone    string `mapstructure:"timezone" json:"timezone"`         // IANA zone anchoring date filters

	RateLimitEnabled bool `mapstructure:"rate_limit_enabled" json:"rate_limit_enabled"` // throttle API writes per client
	RateLimitWrites  int  `mapstructure:"rate_limit_writes" json:"rate_limit_writes"`   // write requests per minute per client
}

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"driver":       "DB_DRIVER",
	"database_url": "DATABASE_URL",
	"sqlite_path":  "SQLITE_PATH",
	"port":         "PORT",
	"log_level":    "LOG_LEVEL",
	"log_format":   "LOG_FORMAT",
	"timezone":     "TZ_NAME",

	"rate_limit_enabled": "RATE_LIMIT_ENABLED",
	"rate_limit_writes":  "RATE_LIMIT_WRITES",
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Driver:     DriverSQLite,
		SQLitePath: "applications.db",
		Port:       8080,
		LogLevel:   "info",
		LogFormat:  "console",
		Timezone:   "Local",

		RateLimitEnabled: true,
		RateLimitWrites:  120,
	}
}

// Load reads configuration. path is an optional JSON or YAML file; an empty path
// uses defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("driver", def.Driver)
	v.SetDefault("database_url", def.DatabaseURL)
	v.SetDefault("sqlite_path", def.SQLitePath)
	v.SetDefault("port", def.Port)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("rate_limit_enabled", def.RateLimitEnabled)
	v.SetDefault("rate_limit_writes", def.RateLimitWrites)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("config error: 'sqlite_path' is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config error: 'database_url' is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config error: unknown driver %q", c.Driver)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: invalid log_level %q", c.LogLevel)
	}

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("config error: 'log_format' must be json or console, got %q", c.LogFormat)
	}

	if c.RateLimitEnabled && c.RateLimitWrites < 1 {
		return fmt.Errorf("config error: 'rate_limit_writes' must be positive, got %d", c.RateLimitWrites)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Location resolves Timezone. Empty and "Local" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
