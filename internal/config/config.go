// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a .env file, an optional YAML file and LLMEVO_ env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5001".
	Addr string `koanf:"addr"`

	// StoreDriver picks the document store backend: mongo or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// MongoURI and MongoDatabase locate the MongoDB collections.
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// SQLitePath is the database file of the embedded store.
	SQLitePath string `koanf:"sqlite_path"`

	// CORSOrigins lists allowed origins; "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// DefaultTopK applies when a hierarchy request omits topK. 0 means all.
	DefaultTopK int `koanf:"default_top_k"`

	// MaxTopK caps the topK a client may request.
	MaxTopK int `koanf:"max_top_k"`

	// WindowSizeDays is the width of the scrubber highlight.
	WindowSizeDays int `koanf:"window_size_days"`

	// RequestTimeoutMS bounds each HTTP request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":5001",
		StoreDriver:      DriverSQLite,
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "llm_evolution",
		SQLitePath:       "llmevo.db",
		CORSOrigins:      []string{"*"},
		DefaultTopK:      10,
		MaxTopK:          100,
		WindowSizeDays:   30,
		RequestTimeoutMS: 15_000,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate checks the values Load cannot fix up.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != DriverMongo && c.StoreDriver != DriverSQLite:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver == DriverMongo && (c.MongoURI == "" || c.MongoDatabase == ""):
		return fmt.Errorf("%w: mongo_uri and mongo_database are required", ErrInvalidConfig)
	case c.StoreDriver == DriverSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
	case c.DefaultTopK < 0 || c.MaxTopK < 1:
		return fmt.Errorf("%w: default_top_k must be >= 0 and max_top_k >= 1", ErrInvalidConfig)
	case c.DefaultTopK > c.MaxTopK:
		return fmt.Errorf("%w: default_top_k exceeds max_top_k", ErrInvalidConfig)
	case c.WindowSizeDays < 1:
		return fmt.Errorf("%w: window_size_days must be positive", ErrInvalidConfig)
	case c.RequestTimeoutMS < 1:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}
