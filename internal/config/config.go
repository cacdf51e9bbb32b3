// Package config loads the listq server configuration from YAML.
//
//	addr: 127.0.0.1:8080
//	database: blog.db
//	schema_dir: schema
//	per_page: 15
//	max_per_page: 100
//	shutdown_timeout: 30s
//	log:
//	  level: info
//	  format: text
//
// Missing keys keep their defaults. Unknown keys are rejected so typos
// surface at startup.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultDatabase        = "listq.db"
	DefaultSchemaDir       = "schema"
	DefaultPerPage         = 15
	DefaultMaxPerPage      = 100
	DefaultShutdownTimeout = 30 * time.Second
)

// Config is the server configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	Database        string        `yaml:"database"`
	SchemaDir       string        `yaml:"schema_dir"`
	PerPage         int           `yaml:"per_page"`
	MaxPerPage      int           `yaml:"max_per_page"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Log             Log           `yaml:"log"`
}

// Log configures the default slog handler.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:            DefaultAddr,
		Database:        DefaultDatabase,
		SchemaDir:       DefaultSchemaDir,
		PerPage:         DefaultPerPage,
		MaxPerPage:      DefaultMaxPerPage,
		ShutdownTimeout: DefaultShutdownTimeout,
		Log:             Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
// Empty input yields the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Database == "" {
		errs = append(errs, errors.New("database is required"))
	}
	if c.SchemaDir == "" {
		errs = append(errs, errors.New("schema_dir is required"))
	}
	if c.PerPage < 1 {
		errs = append(errs, fmt.Errorf("per_page must be positive, got %d", c.PerPage))
	}
	if c.MaxPerPage < c.PerPage {
		errs = append(errs, fmt.Errorf("max_per_page (%d) must be at least per_page (%d)", c.MaxPerPage, c.PerPage))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
