// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

// Package config resolves configuration from defaults, an optional YAML
// file, and command-line flags, in increasing order of precedence.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the resolved application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Access   AccessConfig   `koanf:"access"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	HTTPAddr    string `koanf:"http_addr"`
	MetricsAddr string `koanf:"metrics_addr"`
	CookieName  string `koanf:"cookie_name"`
}

// DatabaseConfig configures database connectivity. An empty URL selects
// the in-memory stores, which lose all data on restart.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// AccessConfig configures which routes require an authenticated session.
// Patterns use glob syntax, e.g. "/admin/*".
type AccessConfig struct {
	Protected []string `koanf:"protected"`
}

// Default configuration values.
const (
	DefaultHTTPAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultCookieName  = "linguaviva_session"
	DefaultLogFormat   = "json"
	DefaultLogLevel    = "info"
)

// DefaultProtectedRoutes are the routes gated behind a session when no
// access.protected list is configured.
func DefaultProtectedRoutes() []string {
	return []string{"/video-audio", "/profile", "/tasks", "/export-emails"}
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:    DefaultHTTPAddr,
			MetricsAddr: DefaultMetricsAddr,
			CookieName:  DefaultCookieName,
		},
		Log: LogConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
		Access: AccessConfig{
			Protected: DefaultProtectedRoutes(),
		},
	}
}

// RegisterFlags declares the configuration flags on fs. Flag names mirror
// the dotted koanf keys so posflag can merge them without a mapping table.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("server.http_addr", DefaultHTTPAddr, "HTTP listen address")
	fs.String("server.metrics_addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("server.cookie_name", DefaultCookieName, "session cookie name")
	fs.String("database.url", "", "PostgreSQL URL (empty = in-memory stores)")
	fs.String("log.format", DefaultLogFormat, "log format (json or text)")
	fs.String("log.level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringSlice("access.protected", DefaultProtectedRoutes(), "glob patterns of session-gated routes")
}

// Load resolves configuration. Precedence, lowest to highest: built-in
// defaults, the YAML file at path (skipped when path is empty), then any
// flags changed on flags (skipped when flags is nil).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	// Unmarshal over the defaults; keys absent from the file and flags
	// keep their default values.
	out := defaults()
	if err := k.Unmarshal("", out); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks the resolved configuration for coherence.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.http_addr cannot be empty")
	}
	if c.Server.CookieName == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.cookie_name cannot be empty")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text'")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return oops.Code("CONFIG_INVALID").
			With("log_level", c.Log.Level).
			Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Database.URL == "" {
		if env := os.Getenv("DATABASE_URL"); env != "" {
			c.Database.URL = env
		}
	}
	return nil
}
