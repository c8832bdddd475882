// Package config holds the molview settings and their validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Render  RenderConfig  `mapstructure:"render"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	Route           string        `mapstructure:"route"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RenderConfig holds drawing defaults used when a request leaves them out.
type RenderConfig struct {
	Width           int     `mapstructure:"width"`
	Height          int     `mapstructure:"height"`
	BondLineWidth   float64 `mapstructure:"bond_line_width"`
	Padding         float64 `mapstructure:"padding"`
	ClearBackground bool    `mapstructure:"clear_background"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" | "console"
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Validate checks a fully populated Config. Any error is fatal at startup.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if !strings.HasPrefix(c.Server.Route, "/") {
		return fmt.Errorf("config: server.route %q must start with /", c.Server.Route)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("config: server timeouts must not be negative")
	}

	if c.Render.Width < 1 || c.Render.Height < 1 {
		return fmt.Errorf("config: render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	}
	if c.Render.BondLineWidth <= 0 {
		return fmt.Errorf("config: render.bond_line_width must be > 0, got %g", c.Render.BondLineWidth)
	}
	if c.Render.Padding < 0 || c.Render.Padding >= 0.5 {
		return fmt.Errorf("config: render.padding %g is out of range [0, 0.5)", c.Render.Padding)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Metrics.Enabled {
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("config: metrics.path %q must start with /", c.Metrics.Path)
		}
		if c.Metrics.Path == c.Server.Route {
			return fmt.Errorf("config: metrics.path and server.route are both %q", c.Metrics.Path)
		}
	}
	return nil
}
