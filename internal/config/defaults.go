package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultServerAddr      = ":28416"
	DefaultServerMode      = "release"
	DefaultRoute           = "/api/mol_view/"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	DefaultRenderWidth   = 200
	DefaultRenderHeight  = 200
	DefaultBondLineWidth = 2.0
	DefaultPadding       = 0.05

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath = "/metrics"
)

// setDefaults registers every key so that MOLVIEW_* variables are seen by
// Unmarshal even when no config file mentions them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.route", DefaultRoute)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("render.width", DefaultRenderWidth)
	v.SetDefault("render.height", DefaultRenderHeight)
	v.SetDefault("render.bond_line_width", DefaultBondLineWidth)
	v.SetDefault("render.padding", DefaultPadding)
	v.SetDefault("render.clear_background", false)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", DefaultMetricsPath)
}

// ApplyDefaults fills zero-value fields. Values already set win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.Route == "" {
		cfg.Server.Route = DefaultRoute
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Render.Width == 0 {
		cfg.Render.Width = DefaultRenderWidth
	}
	if cfg.Render.Height == 0 {
		cfg.Render.Height = DefaultRenderHeight
	}
	if cfg.Render.BondLineWidth == 0 {
		cfg.Render.BondLineWidth = DefaultBondLineWidth
	}
	if cfg.Render.Padding == 0 {
		cfg.Render.Padding = DefaultPadding
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// Default returns a Config with every default applied and metrics on.
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	return cfg
}
