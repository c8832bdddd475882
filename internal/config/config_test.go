package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "molview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultRoute, cfg.Server.Route)
	assert.Equal(t, 200, cfg.Render.Width)
	assert.Equal(t, 200, cfg.Render.Height)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
  mode: debug
  read_timeout: 3s
render:
  width: 400
  clear_background: true
log:
  level: debug
  format: console
metrics:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, 400, cfg.Render.Width)
	assert.Equal(t, 200, cfg.Render.Height)
	assert.True(t, cfg.Render.ClearBackground)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MOLVIEW_SERVER_ADDR", ":8081")
	t.Setenv("MOLVIEW_RENDER_HEIGHT", "320")
	t.Setenv("MOLVIEW_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, 320, cfg.Render.Height)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log:\n  level: loud\n"))
	assert.ErrorContains(t, err, "log.level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"route", func(c *Config) { c.Server.Route = "api" }, "server.route"},
		{"size", func(c *Config) { c.Render.Width = -1 }, "render size"},
		{"line width", func(c *Config) { c.Render.BondLineWidth = -2 }, "bond_line_width"},
		{"padding", func(c *Config) { c.Render.Padding = 0.6 }, "render.padding"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"metrics clash", func(c *Config) { c.Metrics.Path = DefaultRoute }, "metrics.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestApplyDefaults_KeepsSetValues(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Addr: ":1"}, Render: RenderConfig{Width: 50}}
	ApplyDefaults(cfg)
	assert.Equal(t, ":1", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.Render.Width)
	assert.Equal(t, DefaultRenderHeight, cfg.Render.Height)

	ApplyDefaults(nil)
}
