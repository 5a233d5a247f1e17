package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geogit/internal/palette"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geogit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "rgb", cfg.Color.Mode)
	assert.Equal(t, "table", cfg.Output.Format)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, palette.ModeRGB, p.Mode)
}

func TestLoadConfig_Gradient(t *testing.T) {
	path := writeConfig(t, `
color:
  mode: gradient
  min: 10
  max: 20
  stops: ["#000000", "#ffffff"]
  blend: rgb
log:
  level: debug
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, palette.ModeGradient, p.Mode)
	assert.Equal(t, 10.0, p.Min)
	assert.Equal(t, 20.0, p.Max)

	c := palette.Resolve(nil, ptr(20.0), p)
	require.NotNil(t, c)
	assert.Equal(t, "#ffffff", c.Hex())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "color:\n  mode: rgb\n")
	t.Setenv("GEOGIT_COLOR_MODE", "gradient")
	t.Setenv("GEOGIT_COLOR_MIN", "-1")
	t.Setenv("GEOGIT_COLOR_MAX", "1")
	t.Setenv("GEOGIT_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gradient", cfg.Color.Mode)
	assert.Equal(t, -1.0, cfg.Color.Min)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, palette.ModeGradient, p.Mode)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "color: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("bad env number", func(t *testing.T) {
		t.Setenv("GEOGIT_COLOR_MIN", "low")
		_, err := LoadConfig(writeConfig(t, ""))
		assert.Error(t, err)
	})
}

func TestConfig_PolicyErrors(t *testing.T) {
	cfg := Default()
	cfg.Color.Mode = "gradient"
	cfg.Color.Min, cfg.Color.Max = 5, 5
	_, err := cfg.Policy()
	assert.ErrorIs(t, err, palette.ErrInvalidGradient)

	cfg.Color.Mode = "hsv"
	_, err = cfg.Policy()
	assert.Error(t, err)
}

func TestConfig_LogLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "chatty"
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func ptr[T any](v T) *T { return &v }
