package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"geogit/internal/palette"
)

type Config struct {
	Color struct {
		Mode  string   `yaml:"mode"` // rgb | gradient
		Min   float64  `yaml:"min"`
		Max   float64  `yaml:"max"`
		Stops []string `yaml:"stops"` // hex colors, low to high
		Blend string   `yaml:"blend"` // lab | rgb | hcl
	} `yaml:"color"`
	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`
	Output struct {
		Format string `yaml:"format"` // table | markdown | json
		Color  string `yaml:"color"`  // auto | always | never
	} `yaml:"output"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Color.Mode = palette.ModeRGB.String()
	cfg.Color.Min = 0
	cfg.Color.Max = 1
	cfg.Color.Stops = append([]string(nil), palette.DefaultStops...)
	cfg.Color.Blend = string(palette.BlendLab)
	cfg.Log.Level = "info"
	cfg.Output.Format = "table"
	cfg.Output.Color = "auto"
	return &cfg
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error; environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if mode := os.Getenv("GEOGIT_COLOR_MODE"); mode != "" {
		cfg.Color.Mode = mode
	}
	if err := envFloat("GEOGIT_COLOR_MIN", &cfg.Color.Min); err != nil {
		return nil, err
	}
	if err := envFloat("GEOGIT_COLOR_MAX", &cfg.Color.Max); err != nil {
		return nil, err
	}
	if level := os.Getenv("GEOGIT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func envFloat(key string, dst *float64) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}

// Policy builds the color policy described by the configuration.
func (c *Config) Policy() (palette.Policy, error) {
	switch strings.ToLower(strings.TrimSpace(c.Color.Mode)) {
	case "", "rgb":
		return palette.RGB(), nil
	case "gradient":
		stops := c.Color.Stops
		if len(stops) == 0 {
			stops = palette.DefaultStops
		}
		gen, err := palette.NewStops(stops, palette.Blend(c.Color.Blend))
		if err != nil {
			return palette.Policy{}, err
		}
		return palette.NewGradient(c.Color.Min, c.Color.Max, gen)
	default:
		return palette.Policy{}, fmt.Errorf("unknown color mode %q", c.Color.Mode)
	}
}

// LogLevel maps the configured level name to a slog level.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}
