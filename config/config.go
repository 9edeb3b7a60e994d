// Package config loads viewer and CLI settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Map          string        `yaml:"map"`
	WindowWidth  int           `yaml:"window_width"`
	WindowHeight int           `yaml:"window_height"`
	TileWidth    int           `yaml:"tile_width"`
	TileHeight   int           `yaml:"tile_height"`
	Tick         time.Duration `yaml:"tick"`
	WalkFrames   int           `yaml:"walk_frames"`
	FramePeriod  int           `yaml:"frame_period"`
	MaxNodes     int           `yaml:"max_nodes"`
	Debug        bool          `yaml:"debug"`
	LogLevelName string        `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Map:          "courtyard",
		WindowWidth:  800,
		WindowHeight: 600,
		TileWidth:    64,
		TileHeight:   32,
		Tick:         30 * time.Millisecond,
		WalkFrames:   5,
		FramePeriod:  10,
		MaxNodes:     0,
		LogLevelName: "info",
	}
}

// Load reads path over the defaults, then applies ISOPATH_* environment
// variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Map = getEnv("ISOPATH_MAP", c.Map)
	c.LogLevelName = getEnv("ISOPATH_LOG_LEVEL", c.LogLevelName)

	if v := os.Getenv("ISOPATH_TICK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: ISOPATH_TICK: %w", err)
		}
		c.Tick = d
	}
	if v := os.Getenv("ISOPATH_MAX_NODES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: ISOPATH_MAX_NODES: %w", err)
		}
		c.MaxNodes = n
	}
	if v := os.Getenv("ISOPATH_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: ISOPATH_DEBUG: %w", err)
		}
		c.Debug = b
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Map == "":
		return fmt.Errorf("config: map is required")
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("config: window size %dx%d must be positive", c.WindowWidth, c.WindowHeight)
	case c.Tick <= 0:
		return fmt.Errorf("config: tick %s must be positive", c.Tick)
	case c.MaxNodes < 0:
		return fmt.Errorf("config: max_nodes %d must not be negative", c.MaxNodes)
	}
	return nil
}

// LogLevel parses log_level; unknown names fall back to info.
func (c *Config) LogLevel() slog.Level {
	return parseLogLevel(c.LogLevelName)
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel()}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
