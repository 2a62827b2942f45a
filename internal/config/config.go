// Package config loads gridtext configuration from a TOML file, with
// every field defaulting to a usable value so a missing file is not an
// error.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Provider names accepted by [ai].provider.
const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config is the full application configuration.
type Config struct {
	Editor   EditorConfig   `toml:"editor"`
	Viewport ViewportConfig `toml:"viewport"`
	Regions  RegionsConfig  `toml:"regions"`
	Sync     SyncConfig     `toml:"sync"`
	AI       AIConfig       `toml:"ai"`
	Logging  LoggingConfig  `toml:"logging"`
}

// EditorConfig tunes the edit state machine.
type EditorConfig struct {
	WordJumpWindow int    `toml:"word_jump_window"`
	IndentRadius   int    `toml:"indent_radius"`
	MaxUndoEntries int    `toml:"max_undo_entries"`
	DefaultFg      string `toml:"default_fg"`
	DefaultBg      string `toml:"default_bg"`
}

// ViewportConfig bounds the zoom range.
type ViewportConfig struct {
	MinZoom float64 `toml:"min_zoom"`
	MaxZoom float64 `toml:"max_zoom"`
}

// RegionsConfig tunes cluster detection and the frame hierarchy.
type RegionsConfig struct {
	RowGap           int     `toml:"row_gap"`
	ColGap           int     `toml:"col_gap"`
	MinCells         int     `toml:"min_cells"`
	MinBlocks        int     `toml:"min_blocks"`
	BaseRadius       float64 `toml:"base_radius"`
	DistanceScaling  float64 `toml:"distance_scaling"`
	MaxLevels        int     `toml:"max_levels"`
	SettleIntervalMS int     `toml:"settle_interval_ms"`
}

// SyncConfig tunes the remote push cycle.
type SyncConfig struct {
	DebounceMS int `toml:"debounce_ms"`
	Slot       int `toml:"slot"`
}

// AIConfig selects the label generation backend. API keys come from the
// environment, never from this file.
type AIConfig struct {
	Provider        string `toml:"provider"`
	Model           string `toml:"model"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// LoggingConfig tunes log output.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			WordJumpWindow: 50,
			IndentRadius:   3,
			MaxUndoEntries: 1000,
		},
		Viewport: ViewportConfig{
			MinZoom: 0.25,
			MaxZoom: 4.0,
		},
		Regions: RegionsConfig{
			RowGap:           2,
			ColGap:           4,
			MinCells:         8,
			MinBlocks:        2,
			BaseRadius:       40,
			DistanceScaling:  2.0,
			MaxLevels:        4,
			SettleIntervalMS: 250,
		},
		Sync: SyncConfig{
			DebounceMS: 300,
		},
		AI: AIConfig{
			Provider:        ProviderNone,
			CacheTTLMinutes: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file
// yields the defaults; a malformed or invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Editor.WordJumpWindow < 1 {
		return errors.New("editor.word_jump_window must be at least 1")
	}
	if c.Editor.IndentRadius < 0 {
		return errors.New("editor.indent_radius must not be negative")
	}
	if c.Viewport.MinZoom <= 0 || c.Viewport.MaxZoom < c.Viewport.MinZoom {
		return fmt.Errorf("viewport zoom bounds invalid: [%v, %v]",
			c.Viewport.MinZoom, c.Viewport.MaxZoom)
	}
	if c.Regions.MaxLevels < 1 {
		return errors.New("regions.max_levels must be at least 1")
	}
	if c.Regions.BaseRadius <= 0 || c.Regions.DistanceScaling < 1 {
		return errors.New("regions frame parameters invalid")
	}
	if c.Sync.DebounceMS < 0 {
		return errors.New("sync.debounce_ms must not be negative")
	}
	if c.Sync.Slot < 0 {
		return errors.New("sync.slot must not be negative")
	}
	switch c.AI.Provider {
	case ProviderNone, ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("ai.provider %q unknown", c.AI.Provider)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q unknown", c.Logging.Level)
	}
	return nil
}
