// Package config handles loading, validating and saving the overlay daemon
// configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/hud/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. HUD_OVERLAY_TICK_INTERVAL.
const EnvPrefix = "HUD_"

// Default configuration values.
const (
	DefaultTickInterval = 100 * time.Millisecond
	DefaultFontSize     = 24
	DefaultThemeName    = "default"
	DefaultVolume       = 60
)

// Config is the configuration for hudd.
// Loaded from $XDG_CONFIG_HOME/hud/hudd.toml
type Config struct {
	Overlay OverlayConfig `toml:"overlay" envPrefix:"OVERLAY_"`
	Display DisplayConfig `toml:"display" envPrefix:"DISPLAY_"`
	Theme   ThemeConfig   `toml:"theme" envPrefix:"THEME_"`
	Audio   AudioConfig   `toml:"audio" envPrefix:"AUDIO_"`
	Bridge  BridgeConfig  `toml:"bridge" envPrefix:"BRIDGE_"`
}

// OverlayConfig contains notification lifecycle settings.
type OverlayConfig struct {
	TickInterval    Duration    `toml:"tick_interval" env:"TICK_INTERVAL"`       // Expiry resolution, e.g. "100ms"
	DefaultDuration Duration    `toml:"default_duration" env:"DEFAULT_DURATION"` // "0" means permanent
	DefaultColor    model.Color `toml:"default_color" env:"DEFAULT_COLOR"`       // Name or #rrggbb
	StatusMessages  bool        `toml:"status_messages" env:"STATUS_MESSAGES"`   // Show daemon events (reloads, errors) on the overlay
}

// DisplayConfig contains overlay window placement.
type DisplayConfig struct {
	Position string  `toml:"position" env:"POSITION" validate:"oneof=top-left top-right top-center bottom-left bottom-right bottom-center center"`
	OffsetX  int     `toml:"offset_x" env:"OFFSET_X" validate:"gte=0,lte=10000"` // Pixels from screen edge
	OffsetY  int     `toml:"offset_y" env:"OFFSET_Y" validate:"gte=0,lte=10000"` // Pixels from screen edge
	Width    int     `toml:"width" env:"WIDTH" validate:"gte=0,lte=10000"`       // 0 = size to content
	Height   int     `toml:"height" env:"HEIGHT" validate:"gte=0,lte=10000"`     // 0 = size to content
	Monitor  int     `toml:"monitor" env:"MONITOR" validate:"gte=0"`             // 0 = compositor default, 1+ = specific monitor
	FontSize int     `toml:"font_size" env:"FONT_SIZE" validate:"gte=6,lte=200"` // Points
	Opacity  float64 `toml:"opacity" env:"OPACITY" validate:"gte=0,lte=1"`       // Background opacity
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name" env:"NAME" validate:"required"`                                 // Theme name without .css extension
	ColorScheme string `toml:"color_scheme" env:"COLOR_SCHEME" validate:"oneof=system light dark"` // "system", "light", or "dark"
}

// AudioConfig contains chime settings.
type AudioConfig struct {
	Enabled bool   `toml:"enabled" env:"ENABLED"`
	Volume  int    `toml:"volume" env:"VOLUME" validate:"gte=0,lte=100"`
	Sound   string `toml:"sound" env:"SOUND"` // Audio file path; empty uses the built-in chime
}

// BridgeConfig controls mirroring of desktop notifications
// (org.freedesktop.Notifications) onto the overlay.
type BridgeConfig struct {
	Enabled           bool        `toml:"enabled" env:"ENABLED"`
	LowColor          model.Color `toml:"low_color" env:"LOW_COLOR"`
	NormalColor       model.Color `toml:"normal_color" env:"NORMAL_COLOR"`
	CriticalColor     model.Color `toml:"critical_color" env:"CRITICAL_COLOR"`
	CriticalPermanent bool        `toml:"critical_permanent" env:"CRITICAL_PERMANENT"` // Critical notifications stay until cleared
	IgnoreApps        []string    `toml:"ignore_apps,omitempty" env:"IGNORE_APPS"`     // App names never mirrored
}

// Position represents an overlay anchor on screen.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
	PositionCenter       Position = "center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
		PositionCenter,
	}
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Overlay: OverlayConfig{
			TickInterval:    Duration(DefaultTickInterval),
			DefaultDuration: Duration(model.DefaultDuration),
			DefaultColor:    model.DefaultColor,
			StatusMessages:  true,
		},
		Display: DisplayConfig{
			Position: string(PositionTopCenter),
			OffsetX:  0,
			OffsetY:  40,
			Width:    0,
			Height:   0,
			Monitor:  0,
			FontSize: DefaultFontSize,
			Opacity:  0.0, // Text only, no background
		},
		Theme: ThemeConfig{
			Name:        DefaultThemeName,
			ColorScheme: string(ColorSchemeSystem),
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  DefaultVolume,
		},
		Bridge: BridgeConfig{
			Enabled:       false,
			LowColor:      model.Gray,
			NormalColor:   model.White,
			CriticalColor: model.Red,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "hud", "hudd.toml")
}

// Load reads the configuration from path, or ConfigPath() when path is empty.
// Defaults are overlaid by the file, then by HUD_* environment variables.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// No config file, use defaults
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays HUD_* environment variables onto the config.
// Unset variables leave the current values untouched.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Save writes the configuration to path, or ConfigPath() when path is empty.
// The write goes through a temp file so watchers never see a partial file.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		return validationError(err)
	}

	if c.Overlay.TickInterval.Duration() < time.Millisecond {
		return fmt.Errorf("overlay.tick_interval must be at least 1ms, got %s", c.Overlay.TickInterval)
	}
	if c.Overlay.TickInterval.Duration() > time.Minute {
		return fmt.Errorf("overlay.tick_interval must be at most 1m, got %s", c.Overlay.TickInterval)
	}

	return nil
}

// SoundPath returns the configured chime file with ~ expanded.
func (c *Config) SoundPath() string {
	return ExpandPath(c.Audio.Sound)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
