package audio

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/jmylchreest/hud/internal/config"
)

// minChimeGap keeps a burst of sends from stacking chimes on top of each other.
const minChimeGap = 150 * time.Millisecond

// Chime plays the notification sound according to the audio config.
type Chime struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *Player

	enabled bool
	sound   string // Expanded path of the configured file, empty for built-in

	builtin  *beep.Buffer
	lastPlay time.Time
}

// NewChime creates a chime for the system speaker.
func NewChime(cfg config.AudioConfig, logger *slog.Logger) *Chime {
	return NewChimeWithPlayer(NewPlayer(logger), cfg, logger)
}

// NewChimeWithPlayer creates a chime that plays through player.
func NewChimeWithPlayer(player *Player, cfg config.AudioConfig, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chime{
		logger: logger,
		player: player,
	}
	c.UpdateConfig(cfg)
	return c
}

// UpdateConfig applies a new audio config.
// This is called when the config file is hot-reloaded.
func (c *Chime) UpdateConfig(cfg config.AudioConfig) {
	sound := cfg.Sound
	if sound != "" {
		sound = config.ExpandPath(sound)
		if _, err := os.Stat(sound); err != nil {
			c.logger.Warn("sound file not found, using built-in chime", "path", sound)
			sound = ""
		}
	}

	c.mu.Lock()
	old := c.sound
	c.enabled = cfg.Enabled
	c.sound = sound
	c.mu.Unlock()

	if old != "" && old != sound {
		c.player.InvalidateCache(old)
	}
	c.player.SetVolume(float64(cfg.Volume) / 100.0)

	c.logger.Debug("chime configured", "enabled", cfg.Enabled, "sound", sound, "volume", cfg.Volume)
}

// Enabled reports whether the chime plays.
func (c *Chime) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// SoundPath returns the configured sound file, empty for the built-in chime.
func (c *Chime) SoundPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sound
}

// Preload decodes the configured sound so the first chime is not delayed.
func (c *Chime) Preload() error {
	c.mu.RLock()
	sound := c.sound
	c.mu.RUnlock()

	if sound != "" {
		return c.player.Preload(sound)
	}
	_, err := c.builtinBuffer()
	return err
}

// Reload drops the decoded sound so the next chime reads the file again.
func (c *Chime) Reload() {
	c.mu.RLock()
	sound := c.sound
	c.mu.RUnlock()

	if sound != "" {
		c.player.InvalidateCache(sound)
		c.logger.Debug("sound file changed, cache invalidated", "path", sound)
	}
}

// Play plays the chime if enabled. Calls closer together than minChimeGap
// are dropped.
func (c *Chime) Play() error {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return nil
	}
	now := time.Now()
	if !c.lastPlay.IsZero() && now.Sub(c.lastPlay) < minChimeGap {
		c.mu.Unlock()
		return nil
	}
	c.lastPlay = now
	sound := c.sound
	c.mu.Unlock()

	if sound != "" {
		err := c.player.Play(sound)
		if err == nil {
			return nil
		}
		c.logger.Warn("failed to play sound, using built-in chime", "path", sound, "error", err)
	}

	buffer, err := c.builtinBuffer()
	if err != nil {
		return err
	}
	return c.player.PlayBuffer(buffer)
}

// Close releases the audio device.
func (c *Chime) Close() {
	c.player.Close()
}

func (c *Chime) builtinBuffer() (*beep.Buffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.builtin != nil {
		return c.builtin, nil
	}
	buffer, err := ChimeBuffer(DefaultSampleRate)
	if err != nil {
		return nil, err
	}
	c.builtin = buffer
	return buffer, nil
}
