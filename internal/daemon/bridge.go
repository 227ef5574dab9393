package daemon

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/hud/internal/config"
	"github.com/jmylchreest/hud/internal/dbus"
	"github.com/jmylchreest/hud/internal/model"
)

// BridgeTarget is the overlay side of the bridge.
type BridgeTarget interface {
	Poster
	DefaultDuration() time.Duration
}

// Bridge mirrors observed desktop notifications onto the overlay.
type Bridge struct {
	mu     sync.RWMutex
	logger *slog.Logger
	target BridgeTarget
	cfg    config.BridgeConfig
}

// NewBridge creates a bridge posting to target.
func NewBridge(target BridgeTarget, cfg config.BridgeConfig, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		logger: logger,
		target: target,
		cfg:    cfg,
	}
}

// UpdateConfig replaces the bridge config.
func (b *Bridge) UpdateConfig(cfg config.BridgeConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = cfg
}

// Enabled reports whether notifications are mirrored.
func (b *Bridge) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cfg.Enabled
}

// Handle mirrors n unless the bridge is disabled, the app is ignored or
// there is nothing to show. Reports whether n was posted.
func (b *Bridge) Handle(n *dbus.DesktopNotification) bool {
	b.mu.RLock()
	cfg := b.cfg
	b.mu.RUnlock()

	if !cfg.Enabled || n == nil {
		return false
	}
	for _, app := range cfg.IgnoreApps {
		if strings.EqualFold(app, n.AppName) {
			b.logger.Debug("bridge ignored app", "app", n.AppName)
			return false
		}
	}

	text := n.Text()
	if text == "" {
		return false
	}

	color := b.color(n, cfg)
	duration := b.duration(n, cfg)
	b.target.Send(text, color, duration)

	b.logger.Debug("bridged desktop notification",
		"app", n.AppName,
		"urgency", n.Urgency(),
		"color", color.Hex(),
		"duration", duration,
	)
	return true
}

// color prefers the sender's fgcolor then hlcolor hint, then the urgency color.
func (b *Bridge) color(n *dbus.DesktopNotification, cfg config.BridgeConfig) model.Color {
	for _, hint := range []string{n.ForegroundColor(), n.HighlightColor()} {
		if hint == "" {
			continue
		}
		if c, err := model.ParseColor(hint); err == nil {
			return c
		}
	}

	switch n.Urgency() {
	case dbus.UrgencyLow:
		return cfg.LowColor
	case dbus.UrgencyCritical:
		return cfg.CriticalColor
	default:
		return cfg.NormalColor
	}
}

// duration honors the sender's timeout. A zero timeout means never expire,
// which the overlay expresses as a permanent item.
func (b *Bridge) duration(n *dbus.DesktopNotification, cfg config.BridgeConfig) time.Duration {
	if cfg.CriticalPermanent && n.Urgency() == dbus.UrgencyCritical {
		return 0
	}
	if d, ok := n.Timeout(); ok {
		return d
	}
	return b.target.DefaultDuration()
}
