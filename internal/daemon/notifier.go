package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/hud/internal/model"
)

// StatusLevel is the severity of a daemon status message.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusWarning
	StatusError
)

// Color returns the overlay color for the level.
func (l StatusLevel) Color() model.Color {
	switch l {
	case StatusWarning:
		return model.Yellow
	case StatusError:
		return model.Red
	default:
		return model.Cyan
	}
}

const (
	statusDuration    = 4 * time.Second
	statusMinInterval = 5 * time.Second
)

// Poster accepts overlay notifications.
type Poster interface {
	Send(message string, color model.Color, duration time.Duration) model.Notification
}

// StatusNotifier posts daemon events (reloads, errors) on the overlay.
// The same key is not repeated within the minimum interval so a broken
// file saved repeatedly does not flood the screen.
type StatusNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	poster Poster

	enabled     bool
	minInterval time.Duration
	lastSent    map[string]time.Time
	now         func() time.Time
}

// NewStatusNotifier creates a notifier posting to poster.
func NewStatusNotifier(poster Poster, logger *slog.Logger) *StatusNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusNotifier{
		logger:      logger,
		poster:      poster,
		enabled:     true,
		minInterval: statusMinInterval,
		lastSent:    make(map[string]time.Time),
		now:         time.Now,
	}
}

// SetEnabled enables or disables status messages.
func (n *StatusNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between messages with the same key.
func (n *StatusNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify posts message unless disabled or rate limited. Reports whether
// the message was posted.
func (n *StatusNotifier) Notify(key, message string, level StatusLevel) bool {
	n.mu.Lock()
	if !n.enabled || n.poster == nil {
		n.mu.Unlock()
		return false
	}
	now := n.now()
	if last, ok := n.lastSent[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("status message rate-limited", "key", key)
		return false
	}
	n.lastSent[key] = now
	poster := n.poster
	n.mu.Unlock()

	poster.Send("hudd: "+message, level.Color(), statusDuration)
	return true
}

// NotifyConfigReloaded reports a successful config reload.
func (n *StatusNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "configuration reloaded", StatusInfo)
}

// NotifyConfigError reports a rejected config.
func (n *StatusNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "configuration error: "+err.Error(), StatusError)
}

// NotifyThemeReloaded reports a theme change.
func (n *StatusNotifier) NotifyThemeReloaded(name string) {
	n.Notify("theme-reload", "theme '"+name+"' loaded", StatusInfo)
}

// NotifyThemeError reports a theme that failed to load.
func (n *StatusNotifier) NotifyThemeError(err error) {
	n.Notify("theme-error", "theme error: "+err.Error(), StatusWarning)
}

// NotifyAudioError reports a chime that failed to play.
func (n *StatusNotifier) NotifyAudioError(err error) {
	n.Notify("audio-error", "audio error: "+err.Error(), StatusWarning)
}
