// Package service is the public entry point for pushing and clearing overlay
// notifications. It owns the store, the renderer and the scheduler.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/render"
	"github.com/jmylchreest/hud/internal/scheduler"
	"github.com/jmylchreest/hud/internal/store"
)

// Options configures a Service.
type Options struct {
	// TickInterval is the expiry resolution. Zero uses scheduler.DefaultInterval.
	TickInterval time.Duration
	// DefaultColor is used by SendMessage and SendDefault. Zero uses white.
	DefaultColor model.Color
	// DefaultDuration is used by SendDefault. Zero uses model.DefaultDuration.
	DefaultDuration time.Duration
	Logger          *slog.Logger
}

// Service manages the lifecycle of overlay notifications.
type Service struct {
	mu     sync.RWMutex
	logger *slog.Logger

	store     *store.Store
	renderer  *render.Renderer
	scheduler *scheduler.Scheduler

	defaultColor    model.Color
	defaultDuration time.Duration

	onSend   func(model.Notification)
	onChange func(count int)
	onExpire func(model.Notification)
}

// New creates a service rendering to surface.
func New(surface render.Surface, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		logger:          logger,
		store:           store.NewStore(),
		renderer:        render.NewRenderer(surface, logger.With("component", "renderer")),
		defaultColor:    model.DefaultColor,
		defaultDuration: model.DefaultDuration,
	}
	s.SetDefaults(opts.DefaultColor, opts.DefaultDuration)

	s.scheduler = scheduler.New(s.store, s.renderer, opts.TickInterval, logger.With("component", "scheduler"))
	s.scheduler.SetExpireCallback(s.handleExpired)

	return s
}

// Send adds a notification and renders immediately.
// A duration of zero or less makes the notification permanent.
func (s *Service) Send(message string, color model.Color, duration time.Duration) model.Notification {
	n := model.NewNotification(message, color, duration)
	s.store.Add(n)
	s.render()

	s.logger.Debug("notification sent",
		"id", n.ID,
		"color", color.Hex(),
		"duration", duration,
		"permanent", n.Permanent,
	)

	s.mu.RLock()
	onSend := s.onSend
	s.mu.RUnlock()
	if onSend != nil {
		onSend(n)
	}
	s.changed()
	return n
}

// SendMessage sends with the default color.
func (s *Service) SendMessage(message string, duration time.Duration) model.Notification {
	return s.Send(message, s.DefaultColor(), duration)
}

// SendPermanent sends a notification that never expires.
func (s *Service) SendPermanent(message string, color model.Color) model.Notification {
	return s.Send(message, color, 0)
}

// SendDefault sends with the default color and duration.
func (s *Service) SendDefault(message string) model.Notification {
	s.mu.RLock()
	color, duration := s.defaultColor, s.defaultDuration
	s.mu.RUnlock()
	return s.Send(message, color, duration)
}

// ClearAll removes every notification.
func (s *Service) ClearAll() {
	removed := s.store.Clear()
	s.render()
	s.logger.Debug("cleared all notifications", "count", removed)
	s.changed()
}

// ClearOldest removes the oldest notification if there is one.
func (s *Service) ClearOldest() {
	if n, ok := s.store.RemoveOldest(); ok {
		s.logger.Debug("cleared oldest notification", "id", n.ID)
	}
	s.render()
	s.changed()
}

// ClearNewest removes the newest notification if there is one.
func (s *Service) ClearNewest() {
	if n, ok := s.store.RemoveNewest(); ok {
		s.logger.Debug("cleared newest notification", "id", n.ID)
	}
	s.render()
	s.changed()
}

// Count returns the number of active notifications.
func (s *Service) Count() int {
	return s.store.Count()
}

// Get returns the active notification with the given ID.
func (s *Service) Get(id string) (model.Notification, bool) {
	return s.store.Get(id)
}

// HasNotifications reports whether any notification is active.
func (s *Service) HasNotifications() bool {
	return s.store.Count() > 0
}

// List returns the active notifications, oldest first.
func (s *Service) List() []model.Notification {
	return s.store.Snapshot()
}

// Frame returns the last frame pushed to the surface.
func (s *Service) Frame() (render.Frame, bool) {
	return s.renderer.Last()
}

// Start begins automatic expiry. Starting a running service is a no-op.
func (s *Service) Start(ctx context.Context) {
	if s.scheduler.Running() {
		return
	}
	// Create the surface up front so it is positioned before the first send.
	if err := s.renderer.Ensure(); err != nil {
		s.logger.Debug("surface not ready at start", "error", err)
	}
	s.scheduler.Start(ctx)
}

// Stop halts automatic expiry. Notifications stay in place.
func (s *Service) Stop() {
	if !s.scheduler.Running() {
		return
	}
	s.scheduler.Stop()
	s.logger.Debug("service stopped", "ticks", s.scheduler.Ticks(), "active", s.store.Count())
}

// Running reports whether automatic expiry is active.
func (s *Service) Running() bool {
	return s.scheduler.Running()
}

// Advance runs one expiry pass of dt. Used when driving time manually.
func (s *Service) Advance(dt time.Duration) []model.Notification {
	return s.scheduler.Advance(dt)
}

// TickInterval returns the scheduler period.
func (s *Service) TickInterval() time.Duration {
	return s.scheduler.Interval()
}

// SetDefaults updates the default color and duration. Zero values keep the
// current setting. Existing notifications are not affected.
func (s *Service) SetDefaults(color model.Color, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !color.IsZero() {
		s.defaultColor = color
	}
	if duration != 0 {
		s.defaultDuration = duration
	}
}

// DefaultColor returns the color used by SendMessage.
func (s *Service) DefaultColor() model.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultColor
}

// DefaultDuration returns the duration used by SendDefault.
func (s *Service) DefaultDuration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultDuration
}

// OnSend registers a callback invoked after each send.
func (s *Service) OnSend(callback func(model.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSend = callback
}

// OnChange registers a callback invoked with the new count after any mutation.
func (s *Service) OnChange(callback func(count int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = callback
}

// OnExpire registers a callback invoked for each expired notification.
func (s *Service) OnExpire(callback func(model.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = callback
}

func (s *Service) render() {
	if err := s.renderer.Render(s.store); err != nil {
		s.logger.Debug("render failed", "error", err)
	}
}

func (s *Service) changed() {
	s.mu.RLock()
	onChange := s.onChange
	s.mu.RUnlock()
	if onChange != nil {
		onChange(s.store.Count())
	}
}

func (s *Service) handleExpired(expired []model.Notification) {
	s.mu.RLock()
	onExpire := s.onExpire
	s.mu.RUnlock()

	if onExpire != nil {
		for _, n := range expired {
			onExpire(n)
		}
	}
	s.changed()
}
