// Package scheduler drives notification expiry at a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/render"
)

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Pruner is the part of the store the scheduler advances.
type Pruner interface {
	render.Source
	Prune(dt time.Duration) []model.Notification
}

// Renderer is the part of the display renderer the scheduler drives.
type Renderer interface {
	Render(src render.Source) error
	Refresh(src render.Source) error
}

// Scheduler periodically prunes expired notifications and refreshes the display.
type Scheduler struct {
	mu     sync.RWMutex
	logger *slog.Logger

	store    Pruner
	renderer Renderer
	interval time.Duration

	onExpireCallback func(expired []model.Notification)

	// Control channels
	stopCh chan struct{}
	doneCh chan struct{}

	running bool
	ticks   uint64
}

// New creates a scheduler. A non-positive interval falls back to DefaultInterval.
func New(store Pruner, renderer Renderer, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		logger:   logger,
		store:    store,
		renderer: renderer,
		interval: interval,
	}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}

// SetExpireCallback sets the callback invoked with the items removed by a tick.
func (s *Scheduler) SetExpireCallback(callback func(expired []model.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpireCallback = callback
}

// Running reports whether the tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Ticks returns how many passes have run, including manual Advance calls.
func (s *Scheduler) Ticks() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticks
}

// Start begins ticking. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	interval := s.interval
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	go s.tickLoop(ctx, interval, stopCh, doneCh)

	s.logger.Debug("scheduler started", "interval", interval)
}

// Stop halts ticking and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh
	s.logger.Debug("scheduler stopped")
}

// Advance runs one tick pass of dt synchronously.
// Expired items trigger a render; the position refresh happens every pass.
func (s *Scheduler) Advance(dt time.Duration) []model.Notification {
	expired := s.store.Prune(dt)

	s.mu.Lock()
	s.ticks++
	callback := s.onExpireCallback
	s.mu.Unlock()

	if len(expired) > 0 {
		if err := s.renderer.Render(s.store); err != nil {
			s.logger.Debug("render after expiry failed", "error", err)
		}
		if callback != nil {
			callback(expired)
		}
		s.logger.Debug("notifications expired", "count", len(expired))
	}

	if err := s.renderer.Refresh(s.store); err != nil {
		s.logger.Debug("surface refresh failed", "error", err)
	}
	return expired
}

// tickLoop is the main timer loop.
func (s *Scheduler) tickLoop(ctx context.Context, interval time.Duration, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.Advance(interval)
		}
	}
}
