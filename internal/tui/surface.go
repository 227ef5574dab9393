package tui

import (
	"sync"

	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/render"
)

// Surface is a render.Surface drawn by the TUI. Updates are coalesced into
// a single pending signal so the renderer never blocks on the event loop.
type Surface struct {
	mu      sync.Mutex
	ready   bool
	text    string
	color   model.Color
	changes chan struct{}
}

var _ render.Surface = (*Surface)(nil)

// NewSurface creates a terminal surface.
func NewSurface() *Surface {
	return &Surface{
		color:   model.DefaultColor,
		changes: make(chan struct{}, 1),
	}
}

// Ready reports whether the surface has been created.
func (s *Surface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Create marks the surface ready. The terminal is always available.
func (s *Surface) Create() error {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	s.notify()
	return nil
}

// Show records the text and color to draw.
func (s *Surface) Show(text string, color model.Color) error {
	s.mu.Lock()
	s.text = text
	s.color = color
	s.mu.Unlock()
	s.notify()
	return nil
}

// Refresh requests a redraw so remaining times stay current.
func (s *Surface) Refresh() error {
	s.notify()
	return nil
}

// Frame returns the text and color last shown.
func (s *Surface) Frame() (string, model.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.color
}

// Changes delivers a signal after any update.
func (s *Surface) Changes() <-chan struct{} {
	return s.changes
}

func (s *Surface) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
