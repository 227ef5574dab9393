// Package render turns the ordered set of active notifications into the text
// block and color pushed to a display surface.
package render

import (
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/jmylchreest/hud/internal/model"
)

// Surface is the display target the overlay writes to.
// Implementations may be backed by a window, a terminal, or memory.
type Surface interface {
	// Ready reports whether the surface currently exists and can accept text.
	Ready() bool
	// Create builds the surface. It must be safe to call again after the
	// surface was destroyed externally.
	Create() error
	// Show replaces the displayed text and sets the color of the whole block.
	Show(text string, color model.Color) error
	// Refresh re-applies position and orientation. Called every tick.
	Refresh() error
}

// Source provides the ordered notifications to render.
type Source interface {
	Snapshot() []model.Notification
}

// Frame is one computed display state.
type Frame struct {
	Lines []string
	Text  string
	Color model.Color
	Empty bool
}

// BuildFrame computes the display text and color for a snapshot.
// Each message goes on its own line in store order, trailing whitespace is
// trimmed, and the whole block takes the color of the newest notification.
// An empty snapshot yields an empty frame with a zero color.
func BuildFrame(items []model.Notification) Frame {
	if len(items) == 0 {
		return Frame{Empty: true}
	}

	lines := make([]string, len(items))
	var b strings.Builder
	for i, n := range items {
		lines[i] = n.Message
		b.WriteString(n.Message)
		b.WriteByte('\n')
	}

	return Frame{
		Lines: lines,
		Text:  strings.TrimRightFunc(b.String(), unicode.IsSpace),
		Color: items[len(items)-1].Color,
	}
}

// Renderer pushes frames to a surface, creating the surface on demand.
// A render that could not reach the surface leaves the renderer dirty; the
// next Refresh renders the current state again once the surface is back.
type Renderer struct {
	mu      sync.Mutex
	surface Surface
	logger  *slog.Logger

	last     Frame
	color    model.Color // Color currently applied to the surface
	rendered bool
	dirty    bool
	renders  int
}

// NewRenderer creates a renderer for the given surface.
func NewRenderer(surface Surface, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		surface: surface,
		logger:  logger,
	}
}

// Render takes a snapshot of src and pushes it to the surface.
// The snapshot is taken under the renderer lock so the last render to finish
// always reflects the newest state.
func (r *Renderer) Render(src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderLocked(src)
}

// Refresh re-applies the surface position. A surface that was recreated or
// missed a render is first brought up to date from src.
func (r *Renderer) Refresh(src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLocked(); err != nil {
		return err
	}
	if r.dirty {
		if err := r.renderLocked(src); err != nil {
			return err
		}
	}
	if err := r.surface.Refresh(); err != nil {
		return &SurfaceError{Message: "failed to refresh position", Cause: err}
	}
	return nil
}

// Ensure creates the surface if it does not exist.
func (r *Renderer) Ensure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureLocked()
}

// Dirty reports whether the surface may be showing an outdated frame.
func (r *Renderer) Dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

// Last returns the most recently pushed frame and whether any frame was pushed.
func (r *Renderer) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.rendered
}

// RenderCount returns how many frames were pushed successfully.
func (r *Renderer) RenderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// renderLocked pushes the current state of src. Caller must hold the lock.
func (r *Renderer) renderLocked(src Source) error {
	if err := r.ensureLocked(); err != nil {
		r.dirty = true
		return err
	}

	frame := BuildFrame(src.Snapshot())
	color := frame.Color
	if frame.Empty {
		// An empty block keeps whatever color the surface last had.
		color = r.color
	}

	if err := r.surface.Show(frame.Text, color); err != nil {
		r.dirty = true
		return &SurfaceError{Message: "failed to show text", Cause: err}
	}

	r.last = frame
	r.color = color
	r.rendered = true
	r.dirty = false
	r.renders++

	r.logger.Debug("rendered overlay",
		"lines", len(frame.Lines),
		"color", frame.Color.Hex(),
	)
	return nil
}

// ensureLocked creates the surface if needed. Caller must hold the lock.
func (r *Renderer) ensureLocked() error {
	if r.surface.Ready() {
		return nil
	}
	if err := r.surface.Create(); err != nil {
		return &SurfaceError{Message: "surface not available", Cause: err}
	}
	r.logger.Debug("display surface created", "restore", r.rendered)

	// A recreated surface starts blank and must be drawn again.
	if r.rendered {
		r.dirty = true
	}
	return nil
}

// SurfaceError represents a display-surface failure.
type SurfaceError struct {
	Message string
	Cause   error
}

func (e *SurfaceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SurfaceError) Unwrap() error {
	return e.Cause
}
