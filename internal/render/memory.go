package render

import (
	"sync"

	"github.com/jmylchreest/hud/internal/model"
)

// MemorySurface is a Surface that records what it was asked to display.
// It backs headless runs and tests.
type MemorySurface struct {
	mu sync.Mutex

	exists    bool
	text      string
	color     model.Color
	createErr error
	showErr   error

	creates   int
	shows     int
	refreshes int
}

// NewMemorySurface creates a surface that does not exist until Create is called.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// Ready implements Surface.
func (m *MemorySurface) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists
}

// Create implements Surface.
func (m *MemorySurface) Create() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	m.exists = true
	m.text = ""
	m.creates++
	return nil
}

// Show implements Surface.
func (m *MemorySurface) Show(text string, color model.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.showErr != nil {
		return m.showErr
	}
	m.text = text
	m.color = color
	m.shows++
	return nil
}

// Refresh implements Surface.
func (m *MemorySurface) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	return nil
}

// Destroy simulates the surface being torn down externally.
func (m *MemorySurface) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists = false
	m.text = ""
}

// FailCreate makes subsequent Create calls return err. Pass nil to recover.
func (m *MemorySurface) FailCreate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

// FailShow makes subsequent Show calls return err. Pass nil to recover.
func (m *MemorySurface) FailShow(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.showErr = err
}

// Text returns the displayed text.
func (m *MemorySurface) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Color returns the displayed color.
func (m *MemorySurface) Color() model.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

// Creates returns how many times the surface was created.
func (m *MemorySurface) Creates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

// Shows returns how many times text was pushed.
func (m *MemorySurface) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}

// Refreshes returns how many position refreshes were requested.
func (m *MemorySurface) Refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}
