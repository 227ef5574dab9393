package theme

import (
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/hud/internal/config"
)

// Loader owns the application CSS provider and keeps it in sync with the
// selected theme and display config. Methods touching GTK must run on the
// GTK main loop.
type Loader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	provider  *gtk.CSSProvider
	themesDir string
	theme     *Theme
	display   config.DisplayConfig
	applied   bool
}

// NewLoader creates a theme loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	return &Loader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// LoadTheme resolves a theme by name and loads it into the provider.
// An unknown name loads the default theme.
func (l *Loader) LoadTheme(name string) error {
	t, found, err := Resolve(name, l.themesDir)
	if err != nil {
		return err
	}
	if !found {
		l.logger.Warn("theme not found, using default", "theme", name)
	}

	l.mu.Lock()
	l.theme = t
	css := Compose(t, l.display)
	l.mu.Unlock()

	l.provider.LoadFromString(css)
	l.logger.Info("loaded theme", "name", t.Name, "path", t.Path, "bundled", t.Bundled)
	return nil
}

// SetDisplayConfig regenerates the display-derived rules.
func (l *Loader) SetDisplayConfig(cfg config.DisplayConfig) {
	l.mu.Lock()
	l.display = cfg
	css := Compose(l.theme, cfg)
	l.mu.Unlock()

	l.provider.LoadFromString(css)
}

// Reload re-reads the current theme from disk.
func (l *Loader) Reload() error {
	return l.LoadTheme(l.CurrentTheme())
}

// Apply attaches the provider to a display. A nil display uses the default.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.applied {
		return
	}
	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	l.applied = true
}

// CurrentTheme returns the loaded theme name.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.theme == nil {
		return DefaultThemeName
	}
	return l.theme.Name
}

// Path returns the file backing the loaded theme, empty when bundled.
func (l *Loader) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.Path
}

// ListThemes returns bundled and user theme names.
func (l *Loader) ListThemes() []string {
	return List(l.themesDir)
}
