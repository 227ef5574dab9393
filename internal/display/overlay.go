package display

import (
	"html"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/hud/internal/config"
	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/render"
)

const namespace = "hud-overlay"

// Overlay is a click-to-clear layer-shell window holding a single label.
// Its Surface methods may be called from any goroutine; widget work is
// queued with glib.IdleAdd.
type Overlay struct {
	app     *gtk.Application
	display *gdk.Display
	logger  *slog.Logger

	mu          sync.Mutex
	cfg         config.DisplayConfig
	colorScheme config.ColorScheme
	text        string
	color       model.Color
	onClick     func()

	ready      atomic.Bool
	pending    atomic.Bool
	refreshing atomic.Bool

	// Main loop only.
	window       *gtk.Window
	box          *gtk.Box
	label        *gtk.Label
	monitor      int // Configured monitor number
	monitorIndex int // Output the window is bound to, or noMonitor
}

var _ render.Surface = (*Overlay)(nil)

// NewOverlay creates the overlay. It must be called on the GTK main loop
// after the application has activated. The window itself is created lazily.
func NewOverlay(app *gtk.Application, cfg config.DisplayConfig, colorScheme config.ColorScheme, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Overlay{
		app:         app,
		display:     gdk.DisplayGetDefault(),
		logger:      logger,
		cfg:         cfg,
		colorScheme: colorScheme,
		color:       model.DefaultColor,
	}
}

// Ready reports whether the window exists and has not been closed.
func (o *Overlay) Ready() bool {
	return o.ready.Load()
}

// Create queues construction of the window.
func (o *Overlay) Create() error {
	if o.app == nil {
		return &render.SurfaceError{Message: "no application"}
	}
	if o.display == nil {
		return &render.SurfaceError{Message: "no display available"}
	}

	o.ready.Store(true)
	glib.IdleAdd(o.build)
	return nil
}

// Show sets the label text and color. Bursts of calls collapse into one
// widget update carrying the latest values.
func (o *Overlay) Show(text string, color model.Color) error {
	o.mu.Lock()
	o.text = text
	o.color = color
	o.mu.Unlock()

	if o.pending.CompareAndSwap(false, true) {
		glib.IdleAdd(func() {
			o.pending.Store(false)
			o.apply()
		})
	}
	return nil
}

// Refresh re-applies anchors and margins and follows monitor hotplug: when
// the configured monitor resolves to a different output than the one the
// window is bound to, the window is rebuilt there. Calls made while one is
// still queued are dropped.
func (o *Overlay) Refresh() error {
	if o.refreshing.CompareAndSwap(false, true) {
		glib.IdleAdd(func() {
			o.refreshing.Store(false)
			o.refresh()
		})
	}
	return nil
}

func (o *Overlay) refresh() {
	if o.window == nil {
		return
	}

	o.mu.Lock()
	cfg := o.cfg
	o.mu.Unlock()

	if resolveMonitor(cfg.Monitor, monitorCount(o.display)) != o.monitorIndex {
		o.logger.Debug("overlay output changed, rebuilding", "monitor", cfg.Monitor)
		o.destroyWindow()
		o.build()
		return
	}

	applyPlacement(o.window, cfg)
	o.window.QueueDraw()
}

// Configure applies new placement and color scheme settings. A monitor
// change rebuilds the window since layer-shell binds the output at map time.
func (o *Overlay) Configure(cfg config.DisplayConfig, colorScheme config.ColorScheme) {
	o.mu.Lock()
	o.cfg = cfg
	o.colorScheme = colorScheme
	o.mu.Unlock()

	glib.IdleAdd(func() {
		if o.window == nil {
			return
		}
		if cfg.Monitor != o.monitor {
			o.destroyWindow()
			o.build()
			return
		}
		applyPlacement(o.window, cfg)
		o.applySchemeClass()
	})
}

// OnClick sets the callback for a click on the overlay.
func (o *Overlay) OnClick(callback func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onClick = callback
}

// Destroy closes the window. The next render recreates it.
func (o *Overlay) Destroy() {
	o.ready.Store(false)
	glib.IdleAdd(o.destroyWindow)
}

func (o *Overlay) build() {
	if o.window != nil {
		return
	}

	o.mu.Lock()
	cfg := o.cfg
	o.mu.Unlock()

	window := gtk.NewWindow()
	window.SetApplication(o.app)
	window.SetDecorated(false)
	window.SetResizable(false)
	window.AddCSSClass("hud-overlay")

	layershell.InitForWindow(window)
	layershell.SetLayer(window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(window, 0)
	layershell.SetKeyboardMode(window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(window, namespace)
	monitor, index := selectMonitor(o.display, cfg.Monitor, o.logger)
	if monitor != nil {
		layershell.SetMonitor(window, monitor)
	}
	applyPlacement(window, cfg)

	o.box = gtk.NewBox(gtk.OrientationVertical, 0)
	o.box.AddCSSClass("hud-box")
	if cfg.Opacity > 0 {
		o.box.AddCSSClass("translucent")
	}

	o.label = gtk.NewLabel("")
	o.label.AddCSSClass("hud-text")
	o.label.SetWrap(true)
	o.label.SetJustify(gtk.JustifyCenter)
	o.box.Append(o.label)
	window.SetChild(o.box)

	click := gtk.NewGestureClick()
	click.ConnectReleased(func(nPress int, x, y float64) {
		o.mu.Lock()
		callback := o.onClick
		o.mu.Unlock()
		if callback != nil {
			callback()
		}
	})
	window.AddController(click)

	window.ConnectCloseRequest(func() bool {
		o.logger.Debug("overlay window closed")
		o.ready.Store(false)
		o.window, o.box, o.label = nil, nil, nil
		return false
	})

	o.window = window
	o.monitor = cfg.Monitor
	o.monitorIndex = index
	o.applySchemeClass()
	o.logger.Debug("overlay window created", "position", cfg.Position, "monitor", cfg.Monitor)

	o.apply()
}

// apply pushes the latest text and color to the label. Empty text hides
// the window so nothing is drawn over the desktop.
func (o *Overlay) apply() {
	if o.window == nil {
		return
	}

	o.mu.Lock()
	text, color := o.text, o.color
	o.mu.Unlock()

	if text == "" {
		o.label.SetText("")
		o.window.SetVisible(false)
		return
	}

	o.label.SetMarkup(markup(text, color))
	if !o.window.IsVisible() {
		o.window.Present()
	}
}

func (o *Overlay) applySchemeClass() {
	if o.box == nil {
		return
	}

	o.mu.Lock()
	scheme := o.colorScheme
	o.mu.Unlock()

	o.box.RemoveCSSClass("light")
	o.box.RemoveCSSClass("dark")
	o.box.AddCSSClass(schemeClass(scheme))
}

func (o *Overlay) destroyWindow() {
	if o.window == nil {
		return
	}
	window := o.window
	o.window, o.box, o.label = nil, nil, nil
	window.Destroy()
}

// markup wraps text in a Pango span of the given color.
func markup(text string, color model.Color) string {
	return `<span foreground="` + color.Hex() + `">` + html.EscapeString(text) + `</span>`
}

// schemeClass returns "light" or "dark" from config or the system preference.
func schemeClass(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		if adw.StyleManagerGetDefault().Dark() {
			return "dark"
		}
		return "light"
	}
}
