// Package tui provides a BubbleTea terminal front end for the overlay. The
// terminal plays the part of the on-screen surface: messages typed at the
// prompt are queued, expire and render exactly as they would on the desktop.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/hud/internal/config"
	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/service"
)

// Controller is the part of the overlay service the TUI drives.
type Controller interface {
	Send(message string, color model.Color, duration time.Duration) model.Notification
	ClearAll()
	ClearOldest()
	ClearNewest()
	Count() int
	List() []model.Notification
}

var _ Controller = (*service.Service)(nil)

// namedColor is one entry of the color palette.
type namedColor struct {
	name  string
	color model.Color
}

var palette = []namedColor{
	{"white", model.White},
	{"red", model.Red},
	{"green", model.Green},
	{"blue", model.Blue},
	{"yellow", model.Yellow},
	{"cyan", model.Cyan},
	{"magenta", model.Magenta},
	{"orange", model.Orange},
}

// durations are cycled with NextDuration. Zero is permanent.
var durations = []time.Duration{
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
	0,
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// Model is the main TUI model.
type Model struct {
	ctrl    Controller
	surface *Surface

	// Components
	input textinput.Model
	help  help.Model
	keys  KeyMap

	// Composer state
	colorIdx    int
	durationIdx int

	// Overlay state
	text  string
	color model.Color
	items []model.Notification

	width    int
	height   int
	ready    bool
	showHelp bool

	// Status message
	statusMsg string
	statusErr bool
}

// New creates a TUI model driving ctrl and drawing what surface shows.
func New(ctrl Controller, surface *Surface) Model {
	input := textinput.New()
	input.Placeholder = "Type a message and press enter..."
	input.CharLimit = 256
	input.Prompt = "> "
	input.Focus()

	return Model{
		ctrl:        ctrl,
		surface:     surface,
		input:       input,
		help:        help.New(),
		keys:        DefaultKeyMap(),
		durationIdx: 1,
		color:       model.DefaultColor,
	}
}

type surfaceMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.watchSurface,
	)
}

// watchSurface waits for the surface to change.
func (m Model) watchSurface() tea.Msg {
	if m.surface == nil {
		return nil
	}
	<-m.surface.Changes()
	return surfaceMsg{}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.input.Width = max(msg.Width-4, 10)
		m.help.Width = msg.Width
		return m, nil

	case surfaceMsg:
		m = m.sync()
		return m, m.watchSurface

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sync copies the overlay state from the surface and the controller.
func (m Model) sync() Model {
	if m.surface != nil {
		m.text, m.color = m.surface.Frame()
	}
	if m.ctrl != nil {
		m.items = m.ctrl.List()
	}
	return m
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return m.send(m.duration())

	case key.Matches(msg, m.keys.SendPermanent):
		return m.send(0)

	case key.Matches(msg, m.keys.NextColor):
		m.colorIdx = (m.colorIdx + 1) % len(palette)
		return m, nil

	case key.Matches(msg, m.keys.PrevColor):
		m.colorIdx = (m.colorIdx + len(palette) - 1) % len(palette)
		return m, nil

	case key.Matches(msg, m.keys.NextDuration):
		m.durationIdx = (m.durationIdx + 1) % len(durations)
		return m, nil

	case key.Matches(msg, m.keys.ClearOldest):
		return m.clear("oldest", m.ctrl.ClearOldest)

	case key.Matches(msg, m.keys.ClearNewest):
		return m.clear("newest", m.ctrl.ClearNewest)

	case key.Matches(msg, m.keys.ClearAll):
		return m.clear("all", m.ctrl.ClearAll)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send queues the input as a notification and clears the prompt.
func (m Model) send(duration time.Duration) (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, func() tea.Msg {
			return statusMsg{text: "Nothing to send", isErr: true}
		}
	}

	m.ctrl.Send(text, m.currentColor().color, duration)
	m.input.SetValue("")
	m = m.sync()
	return m, nil
}

func (m Model) clear(which string, fn func()) (tea.Model, tea.Cmd) {
	if m.ctrl.Count() == 0 {
		return m, func() tea.Msg {
			return statusMsg{text: "Overlay is empty", isErr: false}
		}
	}
	fn()
	m = m.sync()
	return m, func() tea.Msg {
		return statusMsg{text: "Cleared " + which, isErr: false}
	}
}

func (m Model) currentColor() namedColor {
	return palette[m.colorIdx]
}

func (m Model) duration() time.Duration {
	return durations[m.durationIdx]
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("hud") + " " + labelStyle.Render(fmt.Sprintf("(%d active)", len(m.items))))
	b.WriteString("\n\n")
	b.WriteString(m.viewOverlay())
	b.WriteString("\n\n")
	b.WriteString(m.viewComposer())
	b.WriteString("\n\n")
	b.WriteString(m.viewItems())
	b.WriteString("\n")

	switch {
	case m.statusMsg != "" && m.statusErr:
		b.WriteString(errorStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		b.WriteString(statusStyle.Render(m.statusMsg))
	case m.showHelp:
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	default:
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return b.String()
}

// viewOverlay draws the overlay block the way the desktop surface would.
func (m Model) viewOverlay() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	if m.text == "" {
		return box.Render(labelStyle.Render("(empty)"))
	}
	text := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(opaqueHex(m.color))).
		Render(m.text)
	return box.Render(text)
}

func (m Model) viewComposer() string {
	c := m.currentColor()
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(opaqueHex(c.color))).Render("■ " + c.name)

	return m.input.View() + "\n" +
		labelStyle.Render("color: ") + swatch + "  " +
		labelStyle.Render("duration: ") + keyStyle.Render(formatDuration(m.duration()))
}

// viewItems lists the active notifications, oldest first.
func (m Model) viewItems() string {
	if len(m.items) == 0 {
		return labelStyle.Render("No active notifications")
	}

	var b strings.Builder
	for _, n := range m.items {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(opaqueHex(n.Color))).Render("●")
		b.WriteString(dot + " " + n.Message + " " + labelStyle.Render(remaining(n)) + "\n")
	}
	return b.String()
}

// remaining describes how long n stays on screen.
func remaining(n model.Notification) string {
	if n.Permanent {
		return "permanent, sent " + humanize.Time(n.CreatedAt)
	}
	return fmt.Sprintf("%.1fs left", n.Remaining.Seconds())
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "permanent"
	}
	return d.String()
}

// opaqueHex drops the alpha channel, which terminals cannot show.
func opaqueHex(c model.Color) string {
	c.A = 255
	return c.Hex()
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config *config.Config
	Logger *slog.Logger // Nil discards; stderr belongs to the terminal UI
}

// Run starts an in-process overlay drawn in the terminal and blocks until
// the user quits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	surface := NewSurface()
	svc := service.New(surface, service.Options{
		TickInterval:    cfg.Overlay.TickInterval.Duration(),
		DefaultColor:    cfg.Overlay.DefaultColor,
		DefaultDuration: cfg.Overlay.DefaultDuration.Duration(),
		Logger:          logger,
	})
	svc.Start(ctx)
	defer svc.Stop()

	m := New(svc, surface)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
