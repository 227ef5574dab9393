package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/service"
)

func newTestModel(t *testing.T) (Model, *service.Service, *Surface) {
	t.Helper()
	surface := NewSurface()
	svc := service.New(surface, service.Options{TickInterval: 100 * time.Millisecond})
	m := New(svc, surface)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model), svc, surface
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeAndSend(t *testing.T, m Model, text string, k tea.KeyType) Model {
	t.Helper()
	m.input.SetValue(text)
	m, _ = press(t, m, tea.KeyMsg{Type: k})
	return m
}

func TestModel_SendUsesSelectedColorAndDuration(t *testing.T) {
	m, svc, surface := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "red", m.currentColor().name)

	m = typeAndSend(t, m, "build finished", tea.KeyEnter)

	items := svc.List()
	require.Len(t, items, 1)
	assert.Equal(t, "build finished", items[0].Message)
	assert.Equal(t, model.Red, items[0].Color)
	assert.Equal(t, 5*time.Second, items[0].Remaining)
	assert.False(t, items[0].Permanent)

	text, color := surface.Frame()
	assert.Equal(t, "build finished", text)
	assert.Equal(t, model.Red, color)

	assert.Empty(t, m.input.Value())
	assert.Len(t, m.items, 1)
	assert.Equal(t, "build finished", m.text)
}

func TestModel_SendPermanent(t *testing.T) {
	m, svc, _ := newTestModel(t)

	typeAndSend(t, m, "pinned", tea.KeyCtrlP)

	items := svc.List()
	require.Len(t, items, 1)
	assert.True(t, items[0].Permanent)
}

func TestModel_EmptyInputNotSent(t *testing.T) {
	m, svc, _ := newTestModel(t)

	m.input.SetValue("   ")
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 0, svc.Count())
	require.NotNil(t, cmd)
	msg, ok := cmd().(statusMsg)
	require.True(t, ok)
	assert.True(t, msg.isErr)
}

func TestModel_ColorCycleWraps(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "orange", m.currentColor().name)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "white", m.currentColor().name)
}

func TestModel_DurationCycle(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, 5*time.Second, m.duration())

	for range len(durations) - 2 {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	}
	assert.Equal(t, time.Duration(0), m.duration())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, 2*time.Second, m.duration())
}

func TestModel_Clear(t *testing.T) {
	m, svc, surface := newTestModel(t)

	m = typeAndSend(t, m, "first", tea.KeyEnter)
	m = typeAndSend(t, m, "second", tea.KeyEnter)
	m = typeAndSend(t, m, "third", tea.KeyEnter)
	require.Equal(t, 3, svc.Count())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	text, _ := surface.Frame()
	assert.Equal(t, "second\nthird", text)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	text, _ = surface.Frame()
	assert.Equal(t, "second", text)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, 0, svc.Count())
	assert.Empty(t, m.items)
}

func TestModel_ClearEmpty(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, cmd)
	msg, ok := cmd().(statusMsg)
	require.True(t, ok)
	assert.Equal(t, "Overlay is empty", msg.text)
}

func TestModel_SurfaceMsgSyncs(t *testing.T) {
	m, svc, _ := newTestModel(t)

	svc.Send("from elsewhere", model.Green, 0)
	m2, cmd := m.Update(surfaceMsg{})
	m = m2.(Model)

	assert.Equal(t, "from elsewhere", m.text)
	assert.Equal(t, model.Green, m.color)
	assert.NotNil(t, cmd, "watch must be re-armed")
}

func TestModel_HelpAndQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.True(t, m.showHelp)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
	assert.Nil(t, cmd)

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_View(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "No active notifications")

	m = typeAndSend(t, m, "deploy done", tea.KeyEnter)
	m = typeAndSend(t, m, "pinned", tea.KeyCtrlP)

	view := m.View()
	assert.Contains(t, view, "(2 active)")
	assert.Contains(t, view, "deploy done")
	assert.Contains(t, view, "5.0s left")
	assert.Contains(t, view, "permanent")
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := New(nil, nil)
	assert.Equal(t, "Initializing...", m.View())
}

func TestRemaining(t *testing.T) {
	timed := model.NewNotification("x", model.White, 1500*time.Millisecond)
	assert.Equal(t, "1.5s left", remaining(timed))

	permanent := model.NewNotification("x", model.White, 0)
	assert.True(t, strings.HasPrefix(remaining(permanent), "permanent"))
}

func TestOpaqueHex(t *testing.T) {
	c := model.Color{R: 0x11, G: 0x22, B: 0x33, A: 0x80}
	assert.Equal(t, "#112233", opaqueHex(c))
}
