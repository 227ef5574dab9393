package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI. Plain keys go to the message
// input, so actions use control keys.
type KeyMap struct {
	// Sending
	Send          key.Binding
	SendPermanent key.Binding
	NextColor     key.Binding
	PrevColor     key.Binding
	NextDuration  key.Binding

	// Clearing
	ClearOldest key.Binding
	ClearNewest key.Binding
	ClearAll    key.Binding

	// Global
	Help key.Binding
	Quit key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.NextColor, k.ClearOldest, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.SendPermanent, k.NextColor, k.PrevColor, k.NextDuration},
		{k.ClearOldest, k.ClearNewest, k.ClearAll},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		SendPermanent: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "send permanent"),
		),
		NextColor: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next color"),
		),
		PrevColor: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous color"),
		),
		NextDuration: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "cycle duration"),
		),
		ClearOldest: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "clear oldest"),
		),
		ClearNewest: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "clear newest"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear all"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}
