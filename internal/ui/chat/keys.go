// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Send     key.Binding
	Quit     key.Binding
	Save     key.Binding
	Copy     key.Binding
	Help     key.Binding
	NewChat  key.Binding
	Clear    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("C-q", "quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+y"),
			key.WithHelp("C-c", "copy last"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Save, k.Copy, k.Help, k.NewChat, k.Clear}
}

// FullHelp returns all bindings in groups.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Quit, k.Save, k.Copy},
		{k.Help, k.NewChat, k.Clear},
		{k.PageUp, k.PageDown},
	}
}

// helpText is the shortcut list shown by F1.
func (k KeyMap) helpText() string {
	lines := []string{"ChatCLI Keyboard Shortcuts:"}
	for _, b := range []struct {
		keys string
		desc string
	}{
		{"Ctrl+Q", "Quit the application"},
		{"Ctrl+S", "Save conversation history"},
		{"Ctrl+C / Ctrl+Y", "Copy last message to clipboard"},
		{"F1", "Show this help message"},
		{"Ctrl+N", "New chat"},
		{"Ctrl+L", "Clear screen"},
		{"PgUp / PgDn", "Scroll messages"},
	} {
		lines = append(lines, "- "+b.keys+": "+b.desc)
	}
	return strings.Join(lines, "\n")
}
