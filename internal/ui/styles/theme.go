// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components of the chat TUI.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderClock lipgloss.Style

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	SystemLabel     lipgloss.Style

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	HelpBox lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		Background(SurfaceDim)
	t.HeaderClock = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1).
		MarginLeft(2)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		Padding(0, 1).
		MarginRight(2)
	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(SystemBubbleBorder).
		PaddingLeft(1)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(UserColor)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(AssistantColor)
	t.SystemLabel = lipgloss.NewStyle().Bold(true).Foreground(SystemColor)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Bold(true).Foreground(Emerald)

	t.Spinner = lipgloss.NewStyle().Foreground(Cyan)
	t.ThinkingText = lipgloss.NewStyle().Italic(true).Foreground(TextSecondary)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextSecondary)
	t.StatusError = lipgloss.NewStyle().Foreground(DangerColor)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)
}

// Bubble returns the bubble style for a role name.
func (t *Theme) Bubble(role string) lipgloss.Style {
	switch role {
	case "user":
		return t.UserBubble
	case "assistant":
		return t.AssistantBubble
	default:
		return t.SystemBubble
	}
}

// Label returns the label style for a role name.
func (t *Theme) Label(role string) lipgloss.Style {
	switch role {
	case "user":
		return t.UserLabel
	case "assistant":
		return t.AssistantLabel
	default:
		return t.SystemLabel
	}
}
