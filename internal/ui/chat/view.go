// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/util"
)

const title = "ChatCLI"

// View renders the whole screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderFooter(),
	)
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderHeader() string {
	clock := m.theme.HeaderClock.Render(m.clock.Format("15:04:05"))
	name := m.theme.HeaderTitle.Render(title + " - " + m.sess.Model())

	gap := m.width - lipgloss.Width(name) - lipgloss.Width(clock) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(name + m.theme.HeaderClock.Render(strings.Repeat(" ", gap)) + clock)
}

func (m Model) renderInput() string {
	content := m.input.View()
	if m.Busy() {
		content = m.spinner.View() + " " + m.theme.ThinkingText.Render(thinkingText)
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(content)
}

func (m Model) renderFooter() string {
	return m.theme.StatusBar.Render(util.TruncateWidth(m.help.View(m.keyMap), m.width))
}

// renderTranscript renders every entry as a labeled bubble.
func (m Model) renderTranscript() string {
	width := m.bubbleWidth()
	blocks := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		blocks = append(blocks, m.renderEntry(e, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderEntry(e entry, width int) string {
	role := string(e.role)
	label := e.role.DisplayName() + ": "

	content := e.content
	if e.role == model.RoleAssistant && m.md != nil {
		if out, err := m.md.Render(content); err == nil {
			content = strings.Trim(out, "\n")
		}
	}

	if e.role == model.RoleSystem {
		return m.theme.SystemBubble.Width(width).Render(m.theme.Label(role).Render(label) + content)
	}
	return m.theme.Bubble(role).Width(width).Render(label + content)
}

func (m Model) bubbleWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}
