// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/doover17/chatcli/internal/model"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case completionMsg:
		return m.handleCompletion(msg)

	case historyChangedMsg:
		m.addNotice(changedText)
		m.refresh()
		return m, waitForChange(m.changes)

	case clockTickMsg:
		m.clock = time.Time(msg)
		return m, clockTick()

	case spinner.TickMsg:
		if !m.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Header, input box and footer
	chrome := 1 + 3 + 1
	vh := m.height - chrome
	if vh < 1 {
		vh = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vh
	m.input.Width = m.width - 6

	style := "dark"
	if !m.theme.IsDark {
		style = "light"
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(m.bubbleWidth()-2),
	)
	if err != nil {
		log.Debug().Err(err).Msg("markdown rendering disabled")
		md = nil
	}
	m.md = md
	m.ready = true
	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		if err := m.save(); err != nil {
			log.Error().Err(err).Msg("failed to save history on quit")
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Save):
		if err := m.save(); err != nil {
			m.addNotice("Error: " + err.Error())
		} else {
			m.addNotice(savedText)
		}

	case key.Matches(msg, m.keyMap.Copy):
		m.copyLast()

	case key.Matches(msg, m.keyMap.Help):
		m.addNotice(m.keyMap.helpText())

	case key.Matches(msg, m.keyMap.NewChat):
		c := m.sess.NewConversation()
		log.Debug().Str("conversation", c.ID).Msg("new chat")
		m.entries = nil
		m.addNotice(clearedText)
		m.addNotice(newChatText)

	case key.Matches(msg, m.keyMap.Clear):
		m.entries = nil
		m.addNotice(clearedText)

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Send):
		return m.send()

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	m.refresh()
	return m, nil
}

// send starts a turn with the input text. Only one request may be in flight.
func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.Busy() {
		m.addNotice(busyText)
		m.refresh()
		return m, nil
	}

	m.input.Reset()
	turn := m.sess.Begin(text)
	m.pending = uuid.NewString()
	m.inflight = turn
	m.addEntry(model.RoleUser, text)
	m.addNotice(thinkingText)
	m.refresh()

	log.Debug().
		Str("request", m.pending).
		Str("conversation", turn.Conversation.ID).
		Int("messages", len(turn.Messages)).
		Msg("sending completion request")
	return m, tea.Batch(m.spinner.Tick, m.completeCmd(m.pending, turn))
}

// handleCompletion records a reply in the conversation it was asked in and
// saves it. It is only shown when that conversation is still current.
func (m Model) handleCompletion(msg completionMsg) (tea.Model, tea.Cmd) {
	if msg.RequestID != m.pending {
		log.Debug().Str("request", msg.RequestID).Msg("dropping unknown completion")
		return m, nil
	}
	m.pending = ""
	m.inflight = nil

	visible := msg.Turn.Conversation == m.sess.Current()
	if visible {
		m.removeThinking()
	}

	turnErr := m.sess.Finish(msg.Turn, msg.Reply, msg.Err)
	if err := m.sess.Merge(msg.Turn.Conversation); err != nil {
		m.addNotice("Error: " + err.Error())
	}

	if visible {
		if turnErr != nil {
			m.addNotice("Error: " + turnErr.Error())
		} else {
			m.addEntry(model.RoleAssistant, msg.Reply)
		}
	}
	m.refresh()
	return m, nil
}

// copyLast copies the last message of the current conversation.
func (m *Model) copyLast() {
	c := m.sess.Current()
	if len(c.Messages) < 2 {
		m.addNotice(nothingToCopyText)
		return
	}
	if err := m.clipboard(c.LastMessage().Content); err != nil {
		m.addNotice("Error: " + err.Error())
		return
	}
	m.addNotice(copiedText)
}
