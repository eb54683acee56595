// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/session"
	"github.com/doover17/chatcli/internal/ui/styles"
)

// Notices shown as system messages.
const (
	welcomeText       = "Welcome to ChatCLI! Type your message and press Enter."
	thinkingText      = "Thinking..."
	savedText         = "Chat history saved."
	copiedText        = "Last message copied to clipboard."
	nothingToCopyText = "No messages to copy."
	clearedText       = "Chat cleared."
	newChatText       = "New chat started."
	busyText          = "Still waiting for the last reply."
	changedText       = "History file changed on disk; it will be merged on next save."
	corruptText       = "Warning: History file is corrupt. Starting fresh."
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the Model to its collaborators.
type Options struct {
	// Session is required.
	Session *session.Session

	// Context bounds completion requests. Default: context.Background()
	Context context.Context

	// Changes delivers a value whenever the history file is rewritten by
	// another process. May be nil.
	Changes <-chan struct{}

	// Clipboard receives copied text. Default: the system clipboard
	Clipboard func(string) error

	// Now drives the header clock. Default: time.Now
	Now func() time.Time
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// entry is one rendered line of the transcript. Entries are display state:
// clearing the screen drops them but leaves the conversation alone.
type entry struct {
	role    model.Role
	content string
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	sess      *session.Session
	ctx       context.Context
	changes   <-chan struct{}
	clipboard func(string) error
	now       func() time.Time

	// Styling
	theme  *styles.Theme
	keyMap KeyMap
	md     *glamour.TermRenderer

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model

	entries []entry

	// pending is the request id of the completion in flight, or "".
	pending string
	// inflight is the turn pending belongs to.
	inflight *session.Turn

	clock    time.Time
	quitting bool
}

// New creates a chat model for opts.Session. The current conversation's
// user and assistant turns are shown after the welcome text.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message here..."
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := styles.NewTheme()
	sp.Style = theme.Spinner

	m := Model{
		sess:      opts.Session,
		ctx:       opts.Context,
		changes:   opts.Changes,
		clipboard: opts.Clipboard,
		now:       opts.Now,
		theme:     theme,
		keyMap:    DefaultKeyMap(),
		viewport:  viewport.New(0, 0),
		input:     ti,
		spinner:   sp,
		help:      help.New(),
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.clipboard == nil {
		m.clipboard = clipboard.WriteAll
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.clock = m.now()

	m.addNotice(welcomeText)
	m.addNotice("Using model: " + m.sess.Model() + ". Press F1 for help.")
	if m.sess.LoadWarning() != nil {
		m.addNotice(corruptText)
	}
	for _, msg := range m.sess.Current().Messages {
		if msg.Role != model.RoleSystem {
			m.entries = append(m.entries, entry{role: msg.Role, content: msg.Content})
		}
	}
	return m
}

// Init starts the cursor blink, the clock and the history watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, clockTick(), waitForChange(m.changes))
}

// Busy reports whether a completion is in flight.
func (m Model) Busy() bool {
	return m.pending != ""
}

// Run runs the chat UI on the alternate screen until the user quits or ctx
// is cancelled. The current conversation is saved on the way out.
func Run(ctx context.Context, opts Options) error {
	if opts.Session == nil {
		return errors.New("chat: no session")
	}
	opts.Context = ctx

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		return err
	}

	fm, ok := final.(Model)
	if ok && fm.quitting {
		return nil
	}
	// Cancelled from outside; the quit key already saved otherwise.
	if ok {
		err = fm.save()
	} else {
		err = opts.Session.Merge(opts.Session.Current())
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to save history on exit")
		return err
	}
	return nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// completeCmd runs the blocking completion call off the UI goroutine.
func (m Model) completeCmd(id string, turn *session.Turn) tea.Cmd {
	ctx, client := m.ctx, m.sess.Client()
	return func() tea.Msg {
		reply, err := turn.Complete(ctx, client)
		return completionMsg{RequestID: id, Turn: turn, Reply: reply, Err: err}
	}
}

// waitForChange blocks on the watcher channel. It returns nil once the
// channel is closed, which ends the watch loop.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return historyChangedMsg{}
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m *Model) addNotice(text string) {
	m.entries = append(m.entries, entry{role: model.RoleSystem, content: text})
}

func (m *Model) addEntry(role model.Role, text string) {
	m.entries = append(m.entries, entry{role: role, content: text})
}

// removeThinking drops the last "Thinking..." notice.
func (m *Model) removeThinking() {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].role == model.RoleSystem && m.entries[i].content == thinkingText {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return
		}
	}
}

// save merges the current conversation into the history file, and the
// conversation of a request still in flight if the user has moved on from it.
func (m *Model) save() error {
	if t := m.inflight; t != nil && t.Conversation != m.sess.Current() {
		if err := m.sess.Merge(t.Conversation); err != nil {
			return err
		}
	}
	return m.sess.Merge(m.sess.Current())
}
