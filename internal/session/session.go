// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"time"

	"github.com/doover17/chatcli/internal/cloud"
	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/storage"
)

// =============================================================================
// SESSION
// =============================================================================

// Options selects the conversation a session works on.
type Options struct {
	Model        string
	SystemPrompt string

	// Interactive continues the last conversation. When false a new
	// conversation is always started.
	Interactive bool

	// Now overrides the clock used for new conversations.
	Now func() time.Time
}

// Session is the context every front-end passes around: the loaded history,
// the conversation being extended, the completion backend and the model.
// It is not safe for concurrent use; run Turn.Complete on a worker and hand
// the result back to the goroutine that owns the session.
type Session struct {
	store        *storage.HistoryStore
	client       cloud.Completer
	model        string
	systemPrompt string
	now          func() time.Time

	history storage.History
	current *model.Conversation
	warning error
}

// Open loads the history from store and resolves the current conversation.
// A corrupt history file does not fail Open; it is reported by LoadWarning.
func Open(store *storage.HistoryStore, client cloud.Completer, opts Options) (*Session, error) {
	h, err := store.Load()
	var warning error
	if err != nil {
		if !storage.IsCorrupt(err) {
			return nil, err
		}
		warning = err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	h, current := storage.CurrentOrNewAt(h, opts.Interactive, opts.SystemPrompt, now())

	return &Session{
		store:        store,
		client:       client,
		model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
		now:          now,
		history:      h,
		current:      current,
		warning:      warning,
	}, nil
}

// LoadWarning returns the *storage.CorruptError seen while opening, if any.
func (s *Session) LoadWarning() error {
	return s.warning
}

// Current returns the conversation being extended.
func (s *Session) Current() *model.Conversation {
	return s.current
}

// History returns the in-memory history, including the current conversation.
func (s *Session) History() storage.History {
	return s.history
}

// Model returns the model name requests are sent to.
func (s *Session) Model() string {
	return s.model
}

// SetModel switches the model for subsequent turns.
func (s *Session) SetModel(name string) {
	s.model = name
}

// HistoryPath returns the file the session saves to.
func (s *Session) HistoryPath() string {
	return s.store.Path()
}

// NewConversation starts a fresh conversation with the session's system
// prompt and makes it current. It is saved with the next Save or Merge.
func (s *Session) NewConversation() *model.Conversation {
	s.history, s.current = storage.CurrentOrNewAt(s.history, false, s.systemPrompt, s.now())
	return s.current
}

// =============================================================================
// TURNS
// =============================================================================

// Turn is one request to the completion backend. It holds a snapshot of the
// messages, so Complete may run on another goroutine.
type Turn struct {
	Conversation *model.Conversation
	Model        string
	Messages     []model.Message
}

// Begin appends the user's text to the current conversation and returns the
// request to send.
func (s *Session) Begin(text string) *Turn {
	s.current.AppendUser(text)
	return &Turn{
		Conversation: s.current,
		Model:        s.model,
		Messages:     s.current.RequestMessages(),
	}
}

// Complete runs the blocking backend call.
func (t *Turn) Complete(ctx context.Context, client cloud.Completer) (string, error) {
	return client.Complete(ctx, t.Model, t.Messages)
}

// Finish records a reply. On failure nothing is appended and the user's
// message stays in place.
func (s *Session) Finish(t *Turn, reply string, err error) error {
	if err != nil {
		return err
	}
	t.Conversation.AppendAssistant(reply)
	return nil
}

// Send runs a whole turn synchronously: append the user message, ask the
// backend, append the reply.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	turn := s.Begin(text)
	reply, err := turn.Complete(ctx, s.client)
	if err := s.Finish(turn, reply, err); err != nil {
		return "", err
	}
	return reply, nil
}

// Client returns the completion backend.
func (s *Session) Client() cloud.Completer {
	return s.client
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Save rewrites the history file with the session's full in-memory history.
func (s *Session) Save() error {
	return s.store.Save(s.history)
}

// Merge re-reads the history file and upserts c into it, keeping
// conversations other processes wrote in the meantime.
func (s *Session) Merge(c *model.Conversation) error {
	h, err := s.store.Merge(c)
	if err != nil {
		return err
	}
	// The in-memory history must hold the live current conversation, not the
	// copy just read back from disk.
	s.history = storage.Upsert(h, s.current)
	return nil
}
