// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/pkg/errors"
)

// IDLayout formats the creation time into a conversation id (day-second granularity).
const IDLayout = "20060102_150405"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is one chat thread. Messages are append-only; the first one is
// the system prompt.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt Timestamp `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// NewConversation creates a conversation seeded with the given system prompt.
func NewConversation(systemPrompt string, now time.Time) *Conversation {
	return &Conversation{
		ID:        NewConversationID(now),
		CreatedAt: NewTimestamp(now),
		Messages:  []Message{NewSystemMessage(systemPrompt)},
	}
}

// NewConversationID derives an id from a creation time.
func NewConversationID(t time.Time) string {
	return t.Format(IDLayout)
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// AppendUser appends a user message.
func (c *Conversation) AppendUser(text string) {
	c.Messages = append(c.Messages, NewUserMessage(text))
}

// AppendAssistant appends an assistant message.
func (c *Conversation) AppendAssistant(text string) {
	c.Messages = append(c.Messages, NewAssistantMessage(text))
}

// RequestMessages returns the full ordered message list to send to the
// completion backend. The slice is a copy; callers may hand it to another
// goroutine while the conversation keeps growing.
func (c *Conversation) RequestMessages() []Message {
	out := make([]Message, len(c.Messages))
	copy(out, c.Messages)
	return out
}

// SystemPrompt returns the content of the leading system message, if any.
func (c *Conversation) SystemPrompt() string {
	if len(c.Messages) > 0 && c.Messages[0].Role == RoleSystem {
		return c.Messages[0].Content
	}
	return ""
}

// LastMessage returns the most recent message, or nil when the conversation is empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// FirstUserMessage returns the first user message, or nil if nobody spoke yet.
func (c *Conversation) FirstUserMessage() *Message {
	for i := range c.Messages {
		if c.Messages[i].Role == RoleUser {
			return &c.Messages[i]
		}
	}
	return nil
}

// Turns counts the user messages in the conversation.
func (c *Conversation) Turns() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// HasTurns reports whether anything beyond the system prompt was added.
func (c *Conversation) HasTurns() bool {
	return len(c.Messages) > 1
}

// Clone returns a deep copy.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Messages = c.RequestMessages()
	return &clone
}

// Validate checks the fields a history file must carry for every conversation:
// an id, a creation time, and a message list that opens with the system prompt.
func (c *Conversation) Validate() error {
	if c.ID == "" {
		return errors.New("conversation has no id")
	}
	if c.CreatedAt.IsZero() {
		return errors.Errorf("conversation %s has no created_at", c.ID)
	}
	if len(c.Messages) == 0 {
		return errors.Errorf("conversation %s has no messages", c.ID)
	}
	if c.Messages[0].Role != RoleSystem {
		return errors.Errorf("conversation %s does not start with a system message", c.ID)
	}
	for i, m := range c.Messages {
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "conversation %s message %d", c.ID, i)
		}
	}
	return nil
}
