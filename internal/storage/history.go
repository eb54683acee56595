// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/util"
)

// DefaultHistoryFile is the history location used when none is configured.
const DefaultHistoryFile = "~/.chatcli_history.json"

// historyFileMode keeps other users from reading conversations.
const historyFileMode = 0600

// =============================================================================
// HISTORY TYPE
// =============================================================================

// History is the ordered list of conversations stored in one file.
type History []*model.Conversation

// Find returns the position and conversation with the given id, or -1 and nil.
func (h History) Find(id string) (int, *model.Conversation) {
	for i, c := range h {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

// Last returns the most recently appended conversation, or nil.
func (h History) Last() *model.Conversation {
	if len(h) == 0 {
		return nil
	}
	return h[len(h)-1]
}

// Validate checks every conversation and that ids are unique.
func (h History) Validate() error {
	seen := make(map[string]struct{}, len(h))
	for i, c := range h {
		if c == nil {
			return errors.Errorf("entry %d is not a conversation", i)
		}
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "entry %d", i)
		}
		if _, dup := seen[c.ID]; dup {
			return errors.Errorf("duplicate conversation id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// =============================================================================
// MERGE OPERATIONS
// =============================================================================

// Upsert returns a new History with c merged in: it replaces the conversation
// with the same id in place, or is appended when the id is new. h is not modified.
func Upsert(h History, c *model.Conversation) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	if i, _ := out.Find(c.ID); i >= 0 {
		out[i] = c
		return out
	}
	return append(out, c)
}

// CurrentOrNew resolves the conversation a front-end should work on. A new
// conversation is created and appended when h is empty or interactive is
// false; otherwise the last conversation is returned untouched.
func CurrentOrNew(h History, interactive bool, systemPrompt string) (History, *model.Conversation) {
	return CurrentOrNewAt(h, interactive, systemPrompt, time.Now())
}

// CurrentOrNewAt is CurrentOrNew with an explicit creation time.
func CurrentOrNewAt(h History, interactive bool, systemPrompt string, now time.Time) (History, *model.Conversation) {
	if interactive && len(h) > 0 {
		return h, h.Last()
	}
	conv := NewConversationIn(h, systemPrompt, now)
	return Upsert(h, conv), conv
}

// NewConversationIn creates a conversation whose id does not collide with any
// conversation in h. Conversations created within the same second get a
// numeric suffix.
func NewConversationIn(h History, systemPrompt string, now time.Time) *model.Conversation {
	conv := model.NewConversation(systemPrompt, now)
	base := conv.ID
	for n := 2; ; n++ {
		if i, _ := h.Find(conv.ID); i < 0 {
			return conv
		}
		conv.ID = base + "_" + strconv.Itoa(n)
	}
}

// =============================================================================
// LOAD / SAVE OPERATIONS
// =============================================================================

// Load reads the history file at path. A missing file is an empty History.
//
// When the content is malformed Load returns an empty History together with a
// *CorruptError; callers should surface it as a warning and carry on. Other
// errors (for example permission denied) are returned with a nil History.
func Load(path string) (History, error) {
	h, _, err := load(path)
	return h, err
}

func load(path string) (History, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("history file does not exist yet")
			return History{}, nil, nil
		}
		return nil, nil, errors.Wrapf(err, "failed to read history file %s", path)
	}

	h, err := Decode(data)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("history file is corrupt")
		return History{}, data, &CorruptError{Path: path, Err: err}
	}
	log.Debug().Str("path", path).Int("conversations", len(h)).Msg("loaded history")
	return h, data, nil
}

// Save writes the complete History to path, replacing the previous content.
// Parent directories are created as needed.
func Save(h History, path string) error {
	data, err := Encode(h)
	if err != nil {
		return err
	}
	return write(data, path, len(h))
}

func write(data []byte, path string, conversations int) error {
	if err := util.AtomicWriteFile(path, data, historyFileMode); err != nil {
		return errors.Wrapf(err, "failed to save history to %s", path)
	}
	log.Debug().Str("path", path).Int("conversations", conversations).Msg("saved history")
	return nil
}

// Encode serializes h as a JSON array indented with two spaces.
func Encode(h History) ([]byte, error) {
	if h == nil {
		h = History{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		return nil, errors.Wrap(err, "failed to encode history")
	}
	return buf.Bytes(), nil
}

// Decode parses and validates the history file format.
func Decode(data []byte) (History, error) {
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, errors.Wrap(err, "invalid history JSON")
	}
	if h == nil {
		h = History{}
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}
