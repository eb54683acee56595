// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"crypto/sha256"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/util"
)

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore binds the history operations to one file and remembers what it
// last read or wrote, so a watcher can tell its own writes from other processes'.
type HistoryStore struct {
	path string

	mu    sync.Mutex
	known map[[sha256.Size]byte]struct{}
}

// NewHistoryStore creates a store for path. A leading "~" is expanded and the
// path made absolute.
func NewHistoryStore(path string) (*HistoryStore, error) {
	if path == "" {
		path = DefaultHistoryFile
	}
	expanded, err := util.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve history path")
	}
	return &HistoryStore{
		path:  abs,
		known: make(map[[sha256.Size]byte]struct{}),
	}, nil
}

// Path returns the absolute history file path.
func (s *HistoryStore) Path() string {
	return s.path
}

// Load reads the history file; see Load for the error contract.
func (s *HistoryStore) Load() (History, error) {
	h, data, err := load(s.path)
	if data != nil {
		s.remember(data)
	}
	return h, err
}

// Save rewrites the history file with h. The content is recorded as known
// before the rename, so a watcher never sees this write as foreign.
func (s *HistoryStore) Save(h History) error {
	data, err := Encode(h)
	if err != nil {
		return err
	}
	s.remember(data)
	return write(data, s.path, len(h))
}

// Merge re-reads the file, upserts c and writes the result back, so
// conversations written by other processes since the last load are kept.
// A corrupt file is replaced by a history holding only c.
func (s *HistoryStore) Merge(c *model.Conversation) (History, error) {
	h, err := s.Load()
	if err != nil {
		if !IsCorrupt(err) {
			return nil, err
		}
		log.Debug().Err(err).Msg("discarding corrupt history while saving")
	}
	h = Upsert(h, c)
	if err := s.Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Conversation loads the history and returns the conversation with id. The
// id "last" selects the most recent conversation.
func (s *HistoryStore) Conversation(id string) (*model.Conversation, error) {
	h, err := s.Load()
	if err != nil {
		return nil, err
	}
	if id == "last" {
		if c := h.Last(); c != nil {
			return c, nil
		}
		return nil, ErrConversationNotFound
	}
	if _, c := h.Find(id); c != nil {
		return c, nil
	}
	return nil, errors.Wrapf(ErrConversationNotFound, "no conversation with id %q", id)
}

func (s *HistoryStore) remember(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known[sha256.Sum256(data)] = struct{}{}
}

// isKnown reports whether data matches content this store read or wrote,
// and records it otherwise.
func (s *HistoryStore) isKnown(data []byte) bool {
	sum := sha256.Sum256(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.known[sum]; ok {
		return true
	}
	s.known[sum] = struct{}{}
	return false
}
