// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	return store
}

func TestNewHistoryStore_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	store, err := NewHistoryStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".chatcli_history.json"), store.Path())
}

func TestHistoryStore_MergeKeepsSiblings(t *testing.T) {
	store := newTestStore(t)

	// Session loads a history with one conversation and keeps it open.
	require.NoError(t, store.Save(History{testConv("mine", "hi")}))
	h, err := store.Load()
	require.NoError(t, err)
	mine := h.Last()

	// Another process appends its own conversation meanwhile.
	other, err := NewHistoryStore(store.Path())
	require.NoError(t, err)
	oh, err := other.Load()
	require.NoError(t, err)
	require.NoError(t, other.Save(Upsert(oh, testConv("theirs", "yo"))))

	mine.AppendAssistant("hello")
	merged, err := store.Merge(mine)
	require.NoError(t, err)

	require.Len(t, merged, 2)
	assert.Equal(t, "mine", merged[0].ID)
	assert.Len(t, merged[0].Messages, 3)
	assert.Equal(t, "theirs", merged[1].ID)

	onDisk, err := Load(store.Path())
	require.NoError(t, err)
	assert.Equal(t, merged, onDisk)
}

func TestHistoryStore_MergeReplacesCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("garbage"), 0600))

	merged, err := store.Merge(testConv("a", "hi"))
	require.NoError(t, err)
	require.Len(t, merged, 1)

	onDisk, err := Load(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "a", onDisk[0].ID)
}

func TestHistoryStore_Conversation(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Conversation("last")
	assert.True(t, errors.Is(err, ErrConversationNotFound))

	require.NoError(t, store.Save(History{testConv("a"), testConv("b")}))

	c, err := store.Conversation("a")
	require.NoError(t, err)
	assert.Equal(t, "a", c.ID)

	c, err = store.Conversation("last")
	require.NoError(t, err)
	assert.Equal(t, "b", c.ID)

	_, err = store.Conversation("zzz")
	assert.True(t, errors.Is(err, ErrConversationNotFound))
}

func TestHistoryStore_LoadReportsCorruption(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[{"), 0600))

	h, err := store.Load()
	require.Error(t, err)

	var ce *CorruptError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, store.Path(), ce.Path)
	assert.Contains(t, err.Error(), "is corrupt")
	assert.Empty(t, h)
}

// Callers surface CorruptError to the user, so nothing is logged at the
// default level.
func TestHistoryStore_CorruptFileIsQuietAtWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("garbage"), 0600))

	_, err := store.Load()
	require.True(t, IsCorrupt(err))
	_, err = store.Merge(testConv("a"))
	require.NoError(t, err)

	assert.Empty(t, buf.String())
}

// =============================================================================
// WATCH TESTS
// =============================================================================

func TestHistoryStore_WatchReportsExternalWrites(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(History{testConv("a")}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	// Own writes are not reported.
	require.NoError(t, store.Save(History{testConv("a", "hi")}))
	select {
	case <-changes:
		t.Fatal("own save reported as external change")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, Save(History{testConv("a"), testConv("b")}, store.Path()))
	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("external change not reported")
	}

	cancel()
	for range changes {
	}
}

func TestHistoryStore_WatchIgnoresRepeatedOwnMerges(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(History{testConv("a")}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	c := testConv("b")
	spurious := 0
	for i := 0; i < 200; i++ {
		c.AppendUser(fmt.Sprintf("turn %d", i))
		_, err := store.Merge(c)
		require.NoError(t, err)
		select {
		case <-changes:
			spurious++
		case <-time.After(5 * time.Millisecond):
		}
	}
	select {
	case <-changes:
		spurious++
	case <-time.After(300 * time.Millisecond):
	}
	assert.Zero(t, spurious, "own merges reported as external changes")

	cancel()
	for range changes {
	}
}

func TestHistoryStore_WatchMissingDirectory(t *testing.T) {
	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "absent", "history.json"))
	require.NoError(t, err)

	_, err = store.Watch(context.Background())
	assert.Error(t, err)
}
