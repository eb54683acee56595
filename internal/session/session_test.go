// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doover17/chatcli/internal/cloud"
	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/storage"
)

// fakeCompleter records requests and replies with a fixed answer or error.
type fakeCompleter struct {
	reply    string
	err      error
	requests [][]model.Message
	models   []string
}

func (f *fakeCompleter) Complete(_ context.Context, modelName string, messages []model.Message) (string, error) {
	f.requests = append(f.requests, messages)
	f.models = append(f.models, modelName)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var fixedNow = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }

func openTest(t *testing.T, client cloud.Completer, interactive bool) (*Session, *storage.HistoryStore) {
	t.Helper()
	store, err := storage.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	s, err := Open(store, client, Options{
		Model:        "gpt-4o-mini",
		SystemPrompt: "P",
		Interactive:  interactive,
		Now:          fixedNow,
	})
	require.NoError(t, err)
	return s, store
}

func TestOpen_EmptyHistoryCreatesConversation(t *testing.T) {
	s, _ := openTest(t, &fakeCompleter{}, true)

	require.Len(t, s.History(), 1)
	assert.Equal(t, "20250203_040506", s.Current().ID)
	assert.Equal(t, []model.Message{{Role: model.RoleSystem, Content: "P"}}, s.Current().Messages)
	assert.NoError(t, s.LoadWarning())
}

func TestSend_Success(t *testing.T) {
	client := &fakeCompleter{reply: "hello"}
	s, store := openTest(t, client, true)

	reply, err := s.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	require.Len(t, client.requests, 1)
	assert.Equal(t, []model.Message{
		{Role: model.RoleSystem, Content: "P"},
		{Role: model.RoleUser, Content: "hi"},
	}, client.requests[0])
	assert.Equal(t, "gpt-4o-mini", client.models[0])

	require.NoError(t, s.Save())
	h, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, h[0].Messages, 3)
}

func TestSend_FailureKeepsUserTurn(t *testing.T) {
	client := &fakeCompleter{err: &cloud.RemoteError{Message: "quota exceeded"}}
	s, store := openTest(t, client, true)

	_, err := s.Send(context.Background(), "hi")

	var remote *cloud.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "quota exceeded", remote.Message)
	assert.Equal(t, []model.Message{
		{Role: model.RoleSystem, Content: "P"},
		{Role: model.RoleUser, Content: "hi"},
	}, s.Current().Messages)

	require.NoError(t, s.Save())
	h, err := store.Load()
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, s.Current().Messages, h[0].Messages)
}

func TestOpen_InteractiveContinuesLast(t *testing.T) {
	store, err := storage.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	old := model.NewConversation("old prompt", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	old.AppendUser("earlier")
	require.NoError(t, store.Save(storage.History{old}))

	client := &fakeCompleter{reply: "again"}
	s, err := Open(store, client, Options{Model: "m", SystemPrompt: "P", Interactive: true, Now: fixedNow})
	require.NoError(t, err)

	assert.Equal(t, old.ID, s.Current().ID)
	_, err = s.Send(context.Background(), "more")
	require.NoError(t, err)
	assert.Len(t, client.requests[0], 3)
	assert.Equal(t, "old prompt", client.requests[0][0].Content)
}

func TestOpen_NonInteractiveStartsNew(t *testing.T) {
	store, err := storage.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	require.NoError(t, store.Save(storage.History{model.NewConversation("x", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}))

	s, err := Open(store, &fakeCompleter{}, Options{Model: "m", SystemPrompt: "P", Now: fixedNow})
	require.NoError(t, err)

	assert.Len(t, s.History(), 2)
	assert.Equal(t, "P", s.Current().SystemPrompt())
}

func TestOpen_CorruptHistoryIsWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))
	store, err := storage.NewHistoryStore(path)
	require.NoError(t, err)

	s, err := Open(store, &fakeCompleter{}, Options{Model: "m", SystemPrompt: "P", Interactive: true})
	require.NoError(t, err)
	assert.True(t, storage.IsCorrupt(s.LoadWarning()))
	assert.Len(t, s.History(), 1)
}

func TestOpen_UnreadableHistoryFails(t *testing.T) {
	store, err := storage.NewHistoryStore(t.TempDir())
	require.NoError(t, err)

	_, err = Open(store, &fakeCompleter{}, Options{Model: "m", SystemPrompt: "P"})
	assert.Error(t, err)
}

func TestTurn_LateReplyGoesToItsConversation(t *testing.T) {
	client := &fakeCompleter{reply: "late answer"}
	s, store := openTest(t, client, true)
	first := s.Current()

	turn := s.Begin("question")
	second := s.NewConversation()
	require.NotEqual(t, first.ID, second.ID)

	reply, err := turn.Complete(context.Background(), client)
	require.NoError(t, s.Finish(turn, reply, err))

	assert.Len(t, first.Messages, 3)
	assert.Len(t, second.Messages, 1)

	require.NoError(t, s.Merge(first))
	require.NoError(t, s.Merge(second))
	h, err := store.Load()
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, "late answer", h[0].Messages[2].Content)
	assert.Same(t, second, s.History().Last())
}

func TestMerge_KeepsOtherWriters(t *testing.T) {
	s, store := openTest(t, &fakeCompleter{reply: "ok"}, true)
	require.NoError(t, s.Save())

	// Another front-end adds a conversation behind our back.
	other := model.NewConversation("other", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	h, err := storage.Load(store.Path())
	require.NoError(t, err)
	require.NoError(t, storage.Save(storage.Upsert(h, other), store.Path()))

	_, err = s.Send(context.Background(), "hi")
	require.NoError(t, err)
	require.NoError(t, s.Merge(s.Current()))

	onDisk, err := store.Load()
	require.NoError(t, err)
	require.Len(t, onDisk, 2)
	assert.Len(t, onDisk[0].Messages, 3)
	assert.Equal(t, other.ID, onDisk[1].ID)
	assert.Same(t, s.Current(), s.History()[0])
}

func TestSetModel(t *testing.T) {
	client := &fakeCompleter{reply: "ok"}
	s, _ := openTest(t, client, true)
	s.SetModel("gpt-4o")

	_, err := s.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", s.Model())
	assert.Equal(t, []string{"gpt-4o"}, client.models)
}
