// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doover17/chatcli/internal/cloud"
	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/session"
	"github.com/doover17/chatcli/internal/storage"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ []model.Message) (string, error) {
	f.calls++
	return f.reply, f.err
}

var clock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, client cloud.Completer) (Model, *storage.HistoryStore, *[]string) {
	t.Helper()
	store, err := storage.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	tick := clock
	sess, err := session.Open(store, client, session.Options{
		Model:        "test-model",
		SystemPrompt: "P",
		Interactive:  true,
		Now: func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		},
	})
	require.NoError(t, err)

	var copied []string
	m := New(Options{
		Session: sess,
		Clipboard: func(s string) error {
			copied = append(copied, s)
			return nil
		},
		Now: func() time.Time { return clock },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), store, &copied
}

// runCmd executes cmd and any batched commands, returning the produced messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func completionFrom(t *testing.T, cmd tea.Cmd) completionMsg {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		if c, ok := msg.(completionMsg); ok {
			return c
		}
	}
	t.Fatal("no completion message produced")
	return completionMsg{}
}

func typeAndSend(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func press(m Model, k tea.KeyType) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model)
}

func lastEntry(m Model) entry {
	return m.entries[len(m.entries)-1]
}

func TestNew_ShowsWelcome(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeCompleter{})

	require.Len(t, m.entries, 2)
	assert.Equal(t, welcomeText, m.entries[0].content)
	assert.Equal(t, "Using model: test-model. Press F1 for help.", m.entries[1].content)
	assert.Contains(t, m.View(), "ChatCLI - test-model")
}

func TestSend_RoundTrip(t *testing.T) {
	client := &fakeCompleter{reply: "hello back"}
	m, store, _ := newTestModel(t, client)

	m, cmd := typeAndSend(t, m, "hello")
	assert.True(t, m.Busy())
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, thinkingText, lastEntry(m).content)

	updated, _ := m.Update(completionFrom(t, cmd))
	m = updated.(Model)
	assert.False(t, m.Busy())
	assert.Equal(t, entry{role: model.RoleAssistant, content: "hello back"}, lastEntry(m))
	for _, e := range m.entries {
		assert.NotEqual(t, thinkingText, e.content)
	}

	h, err := store.Load()
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, []model.Message{
		model.NewSystemMessage("P"),
		model.NewUserMessage("hello"),
		model.NewAssistantMessage("hello back"),
	}, h[0].Messages)
}

func TestSend_RefusedWhileBusy(t *testing.T) {
	client := &fakeCompleter{reply: "ok"}
	m, _, _ := newTestModel(t, client)

	m, _ = typeAndSend(t, m, "first")
	m, cmd := typeAndSend(t, m, "second")

	assert.Nil(t, cmd)
	assert.Equal(t, busyText, lastEntry(m).content)
	assert.Equal(t, "second", m.input.Value())
	assert.Len(t, m.sess.Current().Messages, 2)
}

func TestSend_FailureKeepsUserTurn(t *testing.T) {
	client := &fakeCompleter{err: &cloud.RemoteError{Message: "quota exceeded", StatusCode: 429}}
	m, store, _ := newTestModel(t, client)

	m, cmd := typeAndSend(t, m, "hi")
	updated, _ := m.Update(completionFrom(t, cmd))
	m = updated.(Model)

	assert.Equal(t, "Error: quota exceeded (HTTP 429)", lastEntry(m).content)
	h, err := store.Load()
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, []model.Message{model.NewSystemMessage("P"), model.NewUserMessage("hi")}, h[0].Messages)
}

func TestLateReplyAfterNewChat(t *testing.T) {
	client := &fakeCompleter{reply: "late answer"}
	m, store, _ := newTestModel(t, client)

	m, cmd := typeAndSend(t, m, "question")
	asked := m.sess.Current()

	m = press(m, tea.KeyCtrlN)
	assert.NotSame(t, asked, m.sess.Current())
	assert.Equal(t, newChatText, lastEntry(m).content)

	updated, _ := m.Update(completionFrom(t, cmd))
	m = updated.(Model)

	for _, e := range m.entries {
		assert.NotEqual(t, "late answer", e.content)
	}
	assert.Equal(t, "late answer", asked.LastMessage().Content)
	assert.Len(t, m.sess.Current().Messages, 1)

	h, err := store.Load()
	require.NoError(t, err)
	_, saved := h.Find(asked.ID)
	require.NotNil(t, saved)
	assert.Len(t, saved.Messages, 3)
}

func TestStaleCompletionIsDropped(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeCompleter{})
	before := len(m.entries)

	updated, _ := m.Update(completionMsg{RequestID: "nope", Reply: "x"})
	assert.Len(t, updated.(Model).entries, before)
}

func TestSaveKey(t *testing.T) {
	m, store, _ := newTestModel(t, &fakeCompleter{})

	m = press(m, tea.KeyCtrlS)
	assert.Equal(t, savedText, lastEntry(m).content)

	h, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, h, 1)
}

func TestCopyLast(t *testing.T) {
	client := &fakeCompleter{reply: "copy me"}
	m, _, copied := newTestModel(t, client)

	m = press(m, tea.KeyCtrlC)
	assert.Equal(t, nothingToCopyText, lastEntry(m).content)
	assert.Empty(t, *copied)

	m, cmd := typeAndSend(t, m, "hi")
	updated, _ := m.Update(completionFrom(t, cmd))
	m = updated.(Model)

	m = press(m, tea.KeyCtrlY)
	assert.Equal(t, copiedText, lastEntry(m).content)
	assert.Equal(t, []string{"copy me"}, *copied)
}

func TestClearKeepsConversation(t *testing.T) {
	client := &fakeCompleter{reply: "r"}
	m, _, _ := newTestModel(t, client)
	m, cmd := typeAndSend(t, m, "hi")
	updated, _ := m.Update(completionFrom(t, cmd))
	m = updated.(Model)

	m = press(m, tea.KeyCtrlL)
	require.Len(t, m.entries, 1)
	assert.Equal(t, clearedText, m.entries[0].content)
	assert.Len(t, m.sess.Current().Messages, 3)
}

func TestHelpKey(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeCompleter{})
	m = press(m, tea.KeyF1)
	assert.True(t, strings.HasPrefix(lastEntry(m).content, "ChatCLI Keyboard Shortcuts:"))
	assert.Contains(t, lastEntry(m).content, "Ctrl+N: New chat")
}

func TestQuitSaves(t *testing.T) {
	m, store, _ := newTestModel(t, &fakeCompleter{})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, m.quitting)

	h, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, h, 1)
}

func TestQuitDuringRequestInEarlierChatSavesBoth(t *testing.T) {
	m, store, _ := newTestModel(t, &fakeCompleter{reply: "never delivered"})

	m, _ = typeAndSend(t, m, "question")
	asked := m.sess.Current()
	m = press(m, tea.KeyCtrlN)
	m = press(m, tea.KeyCtrlQ)
	assert.True(t, m.quitting)

	h, err := store.Load()
	require.NoError(t, err)
	require.Len(t, h, 2)
	_, saved := h.Find(asked.ID)
	require.NotNil(t, saved)
	assert.Equal(t, []model.Message{model.NewSystemMessage("P"), model.NewUserMessage("question")}, saved.Messages)
	_, current := h.Find(m.sess.Current().ID)
	require.NotNil(t, current)
}

func TestHistoryChangedNotice(t *testing.T) {
	ch := make(chan struct{}, 1)
	m, _, _ := newTestModel(t, &fakeCompleter{})
	m.changes = ch

	ch <- struct{}{}
	msgs := runCmd(waitForChange(ch))
	require.Equal(t, []tea.Msg{historyChangedMsg{}}, msgs)

	updated, next := m.Update(msgs[0])
	assert.Equal(t, changedText, lastEntry(updated.(Model)).content)
	assert.NotNil(t, next)

	close(ch)
	assert.Nil(t, next())
}

func TestNew_ShowsPriorTurns(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewHistoryStore(filepath.Join(dir, "h.json"))
	require.NoError(t, err)

	c := model.NewConversation("P", clock)
	c.AppendUser("earlier")
	c.AppendAssistant("reply")
	require.NoError(t, store.Save(storage.History{c}))

	sess, err := session.Open(store, &fakeCompleter{}, session.Options{Model: "m", SystemPrompt: "P", Interactive: true})
	require.NoError(t, err)

	m := New(Options{Session: sess, Clipboard: func(string) error { return nil }})
	require.Len(t, m.entries, 4)
	assert.Equal(t, entry{role: model.RoleUser, content: "earlier"}, m.entries[2])
	assert.Equal(t, entry{role: model.RoleAssistant, content: "reply"}, m.entries[3])
}
