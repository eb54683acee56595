// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the full-screen chat interface.
//
// The Model is a Bubble Tea program: a header with the clock, a scrollable
// viewport of messages, a single-line input and a footer with key help.
// Completion requests run as tea.Cmd workers, so the UI keeps redrawing
// (spinner, clock) while a reply is pending.
//
// # Key Types
//
//   - Model: the Bubble Tea model
//   - Options: session, history watcher and clipboard used by the Model
//   - KeyMap: keyboard bindings with help text
//
// # Usage
//
//	err := chat.Run(ctx, chat.Options{Session: sess, Changes: changes})
//
// # Persistence
//
// Every save re-reads the history file and upserts the current
// conversation, so conversations other processes wrote in the meantime are
// kept. A reply that arrives after the user started a new chat is stored in
// the conversation it was asked in and is not shown.
package chat
