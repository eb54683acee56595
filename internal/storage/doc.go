// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat history as a single JSON file.
//
// The file holds an array of conversations. Every save rewrites the whole
// array; there is no locking, so two processes saving at once means the last
// write wins. Front-ends that keep a conversation open for a long time use
// HistoryStore.Merge, which re-reads the file and upserts by id before writing.
//
// # Key Functions
//
//   - Load, Save: read and write a History
//   - Upsert: merge one conversation by id
//   - CurrentOrNew: pick the conversation a front-end continues
//   - HistoryStore.Watch: notice changes made by other processes
//
// # Usage
//
//	store, err := storage.NewHistoryStore("~/.chatcli_history.json")
//	h, err := store.Load()
//	if storage.IsCorrupt(err) {
//	    fmt.Println("Warning: History file is corrupt. Starting fresh.")
//	}
//	h, conv := storage.CurrentOrNew(h, true, systemPrompt)
package storage
