// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: one chat thread with an id, creation time and messages
//   - Message: a single turn with a role and text content
//   - Role: system, user or assistant
//   - Timestamp: created_at as written to the history file
//
// # Usage
//
//	conv := model.NewConversation("You are a helpful assistant.", time.Now())
//	conv.AppendUser("Hello!")
//	reply, err := client.Complete(ctx, "gpt-4o-mini", conv.RequestMessages())
//	if err == nil {
//	    conv.AppendAssistant(reply)
//	}
package model
