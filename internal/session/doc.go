// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session binds a history file, a completion backend and the current
// conversation into one value that the front-ends pass around.
//
// A turn appends the user's message first, then asks the backend. If the
// reply fails the user's message stays appended and the session can still be
// saved.
//
//	s, err := session.Open(store, client, session.Options{
//	    Model:        "gpt-4o-mini",
//	    SystemPrompt: prompt,
//	    Interactive:  true,
//	})
//	reply, err := s.Send(ctx, "hi")
//	err = s.Save()
package session
