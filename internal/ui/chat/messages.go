// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/doover17/chatcli/internal/session"
)

// completionMsg carries the result of one completion worker.
type completionMsg struct {
	RequestID string
	Turn      *session.Turn
	Reply     string
	Err       error
}

// historyChangedMsg reports that another process rewrote the history file.
type historyChangedMsg struct{}

// clockTickMsg refreshes the header clock.
type clockTickMsg time.Time
