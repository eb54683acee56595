// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
)

// ErrConversationNotFound is returned when no conversation has the requested id.
var ErrConversationNotFound = errors.New("conversation not found")

// CorruptError reports a history file whose content could not be used.
// It is a warning: the load that returned it also returned an empty History.
type CorruptError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CorruptError) Error() string {
	return "history file " + e.Path + " is corrupt: " + e.Err.Error()
}

// Unwrap returns the decode error.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// IsCorrupt reports whether err (or anything it wraps) is a *CorruptError.
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}
