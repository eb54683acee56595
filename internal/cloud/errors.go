// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotConfigured indicates the API key is not set.
var ErrNotConfigured = errors.New("OPENAI_API_KEY environment variable not set")

// RemoteError is returned for any failed completion: network, auth, quota or
// a malformed response. Message is meant to be shown to the user as is.
type RemoteError struct {
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Unwrap returns the underlying client error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}
