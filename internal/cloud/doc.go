// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud talks to the hosted completion API.
//
// The rest of the program depends only on the Completer interface: one
// blocking call that takes the whole conversation and returns the reply text.
// OpenAIClient implements it on top of github.com/sashabaranov/go-openai.
// There are no retries; a failure becomes a *RemoteError whose message is
// shown to the user.
package cloud
