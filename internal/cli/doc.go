// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the chatcli command tree.
//
// Commands are built with cobra and configured through viper; every flag is
// also a config key (see package config). An App carries the I/O streams and
// the completion backend factory, so tests can run commands against buffers
// and a fake backend.
//
// # Commands Overview
//
//   - chat: single query (-n -q) or line-based interactive chat
//   - tui: full-screen chat interface
//   - hello: greeting, optionally generated by the model (--ai)
//   - models: list the models of the configured endpoint
//   - history list|show|export: inspect saved conversations
//   - config show|path|init: configuration file management
//   - version: build information
//
// # Usage
//
//	func main() {
//	    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer stop()
//	    os.Exit(cli.Execute(ctx))
//	}
//
// # Exit Codes
//
//   - 0: success
//   - 1: general failure, including completion errors and a missing API key
//   - 2: usage error (missing or invalid input)
package cli
