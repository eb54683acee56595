// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the chatcli packages.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//   - ExpandHome, HomeFile: resolve paths under the user's home directory
//   - TruncateRunes, TruncateWidth, PadRight: display-safe string shaping
package util
