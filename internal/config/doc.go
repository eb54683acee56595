// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config merges chatcli settings from defaults, ~/.chatcli/config.toml,
// a .env file, the environment and command-line flags (highest wins).
//
// The API key is read from CHATCLI_API_KEY or OPENAI_API_KEY. Every other key
// maps to CHATCLI_<KEY> with dashes turned into underscores.
package config
