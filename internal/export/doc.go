// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a stored conversation out as Markdown, JSON or YAML.
//
// # Usage
//
//	exporter, err := export.New(export.FormatMarkdown, export.DefaultOptions())
//	path, err := export.ExportToFile(conv, exporter, "", nil)
package export
