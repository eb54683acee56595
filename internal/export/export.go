// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for conversation exporters.
type Exporter interface {
	// Export converts a conversation to the target format and returns the content.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".json").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat resolves a format name. "md" and "yml" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unknown export format %q (want markdown, json or yaml)", name)
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where ExportToFile writes when no path is given.
	// Default: current working directory
	OutputDir string

	// IncludeMetadata adds a front matter block and footer to Markdown output.
	IncludeMetadata bool

	// IncludeSystem keeps the system prompt in Markdown output.
	IncludeSystem bool

	// ExportedAt stamps the output. Zero means time.Now.
	ExportedAt time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		IncludeSystem:   true,
	}
}

func (o *Options) exportedAt() time.Time {
	if o.ExportedAt.IsZero() {
		return time.Now()
	}
	return o.ExportedAt
}

// New returns the exporter for format.
func New(format Format, opts *Options) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	case FormatYAML:
		return NewYAMLExporter(opts), nil
	default:
		return nil, errors.Errorf("unknown export format %q", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a conversation with exporter and writes it to path.
// An empty path writes conversation_<id><ext> into opts.OutputDir.
// Returns the output file path.
func ExportToFile(conv *model.Conversation, exporter Exporter, path string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", errors.Wrap(err, "export failed")
	}

	if path == "" {
		dir := opts.OutputDir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, fmt.Sprintf("conversation_%s%s", sanitizeFilename(conv.ID), exporter.FileExtension()))
	}
	path, err = util.ExpandHome(path)
	if err != nil {
		return "", err
	}

	if err := util.AtomicWriteFileWithDir(path, content, 0644, 0755); err != nil {
		return "", errors.Wrap(err, "write file")
	}
	return path, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
// Input is NFKC-normalized first so lookalike slashes and colons are caught.
func sanitizeFilename(s string) string {
	s = util.TruncateRunes(norm.NFKC.String(s), 50)

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
