// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/doover17/chatcli/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a conversation to Markdown format.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, errors.New("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return nil, errors.New("conversation has no messages")
	}

	title := conversationTitle(conv)
	exported := e.options.exportedAt()

	var sb strings.Builder

	// YAML front matter
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(title)))
		sb.WriteString(fmt.Sprintf("id: %s\n", conv.ID))
		sb.WriteString(fmt.Sprintf("date: %s\n", conv.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(conv.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", exported.Format(time.RFC3339)))
		sb.WriteString("generator: chatcli\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title)))

	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("- **Conversation**: %s\n", conv.ID))
		sb.WriteString(fmt.Sprintf("- **Created**: %s\n", formatTimestamp(conv.CreatedAt.Time)))
		sb.WriteString(fmt.Sprintf("- **Turns**: %d\n", conv.Turns()))
		sb.WriteString("\n---\n\n")
	}

	var blocks []string
	for _, msg := range conv.Messages {
		if msg.Role == model.RoleSystem && !e.options.IncludeSystem {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("### %s\n\n%s\n", msg.Role.DisplayName(), formatContent(msg)))
	}
	sb.WriteString(strings.Join(blocks, "\n---\n\n"))

	if e.options.IncludeMetadata {
		sb.WriteString("\n---\n\n")
		sb.WriteString(fmt.Sprintf("*Exported from chatcli on %s*\n",
			exported.Format("January 2, 2006 at 3:04 PM")))
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// conversationTitle is the first user prompt, or the id for an empty conversation.
func conversationTitle(conv *model.Conversation) string {
	if first := conv.FirstUserMessage(); first != nil {
		return first.Preview(60)
	}
	return "Conversation " + conv.ID
}

// formatContent quotes the system prompt and leaves other content, which is
// already Markdown, as is.
func formatContent(msg model.Message) string {
	content := strings.TrimSpace(msg.Content)
	if msg.Role != model.RoleSystem {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only characters that would break formatting in headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML quotes a front matter value when it contains special characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
