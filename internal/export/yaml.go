// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/doover17/chatcli/internal/model"
)

// =============================================================================
// YAML EXPORTER
// =============================================================================

// YAMLExporter exports conversations to YAML. Multi-line content is written
// as literal block scalars.
type YAMLExporter struct {
	options *Options
}

// NewYAMLExporter creates a new YAML exporter.
func NewYAMLExporter(opts *Options) *YAMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &YAMLExporter{options: opts}
}

type yamlConversation struct {
	ID        string        `yaml:"id"`
	CreatedAt string        `yaml:"created_at"`
	Messages  []yamlMessage `yaml:"messages"`
}

type yamlMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// Export converts a conversation to YAML.
func (e *YAMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, errors.New("conversation is nil")
	}

	doc := yamlConversation{
		ID:        conv.ID,
		CreatedAt: conv.CreatedAt.Format(time.RFC3339Nano),
		Messages:  make([]yamlMessage, 0, len(conv.Messages)),
	}
	for _, m := range conv.Messages {
		doc.Messages = append(doc.Messages, yamlMessage{Role: string(m.Role), Content: m.Content})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to encode conversation")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode conversation")
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for YAML.
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// MimeType returns the MIME type for YAML.
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}
