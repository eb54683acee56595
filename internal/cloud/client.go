// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/doover17/chatcli/internal/model"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// =============================================================================
// COMPLETER CONTRACT
// =============================================================================

// Completer sends a full message list to a model and returns the reply text.
// Calls block until the backend answers or ctx is cancelled. Every failure is
// returned as a *RemoteError.
type Completer interface {
	Complete(ctx context.Context, model string, messages []model.Message) (string, error)
}

// ModelLister is implemented by backends that can enumerate their models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// =============================================================================
// OPENAI CLIENT
// =============================================================================

// Options configures an OpenAIClient.
type Options struct {
	// APIKey is required.
	APIKey string

	// BaseURL overrides the API endpoint, e.g. for OpenAI-compatible servers.
	// Default: https://api.openai.com/v1
	BaseURL string

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration
}

// OpenAIClient is a Completer backed by the OpenAI chat completions API.
type OpenAIClient struct {
	client  *go_openai.Client
	baseURL string
}

// NewOpenAIClient creates a client. It returns ErrNotConfigured when no API key is set.
func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	config := go_openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	config.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &OpenAIClient{
		client:  go_openai.NewClientWithConfig(config),
		baseURL: config.BaseURL,
	}, nil
}

// BaseURL returns the endpoint the client talks to.
func (c *OpenAIClient) BaseURL() string {
	return c.baseURL
}

// Complete implements Completer.
func (c *OpenAIClient) Complete(ctx context.Context, modelName string, messages []model.Message) (string, error) {
	req := go_openai.ChatCompletionRequest{
		Model:    modelName,
		Messages: toOpenAIMessages(messages),
	}

	start := time.Now()
	log.Debug().
		Str("model", modelName).
		Int("messages", len(messages)).
		Msg("sending chat completion request")

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapRemoteError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &RemoteError{Message: "the API returned no choices"}
	}

	log.Debug().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("duration", time.Since(start)).
		Msg("chat completion received")

	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the ids of the models available to the API key, sorted.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, wrapRemoteError(err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func toOpenAIMessages(messages []model.Message) []go_openai.ChatCompletionMessage {
	out := make([]go_openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, go_openai.ChatCompletionMessage{
			Role:    m.Role.String(),
			Content: m.Content,
		})
	}
	return out
}

// wrapRemoteError converts go-openai errors into a RemoteError.
func wrapRemoteError(err error) error {
	var apiErr *go_openai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{Message: apiErr.Message, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *go_openai.RequestError
	if errors.As(err, &reqErr) {
		msg := "request failed"
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &RemoteError{Message: msg, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &RemoteError{Message: err.Error(), Err: err}
}
