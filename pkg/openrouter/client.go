// Package openrouter talks to any OpenAI-compatible chat completion endpoint
// (OpenRouter, llama.cpp server, vLLM) for screenshot comparison.
package openrouter

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/aniket-charjan/ui-diff-detector/pkg/client"
)

const defaultTimeout = 300 * time.Second

// Client is the OpenAI-compatible backend for screenshot comparison.
type Client struct {
	client *openai.Client
	model  string
}

// Config holds the connection settings for an OpenAI-compatible endpoint.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DefaultConfig targets OpenRouter with the given key and model.
func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}
}

// CompareImages sends the prompt and both screenshots as one multi-part user
// message and returns the model's raw text reply. The configured model is
// used when the model argument is empty.
func (c *Client) CompareImages(ctx context.Context, model, prompt, baselineB64, comparisonB64 string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	if model == "" {
		model = c.model
	}

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
		{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: "data:image/png;base64," + baselineB64,
			},
		},
		{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: "data:image/png;base64," + comparisonB64,
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
	})
	if err != nil {
		return "", &client.UpstreamError{Backend: "openrouter", Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &client.UpstreamError{Backend: "openrouter", Err: fmt.Errorf("empty response")}
	}

	return resp.Choices[0].Message.Content, nil
}
