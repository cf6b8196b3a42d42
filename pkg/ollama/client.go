package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/aniket-charjan/ui-diff-detector/pkg/client"
)

// defaultTimeout bounds a single comparison call when the caller's context
// carries no deadline. Vision models on CPU can be slow.
const defaultTimeout = 300 * time.Second

// Client is the Ollama backend for screenshot comparison.
type Client struct {
	client *api.Client
}

// NewClient creates an Ollama-backed vision client. The URL may include a
// path such as /api/chat; only scheme and host are used.
func NewClient(ollamaURL string) (*Client, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &Client{client: api.NewClient(baseURL, http.DefaultClient)}, nil
}

// CompareImages sends both screenshots in a single chat message and returns
// the model's raw text reply.
func (c *Client) CompareImages(ctx context.Context, model, prompt, baselineB64, comparisonB64 string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	baseline, err := base64.StdEncoding.DecodeString(baselineB64)
	if err != nil {
		return "", &client.UpstreamError{Backend: "ollama", Err: fmt.Errorf("decode baseline image: %v", err)}
	}
	comparison, err := base64.StdEncoding.DecodeString(comparisonB64)
	if err != nil {
		return "", &client.UpstreamError{Backend: "ollama", Err: fmt.Errorf("decode comparison image: %v", err)}
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(baseline), api.ImageData(comparison)},
			},
		},
		Stream: &streamFalse,
		// No Format field: the prompt specifies the fenced-block contract.
	}

	var responseContent string
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", &client.UpstreamError{Backend: "ollama", Err: err}
	}

	if responseContent == "" {
		return "", &client.UpstreamError{Backend: "ollama", Err: fmt.Errorf("empty response")}
	}

	return responseContent, nil
}
