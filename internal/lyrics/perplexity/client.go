// Package perplexity talks to the Perplexity search-augmented chat
// completions API through its OpenAI-compatible endpoint.
package perplexity

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/provider"
)

const (
	providerName = "Perplexity"

	// DefaultBaseURL is the Perplexity API host.
	DefaultBaseURL = "https://api.perplexity.ai"

	// DefaultModel is the search-augmented model used for lookups.
	DefaultModel = "sonar"

	temperature = 0.1
)

// completer is the subset of openai.ChatCompletionService used here.
type completer interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client sends single-turn prompts and returns the reply text.
type Client struct {
	model      string
	baseURL    string
	httpClient *http.Client

	newCompleter func(apiKey string) completer
}

// Option configures Client.
type Option func(*Client)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a Perplexity client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		model:   DefaultModel,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
					MaxVersion: tls.VersionTLS13,
				},
				ResponseHeaderTimeout: 2 * time.Minute,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.newCompleter = c.openaiCompletions
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) openaiCompletions(apiKey string) completer {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(c.baseURL),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
	)
	return &client.Chat.Completions
}

// Complete sends prompt as the only user message and returns the content
// of the first choice.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string, maxTokens int64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	}

	logger.Debug("perplexity: calling " + c.model)

	resp, err := c.newCompleter(apiKey).New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &provider.ShapeError{Provider: providerName}
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return provider.NewAPIError(providerName, apiErr.StatusCode, apiErr.Message)
	}
	return &provider.TransportError{Provider: providerName, Err: err}
}
