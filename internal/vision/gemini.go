// Package vision identifies the track shown in a captured screen image
// using a vision-capable Gemini model.
package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sukalov/lyricsearch/internal/imagecodec"
	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/provider"
	"google.golang.org/genai"
)

const (
	providerName = "Gemini"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.0-flash"

	temperature     float32 = 0.1
	maxOutputTokens int32   = 100
)

const instruction = "make your response as short as possible. literally give me only a few words. " +
	"just tell me what is the song name and the artist that is currently being played from the spotify tab in the screenshot. " +
	"format your output exactly like so: [SONG NAME] by [ARTIST]. " +
	"If you are unable to find a song name off of the tab, then give your response exactly like the following: 'Unable to Find Song'"

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Identifier resolves a captured image into an Identification.
type Identifier interface {
	Identify(ctx context.Context, img imagecodec.Image, apiKey string) (Identification, error)
}

var _ Identifier = (*Gemini)(nil)

// Gemini implements Identifier on top of the Gemini generateContent API.
type Gemini struct {
	model      string
	baseURL    string
	httpClient *http.Client

	newGenerator func(ctx context.Context, apiKey string) (contentGenerator, error)
}

// Option configures Gemini.
type Option func(*Gemini)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(g *Gemini) {
		if model != "" {
			g.model = model
		}
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(g *Gemini) {
		g.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gemini) {
		g.httpClient = client
	}
}

// NewGemini creates a Gemini identifier. A client is built per call because
// the API key arrives with each request.
func NewGemini(opts ...Option) *Gemini {
	g := &Gemini{model: DefaultModel}
	for _, opt := range opts {
		opt(g)
	}
	g.newGenerator = g.genaiModels
	return g
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

func (g *Gemini) genaiModels(ctx context.Context, apiKey string) (contentGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions.BaseURL = g.baseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return client.Models, nil
}

// Identify sends the instruction and the image in a single user turn and
// resolves the first text part of the first candidate. The reply is not
// validated against the "<title> by <artist>" pattern.
func (g *Gemini) Identify(ctx context.Context, img imagecodec.Image, apiKey string) (Identification, error) {
	gen, err := g.newGenerator(ctx, apiKey)
	if err != nil {
		return Identification{}, err
	}

	mime := img.MIMEType
	if mime == "" {
		mime = imagecodec.DefaultMIMEType
	}
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				genai.NewPartFromText(instruction),
				genai.NewPartFromBytes(img.Data, mime),
			},
		},
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxOutputTokens,
	}

	logger.Debug(fmt.Sprintf("vision: calling %s with %d byte image", g.model, len(img.Data)))

	resp, err := gen.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return Identification{}, classify(err)
	}

	text, ok := firstText(resp)
	if !ok {
		return Identification{}, &provider.ShapeError{Provider: providerName}
	}
	return Resolve(text), nil
}

func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", false
	}
	return strings.TrimSpace(c.Content.Parts[0].Text), true
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		if msg == "" {
			msg = apiErr.Status
		}
		return provider.NewAPIError(providerName, apiErr.Code, msg)
	}
	return &provider.TransportError{Provider: providerName, Err: err}
}
