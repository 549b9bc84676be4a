package config

import (
	"github.com/sukalov/lyricsearch/internal/lyrics"
	"github.com/sukalov/lyricsearch/internal/lyrics/perplexity"
	"github.com/sukalov/lyricsearch/internal/pipeline"
	"github.com/sukalov/lyricsearch/internal/vision"
)

// Credentials returns the provider keys for pipeline runs.
func (c *Config) Credentials() pipeline.Credentials {
	return pipeline.Credentials{
		Vision: c.Gemini.APIKey,
		Search: c.Perplexity.APIKey,
	}
}

// Pipeline builds the Gemini and Perplexity clients and wires them into a
// pipeline.
func (c *Config) Pipeline() (*pipeline.Pipeline, error) {
	timeout, err := c.Timeout()
	if err != nil {
		return nil, err
	}

	return pipeline.New(
		vision.NewGemini(
			vision.WithModel(c.Gemini.Model),
			vision.WithBaseURL(c.Gemini.BaseURL),
		),
		lyrics.NewService(perplexity.NewClient(
			perplexity.WithModel(c.Perplexity.Model),
			perplexity.WithBaseURL(c.Perplexity.BaseURL),
		)),
		pipeline.WithProviderTimeout(timeout),
	), nil
}
