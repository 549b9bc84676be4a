package lyrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/tagblock"
	"github.com/sukalov/lyricsearch/internal/vision"
)

const (
	// UnavailableReply is the sentinel the provider puts in both sections
	// when lyrics cannot be located.
	UnavailableReply = "Unable to find lyrics"

	// NoSimilarReply is the sentinel block content when no similar songs exist.
	NoSimilarReply = "No similar songs found"

	tagLyrics  = "LYRICS"
	tagMeaning = "MEANING"
	tagSimilar = "SIMILAR"
)

// Searcher is a search-augmented text provider.
type Searcher interface {
	Complete(ctx context.Context, apiKey, prompt string, maxTokens int64) (string, error)
}

// Result is the lyrics lookup outcome. Meaning is "" when the reply had no
// MEANING section or an empty one.
type Result struct {
	Lyrics  string `json:"lyrics"`
	Meaning string `json:"meaning"`
}

// Unavailable reports whether the provider could not locate the lyrics.
func (r Result) Unavailable() bool {
	return strings.Contains(strings.ToLower(r.Lyrics), strings.ToLower(UnavailableReply))
}

// missingReplies are provider answers that stand in for lyrics.
var missingReplies = []string{
	UnavailableReply,
	"Unable to find song",
	"Invalid Input",
}

// Missing reports whether text carries no displayable lyrics: it is blank
// or contains one of the provider's no-lyrics replies in any case.
func Missing(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	lower := strings.ToLower(text)
	for _, reply := range missingReplies {
		if strings.Contains(lower, strings.ToLower(reply)) {
			return true
		}
	}
	return false
}

// Recommendations is the similar-songs payload: the SIMILAR block content
// or, when the block is missing, the whole reply.
type Recommendations struct {
	Raw string
}

// None reports the no-similar-songs sentinel.
func (r Recommendations) None() bool {
	return strings.EqualFold(strings.TrimSpace(r.Raw), NoSimilarReply)
}

// Entries returns the non-blank payload lines verbatim.
func (r Recommendations) Entries() []string {
	if r.None() {
		return nil
	}
	var out []string
	for _, line := range strings.Split(r.Raw, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimRight(line, "\r"))
		}
	}
	return out
}

// Service performs the lyrics and recommendation lookups.
type Service struct {
	search Searcher
}

// NewService creates a new lyrics service
func NewService(search Searcher) *Service {
	return &Service{search: search}
}

// Lyrics looks up the lyrics and their meaning for song.
func (s *Service) Lyrics(ctx context.Context, song vision.Descriptor, apiKey string) (Result, error) {
	logger.Debug(fmt.Sprintf("Lyrics called for: %s", song))

	reply, err := s.search.Complete(ctx, apiKey, lyricsPrompt(song.String()), lyricsMaxTokens)
	if err != nil {
		logger.Error(fmt.Sprintf("lyrics lookup failed for: %s\nError: %v", song, err))
		return Result{}, err
	}

	res := ParseLyrics(reply)
	logger.Debug(fmt.Sprintf("Lyrics succeeded for: %s\nLyrics length: %d chars\nMeaning length: %d chars",
		song, len(res.Lyrics), len(res.Meaning)))
	return res, nil
}

// Similar looks up songs similar in theme and meaning to song.
func (s *Service) Similar(ctx context.Context, song vision.Descriptor, apiKey string) (Recommendations, error) {
	logger.Debug(fmt.Sprintf("Similar called for: %s", song))

	reply, err := s.search.Complete(ctx, apiKey, similarPrompt(song.String()), similarMaxTokens)
	if err != nil {
		logger.Error(fmt.Sprintf("similar songs lookup failed for: %s\nError: %v", song, err))
		return Recommendations{}, err
	}

	recs := ParseSimilar(reply)
	logger.Debug(fmt.Sprintf("Similar succeeded for: %s\nEntries: %d", song, len(recs.Entries())))
	return recs, nil
}

// ParseLyrics splits a provider reply into lyrics and meaning. Without a
// LYRICS block the whole trimmed reply is the lyrics.
func ParseLyrics(reply string) Result {
	meaning, _ := tagblock.Extract(reply, tagMeaning)
	return Result{
		Lyrics:  tagblock.ExtractOr(reply, tagLyrics),
		Meaning: meaning,
	}
}

// ParseSimilar extracts the SIMILAR block, falling back to the whole reply.
func ParseSimilar(reply string) Recommendations {
	return Recommendations{Raw: tagblock.ExtractOr(reply, tagSimilar)}
}
