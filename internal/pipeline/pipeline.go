// Package pipeline runs the recognition and enrichment stages for one
// captured screen image: identify the track, look up its lyrics and
// meaning, then look up similar songs.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sukalov/lyricsearch/internal/imagecodec"
	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/lyrics"
	"github.com/sukalov/lyricsearch/internal/vision"
)

// Credentials are the provider keys for a single run.
type Credentials struct {
	Vision string
	Search string
}

// Enricher fetches lyrics and similar songs for an identified track.
type Enricher interface {
	Lyrics(ctx context.Context, song vision.Descriptor, apiKey string) (lyrics.Result, error)
	Similar(ctx context.Context, song vision.Descriptor, apiKey string) (lyrics.Recommendations, error)
}

// Pipeline sequences the stages. It holds no per-run state and is safe for
// concurrent use.
type Pipeline struct {
	identifier vision.Identifier
	enricher   Enricher
	timeout    time.Duration
}

// Option configures Pipeline.
type Option func(*Pipeline)

// WithProviderTimeout bounds every provider call; zero disables the bound.
func WithProviderTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

// New creates a pipeline.
func New(identifier vision.Identifier, enricher Enricher, opts ...Option) *Pipeline {
	p := &Pipeline{identifier: identifier, enricher: enricher}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the pipeline for a PNG data URI. Failures never escape as
// errors; they are reported in Result.Error.
func (p *Pipeline) Process(ctx context.Context, imageDataURI string, creds Credentials) Result {
	return p.Run(ctx, imageDataURI, creds, nil)
}

// Run is Process with a state observer.
func (p *Pipeline) Run(ctx context.Context, imageDataURI string, creds Credentials, observe Observer) (res Result) {
	runID := uuid.NewString()
	enter := func(s State) {
		res.State = s
		logger.Debug(fmt.Sprintf("run %s: %s", runID, s))
		if observe != nil {
			observe(s)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("run %s: panic: %v", runID, r))
			res = failure(GenericErrorMessage)
			enter(Failed)
		}
	}()

	enter(Identifying)
	id, err := p.identify(ctx, imageDataURI, creds.Vision)
	if err != nil {
		logger.Error(fmt.Sprintf("run %s: identification failed\nError: %v", runID, err))
		res = failure(err.Error())
		enter(IdentificationFailed)
		return res
	}
	if !id.Found {
		logger.Info(fmt.Sprintf("run %s: no song found on screen", runID))
		res = failure(NotFoundMessage)
		enter(IdentificationFailed)
		return res
	}

	song := id.Descriptor
	res.Track = song
	res.SongInfo = song.String()
	enter(Identified)

	enter(EnrichingLyrics)
	lyr, err := p.lyrics(ctx, song, creds.Search)
	if err != nil {
		logger.Error(fmt.Sprintf("run %s: lyrics lookup failed for %s\nError: %v", runID, song, err))
		res = failure(err.Error())
		enter(Failed)
		return res
	}
	res.Lyrics = lyr.Lyrics
	res.Meaning = lyr.Meaning

	if lyr.Unavailable() {
		enter(LyricsUnavailable)
		res.SimilarSongs = LyricsUnavailableSimilar
		enter(Done)
		logger.Info(fmt.Sprintf("run %s: %s identified, lyrics unavailable", runID, song))
		return res
	}
	res.LyricsFound = true
	enter(LyricsFound)

	enter(EnrichingRecommendations)
	recs, err := p.similar(ctx, song, creds.Search)
	if err != nil {
		logger.Error(fmt.Sprintf("run %s: similar songs lookup failed for %s\nError: %v", runID, song, err))
		res = failure(err.Error())
		enter(Failed)
		return res
	}
	res.Recommendations = recs
	res.SimilarSongs = recs.Raw
	enter(Done)

	logger.Success(fmt.Sprintf("run %s: %s identified with lyrics and %d similar songs",
		runID, song, len(recs.Entries())))
	return res
}

func (p *Pipeline) identify(ctx context.Context, imageDataURI, apiKey string) (vision.Identification, error) {
	img, err := imagecodec.DecodeDataURI(imageDataURI)
	if err != nil {
		return vision.Identification{}, err
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.identifier.Identify(ctx, img, apiKey)
}

func (p *Pipeline) lyrics(ctx context.Context, song vision.Descriptor, apiKey string) (lyrics.Result, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.enricher.Lyrics(ctx, song, apiKey)
}

func (p *Pipeline) similar(ctx context.Context, song vision.Descriptor, apiKey string) (lyrics.Recommendations, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.enricher.Similar(ctx, song, apiKey)
}

func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func failure(msg string) Result {
	if msg == "" {
		msg = GenericErrorMessage
	}
	return Result{Error: msg}
}
