package pipeline

import (
	"encoding/json"

	"github.com/sukalov/lyricsearch/internal/lyrics"
	"github.com/sukalov/lyricsearch/internal/vision"
)

const (
	// NotFoundMessage is returned when the vision stage finds no track.
	NotFoundMessage = "Could not identify a song playing on Spotify. Make sure a song is currently playing and visible."

	// GenericErrorMessage is returned for failures without a message.
	GenericErrorMessage = "An error occurred while processing your request."

	// LyricsUnavailableSimilar fills SimilarSongs when the recommendation
	// stage was skipped.
	LyricsUnavailableSimilar = "Unable to find lyrics"
)

// Result is the flat outcome of one run. Either Error is set, or the four
// success fields are.
type Result struct {
	SongInfo     string
	Lyrics       string
	Meaning      string
	SimilarSongs string
	Error        string

	// Typed views of the same run for in-process consumers.
	Track           vision.Descriptor      `json:"-"`
	Recommendations lyrics.Recommendations `json:"-"`
	LyricsFound     bool                   `json:"-"`
	State           State                  `json:"-"`
}

// Failed reports whether the run ended with an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

type errorJSON struct {
	Error string `json:"error"`
}

type successJSON struct {
	SongInfo     string `json:"songInfo"`
	Lyrics       string `json:"lyrics"`
	Meaning      string `json:"meaning"`
	SimilarSongs string `json:"similarSongs"`
}

// MarshalJSON emits {"error": ...} for failed runs and the four success
// fields otherwise; meaning is "" rather than absent.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(errorJSON{Error: r.Error})
	}
	return json.Marshal(successJSON{
		SongInfo:     r.SongInfo,
		Lyrics:       r.Lyrics,
		Meaning:      r.Meaning,
		SimilarSongs: r.SimilarSongs,
	})
}
