package client

import (
	"fmt"
	"strings"

	"github.com/sukalov/lyricsearch/internal/lyrics"
	"github.com/sukalov/lyricsearch/internal/pipeline"
	"github.com/sukalov/lyricsearch/internal/vision"
)

const noMeaningText = "No meaning analysis available for this song."

// Render turns a pipeline result into chat text.
func Render(res pipeline.Result) string {
	if res.Failed() {
		return res.Error
	}

	var sb strings.Builder
	if song := vision.ParseDescriptor(res.SongInfo); song.Structured() {
		fmt.Fprintf(&sb, "🎵 %s\n👤 %s\n\n", song.Title, song.Artist)
	}

	if lyrics.Missing(res.Lyrics) {
		sb.WriteString("Could not find lyrics: " + res.Lyrics)
		return strings.TrimSpace(sb.String())
	}

	sb.WriteString("📝 Lyrics\n\n")
	sb.WriteString(lyrics.CleanForDisplay(res.Lyrics))

	sb.WriteString("\n\n💡 Meaning\n\n")
	if meaning := lyrics.CleanForDisplay(res.Meaning); meaning != "" {
		sb.WriteString(meaning)
	} else {
		sb.WriteString(noMeaningText)
	}

	recs := lyrics.Recommendations{Raw: res.SimilarSongs}
	if res.SimilarSongs == pipeline.LyricsUnavailableSimilar {
		return strings.TrimSpace(sb.String())
	}
	if entries := recs.Entries(); len(entries) > 0 {
		sb.WriteString("\n\n🎧 Similar songs\n\n")
		for _, entry := range entries {
			sb.WriteString(lyrics.CleanForDisplay(entry) + "\n")
		}
	} else if recs.None() {
		sb.WriteString("\n\n🎧 " + lyrics.NoSimilarReply)
	}

	return strings.TrimSpace(sb.String())
}
