package commands

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sukalov/lyricsearch/internal/lyrics"
	"github.com/sukalov/lyricsearch/internal/pipeline"
	"github.com/sukalov/lyricsearch/internal/vision"
)

type outputStyles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Error lipgloss.Style
	Help  lipgloss.Style
}

var styles = outputStyles{
	Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1db954")),
	Label: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1db954")).MarginTop(1),
	Error: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f")),
	Help:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
}

func formatJSON(res pipeline.Result) (string, error) {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatText(res pipeline.Result) string {
	if res.Failed() {
		return styles.Error.Render(res.Error)
	}

	var lines []string
	song := vision.ParseDescriptor(res.SongInfo)
	if song.Structured() {
		lines = append(lines, styles.Title.Render(song.Title)+styles.Help.Render(" by ")+song.Artist)
	} else {
		lines = append(lines, styles.Title.Render(song.Raw))
	}

	if lyrics.Missing(res.Lyrics) {
		lines = append(lines, styles.Error.Render("Could not find lyrics: "+res.Lyrics))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, styles.Label.Render("Lyrics"), lyrics.CleanForDisplay(res.Lyrics))

	meaning := lyrics.CleanForDisplay(res.Meaning)
	if meaning == "" {
		meaning = styles.Help.Render("No meaning analysis available for this song.")
	}
	lines = append(lines, styles.Label.Render("Meaning"), meaning)

	lines = append(lines, styles.Label.Render("Similar songs"))
	recs := lyrics.Recommendations{Raw: res.SimilarSongs}
	if entries := recs.Entries(); len(entries) > 0 {
		lines = append(lines, entries...)
	} else {
		lines = append(lines, styles.Help.Render(res.SimilarSongs))
	}

	return strings.Join(lines, "\n")
}
