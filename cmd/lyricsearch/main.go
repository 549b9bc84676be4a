// Package main provides the lyricsearch CLI.
//
// Usage:
//
//	lyricsearch identify [--json] [--output file] [--config file] <image>
//
// The image is a screenshot of a music player (PNG, JPEG, ...) or a text
// file holding a data URI. Provider keys come from GEMINI_API_KEY and
// PERPLEXITY_API_KEY, a .env file, or the YAML config.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sukalov/lyricsearch/cmd/lyricsearch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !errors.Is(err, commands.ErrLookupFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
