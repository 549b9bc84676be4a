package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	outputFile string
	outputJSON bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lyricsearch",
	Short: "Identify a song from a screenshot and fetch its lyrics",
	Long: `lyricsearch - identify the song in a music player screenshot.

The screenshot goes to Gemini to read the title and artist, then Perplexity
finds the lyrics, explains their meaning and suggests similar songs.

Examples:
  # Styled output
  lyricsearch identify spotify.png

  # JSON for piping
  lyricsearch identify spotify.png --json | jq -r .lyrics
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (env vars override it)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages")

	rootCmd.AddCommand(identifyCmd)
}
