package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sukalov/lyricsearch/internal/config"
	"github.com/sukalov/lyricsearch/internal/imagecodec"
	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/pipeline"
)

// ErrLookupFailed is returned after a result carrying an error was printed.
var ErrLookupFailed = errors.New("lookup failed")

var identifyCmd = &cobra.Command{
	Use:   "identify <image>",
	Short: "Identify the song in a screenshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func runIdentify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateProviders(); err != nil {
		return err
	}
	logger.SetDebug(verbose || cfg.Debug)

	uri, err := readImage(args[0])
	if err != nil {
		return err
	}

	p, err := cfg.Pipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var observe pipeline.Observer
	if !outputJSON {
		observe = func(s pipeline.State) {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.Help.Render("· "+s.String()))
		}
	}
	res := p.Run(ctx, uri, cfg.Credentials(), observe)

	if err := writeResult(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if res.Failed() {
		return ErrLookupFailed
	}
	return nil
}

// readImage loads path as a data URI. Files that already hold a data URI
// are passed through.
func readImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if trimmed := bytes.TrimSpace(data); bytes.HasPrefix(trimmed, []byte("data:")) {
		return string(trimmed), nil
	}
	if len(data) == 0 {
		return "", fmt.Errorf("read image: %s is empty", path)
	}
	return imagecodec.EncodeDataURI(imagecodec.FromBytes(data)), nil
}

func writeResult(stdout io.Writer, res pipeline.Result) error {
	var out string
	if outputJSON {
		b, err := formatJSON(res)
		if err != nil {
			return err
		}
		out = b
	} else {
		out = formatText(res)
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if outputFile == "" {
		_, err := io.WriteString(stdout, out)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
