// Command galleryctl ranks a local corpus file from the shell and serves the agent tool over stdio.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/gallerydex/internal/logger"
	"github.com/kailas-cloud/gallerydex/internal/version"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "galleryctl:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "galleryctl",
		Usage:     "Rank gallery images by free-text relevance",
		Version:   version.String(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"GALLERYCTL_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			synonymsCommand(),
			mcpCommand(),
		},
	}
}

// corpusFlag and synonymsFlag are shared by every command that ranks.
func corpusFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "corpus",
		Aliases:  []string{"c"},
		Usage:    "Path to a YAML or JSON corpus file ({images: [...]})",
		Required: true,
		EnvVars:  []string{"GALLERYCTL_CORPUS"},
	}
}

func synonymsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "synonyms",
		Usage: "YAML file of extra synonyms merged over the built-in table",
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	logger, err := logpkg.NewLogger("cli", c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
