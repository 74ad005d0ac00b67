package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/gallerydex/internal/domain/search/relevance"
	"github.com/kailas-cloud/gallerydex/internal/repository/synonyms"
)

func synonymsCommand() *cli.Command {
	return &cli.Command{
		Name:   "synonyms",
		Usage:  "Print the effective synonym table",
		Action: synonymsAction,
		Flags: []cli.Flag{
			synonymsFlag(),
			&cli.StringFlag{
				Name:  "expand",
				Usage: "Show how a query expands instead of printing the table",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (yaml, json)",
				Value: "yaml",
			},
		},
	}
}

type expansion struct {
	Query    string   `json:"query" yaml:"query"`
	Terms    []string `json:"terms" yaml:"terms"`
	Synonyms []string `json:"synonyms" yaml:"synonyms"`
}

func synonymsAction(c *cli.Context) error {
	table, err := synonyms.Load(c.String("synonyms"))
	if err != nil {
		return err
	}

	var out any = table
	if c.IsSet("expand") {
		q := relevance.Expand(c.String("expand"), table)
		out = expansion{
			Query:    q.Raw,
			Terms:    q.Terms.Sorted(),
			Synonyms: append([]string{}, q.Synonyms()...),
		}
	}

	switch strings.ToLower(c.String("format")) {
	case "json":
		return writeJSON(c.App.Writer, out)
	case "yaml":
		enc := yaml.NewEncoder(c.App.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}
