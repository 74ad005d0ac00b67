package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/mode"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/relevance"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/gallerydex/internal/logger"
	"github.com/kailas-cloud/gallerydex/internal/repository/filecorpus"
	"github.com/kailas-cloud/gallerydex/internal/repository/synonyms"
	corpusuc "github.com/kailas-cloud/gallerydex/internal/usecase/corpus"
	searchuc "github.com/kailas-cloud/gallerydex/internal/usecase/search"
)

type searchOutput struct {
	Query    string       `json:"query"`
	Mode     string       `json:"mode"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
	Count    int          `json:"count"`
	Total    int          `json:"total"`
	Fallback bool         `json:"fallback,omitempty"`
	Synonyms []string     `json:"synonyms,omitempty"`
	Items    []searchItem `json:"items"`
}

type searchItem struct {
	ID       string             `json:"_id"`
	Title    string             `json:"title,omitempty"`
	Category string             `json:"category,omitempty"`
	Tags     []string           `json:"tags,omitempty"`
	ImageURL string             `json:"imageUrl,omitempty"`
	Score    *int               `json:"score,omitempty"`
	Signals  *relevance.Signals `json:"signals,omitempty"`
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:   "search",
		Usage:  "Rank a corpus file and print the page as JSON",
		Action: searchAction,
		Flags: []cli.Flag{
			corpusFlag(),
			synonymsFlag(),
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Free-text query; empty shuffles the corpus",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "1-based page number",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size",
				Value: request.DefaultLimit,
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only rank images of this category",
			},
			&cli.BoolFlag{
				Name:  "fallback",
				Usage: "Return a shuffled page when nothing matches",
			},
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Include the per-signal score breakdown of every item",
			},
		},
	}
}

func searchAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	engine, svc, release, err := buildSearch(c.String("corpus"), c.String("synonyms"), logger)
	if err != nil {
		return err
	}
	defer release()

	req, err := request.New(c.String("query"), c.Int("page"), c.Int("limit"))
	if err != nil {
		return err
	}
	req = req.WithCategory(c.String("category"))
	if c.Bool("fallback") {
		req = req.WithShuffleOnEmpty()
	}

	ctx := logpkg.ContextWithLogger(c.Context, logger)
	page, err := svc.Search(ctx, searchuc.SurfaceCLI, &req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out := searchOutput{
		Query:    page.Query(),
		Mode:     string(page.Mode()),
		Page:     req.Page(),
		Limit:    req.Limit(),
		Count:    page.Count(),
		Total:    page.Total(),
		Fallback: page.Fallback(),
		Items:    make([]searchItem, 0, page.Count()),
	}

	explain := c.Bool("explain") && page.Mode() == mode.Ranked && !page.Fallback()
	var q relevance.Query
	if explain {
		q = engine.Expand(req.Query())
		out.Synonyms = q.Synonyms()
	}
	for _, img := range page.Items() {
		item := toSearchItem(&img)
		if explain {
			signals := relevance.Explain(&img, &q)
			total := signals.Total()
			item.Score, item.Signals = &total, &signals
		}
		out.Items = append(out.Items, item)
	}

	return writeJSON(c.App.Writer, out)
}

// buildSearch wires a file-backed corpus into the shared search service.
func buildSearch(
	corpusPath, synonymsPath string, logger *zap.Logger,
) (*relevance.Engine, *searchuc.Service, func(), error) {
	table, err := synonyms.Load(synonymsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	corpus, err := corpusuc.New(
		[]corpusuc.Source{filecorpus.New(corpusPath)}, 1,
		corpusuc.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create corpus provider: %w", err)
	}
	engine := relevance.NewEngine(table)
	return engine, searchuc.New(corpus, engine), corpus.Release, nil
}

func toSearchItem(img *image.Image) searchItem {
	return searchItem{
		ID:       img.ID,
		Title:    img.Title,
		Category: img.Category,
		Tags:     img.Tags,
		ImageURL: img.SourceURL,
	}
}
