package main

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/domain"
	mcpTransport "github.com/kailas-cloud/gallerydex/internal/transport/mcp"
	openaiWidener "github.com/kailas-cloud/gallerydex/internal/transport/openai"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Serve the search_images tool over stdio for a local agent",
		Action: mcpAction,
		Flags: []cli.Flag{
			corpusFlag(),
			synonymsFlag(),
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "Enables query widening through an OpenAI-compatible API",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "openai-base-url",
				Usage:   "OpenAI-compatible API base URL",
				EnvVars: []string{"OPENAI_BASE_URL"},
			},
			&cli.StringFlag{
				Name:  "widener-model",
				Usage: "Chat model used for query widening",
				Value: "gpt-4o-mini",
			},
		},
	}
}

func mcpAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	_, svc, release, err := buildSearch(c.String("corpus"), c.String("synonyms"), logger)
	if err != nil {
		return err
	}
	defer release()

	var widener domain.QueryWidener
	if key := c.String("openai-api-key"); key != "" {
		widener = openaiWidener.NewWidener(&openaiWidener.Config{
			APIKey:  key,
			BaseURL: c.String("openai-base-url"),
			Model:   c.String("widener-model"),
			Logger:  logger,
		})
	}

	server := mcpTransport.NewServer(mcpTransport.NewHandler(svc, widener, logger))
	logger.Info("Serving agent tool over stdio", zap.String("corpus", c.String("corpus")))
	if err := server.Run(c.Context, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
