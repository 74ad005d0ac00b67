// Package mcp exposes gallery search as a Model Context Protocol tool for chat agents.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/domain"
	"github.com/kailas-cloud/gallerydex/internal/domain/image"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/request"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/result"
	"github.com/kailas-cloud/gallerydex/internal/logger"
	searchuc "github.com/kailas-cloud/gallerydex/internal/usecase/search"
	"github.com/kailas-cloud/gallerydex/internal/version"
)

// ToolName is the registered name of the search tool.
const ToolName = "search_images"

const toolDescription = `Search the photo gallery by free text.
Matches tags, titles, descriptions and categories, with built-in English and German synonyms.
Pass widen=true for short or vague queries to expand them with related terms first.
An empty query returns a random selection.`

// Searcher runs a search for one surface.
type Searcher interface {
	Search(ctx context.Context, surface string, req *request.Request) (result.Page, error)
}

// SearchArgs is the tool input.
type SearchArgs struct {
	Query string `json:"query" jsonschema:"free-text description of the pictures to find"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of images to return (default 20, max 100)"`
	Widen bool   `json:"widen,omitempty" jsonschema:"expand the query with related terms before searching"`
}

// ImageItem is one search hit as seen by the agent.
type ImageItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Alt         string   `json:"alt,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// SearchOutput is the tool result.
type SearchOutput struct {
	Items    []ImageItem `json:"items"`
	Count    int         `json:"count"`
	Total    int         `json:"total"`
	Query    string      `json:"query"`
	Widened  string      `json:"widened,omitempty"`
	Fallback bool        `json:"fallback,omitempty"`
}

// Handler serves the search tool.
type Handler struct {
	search  Searcher
	widener domain.QueryWidener
	logger  *zap.Logger
}

// NewHandler creates a tool handler. widener may be nil; widen requests then search the raw query.
func NewHandler(search Searcher, widener domain.QueryWidener, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{search: search, widener: widener, logger: logger}
}

// NewServer creates an MCP server with the search tool registered.
func NewServer(h *Handler) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "gallerydex", Version: version.Version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: toolDescription,
	}, h.SearchImages)
	return server
}

// HTTPHandler serves server over the streamable HTTP transport.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// SearchImages runs one search. Corpus and ranking failures yield an empty result, not a tool error.
func (h *Handler) SearchImages(
	ctx context.Context, _ *mcp.CallToolRequest, args SearchArgs,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := args.Limit
	if limit == 0 {
		limit = request.DefaultToolLimit
	}

	query := args.Query
	var widened string
	if args.Widen && h.widener != nil {
		w, err := h.widener.Widen(ctx, query)
		if err != nil {
			h.logger.Warn("Query widening failed, searching raw query", zap.Error(err))
		} else if w != query {
			query, widened = w, w
		}
	}

	req, err := request.New(query, 1, limit)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("invalid arguments: %w", err)
	}
	req = req.WithShuffleOnEmpty()

	ctx = logger.ContextWithLogger(ctx, h.logger.With(zap.String("tool", ToolName)))
	page, err := h.search.Search(ctx, searchuc.SurfaceMCP, &req)
	if err != nil {
		h.logger.Error("Search degraded to empty result", zap.Error(err))
	}

	out := toOutput(&page)
	if widened != "" {
		out.Query = strings.TrimSpace(args.Query)
	}
	out.Widened = widened
	return nil, out, nil
}

func toOutput(p *result.Page) SearchOutput {
	images := p.Items()
	items := make([]ImageItem, len(images))
	for i := range images {
		items[i] = toItem(&images[i])
	}
	return SearchOutput{
		Items:    items,
		Count:    len(items),
		Total:    p.Total(),
		Query:    p.Query(),
		Fallback: p.Fallback(),
	}
}

func toItem(img *image.Image) ImageItem {
	return ImageItem{
		ID:          img.ID,
		Title:       img.Title,
		Description: img.Description,
		Category:    img.Category,
		Alt:         img.Alt,
		Tags:        img.Tags,
		ImageURL:    img.SourceURL,
	}
}
