package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/domain"
	"github.com/kailas-cloud/gallerydex/internal/metrics"
)

// Compile-time check: Widener implements domain.QueryWidener.
var _ domain.QueryWidener = (*Widener)(nil)

const (
	defaultMaxTerms  = 12
	maxWidenedLength = 512
)

const systemPrompt = `You expand photo gallery search queries.
Reply with a single line of space-separated lowercase keywords that a photographer would tag such pictures with:
the original words first, then synonyms, moods, times of day and scene types.
No punctuation, no explanations.`

// Widener rewrites short queries into keyword lists via an OpenAI-compatible chat completion API.
type Widener struct {
	client   *openai.Client
	model    string
	maxTerms int
	logger   *zap.Logger
}

// Config holds the widener provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	MaxTerms int
	Logger   *zap.Logger
}

// NewWidener creates an OpenAI-compatible query widener.
func NewWidener(cfg *Config) *Widener {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	maxTerms := cfg.MaxTerms
	if maxTerms <= 0 {
		maxTerms = defaultMaxTerms
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Widener{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		maxTerms: maxTerms,
		logger:   logger,
	}
}

// Widen returns query followed by related terms. On any failure it returns query unchanged with the error.
func (w *Widener) Widen(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return query, nil
	}

	req := openai.ChatCompletionRequest{
		Model: w.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.2,
		MaxTokens:   64,
	}

	start := time.Now()
	resp, err := w.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.WidenerRequestsTotal.WithLabelValues(w.model, "error").Inc()
		return query, parseAPIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.WidenerRequestsTotal.WithLabelValues(w.model, "empty").Inc()
		return query, fmt.Errorf("empty completion: %w", domain.ErrWidenerFailed)
	}

	metrics.WidenerRequestsTotal.WithLabelValues(w.model, "success").Inc()
	metrics.WidenerRequestDuration.WithLabelValues(w.model).Observe(duration.Seconds())

	widened := merge(query, resp.Choices[0].Message.Content, w.maxTerms)
	w.logger.Debug("Query widened", zap.String("query", query), zap.String("widened", widened))
	return widened, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (w *Widener) HealthCheck(ctx context.Context) error {
	if _, err := w.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// merge keeps the original query verbatim and appends up to maxTerms new keywords from completion.
func merge(query, completion string, maxTerms int) string {
	seen := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(query)) {
		seen[f] = struct{}{}
	}

	var b strings.Builder
	b.WriteString(query)
	added := 0
	for _, f := range strings.FieldsFunc(strings.ToLower(completion), isSeparator) {
		if added >= maxTerms {
			break
		}
		if _, dup := seen[f]; dup {
			continue
		}
		if b.Len()+1+len(f) > maxWidenedLength {
			break
		}
		seen[f] = struct{}{}
		b.WriteByte(' ')
		b.WriteString(f)
		added++
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '-' && r != '\'')
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrWidenerFailed.
func parseAPIError(err error) error {
	wrap := domain.ErrWidenerFailed

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("widener API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("widener API error %d: %w", reqErr.HTTPStatusCode, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("widener API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("widener request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
