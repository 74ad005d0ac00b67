package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/domain/image"
)

const maxErrorBody = 512

// ErrUnexpectedStatus signals a non-2xx CMS response.
var ErrUnexpectedStatus = errors.New("cms: unexpected status")

// Config holds the headless CMS connection settings.
type Config struct {
	BaseURL    string
	Collection string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Source reads gallery images from a headless CMS collection endpoint.
type Source struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *zap.Logger
}

// New creates a CMS source for GET {base_url}/{collection}.
func New(cfg *Config) (*Source, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("cms base_url is required")
	}
	if strings.TrimSpace(cfg.Collection) == "" {
		return nil, errors.New("cms collection is required")
	}

	endpoint, err := url.JoinPath(cfg.BaseURL, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("invalid cms base_url: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Source{
		endpoint: endpoint,
		token:    cfg.Token,
		http:     client,
		logger:   logger,
	}, nil
}

// Name identifies the source in logs and metrics.
func (s *Source) Name() string { return "cms" }

// Fetch downloads the whole collection in CMS order.
func (s *Source) Fetch(ctx context.Context) ([]image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build cms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cms response: %w", err)
	}

	images := make([]image.Image, 0, len(payload.Items))
	for i := range payload.Items {
		images = append(images, payload.Items[i].toDomain())
	}
	s.logger.Debug("Fetched CMS collection", zap.String("endpoint", s.endpoint), zap.Int("items", len(images)))
	return images, nil
}
