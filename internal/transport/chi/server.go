package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/domain"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/request"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/result"
	"github.com/kailas-cloud/gallerydex/internal/logger"
	healthuc "github.com/kailas-cloud/gallerydex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/gallerydex/internal/usecase/search"
)

// Searcher runs a search for one surface.
type Searcher interface {
	Search(ctx context.Context, surface string, req *request.Request) (result.Page, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the gallery search HTTP API.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/api/v1/images/search", s.SearchImages)
	r.Get("/api/v1/images", s.ListImages)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchImages handles GET /api/v1/images/search. The body is the bare item array.
func (s *Server) SearchImages(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}

	req, err := request.New(params.query, params.page, params.limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	page := s.runSearch(r.Context(), &req)

	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total()))
	w.Header().Set("X-Search-Mode", string(page.Mode()))
	writeJSON(w, http.StatusOK, pageToItems(&page))
}

// ListImages handles GET /api/v1/images with an envelope and optional category filter.
func (s *Server) ListImages(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}

	req, err := request.New(params.query, params.page, params.limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	req = req.WithCategory(params.category)

	page := s.runSearch(r.Context(), &req)

	writeJSON(w, http.StatusOK, GalleryResponse{
		Items:    pageToItems(&page),
		Count:    page.Count(),
		Total:    page.Total(),
		Query:    page.Query(),
		Page:     req.Page(),
		Limit:    req.Limit(),
		Mode:     string(page.Mode()),
		Category: req.Category(),
	})
}

// runSearch degrades corpus and ranking failures to the empty page the service returns alongside the error.
func (s *Server) runSearch(ctx context.Context, req *request.Request) result.Page {
	page, err := s.search.Search(ctx, searchuc.SurfaceHTTP, req)
	if err != nil {
		logger.FromContext(ctx).Error("Search degraded to empty result", zap.Error(err))
	}
	return page
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type searchParams struct {
	query    string
	page     int
	limit    int
	category string
}

// bindSearchParams decodes query, page, limit and category with their defaults.
func bindSearchParams(r *http.Request) (searchParams, error) {
	var (
		query    *string
		page     *int
		limit    *int
		category *string
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "query", q, &query); err != nil {
		return searchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return searchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return searchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", q, &category); err != nil {
		return searchParams{}, err
	}

	p := searchParams{page: 1, limit: request.DefaultLimit}
	if query != nil {
		p.query = *query
	}
	if page != nil {
		p.page = *page
	}
	if limit != nil {
		p.limit = *limit
	}
	if category != nil {
		p.category = *category
	}
	return p, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the client-facing message for err without exposing internals.
// Validation errors carry user input context and are returned whole.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrCorpusUnavailable,
		domain.ErrRankingFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
