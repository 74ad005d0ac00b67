package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/config"
	"github.com/kailas-cloud/gallerydex/internal/domain"
	"github.com/kailas-cloud/gallerydex/internal/domain/search/relevance"
	logpkg "github.com/kailas-cloud/gallerydex/internal/logger"
	"github.com/kailas-cloud/gallerydex/internal/metrics"
	"github.com/kailas-cloud/gallerydex/internal/repository/synonyms"
	chiTransport "github.com/kailas-cloud/gallerydex/internal/transport/chi"
	mcpTransport "github.com/kailas-cloud/gallerydex/internal/transport/mcp"
	openaiWidener "github.com/kailas-cloud/gallerydex/internal/transport/openai"
	corpusuc "github.com/kailas-cloud/gallerydex/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/gallerydex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/gallerydex/internal/usecase/search"
	"github.com/kailas-cloud/gallerydex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gallerydex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("corpus_sources", cfg.Corpus.Order),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional shared snapshot tier
	cache, err := openCache(ctx, &cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to open corpus cache", zap.Error(err))
	}
	if cache != nil {
		defer cache.Close()
		logger.Info("Connected to corpus cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	sources, fileSource, err := buildSources(&cfg.Corpus, logger)
	if err != nil {
		logger.Fatal("Failed to build corpus sources", zap.Error(err))
	}
	corpusSvc, err := corpusuc.New(sources, cfg.Corpus.PoolSize, corpusOptions(&cfg, cache, logger)...)
	if err != nil {
		logger.Fatal("Failed to create corpus provider", zap.Error(err))
	}
	defer corpusSvc.Release()

	if fileSource != nil && cfg.Corpus.File.Watch {
		debounce := time.Duration(cfg.Corpus.File.DebounceMs) * time.Millisecond
		go func() {
			onChange := func() {
				logger.Info("Corpus file changed, invalidating cache", zap.String("path", fileSource.Path()))
				corpusSvc.Invalidate(context.Background())
			}
			if err := fileSource.Watch(ctx, debounce, onChange, logger); err != nil {
				logger.Error("Corpus file watcher stopped", zap.Error(err))
			}
		}()
	}

	synonymTable, err := synonyms.Load(cfg.Search.SynonymsFile)
	if err != nil {
		logger.Fatal("Failed to load synonyms", zap.Error(err))
	}
	engine := relevance.NewEngine(synonymTable)
	searchSvc := searchuc.New(corpusSvc, engine)

	// Pass nil interfaces (not typed nil pointers) for components that are not configured.
	var (
		widener        domain.QueryWidener
		widenerChecker healthuc.WidenerChecker
		cachePinger    healthuc.CachePinger
	)
	if cfg.Widener.Enabled {
		w := openaiWidener.NewWidener(&openaiWidener.Config{
			APIKey:   cfg.Widener.APIKey,
			BaseURL:  cfg.Widener.BaseURL,
			Model:    cfg.Widener.Model,
			MaxTerms: cfg.Widener.MaxTerms,
			Logger:   logger,
		})
		widener, widenerChecker = w, w
		logger.Info("Query widener enabled", zap.String("model", cfg.Widener.Model))
	}
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(corpusSvc, cachePinger, widenerChecker)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	if cfg.MCP.Enabled {
		tool := mcpTransport.NewServer(mcpTransport.NewHandler(searchSvc, widener, logger))
		r.Handle(cfg.MCP.Path, mcpTransport.HTTPHandler(tool))
		logger.Info("Agent tool endpoint enabled", zap.String("path", cfg.MCP.Path))
	}

	// Warm the corpus so the first request does not pay for the fetch.
	if _, err := corpusSvc.Corpus(ctx); err != nil {
		logger.Warn("Initial corpus load failed", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.Query().Get("query")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
