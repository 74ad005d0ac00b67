package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerydex/internal/config"
	dbRedis "github.com/kailas-cloud/gallerydex/internal/db/redis"
	"github.com/kailas-cloud/gallerydex/internal/repository/filecorpus"
	"github.com/kailas-cloud/gallerydex/internal/repository/snapshot"
	"github.com/kailas-cloud/gallerydex/internal/transport/cms"
	corpusuc "github.com/kailas-cloud/gallerydex/internal/usecase/corpus"
)

// buildSources creates the configured corpus sources in merge order.
// The file source is also returned so main can watch it.
func buildSources(cfg *config.CorpusConfig, logger *zap.Logger) ([]corpusuc.Source, *filecorpus.Source, error) {
	var file *filecorpus.Source
	sources := make([]corpusuc.Source, 0, len(cfg.Order))
	for _, name := range cfg.Order {
		switch name {
		case config.SourceCMS:
			src, err := cms.New(&cms.Config{
				BaseURL:    cfg.CMS.BaseURL,
				Collection: cfg.CMS.Collection,
				Token:      cfg.CMS.Token,
				Timeout:    time.Duration(cfg.CMS.TimeoutSec) * time.Second,
				Logger:     logger,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("cms source: %w", err)
			}
			sources = append(sources, src)
		case config.SourceFile:
			file = filecorpus.New(cfg.File.Path)
			sources = append(sources, file)
		default:
			return nil, nil, fmt.Errorf("unknown corpus source %q", name)
		}
	}
	return sources, file, nil
}

// openCache connects the Redis snapshot tier. It returns nil, nil when no cache is configured.
func openCache(ctx context.Context, cfg *config.CacheConfig) (*dbRedis.Store, error) {
	if cfg.Driver != config.CacheRedis {
		return nil, nil
	}
	store, err := dbRedis.Dial(ctx, dbRedis.Options{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
		Ready:    time.Duration(cfg.ReadinessTimeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open redis cache: %w", err)
	}
	return store, nil
}

// corpusOptions translates config into corpus service options.
func corpusOptions(cfg *config.Config, cache *dbRedis.Store, logger *zap.Logger) []corpusuc.Option {
	opts := []corpusuc.Option{
		corpusuc.WithTTL(time.Duration(cfg.Corpus.TTLSec) * time.Second),
		corpusuc.WithFetchTimeout(time.Duration(cfg.Corpus.FetchTimeoutSec) * time.Second),
		corpusuc.WithLogger(logger),
	}
	if cache != nil {
		snap := snapshot.New(cache, cfg.Cache.KeyPrefix, time.Duration(cfg.Cache.TTLSec)*time.Second, logger)
		opts = append(opts, corpusuc.WithSnapshot(snap))
	}
	return opts
}
