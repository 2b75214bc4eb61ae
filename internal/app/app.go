// Package app wires configuration into a ready recognition service. It is
// shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"fmt"

	"github.com/yatralens/backend/config"
	"github.com/yatralens/backend/internal/catalog"
	"github.com/yatralens/backend/internal/domain"
	"github.com/yatralens/backend/internal/infrastructure/cache"
	"github.com/yatralens/backend/internal/infrastructure/classifier"
	"github.com/yatralens/backend/internal/infrastructure/history"
	"github.com/yatralens/backend/internal/logging"
	"github.com/yatralens/backend/internal/usecase"
)

// HealthChecker is implemented by classifiers that can be probed
type HealthChecker interface {
	Health(ctx context.Context) error
}

// App holds the wired dependencies
type App struct {
	Config     *config.Config
	Catalog    *catalog.Catalog
	Classifier domain.Classifier
	Service    *usecase.RecognitionService

	// ClassifierHealth is nil when no live classifier is configured
	ClassifierHealth HealthChecker

	closers []func()
}

// New builds the recognition stack from cfg. Startup health probes against
// the classifier honor ctx.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	matcher, err := usecase.NewKeywordMatcher(cfg.Recognition.KeywordStrategy, cfg.Recognition.FuzzyEditDistance)
	if err != nil {
		return nil, fmt.Errorf("keyword matcher: %w", err)
	}

	a := &App{
		Config:  cfg,
		Catalog: catalog.Default(),
	}

	a.Classifier = classifier.New(ctx, classifier.Config{
		BaseURL:           cfg.Classifier.BaseURL,
		APIKey:            cfg.Classifier.APIKey,
		Timeout:           cfg.Classifier.Timeout,
		RequestsPerSecond: cfg.Classifier.RequestsPerSecond,
		Burst:             cfg.Classifier.Burst,
		FailureThreshold:  cfg.Classifier.FailureThreshold,
		OpenTimeout:       cfg.Classifier.OpenTimeout,
		StartupProbes:     cfg.Classifier.StartupProbes,
	})
	if client, ok := a.Classifier.(*classifier.Client); ok {
		client.SetDebug(cfg.Server.Environment == "development")
		a.ClassifierHealth = client
	}

	// Leave the interface nil when caching is off
	var cacheRepo domain.CacheRepository
	if cfg.Cache.Type == "memory" {
		memoryCache := cache.NewMemoryCache(cache.WithMaxEntries(cfg.Cache.MaxEntries))
		cacheRepo = memoryCache
		a.closers = append(a.closers, memoryCache.Close)
	}

	a.Service = usecase.NewRecognitionService(
		a.Catalog,
		a.Classifier,
		cacheRepo,
		history.NewMemoryHistory(cfg.History.Capacity),
		nil,
		usecase.RecognitionServiceConfig{
			MaxAttempts:         cfg.Recognition.MaxAttempts,
			EarlyExitConfidence: cfg.Recognition.EarlyExitConfidence,
			RetryDelay:          cfg.Recognition.RetryDelay,
			AttemptTimeout:      cfg.Recognition.AttemptTimeout,
			TopK:                cfg.Recognition.TopK,
			MinConfidence:       cfg.Recognition.MinConfidence,
			KeywordMatcher:      matcher,
			EnableFallback:      cfg.Recognition.EnableFallback,
			CacheTTL:            cfg.Cache.TTL,
			EnableDebugLogging:  cfg.Recognition.EnableDebugLogging,
		},
	)

	logging.Info().
		Int("monuments", a.Catalog.Len()).
		Str("keyword_strategy", cfg.Recognition.KeywordStrategy).
		Float64("min_confidence", cfg.Recognition.MinConfidence).
		Int("max_attempts", cfg.Recognition.MaxAttempts).
		Bool("fallback", cfg.Recognition.EnableFallback).
		Str("cache", cfg.Cache.Type).
		Bool("classifier_live", a.ClassifierHealth != nil).
		Msg("recognition service ready")

	return a, nil
}

// Close releases background resources
func (a *App) Close() {
	for _, closeFn := range a.closers {
		closeFn()
	}
}
