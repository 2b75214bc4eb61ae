package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/yatralens/backend/internal/domain"
	"github.com/yatralens/backend/internal/logging"
	"github.com/yatralens/backend/internal/metrics"
)

// Result sources reported on a Recognition
const (
	SourceClassifier = "classifier"
	SourceFallback   = "fallback"
	SourceCache      = "cache"
)

// Messages for structured failures
const (
	msgNoConfidentMatch = "Could not recognize a monument in this image. Try a clearer photo of the landmark."
	msgUnavailable      = "Monument recognition is currently unavailable. Please try again later."
)

// RecognitionServiceConfig holds configuration for the recognition service
type RecognitionServiceConfig struct {
	MaxAttempts         int
	EarlyExitConfidence float64
	RetryDelay          time.Duration
	AttemptTimeout      time.Duration
	TopK                int
	MinConfidence       float64
	KeywordMatcher      domain.KeywordMatcher
	EnableFallback      bool
	CacheTTL            time.Duration
	EnableDebugLogging  bool
}

// RecognitionService identifies monuments in images.
// Flow: check cache -> classify with retries -> match -> fallback if needed -> cache + history
type RecognitionService struct {
	catalog    domain.MonumentCatalog
	classifier domain.Classifier
	cache      domain.CacheRepository
	history    domain.HistoryRepository
	matcher    *MatchingService
	fallback   *FallbackGenerator

	maxAttempts         int
	earlyExitConfidence float64
	retryDelay          time.Duration
	attemptTimeout      time.Duration
	topK                int
	enableFallback      bool
	cacheTTL            time.Duration
	enableDebugLogging  bool

	now   func() time.Time
	newID func() string
}

// NewRecognitionService creates a new recognition service with dependencies.
// cache and history may be nil. A nil classifier behaves as unavailable.
func NewRecognitionService(
	catalog domain.MonumentCatalog,
	classifier domain.Classifier,
	cache domain.CacheRepository,
	history domain.HistoryRepository,
	rnd domain.RandomSource,
	config RecognitionServiceConfig,
) *RecognitionService {
	maxAttempts := config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	earlyExit := config.EarlyExitConfidence
	if earlyExit <= 0 || earlyExit > 1 {
		earlyExit = 0.8
	}

	retryDelay := config.RetryDelay
	if retryDelay < 0 {
		retryDelay = 0
	}

	topK := config.TopK
	if topK <= 0 {
		topK = 5
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &RecognitionService{
		catalog:    catalog,
		classifier: classifier,
		cache:      cache,
		history:    history,
		matcher: NewMatchingService(MatchConfig{
			MinConfidence:      config.MinConfidence,
			KeywordMatcher:     config.KeywordMatcher,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		fallback:            NewFallbackGenerator(rnd),
		maxAttempts:         maxAttempts,
		earlyExitConfidence: earlyExit,
		retryDelay:          retryDelay,
		attemptTimeout:      config.AttemptTimeout,
		topK:                topK,
		enableFallback:      config.EnableFallback,
		cacheTTL:            cacheTTL,
		enableDebugLogging:  config.EnableDebugLogging,
		now:                 time.Now,
		newID:               uuid.NewString,
	}
}

// Monuments lists the catalog for browsing, with confidence zeroed
func (s *RecognitionService) Monuments() []domain.MonumentView {
	monuments := s.catalog.Monuments()
	views := make([]domain.MonumentView, len(monuments))
	for i, m := range monuments {
		views[i] = domain.MonumentView{Monument: m}
	}
	return views
}

// Monument returns a single catalog entry
func (s *RecognitionService) Monument(key string) (*domain.MonumentView, error) {
	m, err := s.catalog.Get(key)
	if err != nil {
		return nil, err
	}
	return &domain.MonumentView{Monument: m}, nil
}

// History returns the most recent recognitions, newest first
func (s *RecognitionService) History(ctx context.Context, limit int) ([]*domain.Recognition, error) {
	if s.history == nil {
		return []*domain.Recognition{}, nil
	}
	return s.history.Recent(ctx, limit)
}

// Recognize identifies the monument in image. Classifier failures never
// surface as errors: the result is a match, a structured failure
// (Success=false) or a fallback flagged with IsFallback. The returned error
// is non-nil only for an empty image or a cancelled context.
func (s *RecognitionService) Recognize(ctx context.Context, image []byte) (*domain.Recognition, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	digest := imageDigest(image)
	cacheKey := "recognition:" + digest

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		metrics.CacheHits.Inc()
		metrics.RecognitionsTotal.WithLabelValues("cached").Inc()
		cached.ID = s.newID()
		cached.Source = SourceCache
		cached.RecognizedAt = s.now()
		s.record(ctx, cached)
		return cached, nil
	}
	if s.cache != nil {
		metrics.CacheMisses.Inc()
	}

	outcome, err := s.classifyWithRetry(ctx, image)
	if err != nil {
		return nil, err
	}
	metrics.RecognitionAttempts.Observe(float64(outcome.attempts))

	var result *domain.Recognition
	switch {
	case outcome.best != nil:
		result = s.matchedRecognition(outcome.best, SourceClassifier, outcome.attempts)
		metrics.RecognitionsTotal.WithLabelValues("matched").Inc()
		metrics.MatchConfidence.Observe(outcome.best.Confidence)

	case outcome.classified == 0:
		result = s.fallbackRecognition(outcome)

	default:
		result = s.failedRecognition(msgNoConfidentMatch, outcome.attempts)
		metrics.RecognitionsTotal.WithLabelValues("no_match").Inc()
	}

	result.ImageDigest = digest

	// Only genuine matches are cached; fallbacks and failures are retried next time
	if result.Success && !result.IsFallback {
		if err := s.setInCache(ctx, cacheKey, result); err != nil {
			logging.Warn().Err(err).Str("digest", digest).Msg("failed to cache recognition")
		}
	}

	s.record(ctx, result)

	logging.Info().
		Str("id", result.ID).
		Bool("success", result.Success).
		Bool("fallback", result.IsFallback).
		Int("attempts", result.Attempts).
		Int("confidence_percent", result.ConfidencePercent).
		Str("source", result.Source).
		Msg("recognition completed")

	return result, nil
}

// attemptOutcome summarizes the retry loop
type attemptOutcome struct {
	best       *domain.MatchResult
	attempts   int   // classifier calls made
	classified int   // calls that returned predictions
	lastErr    error // last classifier error, if any
}

// classifyWithRetry calls the classifier at most maxAttempts times, one call
// at a time, keeping the highest-confidence accepted match (earliest on ties).
// It stops early once the retained match exceeds earlyExitConfidence.
func (s *RecognitionService) classifyWithRetry(ctx context.Context, image []byte) (attemptOutcome, error) {
	var out attemptOutcome

	if s.classifier == nil {
		out.lastErr = domain.ErrClassifierUnavailable
		return out, nil
	}

	monuments := s.catalog.Monuments()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, s.retryDelay); err != nil {
				return out, err
			}
		}

		out.attempts = attempt
		predictions, err := s.classifyOnce(ctx, image)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			out.lastErr = err
			logging.Warn().Err(err).Int("attempt", attempt).Msg("classifier attempt failed")
			if errors.Is(err, domain.ErrClassifierUnavailable) {
				break
			}
			continue
		}
		out.classified++

		match, err := s.matcher.FindBestMatch(ctx, predictions, monuments)
		if err != nil {
			if errors.Is(err, domain.ErrNoConfidentMatch) {
				if s.enableDebugLogging {
					logging.Debug().Int("attempt", attempt).Int("predictions", len(predictions)).Msg("no confident match")
				}
				continue
			}
			return out, err
		}

		if out.best == nil || match.Confidence > out.best.Confidence {
			out.best = match
		}

		if out.best.Confidence > s.earlyExitConfidence {
			break
		}
	}

	return out, nil
}

// classifyOnce runs a single classifier call bounded by attemptTimeout
func (s *RecognitionService) classifyOnce(ctx context.Context, image []byte) ([]domain.Prediction, error) {
	if s.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.attemptTimeout)
		defer cancel()
	}

	predictions, err := s.classifier.Classify(ctx, image, s.topK)
	if err != nil {
		if errors.Is(err, domain.ErrClassifierUnavailable) || errors.Is(err, domain.ErrClassifierFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierFailure, err)
	}
	return predictions, nil
}

// fallbackRecognition answers when no attempt produced predictions
func (s *RecognitionService) fallbackRecognition(outcome attemptOutcome) *domain.Recognition {
	if !s.enableFallback {
		metrics.RecognitionsTotal.WithLabelValues("unavailable").Inc()
		return s.failedRecognition(msgUnavailable, outcome.attempts)
	}

	match, err := s.fallback.Generate(s.catalog.Monuments())
	if err != nil {
		metrics.RecognitionsTotal.WithLabelValues("unavailable").Inc()
		return s.failedRecognition(msgUnavailable, outcome.attempts)
	}

	logging.Warn().
		AnErr("cause", outcome.lastErr).
		Str("monument", match.Monument.Key).
		Msg("classifier unusable, returning simulated result")

	metrics.RecognitionsTotal.WithLabelValues("fallback").Inc()
	result := s.matchedRecognition(match, SourceFallback, outcome.attempts)
	result.IsFallback = true
	return result
}

func (s *RecognitionService) matchedRecognition(match *domain.MatchResult, source string, attempts int) *domain.Recognition {
	return &domain.Recognition{
		ID:      s.newID(),
		Success: true,
		Monument: &domain.MonumentView{
			Monument:   match.Monument,
			Confidence: match.Confidence,
		},
		ConfidencePercent: confidencePercent(match.Confidence),
		Attempts:          attempts,
		Source:            source,
		RecognizedAt:      s.now(),
	}
}

func (s *RecognitionService) failedRecognition(message string, attempts int) *domain.Recognition {
	return &domain.Recognition{
		ID:           s.newID(),
		Success:      false,
		Error:        message,
		Attempts:     attempts,
		Source:       SourceClassifier,
		RecognizedAt: s.now(),
	}
}

// record appends to history; failures are logged, not returned
func (s *RecognitionService) record(ctx context.Context, r *domain.Recognition) {
	if s.history == nil {
		return
	}
	if err := s.history.Add(ctx, r); err != nil {
		logging.Warn().Err(err).Str("id", r.ID).Msg("failed to record recognition history")
	}
}

// getFromCache retrieves a recognition from cache. The memory cache stores
// JSON-decoded values, so maps are re-decoded into a Recognition.
func (s *RecognitionService) getFromCache(ctx context.Context, key string) (*domain.Recognition, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *domain.Recognition:
		copied := *v
		return &copied, nil
	case map[string]interface{}:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, domain.ErrCacheMiss
		}
		var r domain.Recognition
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, domain.ErrCacheMiss
		}
		return &r, nil
	default:
		return nil, domain.ErrCacheMiss
	}
}

// setInCache stores a recognition in cache
func (s *RecognitionService) setInCache(ctx context.Context, key string, r *domain.Recognition) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, key, r, s.cacheTTL)
}

// confidencePercent scales a 0-1 confidence to a rounded 0-100 integer
func confidencePercent(confidence float64) int {
	return int(math.Round(clampUnit(confidence) * 100))
}

// imageDigest is the hex SHA-256 of the image bytes
func imageDigest(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
