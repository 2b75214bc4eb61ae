package domain

import (
	"context"
	"time"
)

// Classifier produces ranked predictions for an image
type Classifier interface {
	Classify(ctx context.Context, image []byte, topK int) ([]Prediction, error)
}

// KeywordMatcher decides whether a classifier label matches a monument keyword.
// Both arguments are already normalized to lowercase.
type KeywordMatcher interface {
	Matches(label, keyword string) bool
}

// RandomSource is the randomness used for fallback selection.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// MonumentCatalog is the read-only monument registry
type MonumentCatalog interface {
	Monuments() []Monument
	Get(key string) (Monument, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// HistoryRepository keeps recent recognitions, newest first
type HistoryRepository interface {
	Add(ctx context.Context, recognition *Recognition) error
	Recent(ctx context.Context, limit int) ([]*Recognition, error)
}
