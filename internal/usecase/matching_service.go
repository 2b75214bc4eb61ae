package usecase

import (
	"context"

	"github.com/yatralens/backend/internal/domain"
	"github.com/yatralens/backend/internal/logging"
)

// DefaultMinConfidence is the threshold a match must strictly exceed
const DefaultMinConfidence = 0.1

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinConfidence      float64
	KeywordMatcher     domain.KeywordMatcher
	EnableDebugLogging bool
}

// MatchingService scores classifier predictions against the monument catalog
type MatchingService struct {
	minConfidence      float64
	keywordMatcher     domain.KeywordMatcher
	canonical          func(string) string
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.MinConfidence
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultMinConfidence
	}

	matcher := config.KeywordMatcher
	if matcher == nil {
		matcher = SubstringMatcher{}
	}

	canonical := foldLabel
	if c, ok := matcher.(labelCanonicalizer); ok {
		canonical = c.Canonical
	}

	return &MatchingService{
		minConfidence:      threshold,
		keywordMatcher:     matcher,
		canonical:          canonical,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// FindBestMatch finds the monument whose keywords best agree with the predictions.
// Monuments are scored in catalog order and the first one wins ties. Returns
// ErrNoConfidentMatch unless the best confidence strictly exceeds the threshold.
func (s *MatchingService) FindBestMatch(
	ctx context.Context,
	predictions []domain.Prediction,
	monuments []domain.Monument,
) (*domain.MatchResult, error) {
	normalized := normalizePredictions(predictions, s.canonical)
	if len(normalized) == 0 || len(monuments) == 0 {
		return nil, domain.ErrNoConfidentMatch
	}

	var bestMatch *domain.MatchResult
	highestScore := -1.0

	for _, monument := range monuments {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score, matched := s.scoreMonument(normalized, monument)

		if s.enableDebugLogging {
			logging.Debug().
				Str("monument", monument.Key).
				Float64("score", score).
				Strs("matched", matched).
				Msg("scored monument")
		}

		if score > highestScore {
			highestScore = score
			bestMatch = &domain.MatchResult{
				Monument:        monument,
				Confidence:      score,
				MatchedKeywords: matched,
			}
		}
	}

	if bestMatch == nil || bestMatch.Confidence <= s.minConfidence {
		return nil, domain.ErrNoConfidentMatch
	}

	if s.enableDebugLogging {
		logging.Debug().
			Str("monument", bestMatch.Monument.Key).
			Float64("confidence", bestMatch.Confidence).
			Msg("best match")
	}

	return bestMatch, nil
}

// scoreMonument averages the probability of every (prediction, keyword) pair
// that matches. With probabilities clamped to [0,1] the mean is in [0,1] too.
// Returns the score and the distinct keywords that matched.
func (s *MatchingService) scoreMonument(predictions []normalizedPrediction, monument domain.Monument) (float64, []string) {
	var (
		sum     float64
		count   int
		matched []string
	)
	seen := make(map[string]bool)

	for _, p := range predictions {
		for _, keyword := range monument.Keywords {
			kw := s.canonical(keyword)
			if kw == "" {
				continue
			}
			if !s.keywordMatcher.Matches(p.label, kw) {
				continue
			}
			sum += p.probability
			count++
			if !seen[kw] {
				seen[kw] = true
				matched = append(matched, kw)
			}
		}
	}

	if count == 0 {
		return 0, nil
	}
	return clampUnit(sum / float64(count)), matched
}
