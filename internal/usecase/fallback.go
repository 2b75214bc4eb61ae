package usecase

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/yatralens/backend/internal/domain"
)

// Synthetic confidence range for simulated results
const (
	FallbackMinConfidence = 0.70
	FallbackMaxConfidence = 0.95
)

// FallbackGenerator produces a plausible random match for degraded mode,
// when no real classification is possible. Callers must flag its output.
type FallbackGenerator struct {
	rnd domain.RandomSource
	mu  sync.Mutex
}

// NewFallbackGenerator creates a generator. A nil source uses a time-seeded PCG.
func NewFallbackGenerator(rnd domain.RandomSource) *FallbackGenerator {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &FallbackGenerator{rnd: rnd}
}

// Generate picks a monument uniformly at random and assigns it a confidence
// drawn uniformly from [FallbackMinConfidence, FallbackMaxConfidence]
func (g *FallbackGenerator) Generate(monuments []domain.Monument) (*domain.MatchResult, error) {
	if len(monuments) == 0 {
		return nil, domain.ErrMonumentNotFound
	}

	// RandomSource implementations such as *rand.Rand are not goroutine safe
	g.mu.Lock()
	idx := g.rnd.IntN(len(monuments))
	r := g.rnd.Float64()
	g.mu.Unlock()

	if idx < 0 || idx >= len(monuments) {
		idx = 0
	}

	confidence := FallbackMinConfidence + clampUnit(r)*(FallbackMaxConfidence-FallbackMinConfidence)

	return &domain.MatchResult{
		Monument:   monuments[idx],
		Confidence: confidence,
	}, nil
}
