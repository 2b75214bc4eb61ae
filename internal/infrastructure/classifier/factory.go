package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/yatralens/backend/internal/domain"
	"github.com/yatralens/backend/internal/logging"
)

// Unavailable is the classifier handle returned when the server could not be
// reached at start-up. Every call fails with ErrClassifierUnavailable, which
// routes recognition straight to the fallback.
type Unavailable struct {
	Cause error
}

// Classify implements domain.Classifier
func (u Unavailable) Classify(ctx context.Context, image []byte, topK int) ([]domain.Prediction, error) {
	if u.Cause == nil {
		return nil, domain.ErrClassifierUnavailable
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, u.Cause)
}

// New builds a client and waits for the server to report healthy, probing
// with exponential backoff. It returns a ready client, or an Unavailable
// handle when the server never becomes healthy or no BaseURL is configured.
func New(ctx context.Context, cfg Config) domain.Classifier {
	if cfg.BaseURL == "" {
		logging.Warn().Msg("no classifier base URL configured, recognition will use simulated results")
		return Unavailable{Cause: errors.New("classifier base URL not configured")}
	}

	client := NewClient(cfg)

	probes := cfg.StartupProbes
	if probes <= 0 {
		probes = 3
	}

	attempt := 0
	err := backoff.RetryNotify(
		func() error {
			attempt++
			return client.Health(ctx)
		},
		startupBackOff(ctx, probes),
		func(err error, wait time.Duration) {
			logging.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("classifier health check failed")
		},
	)
	if err != nil {
		logging.Error().Err(err).Str("base_url", cfg.BaseURL).Int("attempts", attempt).Msg("classifier unavailable")
		return Unavailable{Cause: err}
	}

	logging.Info().Str("base_url", cfg.BaseURL).Int("attempt", attempt).Msg("classifier ready")
	return client
}

// startupBackOff waits 500ms, 1s, 2s, ... capped at 8s between startup probes,
// allowing probes calls in total and stopping early when ctx is done
func startupBackOff(ctx context.Context, probes int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.Multiplier = 2
	b.MaxInterval = 8 * time.Second
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(probes-1)), ctx)
}
