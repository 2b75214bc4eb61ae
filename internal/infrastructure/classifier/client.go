// Package classifier talks to the image-classification server that backs
// monument recognition.
package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/yatralens/backend/internal/domain"
	"github.com/yatralens/backend/internal/logging"
	"github.com/yatralens/backend/internal/metrics"
)

const maxErrorBody = 4 << 10

// Config holds classifier client settings
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int

	// Circuit breaker: trips after FailureThreshold consecutive failures and
	// stays open for OpenTimeout
	FailureThreshold uint32
	OpenTimeout      time.Duration

	// StartupProbes is how many health checks New makes before giving up
	StartupProbes int
}

// Client handles communication with the classification server
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]domain.Prediction]
	debug       bool
}

// NewClient creates a new classifier client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]domain.Prediction](gobreaker.Settings{
		Name:        "classifier",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Rejected images and callers that hang up say nothing about the server's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("classifier circuit breaker state changed")
		},
	})

	return c
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Health checks that the classification server has its model loaded
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", domain.ErrClassifierUnavailable, resp.StatusCode)
	}
	return nil
}

// Classify sends image to the server and returns up to topK predictions,
// highest probability first
func (c *Client) Classify(ctx context.Context, image []byte, topK int) ([]domain.Prediction, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	start := time.Now()

	// Limiter rejections stay outside the breaker
	if err := c.rateLimiter.Wait(ctx); err != nil {
		metrics.RecordClassifierCall("rate_limited", time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrClassifierFailure, err)
	}

	predictions, err := c.breaker.Execute(func() ([]domain.Prediction, error) {
		return c.classify(ctx, image, topK)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordClassifierCall("circuit_open", time.Since(start))
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	case err != nil:
		metrics.RecordClassifierCall("error", time.Since(start))
		return nil, err
	}

	metrics.RecordClassifierCall("ok", time.Since(start))
	return predictions, nil
}

func (c *Client) classify(ctx context.Context, image []byte, topK int) ([]domain.Prediction, error) {
	body, contentType, err := encodeImage(image)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("top_k", strconv.Itoa(topK))
	reqURL := fmt.Sprintf("%s/v1/classify?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	if c.debug {
		logging.Debug().Str("url", reqURL).Int("bytes", len(image)).Msg("classify request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrClassifierFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logging.Warn().Int("status", resp.StatusCode).Str("body", string(msg)).Msg("classifier returned error status")

		switch {
		case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnsupportedMediaType:
			return nil, fmt.Errorf("%w: classifier rejected image (status %d)", domain.ErrInvalidRequest, resp.StatusCode)
		case resp.StatusCode == http.StatusServiceUnavailable:
			return nil, fmt.Errorf("%w: status %d", domain.ErrClassifierUnavailable, resp.StatusCode)
		default:
			return nil, fmt.Errorf("%w: status %d", domain.ErrClassifierFailure, resp.StatusCode)
		}
	}

	var payload classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrClassifierFailure, err)
	}

	predictions := mapPredictions(payload, topK)
	if c.debug {
		logging.Debug().Int("predictions", len(predictions)).Str("model", payload.Model).Msg("classify response")
	}
	return predictions, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "YatraLens/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}

// encodeImage wraps the image in a multipart form under the "image" field
func encodeImage(image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return nil, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
