package classifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatralens/backend/internal/domain"
)

var testImage = []byte("\xff\xd8\xff\xe0fake-jpeg")

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		APIKey:            "test-api-key",
		Timeout:           2 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
		FailureThreshold:  2,
		OpenTimeout:       time.Minute,
		StartupProbes:     1,
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://classifier.example.com", APIKey: "k"})

	assert.NotNil(t, client)
	assert.Equal(t, "k", client.apiKey)
	assert.Equal(t, "https://classifier.example.com", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
	assert.NotNil(t, client.breaker)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://classifier.example.com"})

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestClassify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/classify", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("top_k"))
		assert.Equal(t, "test-api-key", r.Header.Get("X-API-Key"))

		file, _, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Equal(t, testImage, data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"mobilenet_v2","predictions":[
			{"label":"palace","probability":0.21},
			{"className":"mosque","probability":0.62},
			{"label":"","probability":0.1}
		]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	predictions, err := client.Classify(context.Background(), testImage, 5)

	require.NoError(t, err)
	require.Len(t, predictions, 2)
	assert.Equal(t, domain.Prediction{Label: "mosque", Probability: 0.62}, predictions[0])
	assert.Equal(t, domain.Prediction{Label: "palace", Probability: 0.21}, predictions[1])
}

func TestClassify_EmptyImage(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:1"))

	_, err := client.Classify(context.Background(), nil, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestClassify_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"bad request", http.StatusBadRequest, domain.ErrInvalidRequest},
		{"unsupported media", http.StatusUnsupportedMediaType, domain.ErrInvalidRequest},
		{"model loading", http.StatusServiceUnavailable, domain.ErrClassifierUnavailable},
		{"server error", http.StatusInternalServerError, domain.ErrClassifierFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL))
			_, err := client.Classify(context.Background(), testImage, 5)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClassify_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Classify(context.Background(), testImage, 5)
	assert.ErrorIs(t, err, domain.ErrClassifierFailure)
}

func TestClassify_CircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Classify(ctx, testImage, 5)
		assert.ErrorIs(t, err, domain.ErrClassifierFailure)
	}

	_, err := client.Classify(ctx, testImage, 5)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	assert.Equal(t, int32(2), hits.Load(), "open breaker must not reach the server")
}

func TestClassify_RejectedImagesDoNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	for i := 0; i < 5; i++ {
		_, err := client.Classify(context.Background(), testImage, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	}
}

func TestClassify_CancelledCallersDoNotTripBreaker(t *testing.T) {
	var block atomic.Bool
	block.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if block.Load() {
			<-r.Context().Done()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[{"label":"palace","probability":0.9}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	t.Run("already cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		for i := 0; i < 5; i++ {
			_, err := client.Classify(ctx, testImage, 5)
			assert.ErrorIs(t, err, context.Canceled)
		}
	})

	t.Run("cancelled in flight", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			ctx, cancel := context.WithCancel(context.Background())
			time.AfterFunc(20*time.Millisecond, cancel)
			_, err := client.Classify(ctx, testImage, 5)
			assert.ErrorIs(t, err, context.Canceled)
			cancel()
		}
	})

	block.Store(false)
	predictions, err := client.Classify(context.Background(), testImage, 5)
	require.NoError(t, err)
	assert.Len(t, predictions, 1)
}

func TestClassify_RateLimiterRejectionsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[{"label":"dome","probability":0.7}]}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RequestsPerSecond = 0.5
	cfg.Burst = 1
	client := NewClient(cfg)

	_, err := client.Classify(context.Background(), testImage, 5)
	require.NoError(t, err)

	// The bucket is empty and refills in 2s, past every deadline below
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := client.Classify(ctx, testImage, 5)
		cancel()
		assert.True(t, errors.Is(err, domain.ErrClassifierFailure) || errors.Is(err, context.DeadlineExceeded), "err = %v", err)
		assert.NotErrorIs(t, err, domain.ErrClassifierUnavailable)
	}
	assert.Equal(t, int32(1), hits.Load(), "rejected calls must not reach the server")

	assert.Equal(t, "closed", client.breaker.State().String())
}

func TestClassify_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Classify(ctx, testImage, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassifierFailure) || errors.Is(err, context.DeadlineExceeded))
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		assert.NoError(t, NewClient(testConfig(server.URL)).Health(context.Background()))
	})

	t.Run("loading", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		err := NewClient(testConfig(server.URL)).Health(context.Background())
		assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	})
}
