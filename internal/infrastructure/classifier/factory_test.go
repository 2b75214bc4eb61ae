package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatralens/backend/internal/domain"
)

func TestNew_ReturnsClientWhenHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	got := New(context.Background(), testConfig(server.URL))

	_, ok := got.(*Client)
	assert.True(t, ok, "got %T, want *Client", got)
}

func TestNew_ReturnsUnavailableWhenUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	got := New(context.Background(), testConfig(server.URL))

	u, ok := got.(Unavailable)
	require.True(t, ok, "got %T, want Unavailable", got)
	assert.ErrorIs(t, u.Cause, domain.ErrClassifierUnavailable)

	_, err := got.Classify(context.Background(), testImage, 5)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
}

func TestNew_WithoutBaseURL(t *testing.T) {
	got := New(context.Background(), Config{})

	_, ok := got.(Unavailable)
	assert.True(t, ok)
}

func TestNew_RespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(server.URL)
	cfg.StartupProbes = 5
	got := New(ctx, cfg)

	_, ok := got.(Unavailable)
	assert.True(t, ok)
}

func TestUnavailable_NilCause(t *testing.T) {
	_, err := Unavailable{}.Classify(context.Background(), testImage, 5)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
}

func TestStartupBackOff(t *testing.T) {
	t.Run("doubles up to the health check budget", func(t *testing.T) {
		b := startupBackOff(context.Background(), 4)

		assert.Equal(t, 500*time.Millisecond, b.NextBackOff())
		assert.Equal(t, time.Second, b.NextBackOff())
		assert.Equal(t, 2*time.Second, b.NextBackOff())
		assert.Equal(t, backoff.Stop, b.NextBackOff())
	})

	t.Run("caps the interval", func(t *testing.T) {
		b := startupBackOff(context.Background(), 10)

		var last time.Duration
		for i := 0; i < 9; i++ {
			last = b.NextBackOff()
		}
		assert.Equal(t, 8*time.Second, last)
	})

	t.Run("single health check never waits", func(t *testing.T) {
		assert.Equal(t, backoff.Stop, startupBackOff(context.Background(), 1).NextBackOff())
	})

	t.Run("stops once the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Equal(t, backoff.Stop, startupBackOff(ctx, 5).NextBackOff())
	})
}

func TestNew_RetriesUntilHealthy(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.StartupProbes = 3
	got := New(context.Background(), cfg)

	_, ok := got.(*Client)
	assert.True(t, ok, "got %T, want *Client", got)
	assert.Equal(t, int32(2), calls.Load())
}
