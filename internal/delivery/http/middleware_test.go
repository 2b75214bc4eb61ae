package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{"exact match", "http://localhost:5173", []string{"http://localhost:5173"}, true},
		{"wildcard match", "capacitor://localhost", []string{"capacitor://*"}, true},
		{"lan wildcard", "http://192.168.1.20:5173", []string{"http://192.168.*"}, true},
		{"second entry matches", "http://localhost:3000", []string{"capacitor://*", "http://localhost:3000"}, true},
		{"no match", "http://evil.com", []string{"capacitor://*"}, false},
		{"empty origin", "", []string{"*"}, false},
		{"empty allowed list", "http://localhost:5173", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{"allowed origin GET", "capacitor://localhost", http.MethodGet, http.StatusOK, true},
		{"allowed origin preflight", "capacitor://localhost", http.MethodOptions, http.StatusNoContent, true},
		{"disallowed origin", "http://evil.com", http.MethodGet, http.StatusOK, false},
		{"no origin header", "", http.MethodGet, http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"capacitor://*"}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				if corsHeader != tt.origin {
					t.Errorf("Access-Control-Allow-Origin = %s, want %s", corsHeader, tt.origin)
				}
				if w.Header().Get("Access-Control-Allow-Methods") == "" {
					t.Error("Access-Control-Allow-Methods not set")
				}
			} else if corsHeader != "" {
				t.Errorf("Access-Control-Allow-Origin should not be set, got %s", corsHeader)
			}
		})
	}
}

func TestCORSMiddleware_Credentials(t *testing.T) {
	tests := []struct {
		name            string
		allowedOrigins  []string
		origin          string
		wantCredentials bool
	}{
		{"exact entry allows credentials", []string{"http://localhost:5173"}, "http://localhost:5173", true},
		{"any origin wildcard", []string{"*"}, "http://evil.com", false},
		{"prefix wildcard", []string{"capacitor://*"}, "capacitor://localhost", false},
		{"exact entry wins over wildcard", []string{"*", "http://localhost:5173"}, "http://localhost:5173", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(tt.allowedOrigins))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.origin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.origin)
			}
			gotCredentials := w.Header().Get("Access-Control-Allow-Credentials") == "true"
			if gotCredentials != tt.wantCredentials {
				t.Errorf("credentials allowed = %v, want %v", gotCredentials, tt.wantCredentials)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(perMinute, burst int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimitMiddleware(perMinute, burst))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
		return router
	}

	do := func(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("rejects requests beyond the burst", func(t *testing.T) {
		router := newRouter(60, 2)

		for i := 0; i < 2; i++ {
			if w := do(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
				t.Fatalf("request %d: Status = %d, want %d", i, w.Code, http.StatusOK)
			}
		}

		w := do(router, "10.0.0.1:1234")
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusTooManyRequests)
		}
		if w.Header().Get("Retry-After") == "" {
			t.Error("Retry-After header not set")
		}
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		router := newRouter(60, 1)

		if w := do(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("first client: Status = %d, want %d", w.Code, http.StatusOK)
		}
		if w := do(router, "10.0.0.2:1234"); w.Code != http.StatusOK {
			t.Errorf("second client: Status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("zero disables limiting", func(t *testing.T) {
		router := newRouter(0, 0)

		for i := 0; i < 20; i++ {
			if w := do(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
				t.Fatalf("request %d: Status = %d, want %d", i, w.Code, http.StatusOK)
			}
		}
	})
}

func TestIPLimiter_ForgetsIdleClients(t *testing.T) {
	limiter := newIPLimiter(60, 1)
	start := time.Now()

	limiter.allow("10.0.0.1", start)
	limiter.allow("10.0.0.2", start)
	if len(limiter.limiters) != 2 {
		t.Fatalf("tracked clients = %d, want 2", len(limiter.limiters))
	}

	limiter.allow("10.0.0.3", start.Add(limiter.idleTTL+time.Minute))
	if len(limiter.limiters) != 1 {
		t.Errorf("tracked clients = %d, want 1 after idle sweep", len(limiter.limiters))
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
