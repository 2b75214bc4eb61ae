package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yatralens/backend/internal/domain"
	"github.com/yatralens/backend/internal/logging"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	healthProbeTimeout  = 2 * time.Second
)

// RecognitionUsecase is the behavior the handlers need from the recognition service
type RecognitionUsecase interface {
	Monuments() []domain.MonumentView
	Monument(key string) (*domain.MonumentView, error)
	History(ctx context.Context, limit int) ([]*domain.Recognition, error)
	Recognize(ctx context.Context, image []byte) (*domain.Recognition, error)
}

// HealthChecker reports whether a downstream dependency is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HandlerConfig holds optional handler settings
type HandlerConfig struct {
	MaxUploadBytes int64
	Classifier     HealthChecker
	Version        string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recognition    RecognitionUsecase
	classifier     HealthChecker
	maxUploadBytes int64
	version        string
}

// NewHandler creates a new HTTP handler.
// A nil recognition usecase makes recognition endpoints answer 503.
func NewHandler(recognition RecognitionUsecase, cfg HandlerConfig) *Handler {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 8 << 20
	}
	version := cfg.Version
	if version == "" {
		version = "1.0.0"
	}

	return &Handler{
		recognition:    recognition,
		classifier:     cfg.Classifier,
		maxUploadBytes: maxUpload,
		version:        version,
	}
}

// HealthCheck returns the health status of the API.
// The API stays healthy without a classifier since recognition falls back.
func (h *Handler) HealthCheck(c *gin.Context) {
	classifierStatus := "not_configured"
	if h.classifier != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()

		classifierStatus = "available"
		if err := h.classifier.Health(ctx); err != nil {
			classifierStatus = "unavailable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "yatralens-backend",
		"version":    h.version,
		"classifier": classifierStatus,
	})
}

// ListMonuments returns every catalog monument in catalog order
func (h *Handler) ListMonuments(c *gin.Context) {
	if h.recognition == nil {
		respondUnconfigured(c)
		return
	}

	monuments := h.recognition.Monuments()
	c.JSON(http.StatusOK, gin.H{
		"monuments": monuments,
		"count":     len(monuments),
	})
}

// GetMonument returns a single monument by key. Slugs like "taj-mahal" are accepted.
func (h *Handler) GetMonument(c *gin.Context) {
	if h.recognition == nil {
		respondUnconfigured(c)
		return
	}

	monument, err := h.recognition.Monument(normalizeKey(c.Param("key")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, monument)
}

// Recognize identifies the monument in an uploaded image (multipart field "image")
func (h *Handler) Recognize(c *gin.Context) {
	if h.recognition == nil {
		respondUnconfigured(c)
		return
	}

	image, err := h.readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.recognition.Recognize(c.Request.Context(), image)
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History returns recent recognitions, newest first
func (h *Handler) History(c *gin.Context) {
	if h.recognition == nil {
		respondUnconfigured(c)
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "limit must be a positive integer",
			})
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	recognitions, err := h.recognition.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recognitions": recognitions,
		"count":        len(recognitions),
	})
}

// readImage extracts the uploaded image bytes, enforcing the upload limit
func (h *Handler) readImage(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("image")
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, domain.ErrImageTooLarge
		}
		return nil, errors.Join(domain.ErrInvalidRequest, errors.New("multipart field 'image' is required"))
	}
	if header.Size > h.maxUploadBytes {
		return nil, domain.ErrImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidRequest, err)
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidRequest, err)
	}
	if int64(len(image)) > h.maxUploadBytes {
		return nil, domain.ErrImageTooLarge
	}
	if len(image) == 0 {
		return nil, errors.Join(domain.ErrInvalidRequest, errors.New("image is empty"))
	}

	return image, nil
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrImageTooLarge):
		status, message = http.StatusRequestEntityTooLarge, domain.ErrImageTooLarge.Error()
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, "image file is required"
	case errors.Is(err, domain.ErrMonumentNotFound):
		status, message = http.StatusNotFound, domain.ErrMonumentNotFound.Error()
	case errors.Is(err, domain.ErrRateLimited):
		status, message = http.StatusTooManyRequests, domain.ErrRateLimited.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusGatewayTimeout, "recognition timed out"
	case errors.Is(err, context.Canceled):
		// client went away; status is best effort
		status, message = http.StatusServiceUnavailable, "request cancelled"
	}

	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

func respondUnconfigured(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"success": false,
		"error":   "recognition service not configured",
	})
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// normalizeKey turns URL slugs into catalog keys
func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("-", " ", "_", " ").Replace(key)
}
