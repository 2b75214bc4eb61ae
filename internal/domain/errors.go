package domain

import "errors"

var (
	// ErrClassifierUnavailable is returned when the image classifier could not be initialized
	ErrClassifierUnavailable = errors.New("image classifier unavailable")

	// ErrClassifierFailure is returned when a single classify call fails
	ErrClassifierFailure = errors.New("image classifier request failed")

	// ErrNoConfidentMatch is returned when no monument scores above the confidence threshold
	ErrNoConfidentMatch = errors.New("no monument matched with enough confidence")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrImageTooLarge is returned when an uploaded image exceeds the configured limit
	ErrImageTooLarge = errors.New("image exceeds maximum upload size")

	// ErrMonumentNotFound is returned when a catalog key does not exist
	ErrMonumentNotFound = errors.New("monument not found in catalog")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
