package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// GitHub-specific errors.
var (
	// ErrInvalidRepository indicates a malformed "owner/repo[@ref]" string.
	ErrInvalidRepository = errors.New("github: invalid repository")

	// ErrWatchUnsupported is returned by Watch; the source has no push channel.
	ErrWatchUnsupported = errors.New("github: watch is not supported")

	// ErrClosed is returned by operations on a closed source.
	ErrClosed = errors.New("github: source closed")

	// ErrTreeTruncated indicates the API returned a partial tree listing.
	ErrTreeTruncated = errors.New("github: repository tree truncated")

	// ErrFileTooLarge indicates a selected document exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("github: document too large")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
