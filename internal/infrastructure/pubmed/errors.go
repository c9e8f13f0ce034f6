package pubmed

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited indicates E-utilities rejected the request with 429.
	ErrRateLimited = errors.New("pubmed rate limit exceeded")

	// ErrInvalidResponse indicates a payload that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from pubmed")
)

// APIError is a non-success HTTP status returned by an E-utilities endpoint.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("pubmed %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("pubmed %s returned %d", e.Endpoint, e.StatusCode)
}

// IsRateLimited reports whether err came from a throttled request.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
