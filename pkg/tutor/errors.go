package tutor

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("tutor: API key required")

	// ErrNoModel is returned when the model is missing.
	ErrNoModel = errors.New("tutor: model required")

	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New("tutor: question is empty")

	// ErrUnavailable is returned when no tutor is configured.
	ErrUnavailable = errors.New("tutor: unavailable")

	// ErrStreamClosed is returned when reading from a closed stream.
	ErrStreamClosed = errors.New("tutor: stream closed")
)

// APIError is an error response from the model API.
type APIError struct {
	StatusCode int
	Message    string
	Status     string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("tutor: API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("tutor: API error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited returns true for HTTP 429.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsUnauthorized returns true when the key was rejected.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
