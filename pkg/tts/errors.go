package tts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("tts: API key required")

	// ErrNoVoiceID is returned when a provider needs a voice and has none.
	ErrNoVoiceID = errors.New("tts: voice ID required")

	// ErrEmptyText is returned for a request with nothing to say.
	ErrEmptyText = errors.New("tts: empty text")

	// ErrProviderUnavailable is returned when no provider is configured.
	ErrProviderUnavailable = errors.New("tts: no providers available")

	// ErrUnknownProvider is returned by New for an unknown provider name.
	ErrUnknownProvider = errors.New("tts: unknown provider")
)

// APIError is an error response from a TTS service.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	Provider   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tts [%s]: API error %d (%s): %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tts [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsUnauthorized reports an authentication failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRetryable reports rate limiting or a server-side failure.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ProviderError adds the provider name to an error.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("tts [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError tags err with the provider name. nil stays nil.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}

// parseAPIError reads an error body. Both OpenAI ({"error":{"message"}}) and
// ElevenLabs ({"detail":{"message"}} or {"detail":"..."}) shapes are
// understood; anything else is reported verbatim.
func parseAPIError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
		Provider:   provider,
	}

	var shaped struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &shaped) != nil {
		return apiErr
	}

	switch {
	case shaped.Error.Message != "":
		apiErr.Message = shaped.Error.Message
		apiErr.Code = shaped.Error.Code
	case len(shaped.Detail) > 0:
		var detail struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		var text string
		if json.Unmarshal(shaped.Detail, &detail) == nil && detail.Message != "" {
			apiErr.Message = detail.Message
			apiErr.Code = detail.Status
		} else if json.Unmarshal(shaped.Detail, &text) == nil && text != "" {
			apiErr.Message = text
		}
	}
	return apiErr
}
