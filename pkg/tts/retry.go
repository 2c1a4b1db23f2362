package tts

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// postJSON sends body and retries on transport errors, 429 and 5xx. The
// caller owns the returned response body, which always has status 200.
func postJSON(ctx context.Context, cfg *Config, client *http.Client, logger *slog.Logger,
	provider, url string, body []byte, header http.Header) (*http.Response, error) {

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, WrapError(provider, err)
		}
		req.Header = header.Clone()
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = WrapError(provider, err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		err = parseAPIError(provider, resp)
		resp.Body.Close()

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsRetryable() {
			logger.Warn("retrying request", "attempt", attempt+1, "status", apiErr.StatusCode)
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}
