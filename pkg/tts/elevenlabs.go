package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	elevenLabsBaseURL  = "https://api.elevenlabs.io/v1"
	providerElevenLabs = "elevenlabs"
)

// ElevenLabs models that accept an explicit language code.
const (
	ModelFlashV2_5      = "eleven_flash_v2_5"
	ModelTurboV2_5      = "eleven_turbo_v2_5"
	ModelMultilingualV2 = "eleven_multilingual_v2"
)

// ElevenLabs implements Provider for the ElevenLabs text-to-speech API.
type ElevenLabs struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewElevenLabs creates an ElevenLabs provider. A voice is required.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	cfg := DefaultConfig()
	cfg.ModelID = ModelFlashV2_5
	cfg.Apply(opts...)

	if err := cfg.ValidateWithVoice(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}

	return &ElevenLabs{
		config:  cfg,
		client:  cfg.client(),
		logger:  cfg.Logger.With("component", "tts.elevenlabs"),
		baseURL: baseURL,
	}, nil
}

// Name implements Provider.
func (e *ElevenLabs) Name() string {
	return providerElevenLabs
}

// Synthesize requests PCM in the configured sample rate.
func (e *ElevenLabs) Synthesize(ctx context.Context, r Request) (*Audio, error) {
	if r.Text == "" {
		return nil, WrapError(providerElevenLabs, ErrEmptyText)
	}
	start := time.Now()

	format := PCMFormat(e.config.OutputFormat)
	endpoint := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s",
		e.baseURL, url.PathEscape(e.config.VoiceID), format.Encoding)

	payload := map[string]any{
		"text":     r.Text,
		"model_id": e.config.ModelID,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
			// The API accepts 0.7 to 1.2.
			"speed": math.Max(0.7, math.Min(1.2, speed(r.Speed))),
		},
	}
	if code := languageCode(r.Language); code != "" {
		payload["language_code"] = code
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("marshal payload: %w", err))
	}

	header := http.Header{}
	header.Set("xi-api-key", e.config.APIKey)
	header.Set("Accept", "audio/pcm")

	resp, err := postJSON(ctx, e.config, e.client, e.logger, providerElevenLabs, endpoint, body, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("read response: %w", err))
	}

	audio := &Audio{
		Data:     data,
		Format:   format,
		Duration: format.Duration(len(data)),
		Chars:    len([]rune(r.Text)),
		Latency:  time.Since(start),
	}

	e.logger.Debug("synthesized audio",
		"chars", audio.Chars,
		"bytes", len(data),
		"duration", audio.Duration,
		"latency_ms", audio.Latency.Milliseconds(),
		"model", e.config.ModelID,
	)
	return audio, nil
}

// Health fetches the account to check the key.
func (e *ElevenLabs) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/user", nil)
	if err != nil {
		return WrapError(providerElevenLabs, err)
	}
	req.Header.Set("xi-api-key", e.config.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return WrapError(providerElevenLabs, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseAPIError(providerElevenLabs, resp)
	}
	return nil
}

// Close releases idle connections.
func (e *ElevenLabs) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// languageCode reduces a BCP 47 tag to the ISO 639-1 code ElevenLabs expects.
func languageCode(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

var _ Provider = (*ElevenLabs)(nil)
