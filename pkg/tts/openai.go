package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	openAIBaseURL  = "https://api.openai.com/v1"
	providerOpenAI = "openai"
)

// OpenAI voices and models.
const (
	VoiceAlloy   = "alloy"
	VoiceNova    = "nova"
	VoiceShimmer = "shimmer"

	ModelTTS1   = "tts-1"
	ModelTTS1HD = "tts-1-hd"
)

// OpenAI implements Provider for the OpenAI speech endpoint. The language is
// detected from the text.
type OpenAI struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	cfg := DefaultConfig()
	cfg.ModelID = ModelTTS1
	cfg.VoiceID = VoiceNova
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = VoiceNova
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIBaseURL
	}

	return &OpenAI{
		config:  cfg,
		client:  cfg.client(),
		logger:  cfg.Logger.With("component", "tts.openai"),
		baseURL: baseURL,
	}, nil
}

// Name implements Provider.
func (o *OpenAI) Name() string {
	return providerOpenAI
}

// Synthesize requests raw PCM, which the endpoint always returns at 24kHz.
func (o *OpenAI) Synthesize(ctx context.Context, r Request) (*Audio, error) {
	if r.Text == "" {
		return nil, WrapError(providerOpenAI, ErrEmptyText)
	}
	start := time.Now()

	body, err := json.Marshal(map[string]any{
		"model":           o.config.ModelID,
		"voice":           o.config.VoiceID,
		"input":           r.Text,
		"response_format": "pcm",
		"speed":           speed(r.Speed),
	})
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("marshal payload: %w", err))
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := postJSON(ctx, o.config, o.client, o.logger, providerOpenAI, o.baseURL+"/audio/speech", body, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("read response: %w", err))
	}

	format := PCMFormat(EncodingPCM24)
	audio := &Audio{
		Data:     data,
		Format:   format,
		Duration: format.Duration(len(data)),
		Chars:    len([]rune(r.Text)),
		Latency:  time.Since(start),
	}

	o.logger.Debug("synthesized audio",
		"chars", audio.Chars,
		"bytes", len(data),
		"duration", audio.Duration,
		"latency_ms", audio.Latency.Milliseconds(),
		"voice", o.config.VoiceID,
	)
	return audio, nil
}

// Health lists models to check the key.
func (o *OpenAI) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/models", nil)
	if err != nil {
		return WrapError(providerOpenAI, err)
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return WrapError(providerOpenAI, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseAPIError(providerOpenAI, resp)
	}
	return nil
}

// Close releases idle connections.
func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

var _ Provider = (*OpenAI)(nil)
