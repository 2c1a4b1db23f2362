// Package setup turns configuration and saved preferences into the
// services both lenslab commands share.
package setup

import (
	"errors"
	"log/slog"

	"github.com/teslashibe/lenslab/internal/config"
	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/prefs"
	"github.com/teslashibe/lenslab/pkg/tts"
	"github.com/teslashibe/lenslab/pkg/tutor"
)

// ErrNoSpeech is returned when no TTS provider has credentials.
var ErrNoSpeech = errors.New("setup: no TTS provider configured")

// Language picks the narration language: the flag, then the environment,
// then the saved preference.
func Language(flagValue string, cfg config.Config, p prefs.Prefs) narration.Language {
	for _, v := range []string{flagValue, cfg.Language} {
		if v == "" {
			continue
		}
		if lang, err := narration.ParseLanguage(v); err == nil {
			return lang
		}
	}
	if _, err := narration.CatalogFor(p.Language); err == nil {
		return p.Language
	}
	return narration.DefaultLanguage
}

// Speech builds the TTS provider. The configured provider comes first and
// any other provider with credentials becomes its fallback. voice, when
// set, overrides the configured voice.
func Speech(cfg config.Config, voice string, logger *slog.Logger) (tts.Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTSProvider == tts.ProviderMock {
		return tts.New(tts.ProviderMock)
	}

	build := map[string]func() (tts.Provider, error){}
	if cfg.OpenAIKey != "" {
		build[tts.ProviderOpenAI] = func() (tts.Provider, error) {
			opts := []tts.Option{tts.WithAPIKey(cfg.OpenAIKey), tts.WithLogger(logger)}
			if voice != "" && cfg.TTSProvider == tts.ProviderOpenAI {
				opts = append(opts, tts.WithVoice(voice))
			}
			return tts.New(tts.ProviderOpenAI, opts...)
		}
	}
	if cfg.ElevenLabsKey != "" {
		build[tts.ProviderElevenLabs] = func() (tts.Provider, error) {
			v := cfg.ElevenLabsVoice
			if voice != "" && cfg.TTSProvider == tts.ProviderElevenLabs {
				v = voice
			}
			return tts.New(tts.ProviderElevenLabs,
				tts.WithAPIKey(cfg.ElevenLabsKey), tts.WithVoice(v), tts.WithLogger(logger))
		}
	}

	order := []string{cfg.TTSProvider}
	for _, name := range []string{tts.ProviderOpenAI, tts.ProviderElevenLabs} {
		if name != cfg.TTSProvider {
			order = append(order, name)
		}
	}

	var providers []tts.Provider
	for _, name := range order {
		fn, ok := build[name]
		if !ok {
			continue
		}
		p, err := fn()
		if err != nil {
			logger.Warn("skipping TTS provider", "provider", name, "error", err)
			continue
		}
		providers = append(providers, p)
	}

	switch len(providers) {
	case 0:
		return nil, ErrNoSpeech
	case 1:
		return providers[0], nil
	}
	return tts.NewChain(logger, providers...)
}

// Tutor builds the Gemini tutor, or returns nil when no key is set.
func Tutor(cfg config.Config, logger *slog.Logger) tutor.Tutor {
	if cfg.GeminiKey == "" {
		return nil
	}
	t, err := tutor.NewGemini(
		tutor.WithAPIKey(cfg.GeminiKey),
		tutor.WithModel(cfg.GeminiModel),
		tutor.WithLogger(logger),
	)
	if err != nil {
		if logger != nil {
			logger.Warn("tutor disabled", "error", err)
		}
		return nil
	}
	return t
}
