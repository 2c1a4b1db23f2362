// Package config reads lenslab settings from the environment. Command-line
// flags in cmd/ override these values.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Defaults used when the environment is silent.
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultTTSProvider = "openai"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Config is the environment-derived configuration.
type Config struct {
	Port     string
	LogLevel string

	Language      string
	AudioEnabled  bool
	ScenariosFile string

	TTSProvider     string
	OpenAIKey       string
	ElevenLabsKey   string
	ElevenLabsVoice string

	GeminiKey   string
	GeminiModel string
}

// FromEnv reads the configuration from the process environment.
func FromEnv() Config {
	return Config{
		Port:     String("PORT", DefaultPort),
		LogLevel: String("LOG_LEVEL", DefaultLogLevel),

		Language:      String("LENSLAB_LANG", ""),
		AudioEnabled:  Bool("LENSLAB_AUDIO", true),
		ScenariosFile: String("LENSLAB_SCENARIOS", ""),

		TTSProvider:     strings.ToLower(String("TTS_PROVIDER", DefaultTTSProvider)),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ElevenLabsKey:   os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoice: String("ELEVENLABS_VOICE", os.Getenv("ELEVENLABS_VOICE_ID")),

		GeminiKey:   String("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		GeminiModel: String("GEMINI_MODEL", DefaultGeminiModel),
	}
}

// HasTTS reports whether the selected TTS provider has credentials.
func (c Config) HasTTS() bool {
	switch c.TTSProvider {
	case "openai":
		return c.OpenAIKey != ""
	case "elevenlabs":
		return c.ElevenLabsKey != "" && c.ElevenLabsVoice != ""
	case "mock":
		return true
	}
	return false
}

// String returns the trimmed value of key, or def when unset or blank.
func String(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Bool parses key with strconv.ParseBool, falling back to def.
func Bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
