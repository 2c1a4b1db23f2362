package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LENSLAB_LANG", "LENSLAB_AUDIO", "LENSLAB_SCENARIOS",
		"TTS_PROVIDER", "OPENAI_API_KEY", "ELEVENLABS_API_KEY", "ELEVENLABS_VOICE",
		"ELEVENLABS_VOICE_ID", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_MODEL",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.Port != DefaultPort || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.AudioEnabled {
		t.Error("expected audio on by default")
	}
	if cfg.TTSProvider != DefaultTTSProvider || cfg.HasTTS() {
		t.Errorf("expected openai without a key, got %+v", cfg)
	}
	if cfg.GeminiModel != DefaultGeminiModel {
		t.Errorf("unexpected model %q", cfg.GeminiModel)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LENSLAB_AUDIO", "false")
	t.Setenv("LENSLAB_LANG", "en-US")
	t.Setenv("TTS_PROVIDER", "ElevenLabs")
	t.Setenv("ELEVENLABS_API_KEY", "key")
	t.Setenv("ELEVENLABS_VOICE", "")
	t.Setenv("ELEVENLABS_VOICE_ID", "voice")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g")

	cfg := FromEnv()
	if cfg.Port != "9000" || cfg.AudioEnabled || cfg.Language != "en-US" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.TTSProvider != "elevenlabs" || !cfg.HasTTS() {
		t.Errorf("expected elevenlabs to be configured, got %+v", cfg)
	}
	if cfg.ElevenLabsVoice != "voice" || cfg.GeminiKey != "g" {
		t.Errorf("expected fallback keys, got %+v", cfg)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("FLAG", "nope")
	if !Bool("FLAG", true) {
		t.Error("expected the default for an unparsable value")
	}
	t.Setenv("FLAG", "1")
	if !Bool("FLAG", false) {
		t.Error("expected true")
	}
}
