// Package tts synthesizes narration audio through hosted text-to-speech
// services.
//
// Providers return complete PCM buffers rather than streams: narration lines
// are short, and the caller needs the exact playback duration before it starts
// playing so it can hold the lab for that long.
//
//	provider, _ := tts.NewOpenAI(tts.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	defer provider.Close()
//
//	audio, _ := provider.Synthesize(ctx, tts.Request{Text: "u > 2f", Language: "en-US"})
//	// audio.Data is 24kHz mono PCM16, audio.Duration is its playback length
package tts

import (
	"context"
	"time"
)

// Provider converts text to speech.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// Synthesize returns the complete audio for one request.
	Synthesize(ctx context.Context, req Request) (*Audio, error)

	// Health checks connectivity and credentials.
	Health(ctx context.Context) error

	// Close releases idle connections.
	Close() error
}

// Request is one line of text to speak.
type Request struct {
	Text string

	// Language is a BCP 47 tag such as "zh-CN". Providers that cannot
	// select a language ignore it.
	Language string

	// Speed scales the speaking rate; 0 means 1.0.
	Speed float64
}

// Audio is a synthesized utterance.
type Audio struct {
	Data     []byte
	Format   Format
	Duration time.Duration
	Chars    int
	Latency  time.Duration
}

// Encoding names an output encoding.
type Encoding string

const (
	EncodingPCM16 Encoding = "pcm_16000"
	EncodingPCM22 Encoding = "pcm_22050"
	EncodingPCM24 Encoding = "pcm_24000"
	EncodingPCM44 Encoding = "pcm_44100"
)

// Format describes raw little-endian PCM audio.
type Format struct {
	Encoding   Encoding
	SampleRate int
	Channels   int
	BitDepth   int
}

// PCMFormat returns the mono 16-bit format for enc. Unknown encodings fall
// back to 24kHz.
func PCMFormat(enc Encoding) Format {
	rate := 24000
	switch enc {
	case EncodingPCM16:
		rate = 16000
	case EncodingPCM22:
		rate = 22050
	case EncodingPCM44:
		rate = 44100
	default:
		enc = EncodingPCM24
	}
	return Format{Encoding: enc, SampleRate: rate, Channels: 1, BitDepth: 16}
}

// Duration returns how long n bytes take to play.
func (f Format) Duration(n int) time.Duration {
	frame := f.Channels * f.BitDepth / 8
	if frame <= 0 || f.SampleRate <= 0 {
		return 0
	}
	samples := n / frame
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate)
}

// speed normalizes a requested speed into the range providers accept.
func speed(s float64) float64 {
	switch {
	case s <= 0:
		return 1
	case s < 0.25:
		return 0.25
	case s > 4:
		return 4
	default:
		return s
	}
}
