// Package speech speaks narration: it synthesizes each utterance with a
// tts.Provider and plays the audio through a Sink.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/tts"
)

// ErrNoAudio is reported when a provider returns an empty buffer.
var ErrNoAudio = errors.New("speech: provider returned no audio")

// Clip is one synthesized utterance ready to play.
type Clip struct {
	ID     string
	Text   string
	Audio  *tts.Audio
	Levels []float64
}

// Sink plays clips. Play blocks until the clip has finished playing or ctx
// is cancelled, in which case playback stops and ctx.Err() is returned.
type Sink interface {
	Play(ctx context.Context, clip Clip) error
}

// Driver implements narration.Driver.
type Driver struct {
	provider tts.Provider
	sink     Sink
	logger   *slog.Logger
}

// NewDriver creates a driver. logger may be nil.
func NewDriver(provider tts.Provider, sink Sink, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		provider: provider,
		sink:     sink,
		logger:   logger.With("component", "speech.driver"),
	}
}

// Speak synthesizes and plays u in the background.
func (d *Driver) Speak(ctx context.Context, u narration.Utterance) <-chan narration.Outcome {
	out := make(chan narration.Outcome, 1)
	go func() {
		out <- d.speak(ctx, u)
	}()
	return out
}

func (d *Driver) speak(ctx context.Context, u narration.Utterance) narration.Outcome {
	audio, err := d.provider.Synthesize(ctx, tts.Request{
		Text:     u.Text,
		Language: string(u.Language),
		Speed:    u.Rate,
	})
	if ctx.Err() != nil {
		return narration.Outcome{Status: narration.StatusCancelled, Err: ctx.Err()}
	}
	if err != nil {
		return d.failed(u, fmt.Errorf("synthesize: %w", err))
	}
	if audio == nil || len(audio.Data) == 0 {
		return d.failed(u, ErrNoAudio)
	}

	clip := Clip{
		ID:     u.ID,
		Text:   u.Text,
		Audio:  audio,
		Levels: Envelope(audio.Data, audio.Format),
	}

	d.logger.Debug("playing narration", "utterance", u.ID, "duration", audio.Duration, "provider", d.provider.Name())

	if err := d.sink.Play(ctx, clip); err != nil {
		if ctx.Err() != nil {
			return narration.Outcome{Status: narration.StatusCancelled, Err: ctx.Err()}
		}
		return d.failed(u, fmt.Errorf("play: %w", err))
	}
	return narration.Outcome{Status: narration.StatusCompleted}
}

func (d *Driver) failed(u narration.Utterance, err error) narration.Outcome {
	d.logger.Warn("narration speech failed", "utterance", u.ID, "error", err)
	return narration.Outcome{Status: narration.StatusErrored, Err: err}
}

var _ narration.Driver = (*Driver)(nil)
