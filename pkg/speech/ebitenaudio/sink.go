// Package ebitenaudio plays narration clips on the local speaker through
// Ebitengine's audio context.
package ebitenaudio

import (
	"context"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/teslashibe/lenslab/pkg/speech"
)

// SampleRate is the audio context rate. Clips are resampled to it.
const SampleRate = 48000

const pollInterval = 20 * time.Millisecond

// Sink implements speech.Sink on the process-wide audio context.
type Sink struct {
	ctx *audio.Context

	mu      sync.Mutex
	current *audio.Player
	levels  []float64
}

// New returns a sink on the existing audio context, creating one at
// SampleRate if none exists yet.
func New() *Sink {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(SampleRate)
	}
	return &Sink{ctx: ctx}
}

// Play plays the clip and blocks until it ends or ctx is cancelled.
func (s *Sink) Play(ctx context.Context, clip speech.Clip) error {
	data := speech.ToStereo(clip.Audio.Data, clip.Audio.Format.SampleRate, s.ctx.SampleRate())
	p := s.ctx.NewPlayerFromBytes(data)

	s.mu.Lock()
	s.current = p
	s.levels = clip.Levels
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.current == p {
			s.current = nil
			s.levels = nil
		}
		s.mu.Unlock()
		p.Close()
	}()

	p.Play()

	// Never wait much past the clip even if the device stalls.
	deadline := time.NewTimer(clip.Audio.Duration + time.Second)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
			if !p.IsPlaying() {
				return nil
			}
		}
	}
}

// Level returns the loudness of the clip at the current playback position,
// or 0 when nothing plays. Safe to call from the draw loop.
func (s *Sink) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return speech.LevelAt(s.levels, s.current.Position())
}

var _ speech.Sink = (*Sink)(nil)
