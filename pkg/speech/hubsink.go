package speech

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/teslashibe/lenslab/pkg/hub"
)

// ClipHeader announces a clip on the audio hub. The PCM follows as one
// binary frame; a header with Stop set cancels playback in the browser.
type ClipHeader struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Text       string    `json:"text,omitempty"`
	SampleRate int       `json:"sample_rate,omitempty"`
	Channels   int       `json:"channels,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Levels     []float64 `json:"levels,omitempty"`
}

// Clip header types.
const (
	HeaderClip = "clip"
	HeaderStop = "stop"
)

// HubSink streams clips to browsers over a hub and waits out their duration
// on the given clock.
type HubSink struct {
	hub   *hub.Hub
	clock clock.Clock
}

// NewHubSink creates a sink. A nil clock uses the wall clock.
func NewHubSink(h *hub.Hub, c clock.Clock) *HubSink {
	if c == nil {
		c = clock.New()
	}
	return &HubSink{hub: h, clock: c}
}

// Play broadcasts the clip and returns once it has played.
func (s *HubSink) Play(ctx context.Context, clip Clip) error {
	err := s.hub.BroadcastJSON(ClipHeader{
		Type:       HeaderClip,
		ID:         clip.ID,
		Text:       clip.Text,
		SampleRate: clip.Audio.Format.SampleRate,
		Channels:   clip.Audio.Format.Channels,
		DurationMs: clip.Audio.Duration.Milliseconds(),
		Levels:     clip.Levels,
	})
	if err != nil {
		return err
	}
	s.hub.BroadcastBinary(clip.Audio.Data)

	timer := s.clock.Timer(clip.Audio.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		_ = s.hub.BroadcastJSON(ClipHeader{Type: HeaderStop, ID: clip.ID})
		return ctx.Err()
	}
}

var _ Sink = (*HubSink)(nil)
