package speech_test

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/teslashibe/lenslab/pkg/hub"
	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/speech"
	"github.com/teslashibe/lenslab/pkg/tts"
)

type fakeSink struct {
	clips []speech.Clip
	play  func(ctx context.Context) error
}

func (s *fakeSink) Play(ctx context.Context, clip speech.Clip) error {
	s.clips = append(s.clips, clip)
	if s.play != nil {
		return s.play(ctx)
	}
	return nil
}

func utterance() narration.Utterance {
	return narration.Utterance{ID: "u1", Text: "凹透镜", Language: narration.Chinese, Rate: 0.9}
}

func wait(t *testing.T, ch <-chan narration.Outcome) narration.Outcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome")
		return narration.Outcome{}
	}
}

func TestDriverCompleted(t *testing.T) {
	mock := tts.NewMock(10 * time.Millisecond)
	sink := &fakeSink{}
	d := speech.NewDriver(mock, sink, nil)

	out := wait(t, d.Speak(context.Background(), utterance()))
	if out.Status != narration.StatusCompleted {
		t.Fatalf("expected completed, got %s (%v)", out.Status, out.Err)
	}

	if len(sink.clips) != 1 || sink.clips[0].ID != "u1" {
		t.Fatalf("unexpected clips %+v", sink.clips)
	}
	req := mock.Calls()[0].Request
	if req.Language != "zh-CN" || req.Speed != 0.9 || req.Text != "凹透镜" {
		t.Errorf("unexpected request %+v", req)
	}
	if len(sink.clips[0].Levels) == 0 {
		t.Error("expected a loudness envelope")
	}
}

func TestDriverSynthesisError(t *testing.T) {
	d := speech.NewDriver(tts.MockWithError(errors.New("quota")), &fakeSink{}, nil)
	out := wait(t, d.Speak(context.Background(), utterance()))
	if out.Status != narration.StatusErrored || out.Err == nil {
		t.Errorf("expected errored outcome, got %+v", out)
	}
}

func TestDriverEmptyAudio(t *testing.T) {
	mock := &tts.Mock{SynthesizeFunc: func(ctx context.Context, r tts.Request) (*tts.Audio, error) {
		return &tts.Audio{}, nil
	}}
	d := speech.NewDriver(mock, &fakeSink{}, nil)
	out := wait(t, d.Speak(context.Background(), utterance()))
	if !errors.Is(out.Err, speech.ErrNoAudio) {
		t.Errorf("expected ErrNoAudio, got %+v", out)
	}
}

func TestDriverSinkError(t *testing.T) {
	sink := &fakeSink{play: func(ctx context.Context) error { return errors.New("no device") }}
	d := speech.NewDriver(tts.NewMock(time.Millisecond), sink, nil)
	out := wait(t, d.Speak(context.Background(), utterance()))
	if out.Status != narration.StatusErrored {
		t.Errorf("expected errored, got %s", out.Status)
	}
}

func TestDriverCancelled(t *testing.T) {
	started := make(chan struct{})
	sink := &fakeSink{play: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}
	d := speech.NewDriver(tts.NewMock(time.Millisecond), sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ch := d.Speak(ctx, utterance())
	<-started
	cancel()

	if out := wait(t, ch); out.Status != narration.StatusCancelled {
		t.Errorf("expected cancelled, got %s", out.Status)
	}
}

func TestHubSinkWaitsForDuration(t *testing.T) {
	mock := clock.NewMock()
	sink := speech.NewHubSink(hub.New("audio"), mock)
	clip := speech.Clip{ID: "c1", Audio: tts.Silence(10, 100*time.Millisecond)}

	done := make(chan error, 1)
	go func() {
		done <- sink.Play(context.Background(), clip)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("play: %v", err)
			}
			if mock.Now().Before(time.Unix(0, 0).Add(time.Second)) {
				t.Errorf("returned before the clip finished: %v", mock.Now())
			}
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("play never returned")
		}
		mock.Add(50 * time.Millisecond)
	}
}

func TestHubSinkCancel(t *testing.T) {
	sink := speech.NewHubSink(hub.New("audio"), clock.NewMock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Play(ctx, speech.Clip{ID: "c1", Audio: tts.Silence(10, time.Second)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func sine(n, rate int, amp float64) []byte {
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := int16(amp * 32767 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

func TestEnvelope(t *testing.T) {
	format := tts.PCMFormat(tts.EncodingPCM24)

	silent := speech.Envelope(make([]byte, 48000), format)
	if len(silent) != 100 {
		t.Fatalf("expected 100 hops for 1s, got %d", len(silent))
	}
	for _, v := range silent {
		if v != 0 {
			t.Fatalf("expected silence to be 0, got %v", v)
		}
	}

	loud := speech.Envelope(sine(24000, 24000, 0.8), format)
	if got := speech.LevelAt(loud, 500*time.Millisecond); got < 0.9 {
		t.Errorf("expected a loud level, got %v", got)
	}
	if got := speech.LevelAt(loud, 5*time.Second); got != 0 {
		t.Errorf("expected 0 past the end, got %v", got)
	}
	if speech.Envelope(nil, format) != nil {
		t.Error("expected nil for empty audio")
	}
}

func TestToStereo(t *testing.T) {
	mono := sine(2400, 24000, 0.5)

	same := speech.ToStereo(mono, 24000, 24000)
	if len(same) != len(mono)*2 {
		t.Errorf("expected %d bytes, got %d", len(mono)*2, len(same))
	}
	if binary.LittleEndian.Uint16(same[4:]) != binary.LittleEndian.Uint16(same[6:]) {
		t.Error("expected identical left and right samples")
	}

	up := speech.ToStereo(mono, 24000, 48000)
	if len(up) != 4800*4 {
		t.Errorf("expected 4800 stereo frames, got %d bytes", len(up))
	}
}
