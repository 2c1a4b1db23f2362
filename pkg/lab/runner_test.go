package lab_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/lenslab/pkg/lab"
)

func TestRunnerDrivesFrames(t *testing.T) {
	l, mock := newLab(lab.WithAudio(false))
	_ = l.SetObjectDistance(300)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- lab.NewRunner(l, 0).Run(ctx)
	}()

	l.Play()

	// Skip past the opening narration hold, then wait for motion.
	deadline := time.Now().Add(5 * time.Second)
	for l.Snapshot().Object.Distance >= 300 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("runner never moved the object")
		}
		mock.Add(100 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}
