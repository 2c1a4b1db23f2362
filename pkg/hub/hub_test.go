package hub_test

import (
	"context"
	"testing"
	"time"

	"github.com/teslashibe/lenslab/pkg/hub"
)

func TestRunStopsWithContext(t *testing.T) {
	h := hub.New("state")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !h.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("hub never started")
		}
		time.Sleep(time.Millisecond)
	}

	// Broadcasting without clients is fine.
	if err := h.BroadcastJSON(map[string]int{"v": 1}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if h.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", h.ClientCount())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if h.IsRunning() {
		t.Error("expected hub stopped")
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	h := hub.New("audio")
	// Nothing drains the queue; overflowing it must drop, not block.
	for i := 0; i < 1000; i++ {
		h.BroadcastBinary([]byte{byte(i)})
	}
}

func TestBroadcastJSONRejectsUnencodable(t *testing.T) {
	h := hub.New("state")
	if err := h.BroadcastJSON(make(chan int)); err == nil {
		t.Error("expected an encoding error")
	}
}

func TestMessageConstructors(t *testing.T) {
	if m := hub.NewTextMessage([]byte("{}")); m.Type != hub.TextMessage {
		t.Errorf("expected text message, got %v", m.Type)
	}
	if m := hub.NewBinaryMessage([]byte{1}); m.Type != hub.BinaryMessage {
		t.Errorf("expected binary message, got %v", m.Type)
	}
}
