package tutor

import (
	"context"
	"strings"
	"sync"
)

// Mock implements Tutor for testing.
type Mock struct {
	// AskFunc is called when Ask is invoked. When nil the mock streams
	// Answer split on spaces.
	AskFunc func(ctx context.Context, q Question) (Stream, error)

	// Answer is the default reply.
	Answer string

	mu    sync.Mutex
	calls []Question
}

// NewMock creates a mock that replies with answer.
func NewMock(answer string) *Mock {
	return &Mock{Answer: answer}
}

// Ask records q and returns a stream.
func (m *Mock) Ask(ctx context.Context, q Question) (Stream, error) {
	m.mu.Lock()
	m.calls = append(m.calls, q)
	m.mu.Unlock()

	if m.AskFunc != nil {
		return m.AskFunc(ctx, q)
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, ErrEmptyQuestion
	}
	return NewSliceStream(strings.SplitAfter(m.Answer, " ")...), nil
}

// Close does nothing.
func (m *Mock) Close() error { return nil }

// Calls returns the recorded questions.
func (m *Mock) Calls() []Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Question, len(m.calls))
	copy(out, m.calls)
	return out
}

// SliceStream replays fixed deltas.
type SliceStream struct {
	deltas []string
	closed bool
}

// NewSliceStream returns a stream that yields each delta then Done.
func NewSliceStream(deltas ...string) *SliceStream {
	return &SliceStream{deltas: deltas}
}

// Recv returns the next delta.
func (s *SliceStream) Recv() (*Chunk, error) {
	if s.closed {
		return nil, ErrStreamClosed
	}
	if len(s.deltas) == 0 {
		return &Chunk{Done: true, FinishReason: "STOP"}, nil
	}
	d := s.deltas[0]
	s.deltas = s.deltas[1:]
	return &Chunk{Delta: d}, nil
}

// Close marks the stream closed.
func (s *SliceStream) Close() error {
	s.closed = true
	return nil
}

var _ Tutor = (*Mock)(nil)
