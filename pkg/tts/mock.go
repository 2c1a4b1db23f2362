package tts

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for tests. Nil func fields fall back to silence
// and success.
type Mock struct {
	SynthesizeFunc func(ctx context.Context, r Request) (*Audio, error)
	HealthFunc     func(ctx context.Context) error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records one invocation.
type MockCall struct {
	Method  string
	Request Request
}

// NewMock returns a mock that answers every request with silence lasting
// perRune per character.
func NewMock(perRune time.Duration) *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, r Request) (*Audio, error) {
			return Silence(len([]rune(r.Text)), perRune), nil
		},
	}
}

// MockWithError returns a mock whose every call fails with err.
func MockWithError(err error) *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, r Request) (*Audio, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Silence builds a 24kHz PCM buffer of chars*perRune.
func Silence(chars int, perRune time.Duration) *Audio {
	format := PCMFormat(EncodingPCM24)
	d := time.Duration(chars) * perRune
	samples := int(d * time.Duration(format.SampleRate) / time.Second)
	data := make([]byte, samples*2)
	return &Audio{
		Data:     data,
		Format:   format,
		Duration: format.Duration(len(data)),
		Chars:    chars,
	}
}

// Name implements Provider.
func (m *Mock) Name() string {
	return "mock"
}

// Synthesize records the call and delegates to SynthesizeFunc.
func (m *Mock) Synthesize(ctx context.Context, r Request) (*Audio, error) {
	m.record("Synthesize", r)
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, r)
	}
	return Silence(len([]rune(r.Text)), 0), nil
}

// Health records the call and delegates to HealthFunc.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health", Request{})
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close records the call.
func (m *Mock) Close() error {
	m.record("Close", Request{})
	return nil
}

func (m *Mock) record(method string, r Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Request: r})
}

// Calls returns a copy of the recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount counts calls to method.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

var _ Provider = (*Mock)(nil)
