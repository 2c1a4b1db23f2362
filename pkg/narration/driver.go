package narration

import (
	"context"
	"time"
	"unicode/utf8"
)

// Utterance is one narration line handed to a speech driver.
type Utterance struct {
	ID       string
	Text     string
	Language Language
	Rate     float64
}

// Status is the terminal state of an utterance.
type Status int

const (
	StatusCompleted Status = iota
	StatusErrored
	StatusCancelled
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusErrored:
		return "errored"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome ends an utterance.
type Outcome struct {
	Status Status
	Err    error
}

// Driver speaks utterances.
//
// Speak must return immediately. The returned channel delivers exactly one
// Outcome and must never block the sender, so implementations either buffer
// it or close it after sending. Cancelling ctx stops playback and resolves
// the utterance as StatusCancelled.
type Driver interface {
	Speak(ctx context.Context, u Utterance) <-chan Outcome
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(ctx context.Context, u Utterance) <-chan Outcome

// Speak calls f(ctx, u).
func (f DriverFunc) Speak(ctx context.Context, u Utterance) <-chan Outcome {
	return f(ctx, u)
}

// Simulated hold timing, used when audio is off or speech fails.
const (
	SimulatedBase    = 1000 * time.Millisecond
	SimulatedPerRune = 150 * time.Millisecond
)

// SimulatedDuration estimates how long text takes to read aloud.
func SimulatedDuration(text string) time.Duration {
	return SimulatedBase + time.Duration(utf8.RuneCountInString(text))*SimulatedPerRune
}
