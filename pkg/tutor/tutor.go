// Package tutor answers students' questions about the current experiment
// with a streamed Gemini completion.
package tutor

import (
	"context"

	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/optics"
)

// Question is a student question together with the lab state it refers to.
type Question struct {
	Text     string
	Lens     optics.Lens
	Distance float64
	Language narration.Language
}

// Chunk is one piece of a streamed answer.
type Chunk struct {
	Delta        string
	FinishReason string
	Done         bool
}

// Stream yields answer chunks until a chunk with Done set.
type Stream interface {
	Recv() (*Chunk, error)
	Close() error
}

// Tutor answers questions.
type Tutor interface {
	Ask(ctx context.Context, q Question) (Stream, error)
	Close() error
}

// Collect reads s to the end and returns the full answer.
func Collect(s Stream) (string, error) {
	defer s.Close()
	var out []byte
	for {
		chunk, err := s.Recv()
		if err != nil {
			return string(out), err
		}
		out = append(out, chunk.Delta...)
		if chunk.Done {
			return string(out), nil
		}
	}
}
