package tutor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Gemini streams answers from Google's Gemini API.
type Gemini struct {
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// NewGemini creates a Gemini tutor.
func NewGemini(opts ...Option) (*Gemini, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Gemini{
		config: cfg,
		http:   cfg.client(),
		logger: cfg.Logger.With("component", "tutor.gemini"),
	}, nil
}

// Ask streams the answer to q.
func (g *Gemini) Ask(ctx context.Context, q Question) (Stream, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, ErrEmptyQuestion
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": Prompt(q)},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     g.config.Temperature,
			"maxOutputTokens": g.config.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("tutor: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", g.config.BaseURL, g.config.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tutor: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tutor: stream request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseError(resp)
	}

	g.logger.Debug("tutor stream opened", "model", g.config.Model, "latency", time.Since(start))

	return &sseStream{
		reader: bufio.NewReader(resp.Body),
		body:   resp.Body,
	}, nil
}

// Close releases idle connections.
func (g *Gemini) Close() error {
	g.http.CloseIdleConnections()
	return nil
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		apiErr.Message = errResp.Error.Message
		apiErr.Status = errResp.Error.Status
	}
	return apiErr
}

// sseStream reads server-sent Gemini events.
type sseStream struct {
	reader *bufio.Reader
	body   io.ReadCloser

	mu     sync.Mutex
	closed bool
}

// Recv returns the next chunk.
func (s *sseStream) Recv() (*Chunk, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrStreamClosed
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err == io.EOF && strings.TrimSpace(line) == "" {
			return &Chunk{Done: true}, nil
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("tutor: read stream: %w", err)
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			if err == io.EOF {
				return &Chunk{Done: true}, nil
			}
			continue
		}

		var event streamEvent
		if jerr := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &event); jerr != nil {
			// Skip malformed events
			continue
		}
		if event.Error.Message != "" {
			return nil, &APIError{StatusCode: event.Error.Code, Message: event.Error.Message, Status: event.Error.Status}
		}
		if len(event.Candidates) == 0 {
			continue
		}

		cand := event.Candidates[0]
		var text strings.Builder
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
		return &Chunk{
			Delta:        text.String(),
			FinishReason: cand.FinishReason,
			Done:         cand.FinishReason != "" || err == io.EOF,
		}, nil
	}
}

// Close stops the stream.
func (s *sseStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

type streamEvent struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

var _ Tutor = (*Gemini)(nil)
