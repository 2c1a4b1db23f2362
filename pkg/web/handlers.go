package web

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/lenslab/pkg/lab"
	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/optics"
	"github.com/teslashibe/lenslab/pkg/prefs"
	"github.com/teslashibe/lenslab/pkg/scenario"
	"github.com/teslashibe/lenslab/pkg/tutor"
)

var errBadRequest = errors.New("web: bad request")

// ValueRequest sets a numeric parameter.
type ValueRequest struct {
	Value *float64 `json:"value"`
}

// LensRequest switches the lens type.
type LensRequest struct {
	Type string `json:"type"`
}

// AudioRequest toggles spoken narration.
type AudioRequest struct {
	Enabled *bool `json:"enabled"`
}

// LanguageRequest switches the narration language.
type LanguageRequest struct {
	Language string `json:"language"`
}

// AskRequest is a tutor question. Preset "analyze" asks for an analysis of
// the current image when Question is empty.
type AskRequest struct {
	Question string `json:"question"`
	Preset   string `json:"preset"`
}

// ScenarioInfo lists one scenario with its title in the lab's language.
type ScenarioInfo struct {
	scenario.Scenario
	Title string      `json:"title"`
	Zone  optics.Zone `json:"zone"`
}

// fail maps err to a status code and writes it as JSON.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, lab.ErrAutoplayActive):
		status = fiber.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, optics.ErrUnknownLensType),
		errors.Is(err, narration.ErrUnknownLanguage),
		errors.Is(err, tutor.ErrEmptyQuestion):
		status = fiber.StatusBadRequest
	case errors.Is(err, scenario.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, tutor.ErrUnavailable):
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) state(c *fiber.Ctx) error {
	return c.JSON(s.lab.Snapshot())
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	persistent := s.prefs != nil && s.prefs.Persistent()
	return c.JSON(fiber.Map{
		"status":    "ok",
		"tutor":     s.tutor != nil,
		"prefs":     persistent,
		"state_hub": s.stateHub.ClientCount(),
		"audio_hub": s.audioHub.ClientCount(),
		"playing":   s.lab.Snapshot().Playing,
	})
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return s.state(c)
}

func (s *Server) handleLens(c *fiber.Ctx) error {
	var req LensRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	t, err := optics.ParseLensType(req.Type)
	if err != nil {
		return s.fail(c, err)
	}
	s.lab.SetLensType(t)
	return s.state(c)
}

func parseValue(c *fiber.Ctx) (float64, error) {
	var req ValueRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if req.Value == nil {
		return 0, fmt.Errorf("%w: value is required", errBadRequest)
	}
	return *req.Value, nil
}

func (s *Server) handleFocal(c *fiber.Ctx) error {
	v, err := parseValue(c)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.lab.SetFocalLength(v); err != nil {
		return s.fail(c, err)
	}
	return s.state(c)
}

func (s *Server) handleDistance(c *fiber.Ctx) error {
	v, err := parseValue(c)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.lab.SetObjectDistance(v); err != nil {
		return s.fail(c, err)
	}
	return s.state(c)
}

func (s *Server) handleHeight(c *fiber.Ctx) error {
	v, err := parseValue(c)
	if err != nil {
		return s.fail(c, err)
	}
	s.lab.SetObjectHeight(v)
	return s.state(c)
}

func (s *Server) handleAudio(c *fiber.Ctx) error {
	var req AudioRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	if req.Enabled == nil {
		return s.fail(c, fmt.Errorf("%w: enabled is required", errBadRequest))
	}
	s.lab.SetAudioEnabled(*req.Enabled)
	s.savePrefs(func(p *prefs.Prefs) { p.AudioEnabled = *req.Enabled })
	return s.state(c)
}

func (s *Server) handleLanguage(c *fiber.Ctx) error {
	var req LanguageRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	lang, err := narration.ParseLanguage(req.Language)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.lab.SetLanguage(lang); err != nil {
		return s.fail(c, err)
	}
	s.savePrefs(func(p *prefs.Prefs) { p.Language = lang })
	return s.state(c)
}

func (s *Server) savePrefs(fn func(*prefs.Prefs)) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.Update(fn); err != nil {
		s.logger.Warn("failed to save preferences", "error", err)
	}
}

func (s *Server) handlePlay(c *fiber.Ctx) error {
	s.lab.Play()
	return s.state(c)
}

func (s *Server) handlePause(c *fiber.Ctx) error {
	s.lab.Pause()
	return s.state(c)
}

func (s *Server) handleToggle(c *fiber.Ctx) error {
	s.lab.Toggle()
	return s.state(c)
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	s.lab.Reset()
	return s.state(c)
}

func (s *Server) handleListScenarios(c *fiber.Ctx) error {
	lang := string(s.lab.Snapshot().Language)
	list := s.scenarios.List()
	out := make([]ScenarioInfo, 0, len(list))
	for _, sc := range list {
		out = append(out, ScenarioInfo{
			Scenario: sc,
			Title:    sc.Title(lang),
			Zone:     optics.Classify(sc.Lens, sc.Object.Distance),
		})
	}
	return c.JSON(out)
}

func (s *Server) handleApplyScenario(c *fiber.Ctx) error {
	sc, err := s.scenarios.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	s.lab.ApplyScenario(sc)
	return s.state(c)
}

// handleAsk streams the tutor's answer as plain text.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	if s.tutor == nil {
		return s.fail(c, tutor.ErrUnavailable)
	}

	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}

	snap := s.lab.Snapshot()
	question := strings.TrimSpace(req.Question)
	if question == "" && req.Preset == "analyze" {
		question = tutor.AnalyzeQuestion(snap.Language)
	}

	ctx, cancel := context.WithTimeout(context.Background(), tutor.DefaultConfig().StreamTimeout)
	stream, err := s.tutor.Ask(ctx, tutor.Question{
		Text:     question,
		Lens:     snap.Lens,
		Distance: snap.Object.Distance,
		Language: snap.Language,
	})
	if err != nil {
		cancel()
		var apiErr *tutor.APIError
		if errors.As(err, &apiErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		return s.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stream.Close()
		for {
			chunk, err := stream.Recv()
			if err != nil {
				s.logger.Warn("tutor stream failed", "error", err)
				return
			}
			if chunk.Delta != "" {
				_, _ = w.WriteString(chunk.Delta)
				if err := w.Flush(); err != nil {
					return
				}
			}
			if chunk.Done {
				return
			}
		}
	})
	return nil
}
