// Package narration publishes a fixed spoken explanation whenever an
// autoplay run enters a new imaging zone, and holds the run while it speaks.
//
// The Synchronizer is frame-driven: Update reacts to state changes and Poll
// resolves pending speech outcomes and simulated deadlines. Neither blocks,
// and no goroutines are started, so the caller's frame loop stays the only
// writer. It is not safe for concurrent use.
package narration

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/lenslab/pkg/optics"
)

// State is the part of the lab the synchronizer reacts to.
type State struct {
	Lens     optics.Lens
	Distance float64
	Playing  bool
	Now      time.Time
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithDriver sets the speech driver. Without one every hold is simulated.
func WithDriver(d Driver) Option {
	return func(s *Synchronizer) {
		s.driver = d
	}
}

// WithCatalog sets the initial catalog.
func WithCatalog(c *Catalog) Option {
	return func(s *Synchronizer) {
		s.catalog = c
	}
}

// WithAudio sets whether narration is spoken.
func WithAudio(enabled bool) Option {
	return func(s *Synchronizer) {
		s.audio = enabled
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// Synchronizer tracks the zone last narrated and the current hold.
type Synchronizer struct {
	driver  Driver
	catalog *Catalog
	audio   bool
	logger  *slog.Logger

	lastZone optics.Zone
	text     string

	held      bool
	utterance Utterance
	startedAt time.Time
	deadline  time.Time // zero while waiting on a driver outcome
	outcome   <-chan Outcome
	cancel    context.CancelFunc
}

// New creates a synchronizer with audio enabled and the default catalog.
func New(opts ...Option) *Synchronizer {
	s := &Synchronizer{
		catalog: MustCatalog(DefaultLanguage),
		audio:   true,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "narration.synchronizer")
	return s
}

// Text returns the narration currently shown.
func (s *Synchronizer) Text() string {
	return s.text
}

// Zone returns the zone last narrated, or ZoneNone.
func (s *Synchronizer) Zone() optics.Zone {
	return s.lastZone
}

// Holding reports whether the autoplay run must stay still.
func (s *Synchronizer) Holding() bool {
	return s.held
}

// Speaking reports whether a driver utterance is in flight.
func (s *Synchronizer) Speaking() bool {
	return s.outcome != nil
}

// AudioEnabled reports whether narration is spoken.
func (s *Synchronizer) AudioEnabled() bool {
	return s.audio
}

// SetAudioEnabled takes effect from the next utterance.
func (s *Synchronizer) SetAudioEnabled(enabled bool) {
	s.audio = enabled
}

// Catalog returns the active catalog.
func (s *Synchronizer) Catalog() *Catalog {
	return s.catalog
}

// SetCatalog switches language. The next zone change uses it.
func (s *Synchronizer) SetCatalog(c *Catalog) {
	if c != nil {
		s.catalog = c
	}
}

// Update reacts to a change of lens, distance or playback. It returns true
// when the narration text changed.
func (s *Synchronizer) Update(st State) bool {
	if !st.Playing {
		changed := s.text != ""
		s.Reset()
		return changed
	}

	zone := optics.Classify(st.Lens, st.Distance)
	if zone == optics.ZoneNone || zone == s.lastZone {
		return false
	}

	s.lastZone = zone
	s.text = s.catalog.Text(zone)
	s.begin(st.Now)
	return true
}

// Poll resolves the hold if the utterance has finished. Call it once per
// frame before advancing the scheduler.
func (s *Synchronizer) Poll(now time.Time) {
	if !s.held {
		return
	}

	if s.outcome != nil {
		select {
		case out, ok := <-s.outcome:
			if !ok {
				out = Outcome{Status: StatusErrored, Err: ErrNoOutcome}
			}
			s.resolve(now, out)
		default:
		}
		return
	}

	if !now.Before(s.deadline) {
		s.logger.Debug("simulated narration finished", "zone", s.lastZone)
		s.release()
	}
}

// Reset cancels any utterance and forgets the last zone and text.
func (s *Synchronizer) Reset() {
	s.release()
	s.lastZone = optics.ZoneNone
	s.text = ""
}

func (s *Synchronizer) begin(now time.Time) {
	s.release()

	s.held = true
	s.startedAt = now
	s.utterance = Utterance{
		ID:       uuid.NewString(),
		Text:     s.text,
		Language: s.catalog.Language,
		Rate:     s.catalog.Rate,
	}

	if !s.audio || s.driver == nil {
		s.deadline = now.Add(SimulatedDuration(s.text))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := s.driver.Speak(ctx, s.utterance)
	if ch == nil {
		cancel()
		s.logger.Warn("speech driver returned no outcome", "zone", s.lastZone)
		s.deadline = now.Add(SimulatedDuration(s.text))
		return
	}
	s.cancel = cancel
	s.outcome = ch
	s.logger.Debug("narration started", "zone", s.lastZone, "utterance", s.utterance.ID)
}

func (s *Synchronizer) resolve(now time.Time, out Outcome) {
	s.outcome = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if out.Status != StatusErrored {
		s.logger.Debug("narration finished", "zone", s.lastZone, "status", out.Status)
		s.held = false
		return
	}

	// Keep the pacing of a silent run, measured from when speech began.
	s.logger.Warn("speech failed, falling back to simulated timing",
		"zone", s.lastZone, "utterance", s.utterance.ID, "error", out.Err)
	s.deadline = s.startedAt.Add(SimulatedDuration(s.utterance.Text))
	if !now.Before(s.deadline) {
		s.held = false
	}
}

func (s *Synchronizer) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.outcome = nil
	s.held = false
	s.deadline = time.Time{}
}
