// Package lab is the single owner of the lens experiment. It wires the optics
// model, the autoplay scheduler and the narration synchronizer together and
// publishes a Snapshot after every change.
//
// All methods are safe for concurrent use. Manual setters and the frame loop
// are serialized by one mutex, so the object distance only ever has one
// writer at a time.
package lab

import (
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/teslashibe/lenslab/pkg/autoplay"
	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/optics"
	"github.com/teslashibe/lenslab/pkg/scenario"
)

// Option configures a Lab.
type Option func(*options)

type options struct {
	clock    clock.Clock
	driver   narration.Driver
	language narration.Language
	audio    bool
	autoplay autoplay.Options
	logger   *slog.Logger
}

// WithClock sets the frame clock. Tests pass clock.NewMock().
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithDriver sets the speech driver.
func WithDriver(d narration.Driver) Option {
	return func(o *options) {
		o.driver = d
	}
}

// WithLanguage sets the narration language.
func WithLanguage(lang narration.Language) Option {
	return func(o *options) {
		o.language = lang
	}
}

// WithAudio sets whether narration is spoken.
func WithAudio(enabled bool) Option {
	return func(o *options) {
		o.audio = enabled
	}
}

// WithAutoplay overrides the scheduler options.
func WithAutoplay(opts autoplay.Options) Option {
	return func(o *options) {
		o.autoplay = opts
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Listener receives a snapshot after every change.
type Listener func(Snapshot)

// Lab holds the experiment state.
type Lab struct {
	mu sync.Mutex

	clock  clock.Clock
	logger *slog.Logger

	lens   optics.Lens
	object optics.Object

	scheduler *autoplay.Scheduler
	narrator  *narration.Synchronizer
	session   string
	version   uint64

	listenersMu sync.RWMutex
	listeners   []Listener
}

// New creates a lab with the default setup: convex lens, f=100, u=180, h=60.
func New(opts ...Option) *Lab {
	o := options{
		clock:    clock.New(),
		language: narration.DefaultLanguage,
		audio:    true,
		autoplay: autoplay.DefaultOptions(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	catalog, err := narration.CatalogFor(o.language)
	if err != nil {
		o.logger.Warn("unknown narration language, using default", "language", o.language)
		catalog = narration.MustCatalog(narration.DefaultLanguage)
	}

	return &Lab{
		clock:  o.clock,
		logger: o.logger.With("component", "lab"),
		lens:   optics.Lens{Type: optics.Convex, FocalLength: optics.DefaultFocalLength},
		object: optics.Object{
			Distance: optics.DefaultObjectDistance,
			Height:   optics.DefaultObjectHeight,
		},
		scheduler: autoplay.New(o.autoplay),
		narrator: narration.New(
			narration.WithDriver(o.driver),
			narration.WithCatalog(catalog),
			narration.WithAudio(o.audio),
			narration.WithLogger(o.logger),
		),
	}
}

// Clock returns the frame clock.
func (l *Lab) Clock() clock.Clock {
	return l.clock
}

// OnChange registers a listener. Listeners run on the goroutine that made
// the change, after the lab's lock is released.
func (l *Lab) OnChange(fn Listener) {
	l.listenersMu.Lock()
	defer l.listenersMu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Snapshot returns the current state.
func (l *Lab) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// SetLensType switches the lens. Allowed during a run; the narration follows
// the new zone.
func (l *Lab) SetLensType(t optics.LensType) {
	l.mutate(func() bool {
		if l.lens.Type == t {
			return false
		}
		l.lens.Type = t
		l.updateNarrationLocked()
		return true
	})
}

// SetFocalLength clamps f to the control range.
func (l *Lab) SetFocalLength(f float64) error {
	return l.mutateErr(func() (bool, error) {
		if l.scheduler.State().Active() {
			return false, ErrAutoplayActive
		}
		f = optics.Clamp(f, optics.MinFocalLength, optics.MaxFocalLength)
		if l.lens.FocalLength == f {
			return false, nil
		}
		l.lens.FocalLength = f
		return true, nil
	})
}

// SetObjectDistance clamps u to the control range.
func (l *Lab) SetObjectDistance(u float64) error {
	return l.mutateErr(func() (bool, error) {
		if l.scheduler.State().Active() {
			return false, ErrAutoplayActive
		}
		u = optics.Clamp(u, optics.MinObjectDistance, optics.MaxObjectDistance)
		if l.object.Distance == u {
			return false, nil
		}
		l.object.Distance = u
		return true, nil
	})
}

// SetObjectHeight clamps h to the control range. Allowed during a run.
func (l *Lab) SetObjectHeight(h float64) {
	l.mutate(func() bool {
		h = optics.Clamp(h, optics.MinObjectHeight, optics.MaxObjectHeight)
		if l.object.Height == h {
			return false
		}
		l.object.Height = h
		return true
	})
}

// SetAudioEnabled toggles spoken narration from the next zone on.
func (l *Lab) SetAudioEnabled(enabled bool) {
	l.mutate(func() bool {
		if l.narrator.AudioEnabled() == enabled {
			return false
		}
		l.narrator.SetAudioEnabled(enabled)
		return true
	})
}

// SetLanguage switches the narration catalog.
func (l *Lab) SetLanguage(lang narration.Language) error {
	catalog, err := narration.CatalogFor(lang)
	if err != nil {
		return err
	}
	l.mutate(func() bool {
		if l.narrator.Catalog() == catalog {
			return false
		}
		l.narrator.SetCatalog(catalog)
		return true
	})
	return nil
}

// Play starts a run. A run started from the floor restarts at the far end.
func (l *Lab) Play() {
	l.mutate(func() bool {
		if l.scheduler.State().Active() {
			return false
		}
		l.startLocked()
		return true
	})
}

// Pause stops the run, cancels speech and clears the narration.
func (l *Lab) Pause() {
	l.mutate(func() bool {
		if !l.scheduler.State().Active() {
			return false
		}
		l.stopLocked("paused")
		return true
	})
}

// Toggle plays when stopped and pauses when playing.
func (l *Lab) Toggle() {
	l.mutate(func() bool {
		if l.scheduler.State().Active() {
			l.stopLocked("paused")
		} else {
			l.startLocked()
		}
		return true
	})
}

// Reset stops any run and restores u=180, f=100, h=60. The lens type is
// kept.
func (l *Lab) Reset() {
	l.mutate(func() bool {
		if l.scheduler.State().Active() {
			l.stopLocked("reset")
		}
		l.narrator.Reset()
		l.lens.FocalLength = optics.DefaultFocalLength
		l.object = optics.Object{
			Distance: optics.DefaultObjectDistance,
			Height:   optics.DefaultObjectHeight,
		}
		return true
	})
}

// ApplyScenario stops any run and sets all four parameters at once.
func (l *Lab) ApplyScenario(s scenario.Scenario) {
	l.mutate(func() bool {
		if l.scheduler.State().Active() {
			l.stopLocked("scenario")
		}
		if s.Lens.Type == optics.Concave {
			l.lens.Type = optics.Concave
		} else {
			l.lens.Type = optics.Convex
		}
		l.lens.FocalLength = optics.Clamp(s.Lens.FocalLength, optics.MinFocalLength, optics.MaxFocalLength)
		l.object.Distance = optics.Clamp(s.Object.Distance, optics.MinObjectDistance, optics.MaxObjectDistance)
		l.object.Height = optics.Clamp(s.Object.Height, optics.MinObjectHeight, optics.MaxObjectHeight)
		l.logger.Info("scenario applied", "scenario", s.ID)
		return true
	})
}

// Step runs one frame: resolve the narration hold, advance the scheduler,
// then narrate the zone the object landed in. It reports whether anything
// visible changed.
func (l *Lab) Step() bool {
	l.mu.Lock()
	if !l.scheduler.State().Active() {
		l.mu.Unlock()
		return false
	}

	now := l.clock.Now()
	wasHolding := l.narrator.Holding()
	l.narrator.Poll(now)
	l.syncHoldLocked()
	changed := wasHolding != l.narrator.Holding()

	step := l.scheduler.Tick(now, l.lens, l.object.Distance)
	if step.Moved {
		l.object.Distance = step.Distance
		changed = true
	}

	if step.Completed {
		l.stopLocked("completed")
		changed = true
	} else if step.Moved {
		if l.updateNarrationLocked() {
			changed = true
		}
	}

	var snap Snapshot
	if changed {
		l.version++
		snap = l.snapshotLocked()
	}
	l.mu.Unlock()

	if changed {
		l.notify(snap)
	}
	return changed
}

func (l *Lab) startLocked() {
	now := l.clock.Now()
	l.object.Distance = l.scheduler.Start(now, l.object.Distance)
	l.session = uuid.NewString()
	l.logger.Info("autoplay started", "session", l.session, "distance", l.object.Distance, "lens", l.lens.Type)
	l.updateNarrationLocked()
}

func (l *Lab) stopLocked(reason string) {
	l.scheduler.Stop()
	l.narrator.Update(narration.State{Playing: false})
	l.logger.Info("autoplay stopped", "session", l.session, "reason", reason, "distance", l.object.Distance)
	l.session = ""
}

// updateNarrationLocked feeds the synchronizer and applies its hold to the
// scheduler in the same frame.
func (l *Lab) updateNarrationLocked() bool {
	changed := l.narrator.Update(narration.State{
		Lens:     l.lens,
		Distance: l.object.Distance,
		Playing:  l.scheduler.State().Active(),
		Now:      l.clock.Now(),
	})
	l.syncHoldLocked()
	return changed
}

func (l *Lab) syncHoldLocked() {
	if l.narrator.Holding() {
		l.scheduler.Hold()
	} else {
		l.scheduler.Release()
	}
}

func (l *Lab) snapshotLocked() Snapshot {
	zone := optics.Classify(l.lens, l.object.Distance)
	state := l.scheduler.State()
	return Snapshot{
		Version:      l.version,
		Lens:         l.lens,
		Object:       l.object,
		Image:        optics.Compute(l.lens, l.object),
		Zone:         zone,
		Summary:      l.narrator.Catalog().Summary(zone),
		Narration:    l.narrator.Text(),
		Playback:     state.String(),
		Playing:      state.Active(),
		Narrating:    l.narrator.Holding(),
		SessionID:    l.session,
		AudioEnabled: l.narrator.AudioEnabled(),
		Language:     l.narrator.Catalog().Language,
	}
}

func (l *Lab) mutate(fn func() bool) {
	_ = l.mutateErr(func() (bool, error) {
		return fn(), nil
	})
}

func (l *Lab) mutateErr(fn func() (bool, error)) error {
	l.mu.Lock()
	changed, err := fn()
	var snap Snapshot
	if changed {
		l.version++
		snap = l.snapshotLocked()
	}
	l.mu.Unlock()

	if changed {
		l.notify(snap)
	}
	return err
}

func (l *Lab) notify(snap Snapshot) {
	l.listenersMu.RLock()
	listeners := make([]Listener, len(l.listeners))
	copy(listeners, l.listeners)
	l.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
