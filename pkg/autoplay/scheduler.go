package autoplay

import (
	"time"

	"github.com/teslashibe/lenslab/pkg/optics"
)

// Scheduler owns the run state. The object distance itself lives with the
// caller; Tick reads it and returns the next value.
type Scheduler struct {
	opts     Options
	state    State
	lastTick time.Time
}

// New creates a stopped scheduler. Zero option fields fall back to
// DefaultOptions.
func New(opts Options) *Scheduler {
	def := DefaultOptions()
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = def.FrameInterval
	}
	if opts.Floor <= 0 {
		opts.Floor = def.Floor
	}
	if opts.StartDistance <= 0 {
		opts.StartDistance = def.StartDistance
	}
	return &Scheduler{opts: opts}
}

// Options returns the effective options.
func (s *Scheduler) Options() Options {
	return s.opts
}

// State returns the current state.
func (s *Scheduler) State() State {
	return s.state
}

// Start begins a run at now and returns the distance the run starts from.
// A run started at or below the floor restarts from StartDistance. Starting
// an active run only refreshes the tick timestamp.
func (s *Scheduler) Start(now time.Time, distance float64) float64 {
	if distance <= s.opts.Floor {
		distance = s.opts.StartDistance
	}
	if !s.state.Active() {
		s.state = StateRunning
	}
	s.lastTick = now
	return distance
}

// Stop ends the run.
func (s *Scheduler) Stop() {
	s.state = StateStopped
	s.lastTick = time.Time{}
}

// Hold pauses motion while a run stays active. No-op unless running.
func (s *Scheduler) Hold() {
	if s.state == StateRunning {
		s.state = StateHeld
	}
}

// Release resumes motion after Hold. No-op unless held.
func (s *Scheduler) Release() {
	if s.state == StateHeld {
		s.state = StateRunning
	}
}

// Tick advances the run by the time elapsed since the last accepted tick.
// Ticks closer together than FrameInterval are ignored. While held the tick
// is accepted but the distance does not change.
func (s *Scheduler) Tick(now time.Time, lens optics.Lens, distance float64) Step {
	step := Step{Distance: distance}
	if !s.state.Active() {
		return step
	}

	elapsed := now.Sub(s.lastTick)
	if elapsed < s.opts.FrameInterval {
		return step
	}
	s.lastTick = now

	if s.state == StateHeld {
		return step
	}

	if distance <= s.opts.Floor {
		s.Stop()
		step.Distance = s.opts.Floor
		step.Moved = distance != s.opts.Floor
		step.Completed = true
		return step
	}

	next := Next(lens, distance, elapsed, s.opts.Floor)
	step.Distance = next
	step.Moved = next != distance
	if next <= s.opts.Floor {
		s.Stop()
		step.Completed = true
	}
	return step
}
