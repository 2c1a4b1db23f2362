// Package autoplay drives the object toward the lens during a demonstration
// run. It walks the object distance down through every imaging zone with a
// speed profile that slows near f and 2f and snaps exactly onto both
// boundaries, so each boundary zone is observed for at least one frame.
//
// The Scheduler is a plain state machine advanced by Tick; it never starts
// goroutines or reads the wall clock itself. It is not safe for concurrent
// use; callers serialize access.
package autoplay

import "time"

// State is the scheduler state.
type State int

const (
	// StateStopped means no run is active.
	StateStopped State = iota

	// StateRunning means the object advances on every frame.
	StateRunning

	// StateHeld means a run is active but narration is speaking, so frames
	// are consumed without moving the object.
	StateHeld
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateHeld:
		return "held"
	default:
		return "unknown"
	}
}

// Active reports whether a run is in progress (running or held).
func (s State) Active() bool {
	return s == StateRunning || s == StateHeld
}

// Speed profile, in distance units per second.
const (
	ConcaveSpeed  = 30.0 // concave lens, whole run
	ApproachSpeed = 60.0 // far beyond 2f
	BoundarySpeed = 15.0 // near f or 2f
	TransitSpeed  = 50.0 // well inside (f, 2f)
	DefaultSpeed  = 20.0 // everything else, mostly inside f

	// ApproachMargin is how far outside a boundary the fast bands end.
	ApproachMargin = 50.0

	// SlowBand is the half-width of the slow band around f and 2f.
	SlowBand = 20.0
)

// Options configures a Scheduler.
type Options struct {
	// FrameInterval is the minimum elapsed time between two accepted ticks.
	// Shorter gaps are ignored so the step size does not depend on the
	// display refresh rate.
	FrameInterval time.Duration

	// Floor is the smallest distance a run reaches; arriving there ends it.
	Floor float64

	// StartDistance is where a run restarts when started from the floor.
	StartDistance float64
}

// DefaultOptions returns the classroom defaults.
func DefaultOptions() Options {
	return Options{
		FrameInterval: 16 * time.Millisecond,
		Floor:         30,
		StartDistance: 450,
	}
}

// Step is the result of one Tick.
type Step struct {
	// Distance is the object distance after the tick.
	Distance float64

	// Moved is true when Distance differs from the input.
	Moved bool

	// Completed is true when this tick reached the floor and stopped the run.
	Completed bool
}
