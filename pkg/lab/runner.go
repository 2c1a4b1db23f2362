package lab

import (
	"context"
	"time"
)

// DefaultFrameInterval is one display frame at roughly 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Runner drives Lab.Step from the lab's clock.
type Runner struct {
	lab      *Lab
	interval time.Duration
}

// NewRunner creates a runner. A non-positive interval uses
// DefaultFrameInterval.
func NewRunner(l *Lab, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Runner{lab: l, interval: interval}
}

// Run steps the lab on every tick until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := r.lab.clock.Ticker(r.interval)
	defer ticker.Stop()

	r.lab.logger.Debug("frame loop started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.lab.logger.Debug("frame loop stopped")
			return ctx.Err()
		case <-ticker.C:
			r.lab.Step()
		}
	}
}
