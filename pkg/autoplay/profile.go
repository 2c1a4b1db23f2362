package autoplay

import (
	"math"
	"time"

	"github.com/teslashibe/lenslab/pkg/optics"
)

// Speed returns the sweep speed for an object currently at prev.
func Speed(lens optics.Lens, prev float64) float64 {
	if lens.Type == optics.Concave {
		return ConcaveSpeed
	}

	f := lens.FocalLength
	switch {
	case prev > 2*f+ApproachMargin:
		return ApproachSpeed
	case math.Abs(prev-2*f) <= SlowBand:
		return BoundarySpeed
	case prev > f+ApproachMargin && prev < 2*f-ApproachMargin:
		return TransitSpeed
	case math.Abs(prev-f) <= SlowBand:
		return BoundarySpeed
	default:
		return DefaultSpeed
	}
}

// Next advances prev by one frame of the given duration. A step that would
// cross 2f or f lands exactly on the boundary instead; otherwise the result
// is floored at floor.
func Next(lens optics.Lens, prev float64, elapsed time.Duration, floor float64) float64 {
	step := Speed(lens, prev) * elapsed.Seconds()
	next := prev - step

	f := lens.FocalLength
	const eps = optics.BoundaryTolerance

	if prev > 2*f && next <= 2*f+eps {
		return 2 * f
	}
	if prev > f && next <= f+eps {
		return f
	}
	return math.Max(floor, next)
}
