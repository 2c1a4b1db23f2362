package optics

import "math"

// Tolerances shared by everything that asks "is the object at a boundary?".
// Keep a single authoritative value per boundary type.
const (
	// SingularityTolerance is the band around u+f = 0 inside which the lens
	// equation is not evaluated and the image is reported at infinity.
	SingularityTolerance = 0.1

	// BoundaryTolerance is the band around f and 2f used by the zone
	// classifier and by the autoplay snap check.
	BoundaryTolerance = 0.5
)

// Parameter ranges accepted by the lab setters.
const (
	MinFocalLength = 50.0
	MaxFocalLength = 200.0

	MinObjectDistance = 20.0
	MaxObjectDistance = 450.0

	MinObjectHeight = 20.0
	MaxObjectHeight = 120.0
)

// Defaults restored by a lab reset.
const (
	DefaultFocalLength    = 100.0
	DefaultObjectDistance = 180.0
	DefaultObjectHeight   = 60.0
)

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
