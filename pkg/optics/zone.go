package optics

import "math"

// Zone is the teaching zone the object currently sits in. It changes only
// when the classifier output changes and is used as the narration key.
type Zone string

const (
	ZoneNone       Zone = ""
	ZoneConcaveAll Zone = "CONCAVE_ALL"
	ZoneBeyond2F   Zone = "U_GT_2F"
	ZoneAt2F       Zone = "U_EQ_2F"
	ZoneBetween    Zone = "F_LT_U_LT_2F"
	ZoneAtF        Zone = "U_EQ_F"
	ZoneInsideF    Zone = "U_LT_F"
)

// Zones lists the convex zones in the order an autoplay sweep visits them,
// followed by the concave zone.
var Zones = []Zone{
	ZoneBeyond2F,
	ZoneAt2F,
	ZoneBetween,
	ZoneAtF,
	ZoneInsideF,
	ZoneConcaveAll,
}

// Classify derives the teaching zone using BoundaryTolerance bands around f
// and 2f. It returns ZoneNone when no band matches.
func Classify(lens Lens, distance float64) Zone {
	if lens.Type == Concave {
		return ZoneConcaveAll
	}

	f := lens.FocalLength
	u := distance
	const eps = BoundaryTolerance

	switch {
	case u > 2*f+eps:
		return ZoneBeyond2F
	case math.Abs(u-2*f) <= eps:
		return ZoneAt2F
	case u < 2*f-eps && u > f+eps:
		return ZoneBetween
	case math.Abs(u-f) <= eps:
		return ZoneAtF
	case u < f-eps:
		return ZoneInsideF
	}
	return ZoneNone
}
