// Package optics implements the thin-lens model used by the lab.
//
// Distances are magnitudes measured from the lens center. Internally the object
// sits left of the lens at u = -distance and light travels left to right, so a
// positive image distance is a real image on the far side of the lens.
//
//	img := optics.Compute(
//	    optics.Lens{Type: optics.Convex, FocalLength: 100},
//	    optics.Object{Distance: 300, Height: 60},
//	)
//	// img.Distance == 150, img.Magnification == -0.5, img.Nature == optics.NatureReal
package optics

import (
	"fmt"
	"math"
	"strings"
)

// LensType selects a converging or diverging lens.
type LensType string

const (
	Convex  LensType = "CONVEX"
	Concave LensType = "CONCAVE"
)

// ParseLensType accepts the canonical names case-insensitively.
func ParseLensType(s string) (LensType, error) {
	switch LensType(strings.ToUpper(strings.TrimSpace(s))) {
	case Convex:
		return Convex, nil
	case Concave:
		return Concave, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLensType, s)
}

// Lens describes the lens under study. FocalLength is always positive; the
// lens type decides its sign in the lens equation.
type Lens struct {
	Type        LensType `json:"type" yaml:"type"`
	FocalLength float64  `json:"focal_length" yaml:"focal_length"`
}

// SignedFocalLength returns f for a convex lens and -f for a concave one.
func (l Lens) SignedFocalLength() float64 {
	if l.Type == Concave {
		return -l.FocalLength
	}
	return l.FocalLength
}

// Object is the candle in front of the lens.
type Object struct {
	Distance float64 `json:"distance" yaml:"distance"`
	Height   float64 `json:"height" yaml:"height"`
}

// Nature tells whether an image forms, and on which side.
type Nature string

const (
	NatureReal    Nature = "REAL"
	NatureVirtual Nature = "VIRTUAL"
	NatureNone    Nature = "NONE"
)

// Orientation of the image relative to the object.
type Orientation string

const (
	Upright         Orientation = "UPRIGHT"
	Inverted        Orientation = "INVERTED"
	OrientationNone Orientation = "N/A"
)

// Size of the image relative to the object.
type Size string

const (
	Magnified  Size = "MAGNIFIED"
	Diminished Size = "DIMINISHED"
	SameSize   Size = "SAME"
	SizeNone   Size = "N/A"
)

// Image is the derived image geometry. When AtInfinity is set no image forms;
// Distance, Magnification and Height are then zero and must not be drawn.
type Image struct {
	Distance      float64     `json:"distance"`
	Magnification float64     `json:"magnification"`
	Height        float64     `json:"height"`
	AtInfinity    bool        `json:"at_infinity"`
	Nature        Nature      `json:"nature"`
	Orientation   Orientation `json:"orientation"`
	Size          Size        `json:"size"`
}

// Compute evaluates the lens equation v = u·f/(u+f) for the given setup.
// It has no side effects and may be called every frame.
func Compute(lens Lens, obj Object) Image {
	u := -obj.Distance
	f := lens.SignedFocalLength()

	if math.Abs(u+f) < SingularityTolerance {
		return Image{
			AtInfinity:  true,
			Nature:      NatureNone,
			Orientation: OrientationNone,
			Size:        SizeNone,
		}
	}

	v := (u * f) / (u + f)
	m := v / u

	img := Image{
		Distance:      v,
		Magnification: m,
		Height:        m * obj.Height,
		Nature:        NatureVirtual,
		Orientation:   Inverted,
		Size:          SameSize,
	}
	if v > 0 {
		img.Nature = NatureReal
	}
	if m > 0 {
		img.Orientation = Upright
	}
	switch abs := math.Abs(m); {
	case abs > 1:
		img.Size = Magnified
	case abs < 1:
		img.Size = Diminished
	}
	return img
}

// String summarizes the image the way the info panel prints it.
func (i Image) String() string {
	if i.AtInfinity {
		return "no image (rays leave parallel)"
	}
	return fmt.Sprintf("%s, %s, %s (v=%.1f, m=%.2f)",
		strings.ToLower(string(i.Nature)),
		strings.ToLower(string(i.Orientation)),
		strings.ToLower(string(i.Size)),
		i.Distance, i.Magnification)
}
