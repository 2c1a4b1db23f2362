package main

import (
	"math"

	"github.com/teslashibe/lenslab/pkg/optics"
)

// Point is a position in lab units: x along the axis with the lens at 0,
// y up from the axis.
type Point struct {
	X, Y float64
}

// Segment is one straight piece of a ray. Dashed segments are virtual
// extensions traced back from the lens.
type Segment struct {
	From, To Point
	Dashed   bool
}

// Ray is one principal ray.
type Ray struct {
	Name     string
	Segments []Segment
}

// Principal ray names.
const (
	RayParallel = "parallel"
	RayCenter   = "center"
	RayFocal    = "focal"
)

// traceParallelTolerance skips the focal ray when the object sits on the
// focal point and the ray would run along the axis.
const traceParallelTolerance = 1e-6

// Rays traces the three principal rays from the object tip out to x = reach.
func Rays(lens optics.Lens, obj optics.Object, img optics.Image, reach float64) []Ray {
	u, h, f := obj.Distance, obj.Height, lens.FocalLength
	tip := Point{-u, h}
	center := Point{0, 0}

	var parallelOut, focalHit Point
	focalOK := true

	if lens.Type == optics.Concave {
		// Leaves as if from the near focal point.
		parallelOut = Point{reach, h + reach*h/f}
		// Aimed at the far focal point.
		focalHit = Point{0, h * f / (f + u)}
	} else {
		// Through the far focal point.
		parallelOut = Point{reach, h * (1 - reach/f)}
		if math.Abs(u-f) < traceParallelTolerance {
			focalOK = false
		} else {
			// Through the near focal point.
			focalHit = Point{0, -h * f / (u - f)}
		}
	}

	parallelHit := Point{0, h}
	rays := []Ray{
		{Name: RayParallel, Segments: []Segment{
			{From: tip, To: parallelHit},
			{From: parallelHit, To: parallelOut},
		}},
		{Name: RayCenter, Segments: []Segment{
			{From: tip, To: Point{reach, -h / u * reach}},
		}},
	}
	if focalOK {
		rays = append(rays, Ray{Name: RayFocal, Segments: []Segment{
			{From: tip, To: focalHit},
			{From: focalHit, To: Point{reach, focalHit.Y}},
		}})
	}

	if img.Nature == optics.NatureVirtual && !img.AtInfinity {
		imgTip := Point{img.Distance, img.Height}
		rays[0].Segments = append(rays[0].Segments, Segment{From: parallelHit, To: imgTip, Dashed: true})
		rays[1].Segments = append(rays[1].Segments, Segment{From: center, To: imgTip, Dashed: true})
		if focalOK {
			rays[2].Segments = append(rays[2].Segments, Segment{From: focalHit, To: imgTip, Dashed: true})
		}
	}
	return rays
}

// ImageTip returns where the image arrow ends, or false when no image
// forms.
func ImageTip(img optics.Image) (Point, bool) {
	if img.AtInfinity {
		return Point{}, false
	}
	return Point{img.Distance, img.Height}, true
}
