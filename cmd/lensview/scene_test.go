package main

import (
	"math"
	"testing"

	"github.com/teslashibe/lenslab/pkg/optics"
)

// onLine reports whether p lies on the infinite line through s.
func onLine(s Segment, p Point) bool {
	dx, dy := s.To.X-s.From.X, s.To.Y-s.From.Y
	cross := dx*(p.Y-s.From.Y) - dy*(p.X-s.From.X)
	return math.Abs(cross)/math.Hypot(dx, dy) < 1e-6
}

func TestRaysMeetAtRealImage(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}
	for _, u := range []float64{150, 200, 300, 450} {
		obj := optics.Object{Distance: u, Height: 60}
		img := optics.Compute(lens, obj)
		tip, ok := ImageTip(img)
		if !ok {
			t.Fatalf("u=%v: expected an image", u)
		}

		rays := Rays(lens, obj, img, 400)
		if len(rays) != 3 {
			t.Fatalf("u=%v: expected 3 rays, got %d", u, len(rays))
		}
		for _, r := range rays {
			out := r.Segments[len(r.Segments)-1]
			if out.Dashed {
				t.Errorf("u=%v %s: real image needs no virtual segments", u, r.Name)
			}
			if !onLine(out, tip) {
				t.Errorf("u=%v %s: outgoing ray misses the image tip %+v", u, r.Name, tip)
			}
		}
	}
}

func TestRaysTraceBackToVirtualImage(t *testing.T) {
	tests := []struct {
		name string
		lens optics.Lens
		u    float64
	}{
		{"magnifier", optics.Lens{Type: optics.Convex, FocalLength: 150}, 80},
		{"concave", optics.Lens{Type: optics.Concave, FocalLength: 100}, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := optics.Object{Distance: tt.u, Height: 40}
			img := optics.Compute(tt.lens, obj)
			if img.Nature != optics.NatureVirtual {
				t.Fatalf("expected a virtual image, got %s", img.Nature)
			}
			tip := Point{img.Distance, img.Height}

			for _, r := range Rays(tt.lens, obj, img, 400) {
				last := r.Segments[len(r.Segments)-1]
				if !last.Dashed {
					t.Fatalf("%s: expected a dashed extension", r.Name)
				}
				if !onLine(last, tip) {
					t.Errorf("%s: extension misses the image tip", r.Name)
				}
				// The refracted ray itself lines up with the extension.
				if out := r.Segments[len(r.Segments)-2]; !onLine(out, tip) {
					t.Errorf("%s: refracted ray does not diverge from the image", r.Name)
				}
			}
		})
	}
}

func TestRaysAtFocalPoint(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}
	obj := optics.Object{Distance: 100, Height: 60}
	img := optics.Compute(lens, obj)

	if _, ok := ImageTip(img); ok {
		t.Error("expected no image at the focal point")
	}
	rays := Rays(lens, obj, img, 400)
	if len(rays) != 2 {
		t.Errorf("expected the focal ray to be skipped, got %d rays", len(rays))
	}
	// Parallel and center rays leave parallel to each other.
	a := rays[0].Segments[1]
	b := rays[1].Segments[0]
	slopeA := (a.To.Y - a.From.Y) / (a.To.X - a.From.X)
	slopeB := (b.To.Y - b.From.Y) / (b.To.X - b.From.X)
	if math.Abs(slopeA-slopeB) > 1e-9 {
		t.Errorf("expected parallel rays, slopes %v and %v", slopeA, slopeB)
	}
}
