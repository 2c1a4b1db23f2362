package optics_test

import (
	"errors"
	"math"
	"testing"

	"github.com/teslashibe/lenslab/pkg/optics"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeConvexBeyond2F(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}
	img := optics.Compute(lens, optics.Object{Distance: 300, Height: 60})

	if !approx(img.Distance, 150) {
		t.Errorf("expected v=150, got %v", img.Distance)
	}
	if !approx(img.Magnification, -0.5) {
		t.Errorf("expected m=-0.5, got %v", img.Magnification)
	}
	if !approx(img.Height, -30) {
		t.Errorf("expected h'=-30, got %v", img.Height)
	}
	if img.Nature != optics.NatureReal {
		t.Errorf("expected REAL, got %s", img.Nature)
	}
	if img.Orientation != optics.Inverted {
		t.Errorf("expected INVERTED, got %s", img.Orientation)
	}
	if img.Size != optics.Diminished {
		t.Errorf("expected DIMINISHED, got %s", img.Size)
	}
	if zone := optics.Classify(lens, 300); zone != optics.ZoneBeyond2F {
		t.Errorf("expected U_GT_2F, got %q", zone)
	}
}

func TestComputeConvexInsideF(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}
	img := optics.Compute(lens, optics.Object{Distance: 60, Height: 60})

	if img.Nature != optics.NatureVirtual {
		t.Errorf("expected VIRTUAL, got %s", img.Nature)
	}
	if img.Orientation != optics.Upright {
		t.Errorf("expected UPRIGHT, got %s", img.Orientation)
	}
	if img.Size != optics.Magnified {
		t.Errorf("expected MAGNIFIED, got %s", img.Size)
	}
	if img.Distance >= 0 {
		t.Errorf("expected negative image distance, got %v", img.Distance)
	}
	if zone := optics.Classify(lens, 60); zone != optics.ZoneInsideF {
		t.Errorf("expected U_LT_F, got %q", zone)
	}
}

func TestComputeAtTwiceFocalLength(t *testing.T) {
	for _, f := range []float64{50, 75, 100, 135, 200, 512} {
		lens := optics.Lens{Type: optics.Convex, FocalLength: f}
		img := optics.Compute(lens, optics.Object{Distance: 2 * f, Height: 40})

		if !approx(math.Abs(img.Magnification), 1) {
			t.Errorf("f=%v: expected |m|=1, got %v", f, img.Magnification)
		}
		if img.Distance <= 0 {
			t.Errorf("f=%v: expected real side, got v=%v", f, img.Distance)
		}
		if img.Orientation != optics.Inverted {
			t.Errorf("f=%v: expected INVERTED, got %s", f, img.Orientation)
		}
		if img.Size != optics.SameSize {
			t.Errorf("f=%v: expected SAME, got %s", f, img.Size)
		}
	}
}

func TestComputeBetweenFAnd2F(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}
	for _, u := range []float64{101, 120, 150, 180, 199} {
		img := optics.Compute(lens, optics.Object{Distance: u, Height: 60})
		if img.Size != optics.Magnified {
			t.Errorf("u=%v: expected MAGNIFIED, got %s", u, img.Size)
		}
		if img.Nature != optics.NatureReal {
			t.Errorf("u=%v: expected REAL, got %s", u, img.Nature)
		}
	}
}

func TestComputeConcave(t *testing.T) {
	for _, f := range []float64{50, 100, 200} {
		lens := optics.Lens{Type: optics.Concave, FocalLength: f}
		for _, u := range []float64{20, 30, f, 2 * f, 300, 450} {
			img := optics.Compute(lens, optics.Object{Distance: u, Height: 60})
			if img.Nature != optics.NatureVirtual || img.Orientation != optics.Upright || img.Size != optics.Diminished {
				t.Errorf("f=%v u=%v: expected virtual/upright/diminished, got %s/%s/%s",
					f, u, img.Nature, img.Orientation, img.Size)
			}
			if zone := optics.Classify(lens, u); zone != optics.ZoneConcaveAll {
				t.Errorf("f=%v u=%v: expected CONCAVE_ALL, got %q", f, u, zone)
			}
		}
	}
}

func TestComputeAtFocalPoint(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}

	for _, u := range []float64{100, 100.05, 99.95} {
		img := optics.Compute(lens, optics.Object{Distance: u, Height: 60})
		if !img.AtInfinity {
			t.Fatalf("u=%v: expected image at infinity", u)
		}
		if img.Nature != optics.NatureNone {
			t.Errorf("u=%v: expected NONE, got %s", u, img.Nature)
		}
		if img.Distance != 0 || img.Height != 0 {
			t.Errorf("u=%v: expected zeroed geometry, got v=%v h=%v", u, img.Distance, img.Height)
		}
		if zone := optics.Classify(lens, u); zone != optics.ZoneAtF {
			t.Errorf("u=%v: expected U_EQ_F, got %q", u, zone)
		}
	}

	t.Run("just outside the singularity band", func(t *testing.T) {
		img := optics.Compute(lens, optics.Object{Distance: 100.2, Height: 60})
		if img.AtInfinity {
			t.Error("expected a finite image")
		}
		if img.Nature != optics.NatureReal {
			t.Errorf("expected REAL, got %s", img.Nature)
		}
	})
}

func TestComputeIdempotent(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 85}
	obj := optics.Object{Distance: 133.3, Height: 45}

	first := optics.Compute(lens, obj)
	for i := 0; i < 100; i++ {
		if got := optics.Compute(lens, obj); got != first {
			t.Fatalf("call %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestImageString(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}

	got := optics.Compute(lens, optics.Object{Distance: 300, Height: 60}).String()
	if got != "real, inverted, diminished (v=150.0, m=-0.50)" {
		t.Errorf("unexpected summary %q", got)
	}

	got = optics.Compute(lens, optics.Object{Distance: 100, Height: 60}).String()
	if got != "no image (rays leave parallel)" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestParseLensType(t *testing.T) {
	tests := []struct {
		in      string
		want    optics.LensType
		wantErr bool
	}{
		{"CONVEX", optics.Convex, false},
		{"concave", optics.Concave, false},
		{" Convex ", optics.Convex, false},
		{"prism", "", true},
	}
	for _, tt := range tests {
		got, err := optics.ParseLensType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, optics.ErrUnknownLensType) {
				t.Errorf("%q: expected ErrUnknownLensType, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: expected %s, got %s (%v)", tt.in, tt.want, got, err)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := optics.Clamp(10, 20, 450); got != 20 {
		t.Errorf("expected 20, got %v", got)
	}
	if got := optics.Clamp(500, 20, 450); got != 450 {
		t.Errorf("expected 450, got %v", got)
	}
	if got := optics.Clamp(math.NaN(), 20, 450); got != 20 {
		t.Errorf("expected NaN to clamp to 20, got %v", got)
	}
}
