package optics_test

import (
	"math"
	"testing"

	"github.com/teslashibe/lenslab/pkg/optics"
)

func TestClassifyConvex(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}

	tests := []struct {
		distance float64
		want     optics.Zone
	}{
		{450, optics.ZoneBeyond2F},
		{200.6, optics.ZoneBeyond2F},
		{200.5, optics.ZoneAt2F},
		{200, optics.ZoneAt2F},
		{199.5, optics.ZoneAt2F},
		{199.4, optics.ZoneBetween},
		{150, optics.ZoneBetween},
		{100.6, optics.ZoneBetween},
		{100.5, optics.ZoneAtF},
		{100, optics.ZoneAtF},
		{99.5, optics.ZoneAtF},
		{99.4, optics.ZoneInsideF},
		{30, optics.ZoneInsideF},
	}

	for _, tt := range tests {
		if got := optics.Classify(lens, tt.distance); got != tt.want {
			t.Errorf("u=%v: expected %q, got %q", tt.distance, tt.want, got)
		}
	}
}

func TestClassifyScalesWithFocalLength(t *testing.T) {
	for _, f := range []float64{50, 80, 125, 200} {
		lens := optics.Lens{Type: optics.Convex, FocalLength: f}
		if got := optics.Classify(lens, 2*f); got != optics.ZoneAt2F {
			t.Errorf("f=%v: expected U_EQ_2F at 2f, got %q", f, got)
		}
		if got := optics.Classify(lens, f); got != optics.ZoneAtF {
			t.Errorf("f=%v: expected U_EQ_F at f, got %q", f, got)
		}
		if got := optics.Classify(lens, 1.5*f); got != optics.ZoneBetween {
			t.Errorf("f=%v: expected F_LT_U_LT_2F at 1.5f, got %q", f, got)
		}
	}
}

func TestClassifyNoMatch(t *testing.T) {
	lens := optics.Lens{Type: optics.Convex, FocalLength: 100}
	if got := optics.Classify(lens, math.NaN()); got != optics.ZoneNone {
		t.Errorf("expected no zone, got %q", got)
	}
}

func TestZonesCoverSweepOrder(t *testing.T) {
	if len(optics.Zones) != 6 {
		t.Fatalf("expected 6 zones, got %d", len(optics.Zones))
	}
	if optics.Zones[0] != optics.ZoneBeyond2F || optics.Zones[4] != optics.ZoneInsideF {
		t.Errorf("unexpected order: %v", optics.Zones)
	}
}
