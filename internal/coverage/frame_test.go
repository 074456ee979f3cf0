package coverage

import (
	"math"
	"testing"
)

func TestFrame_RoundTrip(t *testing.T) {
	area := []Point{{77.10, 28.50}, {77.20, 28.52}, {77.25, 28.60}, {77.12, 28.62}}

	tests := []struct {
		name string
		size float64
	}{
		{"fixed frame", DefaultFrameSize},
		{"native frame", 0},
		{"small frame", 10},
	}

	points := []Point{{77.10, 28.50}, {77.18, 28.55}, {77.25, 28.62}, {76.0, 30.0}, {0, 0}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(area, tt.size)
			for _, p := range points {
				back := f.FrameToGeo(f.GeoToFrame(p))
				if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
					t.Errorf("geo round trip of %v = %v", p, back)
				}
			}
			for _, p := range []Point{{0, 0}, {12.5, 300}, {f.Size, f.Size}} {
				back := f.GeoToFrame(f.FrameToGeo(p))
				if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
					t.Errorf("frame round trip of %v = %v", p, back)
				}
			}
		})
	}
}

func TestFrame_Bounds(t *testing.T) {
	f := NewFrame([]Point{{0, 0}, {0, 10}, {20, 10}, {20, 0}}, 0)

	if f.Size != 20 {
		t.Errorf("expected native size 20, got %f", f.Size)
	}

	corner := f.GeoToFrame(Point{20, 10})
	if corner.X != 20 || corner.Y != 20 {
		t.Errorf("expected far corner at (20, 20), got %v", corner)
	}

	origin := f.GeoToFrame(Point{0, 0})
	if origin.X != 0 || origin.Y != 0 {
		t.Errorf("expected origin at (0, 0), got %v", origin)
	}
}

func TestFrame_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		area []Point
	}{
		{"empty", nil},
		{"single point", []Point{{5, 5}}},
		{"horizontal line", []Point{{0, 1}, {4, 1}, {8, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(tt.area, DefaultFrameSize)
			if !f.Degenerate() {
				t.Error("expected degenerate frame")
			}
			p := f.GeoToFrame(Point{3, 3})
			if !p.IsValid() {
				t.Errorf("GeoToFrame produced invalid point %v", p)
			}
			g := f.FrameToGeo(Point{100, 100})
			if !g.IsValid() {
				t.Errorf("FrameToGeo produced invalid point %v", g)
			}
		})
	}
}
