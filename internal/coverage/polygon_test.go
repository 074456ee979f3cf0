package coverage

import "testing"

func TestPolygon_Contains(t *testing.T) {
	square := NewPolygon([]Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}})
	lShape := NewPolygon([]Point{{0, 0}, {10, 0}, {10, 3}, {3, 3}, {3, 10}, {0, 10}})

	tests := []struct {
		name   string
		poly   *Polygon
		point  Point
		inside bool
	}{
		{"square center", square, Point{5, 5}, true},
		{"square near corner", square, Point{0.1, 9.9}, true},
		{"square outside right", square, Point{11, 5}, false},
		{"square outside below", square, Point{5, -0.1}, false},
		{"l-shape foot", lShape, Point{8, 1}, true},
		{"l-shape leg", lShape, Point{1, 8}, true},
		{"l-shape notch", lShape, Point{7, 7}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.Contains(tt.point); got != tt.inside {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.inside)
			}
		})
	}
}

func TestPolygon_TooFewVertices(t *testing.T) {
	for _, verts := range [][]Point{nil, {{0, 0}}, {{0, 0}, {5, 5}}} {
		p := NewPolygon(verts)
		if p.Contains(Point{0, 0}) || p.Contains(Point{2, 2}) {
			t.Errorf("polygon with %d vertices should contain nothing", len(verts))
		}
	}
}

func TestPolygon_Centroid(t *testing.T) {
	p := NewPolygon([]Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}})
	c := p.Centroid()
	if c.X != 5 || c.Y != 5 {
		t.Errorf("expected centroid (5, 5), got %v", c)
	}

	// vertex mean, not area centroid
	tri := NewPolygon([]Point{{0, 0}, {6, 0}, {0, 3}})
	c = tri.Centroid()
	if c.X != 2 || c.Y != 1 {
		t.Errorf("expected centroid (2, 1), got %v", c)
	}
}
