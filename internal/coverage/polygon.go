package coverage

// Polygon is a frame-mapped search area. The ring is implicitly closed.
type Polygon struct {
	vertices []Point
	centroid Point
	minX     float64
	minY     float64
	maxX     float64
	maxY     float64
}

func NewPolygon(vertices []Point) *Polygon {
	p := &Polygon{vertices: append([]Point(nil), vertices...)}
	if len(vertices) == 0 {
		return p
	}

	p.minX, p.minY = vertices[0].X, vertices[0].Y
	p.maxX, p.maxY = p.minX, p.minY
	var sx, sy float64
	for _, v := range vertices {
		sx += v.X
		sy += v.Y
		if v.X < p.minX {
			p.minX = v.X
		}
		if v.X > p.maxX {
			p.maxX = v.X
		}
		if v.Y < p.minY {
			p.minY = v.Y
		}
		if v.Y > p.maxY {
			p.maxY = v.Y
		}
	}
	n := float64(len(vertices))
	p.centroid = Point{sx / n, sy / n}
	return p
}

// Contains reports whether pt lies inside the polygon using the even-odd
// rule. Fewer than three vertices contain nothing.
func (p *Polygon) Contains(pt Point) bool {
	n := len(p.vertices)
	if n < 3 || !pt.IsValid() {
		return false
	}
	if pt.X < p.minX || pt.X > p.maxX || pt.Y < p.minY || pt.Y > p.maxY {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.vertices[i], p.vertices[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xCross := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// Centroid returns the mean of the vertices, not the area centroid.
func (p *Polygon) Centroid() Point { return p.centroid }

func (p *Polygon) Vertices() []Point { return append([]Point(nil), p.vertices...) }

func (p *Polygon) Len() int { return len(p.vertices) }
