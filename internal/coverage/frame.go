package coverage

import "math"

// Frame maps geographic coordinates into the square simulation frame
// [0, Size] x [0, Size]. Each axis is scaled independently from the
// bounding box of the search area, so the map never rotates.
type Frame struct {
	MinX, MinY    float64
	Width, Height float64
	Size          float64
}

// NewFrame derives a frame from the bounding box of area. A size <= 0
// selects the native frame, max(width, height) in source units.
func NewFrame(area []Point, size float64) Frame {
	if len(area) == 0 {
		return Frame{Size: math.Max(size, 0)}
	}

	minX, minY := area[0].X, area[0].Y
	maxX, maxY := minX, minY
	for _, p := range area[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	f := Frame{
		MinX:   minX,
		MinY:   minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
	if size > 0 {
		f.Size = size
	} else {
		f.Size = math.Max(f.Width, f.Height)
	}
	return f
}

// GeoToFrame converts a geographic point into frame coordinates. A
// degenerate axis (zero extent) maps to 0.
func (f Frame) GeoToFrame(p Point) Point {
	var out Point
	if f.Width != 0 {
		out.X = (p.X - f.MinX) / f.Width * f.Size
	}
	if f.Height != 0 {
		out.Y = (p.Y - f.MinY) / f.Height * f.Size
	}
	return out
}

// FrameToGeo is the inverse of GeoToFrame.
func (f Frame) FrameToGeo(p Point) Point {
	out := Point{X: f.MinX, Y: f.MinY}
	if f.Size != 0 {
		out.X += p.X / f.Size * f.Width
		out.Y += p.Y / f.Size * f.Height
	}
	return out
}

func (f Frame) GeoToFrameAll(ps []Point) []Point {
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = f.GeoToFrame(p)
	}
	return out
}

func (f Frame) FrameToGeoAll(ps []Point) []Point {
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = f.FrameToGeo(p)
	}
	return out
}

// Degenerate reports whether the frame collapses at least one axis.
func (f Frame) Degenerate() bool {
	return f.Size <= 0 || f.Width == 0 || f.Height == 0
}
