package coverage

import "sort"

// Grid is a square, row-major scan intensity raster. Cell (x, y) lives at
// index y*Resolution + x and covers the frame square
// [x*S, (x+1)*S) x [y*S, (y+1)*S) with S = frameSize / Resolution.
type Grid struct {
	Resolution int
	Cells      []float64
}

func NewGrid(resolution int) *Grid {
	return &Grid{
		Resolution: resolution,
		Cells:      make([]float64, resolution*resolution),
	}
}

func (g *Grid) Index(x, y int) int { return y*g.Resolution + x }

func (g *Grid) At(x, y int) float64 { return g.Cells[g.Index(x, y)] }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Resolution && y < g.Resolution
}

// Add increases a cell by v, clamped at 1. Negative increments are ignored
// so values never decrease.
func (g *Grid) Add(x, y int, v float64) {
	if v <= 0 {
		return
	}
	i := g.Index(x, y)
	g.Cells[i] += v
	if g.Cells[i] > 1 {
		g.Cells[i] = 1
	}
}

func (g *Grid) Sum() float64 {
	sum := 0.0
	for _, v := range g.Cells {
		sum += v
	}
	return sum
}

// CountAbove returns the number of cells whose value is strictly greater
// than threshold.
func (g *Grid) CountAbove(threshold float64) int {
	n := 0
	for _, v := range g.Cells {
		if v > threshold {
			n++
		}
	}
	return n
}

func (g *Grid) Clone() *Grid {
	c := &Grid{Resolution: g.Resolution, Cells: make([]float64, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

// Rows returns the grid as a [y][x] matrix copy.
func (g *Grid) Rows() [][]float64 {
	rows := make([][]float64, g.Resolution)
	for y := range rows {
		rows[y] = make([]float64, g.Resolution)
		copy(rows[y], g.Cells[y*g.Resolution:(y+1)*g.Resolution])
	}
	return rows
}

// Lowest returns the indices of the n lowest cells. Ties keep index order.
func (g *Grid) Lowest(n int) []int {
	idx := make([]int, len(g.Cells))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return g.Cells[idx[a]] < g.Cells[idx[b]]
	})
	if n > len(idx) {
		n = len(idx)
	}
	return idx[:n]
}
