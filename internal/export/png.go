package export

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/san-kum/dronesearch/internal/coverage"
)

// The heatmap ramps linearly from fully transparent to this colour.
const (
	maxRed   = 0.2
	maxGreen = 0.8
	maxBlue  = 0.2
	maxAlpha = 0.6
)

// HeatColor maps an intensity in [0, 1] onto the heatmap ramp.
func HeatColor(v float64) color.NRGBA {
	v = math.Max(0, math.Min(1, v))
	ch := func(c float64) uint8 { return uint8(math.Round(c * v * 255)) }
	return color.NRGBA{R: ch(maxRed), G: ch(maxGreen), B: ch(maxBlue), A: ch(maxAlpha)}
}

// HeatmapImage renders the grid with scale pixels per cell, north up.
func HeatmapImage(g *coverage.Grid, scale int) *image.NRGBA {
	if scale < 1 {
		scale = 1
	}
	side := g.Resolution * scale
	img := image.NewNRGBA(image.Rect(0, 0, side, side))

	for y := 0; y < g.Resolution; y++ {
		row := g.Resolution - 1 - y
		for x := 0; x < g.Resolution; x++ {
			c := HeatColor(g.At(x, y))
			for py := row * scale; py < (row+1)*scale; py++ {
				for px := x * scale; px < (x+1)*scale; px++ {
					img.SetNRGBA(px, py, c)
				}
			}
		}
	}
	return img
}

func HeatmapPNG(w io.Writer, g *coverage.Grid, scale int) error {
	return png.Encode(w, HeatmapImage(g, scale))
}
