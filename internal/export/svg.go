package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/dronesearch/internal/coverage"
)

// HeatmapSVG renders the grid as scale-sized squares, north up. Empty
// cells are left out.
func HeatmapSVG(g *coverage.Grid, scale float64) string {
	if g == nil || g.Resolution == 0 {
		return ""
	}

	size := float64(g.Resolution) * scale
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="rgb(51,204,51)">
`, size, size, size, size))

	for y := 0; y < g.Resolution; y++ {
		for x := 0; x < g.Resolution; x++ {
			v := g.At(x, y)
			if v <= 0 {
				continue
			}
			row := g.Resolution - 1 - y
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill-opacity="%.3f"/>
`, float64(x)*scale, float64(row)*scale, scale, scale, maxAlpha*v))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrailsSVG draws the area outline, every trail and the final positions
// of a report, north up.
func TrailsSVG(r *Report, width, height int) string {
	pts := append([]coverage.Point(nil), r.Area...)
	for _, t := range r.Trails {
		pts = append(pts, t...)
	}
	pts = append(pts, r.Positions...)
	if len(pts) == 0 {
		return ""
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p coverage.Point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}
	path := func(ps []coverage.Point, closed bool) string {
		var b strings.Builder
		for i, p := range ps {
			x, y := project(p)
			if i == 0 {
				b.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				b.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		if closed {
			b.WriteString(" Z")
		}
		return b.String()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(r.Area) >= 3 {
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="%s" fill-opacity="0.1" stroke="%s" stroke-width="2"/>
`, path(r.Area, true), AreaColor, AreaColor))
	}

	for i, t := range r.Trails {
		if len(t) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-opacity="0.7"/>
`, path(t, false), colorAt(r, i)))
	}

	for i, p := range r.Positions {
		x, y := project(p)
		c := colorAt(r, i)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="%s" fill-opacity="0.8" stroke="%s" stroke-width="2"/>
`, x, y, c, c))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func colorAt(r *Report, i int) string {
	if i < len(r.Colors) {
		return r.Colors[i]
	}
	return DroneColor(i)
}
