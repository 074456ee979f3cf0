// Package tui draws a coverage run as plain ASCII frames. It needs no
// raw terminal mode, so it also works when output is piped.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/dronesearch/internal/coverage"
)

const (
	width       = 70
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Area is the part of a simulation the renderer needs to draw the map.
type Area interface {
	Frame() coverage.Frame
	Polygon() *coverage.Polygon
}

// LiveRenderer redraws the map at most frameRate times per second. Use
// OnSnapshot as a runner observer.
type LiveRenderer struct {
	out       io.Writer
	area      Area
	title     string
	frameRate int
	ansi      bool
	lastFrame time.Time
	canvas    [][]rune
}

func NewLiveRenderer(out io.Writer, area Area, title string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	if frameRate <= 0 {
		frameRate = 10
	}
	return &LiveRenderer{
		out:       out,
		area:      area,
		title:     title,
		frameRate: frameRate,
		ansi:      true,
		canvas:    canvas,
	}
}

// Plain disables the clear-screen and cursor escape codes.
func (r *LiveRenderer) Plain() *LiveRenderer {
	r.ansi = false
	return r
}

func (r *LiveRenderer) OnSnapshot(s coverage.Snapshot) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.Draw(s)
}

// Draw renders s unconditionally.
func (r *LiveRenderer) Draw(s coverage.Snapshot) {
	r.clear()
	r.drawOutline()
	for _, trail := range s.Trails {
		for _, p := range trail {
			x, y := r.project(p)
			r.set(x, y, '.')
		}
	}
	for i, p := range s.Positions {
		x, y := r.project(p)
		r.set(x, y, agentRune(i))
	}
	r.render(s)
}

func agentRune(i int) rune {
	const marks = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return rune(marks[i%len(marks)])
}

func (r *LiveRenderer) project(p coverage.Point) (int, int) {
	size := r.area.Frame().Size
	if size <= 0 {
		return 0, height - 1
	}
	x := int(p.X / size * float64(width-1))
	y := height - 1 - int(p.Y/size*float64(height-1))
	return x, y
}

func (r *LiveRenderer) drawOutline() {
	verts := r.area.Polygon().Vertices()
	for i := range verts {
		if len(verts) < 2 {
			break
		}
		x1, y1 := r.project(verts[i])
		x2, y2 := r.project(verts[(i+1)%len(verts)])
		r.line(x1, y1, x2, y2, '#')
	}
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *LiveRenderer) render(s coverage.Snapshot) {
	var b strings.Builder
	if r.ansi {
		b.WriteString(clearScreen)
	}
	b.WriteString(fmt.Sprintf("  %s  step=%d  coverage=%.1f%%\n", r.title, s.Step, s.CoveragePercent))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() {
	if r.ansi {
		fmt.Fprint(r.out, hideCursor)
	}
}

func (r *LiveRenderer) Stop() {
	if r.ansi {
		fmt.Fprint(r.out, showCursor)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
