package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/export"
)

const (
	width        = 60
	height       = 30
	curveHistory = 600
	tickRate     = time.Second / 30
)

// Builder creates the simulation shown by the view. It is called again on
// reset, so it must be deterministic for a restart to replay the search.
type Builder func() (*coverage.Simulation, error)

type TickMsg time.Time

// Model steps a simulation on every tick and draws it.
type Model struct {
	build    Builder
	sim      *coverage.Simulation
	snap     coverage.Snapshot
	title    string
	maxSteps int
	canvas   *Canvas
	curve    []float64
	running  bool
	heatmap  bool
	showHelp bool
	theme    Theme
	err      error
}

// NewModel builds the first simulation. maxSteps <= 0 runs until quit.
func NewModel(title string, build Builder, maxSteps int) (Model, error) {
	m := Model{
		build:    build,
		title:    title,
		maxSteps: maxSteps,
		canvas:   NewCanvas(width, height),
		running:  true,
		theme:    ThemeSurvey,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		case "h":
			m.heatmap = !m.heatmap
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.Done() {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() error {
	sim, err := m.build()
	if err != nil {
		return err
	}
	m.sim = sim
	m.snap = sim.Snapshot()
	m.curve = m.curve[:0]
	return nil
}

func (m *Model) step() {
	m.snap = m.sim.Step()
	m.curve = append(m.curve, m.snap.CoveragePercent)
	if len(m.curve) > curveHistory {
		m.curve = m.curve[1:]
	}
}

// Done reports whether the step budget is used up.
func (m Model) Done() bool { return m.maxSteps > 0 && m.snap.Step >= m.maxSteps }

func (m Model) Err() error { return m.err }

func (m Model) Snapshot() coverage.Snapshot { return m.snap }

func (m Model) Running() bool { return m.running }

// toPixel maps a frame point onto the canvas, north up.
func (m Model) toPixel(p coverage.Point) (int, int) {
	cw, ch := m.canvas.PixelSize()
	size := m.sim.Frame().Size
	if size <= 0 {
		return 0, ch - 1
	}
	x := int(p.X / size * float64(cw-1))
	y := ch - 1 - int(p.Y/size*float64(ch-1))
	return x, y
}

func (m Model) drawMap() string {
	m.canvas.Clear()

	verts := m.sim.Polygon().Vertices()
	xs, ys := make([]int, len(verts)), make([]int, len(verts))
	for i, v := range verts {
		xs[i], ys[i] = m.toPixel(v)
	}
	m.canvas.DrawPath(xs, ys, true)

	for _, trail := range m.snap.Trails {
		for _, p := range trail {
			m.canvas.Set(m.toPixel(p))
		}
	}
	for _, p := range m.snap.Positions {
		x, y := m.toPixel(p)
		m.canvas.Dot(x, y, 1)
	}
	return lipgloss.NewStyle().Foreground(m.theme.Area).Render(m.canvas.String())
}

func (m Model) drawHeatmap() string {
	g := m.snap.Grid
	if g == nil || g.Resolution == 0 {
		return strings.Repeat("\n", height)
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		y := (height - 1 - row) * g.Resolution / height
		for col := 0; col < width; col++ {
			x := col * g.Resolution / width
			b.WriteRune(heatRune(g.At(x, y)))
		}
		b.WriteByte('\n')
	}
	return lipgloss.NewStyle().Foreground(m.theme.Heat).Render(b.String())
}

func (m Model) View() string {
	var view string
	if m.heatmap {
		view = m.drawHeatmap()
	} else {
		view = m.drawMap()
	}
	canvasView := canvasStyle.Render(view)

	status := "RUNNING"
	switch {
	case m.Done():
		status = "COMPLETE"
	case !m.running:
		status = "PAUSED"
	}

	title := lipgloss.NewStyle().Foreground(m.theme.Title).Bold(true).MarginBottom(1)
	var s strings.Builder
	s.WriteString(title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")

	if len(m.curve) > 1 {
		chart := asciigraph.Plot(m.curve, asciigraph.Height(5), asciigraph.Width(30),
			asciigraph.LowerBound(0), asciigraph.UpperBound(100), asciigraph.Caption("Coverage %"))
		s.WriteString(graphStyle.Foreground(m.theme.Trail).Render(chart) + "\n\n")
	}

	steps := fmt.Sprintf("%d", m.snap.Step)
	if m.maxSteps > 0 {
		steps += fmt.Sprintf(" / %d", m.maxSteps)
	}
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(steps) + "\n")
	s.WriteString(labelStyle.Render("Coverage") + valueStyle.Render(fmt.Sprintf("%.1f%%", m.snap.CoveragePercent)) + "\n")
	s.WriteString(labelStyle.Render("") + ProgressBar(m.snap.CoveragePercent/100, 20, m.theme) + "\n")
	s.WriteString(labelStyle.Render("Cells") + valueStyle.Render(fmt.Sprintf("%d explorable", m.sim.ExplorableCells())) + "\n")

	s.WriteString("\nDRONES\n")
	geo := m.sim.GeoPositions()
	for i, p := range geo {
		s.WriteString(fmt.Sprintf("%s %-2d %s\n", Swatch(export.DroneColor(i)), i, valueStyle.Render(formatLonLat(p))))
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Restart Q:Quit\nH:Heatmap T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.err != nil {
		mainView += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error())
	}
	if m.showHelp {
		help := helpBox.Render(strings.Join([]string{
			"Space  pause / resume",
			"R      restart with the same seed",
			"H      toggle scan heatmap",
			"T      cycle themes (" + m.theme.Name + ")",
			"?      toggle this help",
			"Q      quit",
		}, "\n"))
		return help + "\n\n" + mainView
	}
	return mainView
}

func formatLonLat(p coverage.Point) string {
	ns, ew := "N", "E"
	if p.Y < 0 {
		ns = "S"
	}
	if p.X < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f°%s %.4f°%s", math.Abs(p.Y), ns, math.Abs(p.X), ew)
}
