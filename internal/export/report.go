package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/runner"
)

// DroneColors is the marker and trail palette, cycled by agent index.
var DroneColors = []string{
	"#3498db", "#e74c3c", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#d35400", "#2c3e50", "#27ae60", "#c0392b",
}

const AreaColor = "#6bc2e5"

func DroneColor(i int) string {
	if i < 0 {
		i = -i
	}
	return DroneColors[i%len(DroneColors)]
}

// HeatCell is one scanned grid cell located by its centre.
type HeatCell struct {
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Intensity float64 `json:"intensity"`
}

type CheckpointSummary struct {
	Step     int     `json:"step"`
	Coverage float64 `json:"coverage"`
}

// Report is everything a map renderer needs to draw a finished search.
type Report struct {
	Name        string              `json:"name"`
	Area        []coverage.Point    `json:"area"`
	Resolution  int                 `json:"resolution"`
	Coverage    *float64            `json:"coverage"`
	Positions   []coverage.Point    `json:"positions"`
	Trails      [][]coverage.Point  `json:"trails"`
	Colors      []string            `json:"colors"`
	Heatmap     []HeatCell          `json:"heatmap"`
	Curve       []float64           `json:"curve"`
	Checkpoints []CheckpointSummary `json:"checkpoints"`
	Metrics     map[string]float64  `json:"metrics"`
	Grid        *coverage.Grid      `json:"-"`
}

// NewReport builds a report from a finished run. frame must be the frame
// the run was simulated in.
func NewReport(name string, area []coverage.Point, frame coverage.Frame, res *runner.Result) *Report {
	r := &Report{
		Name:      name,
		Area:      area,
		Positions: res.Positions,
		Trails:    res.Trails,
		Curve:     res.Curve,
		Metrics:   res.Metrics,
	}
	if res.Final != nil {
		cov := res.Final.CoveragePercent
		r.Coverage = &cov
		r.Grid = res.Final.Grid
	}
	for _, c := range res.Checkpoints {
		r.Checkpoints = append(r.Checkpoints, CheckpointSummary{Step: c.Step, Coverage: c.Coverage})
	}
	r.finish(frame)
	return r
}

// finish derives the colours, the resolution and the heatmap. Positions
// default to the trail heads when only trails are known.
func (r *Report) finish(frame coverage.Frame) {
	if len(r.Positions) == 0 {
		for _, t := range r.Trails {
			if len(t) > 0 {
				r.Positions = append(r.Positions, t[len(t)-1])
			}
		}
	}
	n := max(len(r.Positions), len(r.Trails))
	r.Colors = make([]string, n)
	for i := range r.Colors {
		r.Colors[i] = DroneColor(i)
	}
	if r.Grid != nil {
		r.Resolution = r.Grid.Resolution
		r.Heatmap = HeatmapCells(r.Grid, frame)
	}
}

// HeatmapCells returns the geographic centre and intensity of every cell
// with a positive value.
func HeatmapCells(g *coverage.Grid, frame coverage.Frame) []HeatCell {
	if g == nil || g.Resolution == 0 {
		return nil
	}
	cs := frame.Size / float64(g.Resolution)
	cells := make([]HeatCell, 0)
	for y := 0; y < g.Resolution; y++ {
		for x := 0; x < g.Resolution; x++ {
			v := g.At(x, y)
			if v <= 0 {
				continue
			}
			geo := frame.FrameToGeo(coverage.Point{X: (float64(x) + 0.5) * cs, Y: (float64(y) + 0.5) * cs})
			cells = append(cells, HeatCell{Lon: geo.X, Lat: geo.Y, Intensity: v})
		}
	}
	return cells
}

func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
