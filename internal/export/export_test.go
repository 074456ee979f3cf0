package export

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/runner"
	"github.com/san-kum/dronesearch/internal/storage"
)

var area = []coverage.Point{{X: 77.10, Y: 28.50}, {X: 77.20, Y: 28.50}, {X: 77.20, Y: 28.60}, {X: 77.10, Y: 28.60}}

func runSearch(t *testing.T, steps int) (*coverage.Simulation, *runner.Result) {
	t.Helper()
	sim, err := coverage.New(area, coverage.WithAgents(3), coverage.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	res, err := runner.Run(context.Background(), sim, runner.Config{MaxSteps: steps, Checkpoints: []int{0}})
	if err != nil {
		t.Fatal(err)
	}
	return sim, res
}

func TestDroneColor_Cycles(t *testing.T) {
	if DroneColor(0) != "#3498db" || DroneColor(10) != "#3498db" || DroneColor(11) != "#e74c3c" {
		t.Error("palette does not cycle by agent index")
	}
}

func TestHeatmapCells(t *testing.T) {
	frame := coverage.NewFrame([]coverage.Point{{X: 0, Y: 0}, {X: 10, Y: 20}}, 100)
	g := coverage.NewGrid(2)
	g.Add(1, 0, 0.4)

	cells := HeatmapCells(g, frame)
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	c := cells[0]
	if math.Abs(c.Lon-7.5) > 1e-9 || math.Abs(c.Lat-5) > 1e-9 || c.Intensity != 0.4 {
		t.Errorf("unexpected cell %+v", c)
	}
}

func TestNewReport(t *testing.T) {
	sim, res := runSearch(t, 40)
	r := NewReport("test", sim.Area(), sim.Frame(), res)

	if r.Coverage == nil || *r.Coverage != res.Final.CoveragePercent {
		t.Errorf("coverage not carried over")
	}
	if len(r.Colors) != 3 || r.Colors[2] != DroneColors[2] {
		t.Errorf("unexpected colours %v", r.Colors)
	}
	if len(r.Heatmap) == 0 {
		t.Fatal("expected heatmap cells after 40 steps")
	}
	for _, c := range r.Heatmap {
		if c.Intensity <= 0 || c.Lon < 77.10 || c.Lon > 77.20 || c.Lat < 28.50 || c.Lat > 28.60 {
			t.Fatalf("heat cell outside area or empty: %+v", c)
		}
	}
	if len(r.Checkpoints) != 1 || r.Checkpoints[0].Step != 0 {
		t.Errorf("unexpected checkpoints %+v", r.Checkpoints)
	}
}

func TestWriteJSON(t *testing.T) {
	sim, res := runSearch(t, 5)
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewReport("test", sim.Area(), sim.Frame(), res)); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"area", "positions", "trails", "heatmap", "colors", "curve", "metrics"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report JSON missing %q", key)
		}
	}
	if _, ok := decoded["Grid"]; ok {
		t.Error("grid should not be serialized")
	}
}

func TestWriteJSON_NoSteps(t *testing.T) {
	sim, res := runSearch(t, 0)
	var buf bytes.Buffer
	WriteJSON(&buf, NewReport("empty", sim.Area(), sim.Frame(), res))

	if !strings.Contains(buf.String(), `"coverage": null`) {
		t.Errorf("expected null coverage, got %s", buf.String())
	}
}

func TestHeatmapSVG(t *testing.T) {
	g := coverage.NewGrid(3)
	g.Add(0, 0, 1)
	g.Add(2, 2, 0.5)

	svg := HeatmapSVG(g, 10)
	if strings.Count(svg, "<rect x=") != 2 {
		t.Errorf("expected 2 cell rects, got svg:\n%s", svg)
	}
	// row 0 is the southern edge
	if !strings.Contains(svg, `<rect x="0.0" y="20.0"`) {
		t.Error("south-west cell not drawn at the bottom")
	}
	if !strings.Contains(svg, `<rect x="20.0" y="0.0" width="10.0" height="10.0" fill-opacity="0.300"/>`) {
		t.Error("north-east cell missing or wrong opacity")
	}
	if HeatmapSVG(nil, 10) != "" {
		t.Error("nil grid should render nothing")
	}
}

func TestTrailsSVG(t *testing.T) {
	r := &Report{
		Area:      area,
		Trails:    [][]coverage.Point{{{X: 77.12, Y: 28.52}, {X: 77.13, Y: 28.53}}, {{X: 77.15, Y: 28.55}}},
		Positions: []coverage.Point{{X: 77.13, Y: 28.53}, {X: 77.15, Y: 28.55}},
	}
	r.finish(coverage.NewFrame(area, 0))

	svg := TrailsSVG(r, 400, 300)
	if !strings.Contains(svg, AreaColor) {
		t.Error("area outline missing")
	}
	if strings.Count(svg, `stroke-opacity="0.7"`) != 1 {
		t.Error("expected exactly one trail path, single-point trails are skipped")
	}
	if strings.Count(svg, "<circle") != 2 {
		t.Error("expected two drone markers")
	}
	if TrailsSVG(&Report{}, 10, 10) != "" {
		t.Error("empty report should render nothing")
	}
}

func TestHeatColor(t *testing.T) {
	if c := HeatColor(0); c.A != 0 || c.G != 0 {
		t.Errorf("zero intensity should be transparent, got %+v", c)
	}
	c := HeatColor(1)
	if c.R != 51 || c.G != 204 || c.B != 51 || c.A != 153 {
		t.Errorf("unexpected full intensity colour %+v", c)
	}
	if HeatColor(5) != c {
		t.Error("intensity not clamped")
	}
}

func TestHeatmapPNG(t *testing.T) {
	g := coverage.NewGrid(4)
	g.Add(0, 0, 1)

	var buf bytes.Buffer
	if err := HeatmapPNG(&buf, g, 3); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Errorf("expected 12x12 image, got %v", b)
	}
	// cell (0, 0) lands in the bottom-left corner
	if _, _, _, a := img.At(0, 11).RGBA(); a == 0 {
		t.Error("bottom-left pixel should be painted")
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("top-left pixel should be transparent")
	}
}

func TestFromStore(t *testing.T) {
	sim, res := runSearch(t, 25)
	st := storage.New(t.TempDir())
	st.Init()

	id, err := st.Save(storage.RunMetadata{Name: "roundtrip", Area: sim.Area(), FrameSize: sim.Frame().Size}, res)
	if err != nil {
		t.Fatal(err)
	}

	r, err := FromStore(st, id)
	if err != nil {
		t.Fatal(err)
	}
	want := NewReport(id, sim.Area(), sim.Frame(), res)

	if len(r.Heatmap) != len(want.Heatmap) {
		t.Errorf("heatmap has %d cells, want %d", len(r.Heatmap), len(want.Heatmap))
	}
	if len(r.Positions) != 3 {
		t.Errorf("positions should fall back to trail heads, got %d", len(r.Positions))
	}
	if *r.Coverage != *want.Coverage {
		t.Errorf("coverage %f, want %f", *r.Coverage, *want.Coverage)
	}
}
