package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/runner"
)

func testResult() *runner.Result {
	g := coverage.NewGrid(2)
	g.Cells = []float64{0.25, 0, 1, 0.5}
	final := coverage.Snapshot{Step: 3, Grid: g, CoveragePercent: 50}

	return &runner.Result{
		Final:       &final,
		Checkpoints: []runner.Checkpoint{{Step: 1, Coverage: 25, Grid: g}},
		Curve:       []float64{0, 25, 50},
		Trails: [][]coverage.Point{
			{{X: 77.1, Y: 28.6}, {X: 77.2, Y: 28.61}},
			{{X: 77.3, Y: 28.7}},
		},
		Metrics:    map[string]float64{"final_coverage": 50},
		StepsTaken: 3,
		Elapsed:    time.Millisecond,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{Name: "ridge", Seed: 42, Agents: 2, Resolution: 2, Steps: 3}
	runID, err := st.Save(meta, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "ridge_") || len(runID) != len("ridge_")+8 {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.StepsTaken != 3 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Coverage == nil || *loaded.Coverage != 50 {
		t.Errorf("expected coverage 50, got %v", loaded.Coverage)
	}
	if diff := cmp.Diff([]CheckpointInfo{{Step: 1, Coverage: 25}}, loaded.Checkpoints); diff != "" {
		t.Errorf("checkpoints mismatch (-want +got):\n%s", diff)
	}

	curve, err := st.LoadCurve(runID)
	if err != nil {
		t.Fatalf("load curve failed: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 25, 50}, curve); diff != "" {
		t.Errorf("curve mismatch (-want +got):\n%s", diff)
	}

	trails, err := st.LoadTrails(runID)
	if err != nil {
		t.Fatalf("load trails failed: %v", err)
	}
	if diff := cmp.Diff(testResult().Trails, trails); diff != "" {
		t.Errorf("trails mismatch (-want +got):\n%s", diff)
	}

	grid, err := st.LoadGrid(runID)
	if err != nil {
		t.Fatalf("load grid failed: %v", err)
	}
	if diff := cmp.Diff(testResult().Final.Grid, grid); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreSave_EmptyRun(t *testing.T) {
	st := New(t.TempDir())
	st.Init()

	runID, err := st.Save(RunMetadata{}, &runner.Result{Metrics: map[string]float64{}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "run_") {
		t.Errorf("expected default name, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Coverage != nil {
		t.Errorf("expected undefined coverage, got %f", *meta.Coverage)
	}

	grid, err := st.LoadGrid(runID)
	if err != nil || grid != nil {
		t.Errorf("expected no grid, got %v, %v", grid, err)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	st.Init()

	first, _ := st.Save(RunMetadata{Name: "a"}, testResult())
	time.Sleep(10 * time.Millisecond)
	second, _ := st.Save(RunMetadata{Name: "b"}, testResult())

	os.MkdirAll(filepath.Join(dir, "junk"), 0755)
	os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	st.Init()

	if _, err := st.Load("missing_12345678"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadGrid("missing_12345678"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadGrid: expected ErrRunNotFound, got %v", err)
	}
	if err := st.Delete("missing_12345678"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Delete: expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	st := New(t.TempDir())
	st.Init()

	id, _ := st.Save(RunMetadata{Name: "gone"}, testResult())
	if err := st.Delete(id); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected deleted run to be missing, got %v", err)
	}
}
