package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/runner"
)

const (
	metadataFile = "metadata.json"
	coverageFile = "coverage.csv"
	trailsFile   = "trails.csv"
	gridFile     = "grid.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunMetadata describes a stored run. The caller supplies the run
// parameters; Save fills in the id, timestamp and results.
type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Agents      int                `json:"agents"`
	Resolution  int                `json:"resolution"`
	Padding     float64            `json:"padding"`
	FrameSize   float64            `json:"frame_size"`
	Steps       int                `json:"steps"`
	Area        []coverage.Point   `json:"area"`
	Checkpoints []CheckpointInfo   `json:"checkpoints,omitempty"`
	StepsTaken  int                `json:"steps_taken"`
	Coverage    *float64           `json:"coverage,omitempty"`
	Elapsed     time.Duration      `json:"elapsed_ns"`
	Metrics     map[string]float64 `json:"metrics"`
}

type CheckpointInfo struct {
	Step     int     `json:"step"`
	Coverage float64 `json:"coverage"`
}

// Save writes a run directory named <name>_<uuid8> and returns its id.
func (s *Store) Save(meta RunMetadata, res *runner.Result) (string, error) {
	if res == nil {
		return "", errors.New("storage: nil result")
	}
	if meta.Name == "" {
		meta.Name = "run"
	}

	runID := fmt.Sprintf("%s_%s", meta.Name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.StepsTaken = res.StepsTaken
	meta.Elapsed = res.Elapsed
	meta.Metrics = res.Metrics
	meta.Checkpoints = make([]CheckpointInfo, 0, len(res.Checkpoints))
	for _, c := range res.Checkpoints {
		meta.Checkpoints = append(meta.Checkpoints, CheckpointInfo{Step: c.Step, Coverage: c.Coverage})
	}
	if res.Final != nil {
		cov := res.Final.CoveragePercent
		meta.Coverage = &cov
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	curve := make([][]string, 0, len(res.Curve)+1)
	curve = append(curve, []string{"step", "coverage"})
	for i, c := range res.Curve {
		curve = append(curve, []string{strconv.Itoa(i + 1), formatFloat(c)})
	}
	if err := writeCSV(filepath.Join(runDir, coverageFile), curve); err != nil {
		return "", err
	}

	trails := [][]string{{"agent", "index", "lon", "lat"}}
	for a, trail := range res.Trails {
		for i, p := range trail {
			trails = append(trails, []string{strconv.Itoa(a), strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y)})
		}
	}
	if err := writeCSV(filepath.Join(runDir, trailsFile), trails); err != nil {
		return "", err
	}

	if res.Final != nil && res.Final.Grid != nil {
		rows := make([][]string, 0, res.Final.Grid.Resolution)
		for _, row := range res.Final.Grid.Rows() {
			rec := make([]string, len(row))
			for x, v := range row {
				rec[x] = formatFloat(v)
			}
			rows = append(rows, rec)
		}
		if err := writeCSV(filepath.Join(runDir, gridFile), rows); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.path(runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadCurve returns the per-step coverage curve.
func (s *Store) LoadCurve(runID string) ([]float64, error) {
	records, err := readCSV(s.path(runID, coverageFile))
	if err != nil {
		return nil, err
	}

	curve := make([]float64, 0, len(records))
	for _, rec := range skipHeader(records) {
		if len(rec) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		curve = append(curve, v)
	}
	return curve, nil
}

// LoadTrails returns the geographic trail of every agent.
func (s *Store) LoadTrails(runID string) ([][]coverage.Point, error) {
	records, err := readCSV(s.path(runID, trailsFile))
	if err != nil {
		return nil, err
	}

	var trails [][]coverage.Point
	for _, rec := range skipHeader(records) {
		if len(rec) < 4 {
			continue
		}
		agent, err1 := strconv.Atoi(rec[0])
		lon, err2 := strconv.ParseFloat(rec[2], 64)
		lat, err3 := strconv.ParseFloat(rec[3], 64)
		if err1 != nil || err2 != nil || err3 != nil || agent < 0 {
			continue
		}
		for len(trails) <= agent {
			trails = append(trails, nil)
		}
		trails[agent] = append(trails[agent], coverage.Point{X: lon, Y: lat})
	}
	return trails, nil
}

// LoadGrid returns the final coverage grid, or nil if the run took no steps.
func (s *Store) LoadGrid(runID string) (*coverage.Grid, error) {
	if _, err := os.Stat(filepath.Join(s.baseDir, runID)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	records, err := readCSV(s.path(runID, gridFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	g := coverage.NewGrid(len(records))
	for y, rec := range records {
		if len(rec) != g.Resolution {
			return nil, fmt.Errorf("run %s: grid row %d has %d cells, want %d", runID, y, len(rec), g.Resolution)
		}
		for x, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: grid cell (%d, %d): %w", runID, x, y, err)
			}
			g.Cells[g.Index(x, y)] = v
		}
	}
	return g, nil
}

func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

func skipHeader(records [][]string) [][]string {
	if len(records) == 0 {
		return records
	}
	return records[1:]
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return f.Close()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
