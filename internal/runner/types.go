package runner

import (
	"math"
	"time"

	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/metrics"
)

// Stepper is the part of a coverage simulation the runner drives.
type Stepper interface {
	Step() coverage.Snapshot
	GeoPositions() []coverage.Point
	GeoTrails() [][]coverage.Point
}

type Config struct {
	MaxSteps    int   `json:"max_steps" yaml:"max_steps"`
	Checkpoints []int `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
}

// Checkpoint captures the grid at a requested step. Step is 0-based: the
// checkpoint for step k is taken after k+1 calls to Step.
type Checkpoint struct {
	Step     int            `json:"step"`
	Coverage float64        `json:"coverage"`
	Grid     *coverage.Grid `json:"grid"`
}

type Result struct {
	Final       *coverage.Snapshot `json:"final,omitempty"`
	Checkpoints []Checkpoint       `json:"checkpoints"`
	Curve       []float64          `json:"curve"`
	Positions   []coverage.Point   `json:"positions"`
	Trails      [][]coverage.Point `json:"trails"`
	Metrics     map[string]float64 `json:"metrics"`
	StepsTaken  int                `json:"steps_taken"`
	Elapsed     time.Duration      `json:"elapsed"`
}

// Coverage returns the final coverage percent, NaN when no step ran.
func (r *Result) Coverage() float64 {
	if r == nil || r.Final == nil {
		return math.NaN()
	}
	return r.Final.CoveragePercent
}

type options struct {
	progress func(float64)
	status   func(string)
	metrics  []metrics.Metric
	observer func(coverage.Snapshot)
}

type Option func(*options)

// WithProgress receives the completion percentage after every step.
func WithProgress(fn func(float64)) Option { return func(o *options) { o.progress = fn } }

func WithStatus(fn func(string)) Option { return func(o *options) { o.status = fn } }

func WithMetrics(ms ...metrics.Metric) Option {
	return func(o *options) { o.metrics = append(o.metrics, ms...) }
}

// WithObserver is called with every snapshot, in step order.
func WithObserver(fn func(coverage.Snapshot)) Option { return func(o *options) { o.observer = fn } }
