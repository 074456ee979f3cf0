package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/dronesearch/internal/coverage"
)

// Run steps sim cfg.MaxSteps times, reporting progress and collecting
// checkpoints along the way. On cancellation the partial result is
// returned together with an error wrapping both ErrCanceled and ctx.Err().
func Run(ctx context.Context, sim Stepper, cfg Config, opts ...Option) (*Result, error) {
	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeSteps, cfg.MaxSteps)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	wanted := make(map[int]bool, len(cfg.Checkpoints))
	for _, c := range cfg.Checkpoints {
		if c >= 0 && c < cfg.MaxSteps {
			wanted[c] = true
		}
	}

	result := &Result{
		Checkpoints: make([]Checkpoint, 0, len(wanted)),
		Curve:       make([]float64, 0, cfg.MaxSteps),
		Metrics:     make(map[string]float64),
	}
	for _, m := range o.metrics {
		m.Reset()
	}

	start := time.Now()
	o.report("starting simulation...")

	var err error
	for i := 0; i < cfg.MaxSteps; i++ {
		select {
		case <-ctx.Done():
			err = fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}
		if err != nil {
			o.report(fmt.Sprintf("simulation canceled after %d steps", result.StepsTaken))
			break
		}

		snap := sim.Step()
		result.StepsTaken++
		result.Final = &snap
		result.Curve = append(result.Curve, snap.CoveragePercent)

		if wanted[i] {
			result.Checkpoints = append(result.Checkpoints, Checkpoint{
				Step:     i,
				Coverage: snap.CoveragePercent,
				Grid:     snap.Grid.Clone(),
			})
		}
		for _, m := range o.metrics {
			m.Observe(snap)
		}
		if o.observer != nil {
			o.observer(snap)
		}
		if o.progress != nil {
			o.progress(float64(i+1) / float64(cfg.MaxSteps) * 100)
		}
	}

	result.Positions = sim.GeoPositions()
	result.Trails = sim.GeoTrails()
	for _, m := range o.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Elapsed = time.Since(start)

	if err != nil {
		return result, err
	}

	o.report(fmt.Sprintf("simulation complete! %d steps processed.", result.StepsTaken))
	if result.Final != nil {
		o.report(fmt.Sprintf("final coverage: %.1f%%", result.Final.CoveragePercent))
	}
	return result, nil
}

func (o *options) report(msg string) {
	if o.status != nil {
		o.status(msg)
	}
}

var _ Stepper = (*coverage.Simulation)(nil)
