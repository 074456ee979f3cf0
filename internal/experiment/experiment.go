package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/dronesearch/internal/config"
	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/metrics"
	"github.com/san-kum/dronesearch/internal/runner"
	"github.com/san-kum/dronesearch/internal/storage"
)

// Experiment is one configured search run: a validated config and the
// simulation built from it.
type Experiment struct {
	cfg *config.Config
	sim *coverage.Simulation
}

func New(cfg *config.Config) (*Experiment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	sim, err := coverage.New(cfg.Area, cfg.Options()...)
	if err != nil {
		return nil, fmt.Errorf("experiment %s: %w", cfg.Name, err)
	}
	return &Experiment{cfg: cfg, sim: sim}, nil
}

// Run drives the simulation for the configured number of steps, recording
// the default metrics ahead of any caller supplied options.
func (e *Experiment) Run(ctx context.Context, opts ...runner.Option) (*runner.Result, error) {
	all := make([]runner.Option, 0, len(opts)+1)
	all = append(all, runner.WithMetrics(metrics.Defaults(e.cfg.Threshold)...))
	all = append(all, opts...)
	return runner.Run(ctx, e.sim, e.RunnerConfig(), all...)
}

func (e *Experiment) RunnerConfig() runner.Config {
	return RunnerConfig(e.cfg)
}

// Simulation returns the underlying simulation for observers and renderers.
func (e *Experiment) Simulation() *coverage.Simulation {
	return e.sim
}

func (e *Experiment) Config() *config.Config {
	return e.cfg.Clone()
}

// Metadata describes the experiment for the run store.
func (e *Experiment) Metadata() storage.RunMetadata {
	return Metadata(e.cfg)
}

func RunnerConfig(cfg *config.Config) runner.Config {
	return runner.Config{
		MaxSteps:    cfg.Steps,
		Checkpoints: append([]int(nil), cfg.Checkpoints...),
	}
}

func Metadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Name:       cfg.Name,
		Seed:       cfg.Seed,
		Agents:     cfg.Agents,
		Resolution: cfg.Resolution,
		Padding:    cfg.Padding,
		FrameSize:  cfg.FrameSize,
		Steps:      cfg.Steps,
		Area:       append([]coverage.Point(nil), cfg.Area...),
	}
}

// Builder returns an ensemble builder that rebuilds cfg with each seed.
func Builder(cfg *config.Config) runner.Builder {
	base := cfg.Clone()
	return func(seed int64) (runner.Stepper, error) {
		c := base.Clone()
		c.Seed = seed
		exp, err := New(c)
		if err != nil {
			return nil, err
		}
		return exp.sim, nil
	}
}
