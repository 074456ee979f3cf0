package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dronesearch/internal/config"
	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/experiment"
	"github.com/san-kum/dronesearch/internal/metrics"
	"github.com/san-kum/dronesearch/internal/runner"
	"github.com/san-kum/dronesearch/internal/storage"
)

// Scenario is a scripted batch of search runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. The base configuration comes from Config (a run
// file), else Preset, else the defaults; set fields override it.
type ScenarioStep struct {
	Name        string           `yaml:"name"`
	Preset      string           `yaml:"preset"`
	Config      string           `yaml:"config"`
	Area        []coverage.Point `yaml:"area,omitempty"`
	Agents      *int             `yaml:"agents,omitempty"`
	Padding     *float64         `yaml:"padding,omitempty"`
	Resolution  *int             `yaml:"resolution,omitempty"`
	Steps       *int             `yaml:"steps,omitempty"`
	Seed        *int64           `yaml:"seed,omitempty"`
	Threshold   *float64         `yaml:"threshold,omitempty"`
	Checkpoints []int            `yaml:"checkpoints,omitempty"`
	Save        bool             `yaml:"save"`
}

// StepResult pairs a scenario step with its resolved config and outcome.
type StepResult struct {
	Config *config.Config
	Result *runner.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &scenario, nil
}

// Resolve builds the run configuration for the step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		c, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if s.Name != "" {
		cfg.Name = s.Name
	}
	if len(s.Area) > 0 {
		cfg.Area = append([]coverage.Point(nil), s.Area...)
	}
	if s.Agents != nil {
		cfg.Agents = *s.Agents
	}
	if s.Padding != nil {
		cfg.Padding = *s.Padding
	}
	if s.Resolution != nil {
		cfg.Resolution = *s.Resolution
	}
	if s.Steps != nil {
		cfg.Steps = *s.Steps
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.Threshold != nil {
		cfg.Threshold = *s.Threshold
	}
	if s.Checkpoints != nil {
		cfg.Checkpoints = append([]int(nil), s.Checkpoints...)
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. Steps marked Save are written
// to st when it is non-nil. On error the results of completed steps are
// returned with it.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, status func(string)) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	if status == nil {
		status = func(string) {}
	}

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		status(fmt.Sprintf("running step %d/%d: %s", i+1, len(scenario.Steps), cfg.Name))

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: res}
		if step.Save && st != nil {
			id, err := st.Save(exp.Metadata(), res)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig repeats one run configuration over random seeds.
type MonteCarloConfig struct {
	Config    *config.Config
	NumTrials int
	// Seed drives the trial seeds; 0 picks one from the clock.
	Seed int64
	// Limit caps concurrent trials; <= 0 means unlimited.
	Limit int
}

type MonteCarloResult struct {
	TrialID  int
	Seed     int64
	Coverage float64
	// StepsToThreshold is -1 when the threshold was not reached.
	StepsToThreshold int
	Reached          bool
}

// RunMonteCarlo runs NumTrials independent simulations concurrently.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.Config == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := cfg.Config.Validate(); err != nil {
		return nil, err
	}
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", config.ErrInvalidConfig, cfg.NumTrials)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	seeds := make([]int64, cfg.NumTrials)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	threshold := cfg.Config.Threshold
	newOpts := func() []runner.Option {
		return []runner.Option{runner.WithMetrics(metrics.NewStepsToThreshold(threshold))}
	}

	ens := runner.Ensemble{Seeds: seeds, Limit: cfg.Limit}
	runs, err := ens.Run(ctx, experiment.Builder(cfg.Config), experiment.RunnerConfig(cfg.Config), newOpts)
	if err != nil {
		return nil, err
	}

	key := metrics.NewStepsToThreshold(threshold).Name()
	results := make([]MonteCarloResult, len(runs))
	for i, res := range runs {
		steps := int(res.Metrics[key])
		results[i] = MonteCarloResult{
			TrialID:          i,
			Seed:             seeds[i],
			Coverage:         res.Coverage(),
			StepsToThreshold: steps,
			Reached:          steps >= 0,
		}
	}
	return results, nil
}

// MonteCarloStats summarises trials. Mean coverage skips trials that never
// stepped; mean steps only counts trials that reached the threshold.
func MonteCarloStats(results []MonteCarloResult) (reached, missed int, meanCoverage, meanSteps float64) {
	var covN int
	for _, r := range results {
		if r.Reached {
			reached++
			meanSteps += float64(r.StepsToThreshold)
		} else {
			missed++
		}
		if !math.IsNaN(r.Coverage) {
			meanCoverage += r.Coverage
			covN++
		}
	}
	if covN > 0 {
		meanCoverage /= float64(covN)
	} else {
		meanCoverage = math.NaN()
	}
	if reached > 0 {
		meanSteps /= float64(reached)
	} else {
		meanSteps = -1
	}
	return
}
