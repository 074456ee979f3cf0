package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/dronesearch/internal/config"
	"github.com/san-kum/dronesearch/internal/experiment"
)

var (
	ErrUnknownParam = errors.New("optim: unknown parameter")
	ErrNoTrials     = errors.New("optim: no parameter combinations")
)

// Params lists the config fields a search can vary.
var Params = []string{"agents", "padding", "resolution", "frame_size"}

// Objective names the metric to optimise. Minimised metrics treat negative
// values as "never reached" and rank them last.
type Objective struct {
	Metric   string
	Maximize bool
}

func (o Objective) score(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(1)
	}
	if o.Maximize {
		return -v
	}
	if v < 0 {
		return math.Inf(1)
	}
	return v
}

type Trial struct {
	Params   map[string]float64 `json:"params"`
	Value    float64            `json:"value"`
	Coverage float64            `json:"coverage"`
}

type Outcome struct {
	Best   map[string]float64 `json:"best"`
	Value  float64            `json:"value"`
	Trials []Trial            `json:"trials"`
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Limit caps concurrent trials; <= 0 means unlimited.
	Limit int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs one experiment per parameter combination built from base and
// returns the combination with the best objective value. Ties keep the
// earliest combination.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, obj Objective) (*Outcome, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var combos []map[string]float64
	g.collect(0, make(map[string]float64), &combos)
	if len(combos) == 0 {
		return nil, ErrNoTrials
	}

	exps := make([]*experiment.Experiment, len(combos))
	for i, params := range combos {
		cfg, err := Apply(base, params)
		if err != nil {
			return nil, err
		}
		if exps[i], err = experiment.New(cfg); err != nil {
			return nil, fmt.Errorf("trial %v: %w", params, err)
		}
	}

	trials := make([]Trial, len(combos))
	eg, gctx := errgroup.WithContext(ctx)
	if g.Limit > 0 {
		eg.SetLimit(g.Limit)
	}
	for i, exp := range exps {
		eg.Go(func() error {
			res, err := exp.Run(gctx)
			if err != nil {
				return err
			}
			val, ok := res.Metrics[obj.Metric]
			if !ok {
				return fmt.Errorf("optim: metric %q not recorded", obj.Metric)
			}
			trials[i] = Trial{Params: combos[i], Value: val, Coverage: res.Coverage()}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i := range trials {
		if obj.score(trials[i].Value) < obj.score(trials[best].Value) {
			best = i
		}
	}
	return &Outcome{
		Best:   copyParams(trials[best].Params),
		Value:  trials[best].Value,
		Trials: trials,
	}, nil
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, copyParams(current))
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := copyParams(current)
		next[name] = val
		g.collect(depth+1, next, out)
	}
}

// Apply returns a copy of base with the named parameters overridden.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := base.Clone()

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := params[name]
		switch name {
		case "agents":
			cfg.Agents = int(v)
		case "padding":
			cfg.Padding = v
		case "resolution":
			cfg.Resolution = int(v)
		case "frame_size":
			cfg.FrameSize = v
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	return cfg, nil
}

func copyParams(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
