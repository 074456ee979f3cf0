package runner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Builder creates a fresh simulation for one ensemble member.
type Builder func(seed int64) (Stepper, error)

// Ensemble runs one independent simulation per seed.
type Ensemble struct {
	Seeds []int64
	// Limit caps concurrent runs; <= 0 means unlimited.
	Limit int
}

// SeedRange returns n consecutive seeds starting at start.
func SeedRange(start int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = start + int64(i)
	}
	return seeds
}

// Run executes every member concurrently. Results are in seed order. The
// first failure cancels the remaining runs. Metrics are not shared, so
// options carrying metrics should come from newOpts, which is called once
// per member.
func (e Ensemble) Run(ctx context.Context, build Builder, cfg Config, newOpts func() []Option) ([]*Result, error) {
	results := make([]*Result, len(e.Seeds))

	g, gctx := errgroup.WithContext(ctx)
	if e.Limit > 0 {
		g.SetLimit(e.Limit)
	}

	for i, seed := range e.Seeds {
		g.Go(func() error {
			sim, err := build(seed)
			if err != nil {
				return err
			}
			var opts []Option
			if newOpts != nil {
				opts = newOpts()
			}
			res, err := Run(gctx, sim, cfg, opts...)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
