package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/dronesearch/internal/metrics"
)

// Registry maps metric names to constructors. Threshold based metrics take
// the coverage percent they track; the rest ignore it.
type Registry struct {
	metrics map[string]func(threshold float64) metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(float64) metrics.Metric),
	}

	r.metrics["final_coverage"] = func(float64) metrics.Metric { return metrics.NewFinalCoverage() }
	r.metrics["steps_to_threshold"] = func(t float64) metrics.Metric { return metrics.NewStepsToThreshold(t) }
	r.metrics["path_length"] = func(float64) metrics.Metric { return metrics.NewPathLength() }
	r.metrics["mean_intensity"] = func(float64) metrics.Metric { return metrics.NewMeanIntensity() }
	r.metrics["stall_ratio"] = func(float64) metrics.Metric { return metrics.NewStall() }

	return r
}

func (r *Registry) GetMetric(name string, threshold float64) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(threshold), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(threshold float64) []metrics.Metric {
	return metrics.Defaults(threshold)
}
