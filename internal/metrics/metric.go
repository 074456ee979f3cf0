package metrics

import "github.com/san-kum/dronesearch/internal/coverage"

// Metric accumulates a scalar over the snapshots of one run.
type Metric interface {
	Name() string
	Observe(s coverage.Snapshot)
	Value() float64
	Reset()
}

// Defaults returns the metric set recorded by the CLI.
func Defaults(threshold float64) []Metric {
	return []Metric{
		NewFinalCoverage(),
		NewStepsToThreshold(threshold),
		NewPathLength(),
		NewMeanIntensity(),
		NewStall(),
	}
}
