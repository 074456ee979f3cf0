package metrics

import (
	"fmt"

	"github.com/san-kum/dronesearch/internal/coverage"
)

type FinalCoverage struct {
	value float64
}

func NewFinalCoverage() *FinalCoverage { return &FinalCoverage{} }

func (f *FinalCoverage) Name() string { return "final_coverage" }

func (f *FinalCoverage) Observe(s coverage.Snapshot) { f.value = s.CoveragePercent }

func (f *FinalCoverage) Value() float64 { return f.value }

func (f *FinalCoverage) Reset() { f.value = 0 }

// StepsToThreshold records the first 1-based step whose coverage reaches
// the threshold percent, or -1 if it was never reached.
type StepsToThreshold struct {
	name      string
	threshold float64
	step      int
}

func NewStepsToThreshold(pct float64) *StepsToThreshold {
	return &StepsToThreshold{
		name:      fmt.Sprintf("steps_to_%g", pct),
		threshold: pct,
		step:      -1,
	}
}

func (m *StepsToThreshold) Name() string { return m.name }

func (m *StepsToThreshold) Observe(s coverage.Snapshot) {
	if m.step < 0 && s.CoveragePercent >= m.threshold {
		m.step = s.Step
	}
}

func (m *StepsToThreshold) Value() float64 { return float64(m.step) }

func (m *StepsToThreshold) Reset() { m.step = -1 }

// MeanIntensity is the mean cell value of the most recent grid.
type MeanIntensity struct {
	value float64
}

func NewMeanIntensity() *MeanIntensity { return &MeanIntensity{} }

func (m *MeanIntensity) Name() string { return "mean_intensity" }

func (m *MeanIntensity) Observe(s coverage.Snapshot) {
	if s.Grid == nil || len(s.Grid.Cells) == 0 {
		return
	}
	m.value = s.Grid.Sum() / float64(len(s.Grid.Cells))
}

func (m *MeanIntensity) Value() float64 { return m.value }

func (m *MeanIntensity) Reset() { m.value = 0 }
