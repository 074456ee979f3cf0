package export

import (
	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/storage"
)

// FromStore rebuilds the report of a saved run.
func FromStore(st *storage.Store, runID string) (*Report, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	curve, err := st.LoadCurve(runID)
	if err != nil {
		return nil, err
	}
	trails, err := st.LoadTrails(runID)
	if err != nil {
		return nil, err
	}
	grid, err := st.LoadGrid(runID)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Name:     meta.ID,
		Area:     meta.Area,
		Coverage: meta.Coverage,
		Trails:   trails,
		Curve:    curve,
		Metrics:  meta.Metrics,
		Grid:     grid,
	}
	for _, c := range meta.Checkpoints {
		r.Checkpoints = append(r.Checkpoints, CheckpointSummary{Step: c.Step, Coverage: c.Coverage})
	}
	r.finish(coverage.NewFrame(meta.Area, meta.FrameSize))
	return r, nil
}
