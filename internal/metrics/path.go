package metrics

import "github.com/san-kum/dronesearch/internal/coverage"

// PathLength sums the distance every agent travelled, in frame units.
type PathLength struct {
	prev  []coverage.Point
	total float64
}

func NewPathLength() *PathLength { return &PathLength{} }

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) Observe(s coverage.Snapshot) {
	if len(p.prev) == len(s.Positions) {
		for i, pos := range s.Positions {
			p.total += pos.Dist(p.prev[i])
		}
	}
	p.prev = append(p.prev[:0], s.Positions...)
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.prev = p.prev[:0]
	p.total = 0
}

// Stall is the fraction of steps that added no coverage.
type Stall struct {
	last    float64
	stalls  int
	samples int
}

func NewStall() *Stall { return &Stall{} }

func (s *Stall) Name() string { return "stall_ratio" }

func (s *Stall) Observe(snap coverage.Snapshot) {
	if s.samples > 0 && snap.CoveragePercent <= s.last {
		s.stalls++
	}
	s.last = snap.CoveragePercent
	s.samples++
}

func (s *Stall) Value() float64 {
	if s.samples < 2 {
		return 0
	}
	return float64(s.stalls) / float64(s.samples-1)
}

func (s *Stall) Reset() {
	s.last = 0
	s.stalls = 0
	s.samples = 0
}
