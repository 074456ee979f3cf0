package coverage

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultAgents     = 5
	DefaultPadding    = 10.0
	DefaultResolution = 50
	DefaultFrameSize  = 500.0

	DroneRadius = 5.0
	ScanRadius  = 2 * DroneRadius

	minSpeed        = 2.0
	maxSpeed        = 4.0
	recenterSpeed   = 2.0
	arrivalDistance = 5.0
	retargetChance  = 0.01
	startJitter     = 10
	scanReach       = 5
	scanGain        = 0.2
	candidateCells  = 20
	fallbackTries   = 50

	// CoveredThreshold is the intensity a cell must exceed to count as covered.
	CoveredThreshold = 0.2
)

// Snapshot is the observable state after a step. All slices are copies.
type Snapshot struct {
	Step            int       `json:"step"`
	Positions       []Point   `json:"positions"`
	Trails          [][]Point `json:"trails"`
	Grid            *Grid     `json:"grid"`
	CoveragePercent float64   `json:"coverage_percent"`
}

type options struct {
	agents     int
	padding    float64
	resolution int
	frameSize  float64
	rng        *rand.Rand
}

// Option configures a Simulation.
type Option func(*options)

func WithAgents(n int) Option { return func(o *options) { o.agents = n } }

func WithPadding(p float64) Option { return func(o *options) { o.padding = p } }

func WithResolution(r int) Option { return func(o *options) { o.resolution = r } }

// WithFrameSize sets the side of the simulation frame. A size <= 0 keeps
// the frame in source units (max of the area's width and height).
func WithFrameSize(size float64) Option { return func(o *options) { o.frameSize = size } }

// WithRand injects the random source used for placement, targeting and speed.
func WithRand(r *rand.Rand) Option { return func(o *options) { o.rng = r } }

func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

// Simulation owns the search area, the coverage grid and the agents.
type Simulation struct {
	area       []Point
	frame      Frame
	polygon    *Polygon
	grid       *Grid
	agents     []Agent
	padding    float64
	rng        *rand.Rand
	explorable int
	step       int
	coverage   float64
}

// New builds a simulation over a geographic search area. Only
// non-positive agent counts or resolutions and negative padding are
// rejected; degenerate polygons yield a simulation with no explorable cells.
func New(area []Point, opts ...Option) (*Simulation, error) {
	o := options{
		agents:     DefaultAgents,
		padding:    DefaultPadding,
		resolution: DefaultResolution,
		frameSize:  DefaultFrameSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.agents <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAgentCount, o.agents)
	}
	if o.resolution <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidResolution, o.resolution)
	}
	if o.padding < 0 || math.IsNaN(o.padding) {
		return nil, fmt.Errorf("%w: got %f", ErrInvalidPadding, o.padding)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	frame := NewFrame(area, o.frameSize)
	s := &Simulation{
		area:    append([]Point(nil), area...),
		frame:   frame,
		polygon: NewPolygon(frame.GeoToFrameAll(area)),
		grid:    NewGrid(o.resolution),
		agents:  make([]Agent, o.agents),
		padding: o.padding,
		rng:     o.rng,
	}
	s.explorable = s.countExplorable()
	s.placeAgents()
	return s, nil
}

func (s *Simulation) placeAgents() {
	var start Point
	if len(s.area) > 0 {
		start = s.frame.GeoToFrame(s.area[0])
	}
	lo, hi := s.padding, s.frame.Size-s.padding

	for i := range s.agents {
		x := start.X + float64(s.rng.Intn(2*startJitter)-startJitter)
		y := start.Y + float64(s.rng.Intn(2*startJitter)-startJitter)
		x = math.Max(lo, math.Min(hi, x))
		y = math.Max(lo, math.Min(hi, y))

		angle := 2 * math.Pi * s.rng.Float64()
		speed := s.randomSpeed()
		s.agents[i] = Agent{
			Position: Point{x, y},
			Velocity: Point{speed * math.Cos(angle), speed * math.Sin(angle)},
			Trail:    make([]Point, 0, MaxTrail),
		}
	}
}

func (s *Simulation) randomSpeed() float64 {
	return minSpeed + s.rng.Float64()*(maxSpeed-minSpeed)
}

// Step advances every agent by one time unit, updates the coverage grid
// and returns the resulting snapshot.
func (s *Simulation) Step() Snapshot {
	for i := range s.agents {
		s.moveAgent(&s.agents[i])
	}
	s.scan()
	s.step++
	s.coverage = s.coveragePercent()
	return s.snapshot()
}

func (s *Simulation) moveAgent(a *Agent) {
	if a.Target == nil || s.rng.Float64() < retargetChance {
		a.setTarget(s.NewTarget(a.Position))
	}

	toTarget := a.Target.Sub(a.Position)
	if dist := toTarget.Norm(); dist < arrivalDistance {
		a.setTarget(s.NewTarget(a.Position))
	} else {
		a.Velocity = toTarget.Scale(s.randomSpeed() / dist)
	}

	next := a.Position.Add(a.Velocity)
	if !s.polygon.Contains(next) {
		a.Velocity = a.Velocity.Scale(-1)
		next = a.Position.Add(a.Velocity)

		if !s.polygon.Contains(next) {
			center := s.polygon.Centroid()
			toCenter := center.Sub(a.Position)
			if dist := toCenter.Norm(); dist > 0 {
				a.Velocity = toCenter.Scale(recenterSpeed / dist)
				next = a.Position.Add(a.Velocity)
				// Overshooting a concave corner can still leave the area;
				// the centroid itself is the last resort when it is inside.
				if !s.polygon.Contains(next) && s.polygon.Contains(center) {
					next = center
				}
			}
		}
	}

	a.record(next)
}

// NewTarget picks an exploration target for an agent at current. It
// prefers the least scanned cells inside the area, falls back to random
// sampling and finally returns current unchanged.
func (s *Simulation) NewTarget(current Point) Point {
	candidates := make([]Point, 0, candidateCells)
	for _, idx := range s.grid.Lowest(candidateCells) {
		c := s.cellCenter(idx%s.grid.Resolution, idx/s.grid.Resolution)
		if s.polygon.Contains(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) > 0 {
		return candidates[s.rng.Intn(len(candidates))]
	}

	lo, hi := s.padding, s.frame.Size-s.padding
	for i := 0; i < fallbackTries; i++ {
		p := Point{s.sampleRange(lo, hi), s.sampleRange(lo, hi)}
		if s.polygon.Contains(p) {
			return p
		}
	}
	return current
}

// sampleRange draws an integer-valued coordinate in [lo, hi).
func (s *Simulation) sampleRange(lo, hi float64) float64 {
	span := int(hi - lo)
	if span <= 0 {
		return lo
	}
	return lo + float64(s.rng.Intn(span))
}

func (s *Simulation) cellSize() float64 {
	return s.frame.Size / float64(s.grid.Resolution)
}

func (s *Simulation) cellCenter(x, y int) Point {
	cs := s.cellSize()
	return Point{(float64(x) + 0.5) * cs, (float64(y) + 0.5) * cs}
}

// cellOf returns the grid cell containing p, clamped into the grid.
func (s *Simulation) cellOf(p Point) (int, int) {
	r := s.grid.Resolution
	clamp := func(v float64) int {
		if s.frame.Size <= 0 || math.IsNaN(v) {
			return 0
		}
		c := v / s.frame.Size * float64(r)
		if c < 0 {
			return 0
		}
		if c >= float64(r) {
			return r - 1
		}
		return int(c)
	}
	return clamp(p.X), clamp(p.Y)
}

// ScanCellRadius is the scan footprint radius expressed in grid cells.
func (s *Simulation) ScanCellRadius() int {
	if s.frame.Size <= 0 {
		return 0
	}
	r := ScanRadius * scanReach / s.frame.Size * float64(s.grid.Resolution)
	limit := float64(1 << 30)
	if r > limit {
		r = limit
	}
	return int(r)
}

func (s *Simulation) scan() {
	radius := s.ScanCellRadius()
	res := s.grid.Resolution

	for _, a := range s.agents {
		cx, cy := s.cellOf(a.Position)
		x0, x1 := max(0, cx-radius), min(res-1, cx+radius)
		y0, y1 := max(0, cy-radius), min(res-1, cy+radius)

		for ny := y0; ny <= y1; ny++ {
			for nx := x0; nx <= x1; nx++ {
				dx, dy := nx-cx, ny-cy
				if dx*dx+dy*dy > radius*radius {
					continue
				}
				if !s.polygon.Contains(s.cellCenter(nx, ny)) {
					continue
				}
				falloff := 1.0
				if radius > 0 {
					falloff = 1 - math.Sqrt(float64(dx*dx+dy*dy))/float64(radius)
				}
				s.grid.Add(nx, ny, scanGain*math.Max(0, falloff))
			}
		}
	}
}

func (s *Simulation) countExplorable() int {
	n := 0
	for y := 0; y < s.grid.Resolution; y++ {
		for x := 0; x < s.grid.Resolution; x++ {
			if s.polygon.Contains(s.cellCenter(x, y)) {
				n++
			}
		}
	}
	return n
}

func (s *Simulation) coveragePercent() float64 {
	if s.explorable == 0 {
		return 0
	}
	pct := 100 * float64(s.grid.CountAbove(CoveredThreshold)) / float64(s.explorable)
	return math.Min(pct, 100)
}

func (s *Simulation) snapshot() Snapshot {
	snap := Snapshot{
		Step:            s.step,
		Positions:       make([]Point, len(s.agents)),
		Trails:          make([][]Point, len(s.agents)),
		Grid:            s.grid.Clone(),
		CoveragePercent: s.coverage,
	}
	for i, a := range s.agents {
		snap.Positions[i] = a.Position
		snap.Trails[i] = append([]Point(nil), a.Trail...)
	}
	return snap
}

// Snapshot returns the current state without stepping.
func (s *Simulation) Snapshot() Snapshot { return s.snapshot() }

func (s *Simulation) GeoToFrame(p Point) Point { return s.frame.GeoToFrame(p) }
func (s *Simulation) FrameToGeo(p Point) Point { return s.frame.FrameToGeo(p) }

// GeoPositions returns the current agent positions in geographic coordinates.
func (s *Simulation) GeoPositions() []Point {
	out := make([]Point, len(s.agents))
	for i, a := range s.agents {
		out[i] = s.frame.FrameToGeo(a.Position)
	}
	return out
}

// GeoTrails returns every agent trail in geographic coordinates.
func (s *Simulation) GeoTrails() [][]Point {
	out := make([][]Point, len(s.agents))
	for i, a := range s.agents {
		out[i] = s.frame.FrameToGeoAll(a.Trail)
	}
	return out
}

func (s *Simulation) Agents() []Agent {
	out := make([]Agent, len(s.agents))
	for i, a := range s.agents {
		out[i] = a.clone()
	}
	return out
}

func (s *Simulation) Contains(p Point) bool { return s.polygon.Contains(p) }

func (s *Simulation) Grid() *Grid          { return s.grid.Clone() }
func (s *Simulation) Frame() Frame         { return s.frame }
func (s *Simulation) Polygon() *Polygon    { return s.polygon }
func (s *Simulation) Area() []Point        { return append([]Point(nil), s.area...) }
func (s *Simulation) Resolution() int      { return s.grid.Resolution }
func (s *Simulation) ExplorableCells() int { return s.explorable }
func (s *Simulation) StepCount() int       { return s.step }
func (s *Simulation) AgentCount() int      { return len(s.agents) }

// Coverage returns the coverage percent after the last step, 0 before any step.
func (s *Simulation) Coverage() float64 { return s.coverage }
