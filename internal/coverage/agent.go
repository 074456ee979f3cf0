package coverage

// MaxTrail is the number of recent positions kept per agent.
const MaxTrail = 50

// Agent is the kinematic state of one drone in frame coordinates.
type Agent struct {
	Position Point
	Velocity Point
	Target   *Point
	Trail    []Point
}

func (a *Agent) setTarget(p Point) {
	a.Target = &p
}

// record commits a position and appends it to the trail, evicting the
// oldest entry once the trail is full.
func (a *Agent) record(p Point) {
	a.Position = p
	if len(a.Trail) == MaxTrail {
		copy(a.Trail, a.Trail[1:])
		a.Trail[MaxTrail-1] = p
		return
	}
	a.Trail = append(a.Trail, p)
}

func (a Agent) clone() Agent {
	c := a
	if a.Target != nil {
		t := *a.Target
		c.Target = &t
	}
	c.Trail = append([]Point(nil), a.Trail...)
	return c
}
