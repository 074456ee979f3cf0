package runner_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/metrics"
	"github.com/san-kum/dronesearch/internal/runner"
)

// countingStepper reports coverage equal to its step count.
type countingStepper struct {
	steps  int
	onStep func(int)
}

func (c *countingStepper) Step() coverage.Snapshot {
	c.steps++
	if c.onStep != nil {
		c.onStep(c.steps)
	}
	g := coverage.NewGrid(2)
	return coverage.Snapshot{
		Step:            c.steps,
		Positions:       []coverage.Point{{X: float64(c.steps), Y: 0}},
		Grid:            g,
		CoveragePercent: float64(c.steps),
	}
}

func (c *countingStepper) GeoPositions() []coverage.Point {
	return []coverage.Point{{X: float64(c.steps), Y: 0}}
}

func (c *countingStepper) GeoTrails() [][]coverage.Point { return [][]coverage.Point{nil} }

var square = []coverage.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}

var _ = Describe("Run", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("rejects negative step counts before stepping", func() {
		s := &countingStepper{}
		res, err := runner.Run(ctx, s, runner.Config{MaxSteps: -1})

		Expect(errors.Is(err, runner.ErrNegativeSteps)).To(BeTrue())
		Expect(res).To(BeNil())
		Expect(s.steps).To(Equal(0))
	})

	It("steps exactly MaxSteps times and records the curve", func() {
		s := &countingStepper{}
		res, err := runner.Run(ctx, s, runner.Config{MaxSteps: 5})

		Expect(err).NotTo(HaveOccurred())
		Expect(s.steps).To(Equal(5))
		Expect(res.StepsTaken).To(Equal(5))
		Expect(res.Curve).To(Equal([]float64{1, 2, 3, 4, 5}))
		Expect(res.Final).NotTo(BeNil())
		Expect(res.Coverage()).To(Equal(5.0))
		Expect(res.Positions).To(Equal([]coverage.Point{{X: 5, Y: 0}}))
	})

	It("leaves coverage undefined when no step runs", func() {
		res, err := runner.Run(ctx, &countingStepper{}, runner.Config{MaxSteps: 0})

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Final).To(BeNil())
		Expect(math.IsNaN(res.Coverage())).To(BeTrue())
		Expect(res.Curve).To(BeEmpty())
	})

	It("captures only checkpoints inside the run", func() {
		res, err := runner.Run(ctx, &countingStepper{}, runner.Config{
			MaxSteps:    10,
			Checkpoints: []int{0, 4, 9, 10, -1, 42},
		})

		Expect(err).NotTo(HaveOccurred())
		steps := make([]int, 0, len(res.Checkpoints))
		for _, c := range res.Checkpoints {
			steps = append(steps, c.Step)
			Expect(c.Coverage).To(Equal(float64(c.Step + 1)))
			Expect(c.Grid).NotTo(BeNil())
		}
		Expect(steps).To(Equal([]int{0, 4, 9}))
	})

	It("reports progress and status", func() {
		var progress []float64
		var status []string

		_, err := runner.Run(ctx, &countingStepper{}, runner.Config{MaxSteps: 4},
			runner.WithProgress(func(p float64) { progress = append(progress, p) }),
			runner.WithStatus(func(s string) { status = append(status, s) }),
		)

		Expect(err).NotTo(HaveOccurred())
		Expect(progress).To(Equal([]float64{25, 50, 75, 100}))
		Expect(status).To(Equal([]string{
			"starting simulation...",
			"simulation complete! 4 steps processed.",
			"final coverage: 4.0%",
		}))
	})

	It("feeds metrics and observers every snapshot", func() {
		var observed []int
		steps := metrics.NewStepsToThreshold(3)

		res, err := runner.Run(ctx, &countingStepper{}, runner.Config{MaxSteps: 6},
			runner.WithMetrics(steps, metrics.NewFinalCoverage()),
			runner.WithObserver(func(s coverage.Snapshot) { observed = append(observed, s.Step) }),
		)

		Expect(err).NotTo(HaveOccurred())
		Expect(observed).To(Equal([]int{1, 2, 3, 4, 5, 6}))
		Expect(res.Metrics).To(HaveKeyWithValue("steps_to_3", 3.0))
		Expect(res.Metrics).To(HaveKeyWithValue("final_coverage", 6.0))
	})

	It("stops on cancellation with a partial result", func() {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var status []string
		s := &countingStepper{onStep: func(n int) {
			if n == 3 {
				cancel()
			}
		}}

		res, err := runner.Run(cctx, s, runner.Config{MaxSteps: 100},
			runner.WithStatus(func(m string) { status = append(status, m) }))

		Expect(errors.Is(err, runner.ErrCanceled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res).NotTo(BeNil())
		Expect(res.StepsTaken).To(Equal(3))
		Expect(status).To(ContainElement("simulation canceled after 3 steps"))
	})

	Context("with a real coverage simulation", func() {
		It("grows coverage on the unit square", func() {
			sim, err := coverage.New(square, coverage.WithAgents(1), coverage.WithSeed(3))
			Expect(err).NotTo(HaveOccurred())

			res, err := runner.Run(ctx, sim, runner.Config{MaxSteps: 200, Checkpoints: []int{9, 199}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Checkpoints).To(HaveLen(2))
			Expect(res.Checkpoints[1].Coverage).To(BeNumerically(">", res.Checkpoints[0].Coverage))
			Expect(res.Trails).To(HaveLen(1))
			Expect(len(res.Trails[0])).To(BeNumerically("<=", coverage.MaxTrail))
		})
	})
})

var _ = Describe("Ensemble", func() {
	build := func(seed int64) (runner.Stepper, error) {
		return coverage.New(square, coverage.WithAgents(2), coverage.WithSeed(seed))
	}

	It("returns one result per seed in seed order", func() {
		e := runner.Ensemble{Seeds: runner.SeedRange(10, 4), Limit: 2}
		results, err := e.Run(context.Background(), build, runner.Config{MaxSteps: 30}, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for i, seed := range e.Seeds {
			sim, _ := build(seed)
			single, err := runner.Run(context.Background(), sim, runner.Config{MaxSteps: 30})
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i].Curve).To(Equal(single.Curve))
		}
	})

	It("propagates builder failures", func() {
		boom := errors.New("boom")
		e := runner.Ensemble{Seeds: []int64{1, 2}}

		_, err := e.Run(context.Background(), func(seed int64) (runner.Stepper, error) {
			if seed == 2 {
				return nil, boom
			}
			return build(seed)
		}, runner.Config{MaxSteps: 5}, nil)

		Expect(err).To(MatchError(boom))
	})

	It("gives every member its own metrics", func() {
		e := runner.Ensemble{Seeds: []int64{1, 2, 3}}
		results, err := e.Run(context.Background(), build, runner.Config{MaxSteps: 10}, func() []runner.Option {
			return []runner.Option{runner.WithMetrics(metrics.NewFinalCoverage())}
		})

		Expect(err).NotTo(HaveOccurred())
		for _, r := range results {
			Expect(r.Metrics["final_coverage"]).To(Equal(r.Coverage()))
		}
	})
})
