package dynamo_test

import (
	"errors"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

type constNoise float64

func (c constNoise) Sample() float64 { return float64(c) }

type recorder struct {
	steps  []int
	states []float64
}

func (r *recorder) OnStep(step int, x float64) {
	r.steps = append(r.steps, step)
	r.states = append(r.states, x)
}

var _ = Describe("Simulator", func() {
	It("returns the initial value followed by one state per step", func() {
		tr, err := dynamo.Simulate(dynamo.Reference{}, 0.2, 3.7, nil, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr).To(HaveLen(2))
		Expect(tr[0]).To(Equal(0.2))
		Expect(tr[1]).To(BeNumerically("~", 0.592, 1e-12))
	})

	It("does not clamp values already in range", func() {
		tr, err := dynamo.Simulate(dynamo.Reference{}, 0.99, 4.0, dynamo.NoNoise{}, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr[0]).To(Equal(0.99))
		Expect(tr[1]).To(BeNumerically("~", 0.0396, 1e-12))
	})

	It("maps x0 = 1 to zero", func() {
		tr, err := dynamo.Simulate(dynamo.Reference{}, 1.0, 4.0, nil, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmp.Diff(dynamo.Trajectory{1.0, 0.0}, tr)).To(BeEmpty())
	})

	It("has length steps+1", func() {
		for _, steps := range []int{1, 10, 200} {
			tr, err := dynamo.Simulate(dynamo.Reference{}, 0.3, 3.5, nil, steps)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr).To(HaveLen(steps + 1))
		}
	})

	It("keeps every state in [0,1] without noise", func() {
		for _, r := range []float64{2.5, 3.0, 3.5, 3.7, 3.83, 4.0} {
			for _, x0 := range []float64{0, 0.001, 0.2, 0.5, 0.77, 0.999, 1} {
				tr, err := dynamo.Simulate(dynamo.Reference{}, x0, r, nil, 200)
				Expect(err).NotTo(HaveOccurred())
				for _, x := range tr {
					Expect(x).To(BeNumerically(">=", 0))
					Expect(x).To(BeNumerically("<=", 1))
				}
			}
		}
	})

	It("clamps perturbed states into [0,1]", func() {
		up, err := dynamo.Simulate(dynamo.Reference{}, 0.5, 4.0, constNoise(0.5), 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(up[1:]).To(HaveEach(BeNumerically("<=", 1)))
		Expect(up[1]).To(Equal(1.0))

		down, err := dynamo.Simulate(dynamo.Reference{}, 0.5, 4.0, constNoise(-2), 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmp.Diff(dynamo.Trajectory{0.5, 0, 0, 0}, down)).To(BeEmpty())
	})

	It("clamps even when no noise is injected", func() {
		overshoot := dynamo.Func{Label: "overshoot", F: func(x, r float64) float64 { return r * x }}
		tr, err := dynamo.Simulate(overshoot, 0.5, 4.0, nil, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmp.Diff(dynamo.Trajectory{0.5, 1, 1}, tr)).To(BeEmpty())
	})

	It("keeps an out-of-range x0 verbatim and clamps afterwards", func() {
		tr, err := dynamo.Simulate(dynamo.Reference{}, 1.05, 3.7, nil, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr[0]).To(Equal(1.05))
		Expect(tr[1]).To(BeZero())
	})

	It("is deterministic when noise is off", func() {
		a, err := dynamo.Simulate(dynamo.Approximate{Epsilon: 0.05}, 0.2, 3.9, nil, 150)
		Expect(err).NotTo(HaveOccurred())
		b, err := dynamo.Simulate(dynamo.Approximate{Epsilon: 0.05}, 0.2, 3.9, dynamo.NoNoise{}, 150)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmp.Diff(a, b)).To(BeEmpty())
	})

	It("reproduces seeded noise", func() {
		n1, err := dynamo.NewNoise(0.01, 7)
		Expect(err).NotTo(HaveOccurred())
		n2, err := dynamo.NewNoise(0.01, 7)
		Expect(err).NotTo(HaveOccurred())

		a, _ := dynamo.Simulate(dynamo.Reference{}, 0.2, 3.7, n1, 50)
		b, _ := dynamo.Simulate(dynamo.Reference{}, 0.2, 3.7, n2, 50)
		Expect(cmp.Diff(a, b)).To(BeEmpty())

		quiet, _ := dynamo.Simulate(dynamo.Reference{}, 0.2, 3.7, nil, 50)
		Expect(cmp.Equal(a, quiet)).To(BeFalse())
	})

	It("notifies observers after each step", func() {
		rec := &recorder{}
		s := dynamo.New(dynamo.Reference{}, nil)
		s.AddObserver(rec)

		tr, err := s.Run(0.2, 3.7, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.steps).To(Equal([]int{1, 2, 3, 4, 5}))
		Expect(rec.states).To(Equal([]float64(tr[1:])))
	})

	It("shows sensitive dependence on the initial state", func() {
		a, _ := dynamo.Simulate(dynamo.Reference{}, 0.2, 3.7, nil, 100)
		b, _ := dynamo.Simulate(dynamo.Reference{}, 0.201, 3.7, nil, 100)
		div, err := dynamo.Divergence(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(div[0]).To(BeNumerically("~", 0.001, 1e-12))
		Expect(div[100]).To(BeNumerically(">", 10*div[0]))
	})

	DescribeTable("rejects invalid arguments",
		func(model dynamo.Transition, x0, r float64, steps int) {
			_, err := dynamo.Simulate(model, x0, r, nil, steps)
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
		},
		Entry("zero steps", dynamo.Reference{}, 0.2, 3.7, 0),
		Entry("negative steps", dynamo.Reference{}, 0.2, 3.7, -3),
		Entry("NaN state", dynamo.Reference{}, nan(), 3.7, 10),
		Entry("infinite rate", dynamo.Reference{}, 0.2, inf(), 10),
	)

	It("rejects a nil transition", func() {
		_, err := dynamo.New(nil, nil).Run(0.2, 3.7, 10)
		Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
	})

	It("rejects negative noise", func() {
		_, err := dynamo.NewNoise(-0.1, 1)
		Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
	})

	DescribeTable("rejects gaussian noise that is not strictly positive",
		func(std float64) {
			g, err := dynamo.NewGaussianNoise(std, 1)
			Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
			Expect(g).To(BeNil())
		},
		Entry("negative", -0.05),
		Entry("zero", 0.0),
		Entry("NaN", nan()),
		Entry("infinite", inf()),
	)

	It("samples from a zero-value gaussian without a constructor", func() {
		noise := &dynamo.GaussianNoise{StdDev: 0.01}
		tr, err := dynamo.Simulate(dynamo.Reference{}, 0.2, 3.7, noise, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr).To(HaveLen(6))
		Expect(tr[1:]).To(HaveEach(And(BeNumerically(">=", 0), BeNumerically("<=", 1))))
	})

	It("reproduces a seeded gaussian stream", func() {
		a, err := dynamo.NewGaussianNoise(0.02, 11)
		Expect(err).NotTo(HaveOccurred())
		b, err := dynamo.NewGaussianNoise(0.02, 11)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 10; i++ {
			Expect(a.Sample()).To(Equal(b.Sample()))
		}
	})

	It("skips the random stream when noise is zero", func() {
		p, err := dynamo.NewNoise(0, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(dynamo.NoNoise{}))
	})
})

var _ = Describe("Clamp", func() {
	DescribeTable("limits to the unit interval",
		func(in, want float64) {
			Expect(dynamo.Clamp(in)).To(Equal(want))
		},
		Entry("below", -0.3, 0.0),
		Entry("inside", 0.42, 0.42),
		Entry("above", 1.7, 1.0),
		Entry("edges", 1.0, 1.0),
	)
})
