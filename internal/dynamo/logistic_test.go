package dynamo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

var _ = Describe("Map functions", func() {
	It("computes the logistic map", func() {
		Expect(dynamo.Logistic(0.2, 3.7)).To(BeNumerically("~", 0.592, 1e-12))
		Expect(dynamo.Reference{}.Advance(0.2, 3.7)).To(Equal(dynamo.Logistic(0.2, 3.7)))
	})

	It("maps the boundaries to zero", func() {
		Expect(dynamo.Logistic(0, 4.0)).To(BeZero())
		Expect(dynamo.Logistic(1, 4.0)).To(BeZero())
	})

	DescribeTable("approximate model with zero epsilon matches the reference",
		func(x, r float64) {
			Expect(dynamo.Approximate{Epsilon: 0}.Advance(x, r)).To(Equal(dynamo.Reference{}.Advance(x, r)))
		},
		Entry("midpoint", 0.5, 4.0),
		Entry("small state", 0.01, 2.5),
		Entry("near one", 0.99, 3.7),
		Entry("zero", 0.0, 3.2),
		Entry("one", 1.0, 3.9),
		Entry("outside the unit interval", 1.3, 3.0),
	)

	It("adds the structural error term", func() {
		x, r, eps := 0.5, 3.7, 0.01
		// sin(π/2) = 1
		Expect(dynamo.Approximate{Epsilon: eps}.Advance(x, r)).To(BeNumerically("~", r*x*(1-x+eps), 1e-15))
	})

	It("names the models", func() {
		Expect(dynamo.Reference{}.Name()).To(Equal("reference"))
		Expect(dynamo.Approximate{Epsilon: 0.01}.Name()).To(ContainSubstring("0.01"))
	})

	It("adapts plain functions", func() {
		double := dynamo.Func{Label: "double", F: func(x, r float64) float64 { return 2 * x }}
		Expect(double.Advance(0.25, 0)).To(Equal(0.5))
		Expect(double.Name()).To(Equal("double"))
	})
})
