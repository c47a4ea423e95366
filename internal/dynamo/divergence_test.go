package dynamo_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }

var _ = Describe("Divergence", func() {
	It("is zero against itself", func() {
		tr, err := dynamo.Simulate(dynamo.Reference{}, 0.2, 3.7, nil, 100)
		Expect(err).NotTo(HaveOccurred())
		div, err := dynamo.Divergence(tr, tr)
		Expect(err).NotTo(HaveOccurred())
		Expect(div).To(HaveLen(len(tr)))
		Expect(div).To(HaveEach(BeZero()))
	})

	It("takes the absolute elementwise difference", func() {
		div, err := dynamo.Divergence([]float64{0.1, 0.5, 0.9}, []float64{0.3, 0.5, 0.4})
		Expect(err).NotTo(HaveOccurred())
		Expect(div[0]).To(BeNumerically("~", 0.2, 1e-15))
		Expect(div[1]).To(BeZero())
		Expect(div[2]).To(BeNumerically("~", 0.5, 1e-15))
	})

	It("rejects series of unequal length", func() {
		_, err := dynamo.Divergence([]float64{0.1, 0.2}, []float64{0.1})
		Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())

		var lenErr *dynamo.LengthError
		Expect(errors.As(err, &lenErr)).To(BeTrue())
		Expect(lenErr.Left).To(Equal(2))
		Expect(lenErr.Right).To(Equal(1))
	})

	It("accepts two empty series", func() {
		div, err := dynamo.Divergence(nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(div).To(BeEmpty())
	})
})
