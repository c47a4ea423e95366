package dynamo

import (
	"fmt"
	"math"
)

// Logistic is the canonical logistic map r·x·(1−x).
func Logistic(x, r float64) float64 {
	return r * x * (1 - x)
}

// PerturbedLogistic is the logistic map with a structural error term:
// r·x·(1−x+ε·sin(πx)). It equals Logistic when epsilon is zero.
func PerturbedLogistic(x, r, epsilon float64) float64 {
	return r * x * (1 - x + epsilon*math.Sin(math.Pi*x))
}

// Reference is the exact model.
type Reference struct{}

func (Reference) Advance(x, r float64) float64 { return Logistic(x, r) }
func (Reference) Name() string                 { return "reference" }

// Approximate is the structurally perturbed model. A zero Epsilon still
// selects this code path; it is never collapsed into Reference.
type Approximate struct {
	Epsilon float64
}

func (a Approximate) Advance(x, r float64) float64 { return PerturbedLogistic(x, r, a.Epsilon) }

func (a Approximate) Name() string {
	return fmt.Sprintf("approximate(ε=%g)", a.Epsilon)
}

// Func adapts a plain map function to a Transition.
type Func struct {
	Label string
	F     func(x, r float64) float64
}

func (f Func) Advance(x, r float64) float64 { return f.F(x, r) }
func (f Func) Name() string                 { return f.Label }
