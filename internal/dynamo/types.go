package dynamo

import "math"

// Trajectory is the ordered sequence of states of one run. Index 0 is the
// initial value, index i the state after i transitions.
type Trajectory []float64

// Series is a divergence series: nonnegative, one value per trajectory index.
type Series []float64

// Transition advances a one-dimensional map by a single step.
type Transition interface {
	Advance(x, r float64) float64
	Name() string
}

// Perturbation is added to the state after every transition.
type Perturbation interface {
	Sample() float64
}

// Observer is notified after each completed step with the clamped state.
type Observer interface {
	OnStep(step int, x float64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
