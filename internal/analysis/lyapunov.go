package analysis

import (
	"math"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a map using
// the trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Iterate two trajectories separated by d0
// 2. Accumulate ln(|δx_n|/d0) after every step
// 3. Renormalise the separation back to d0 so it never saturates
// 4. λ ≈ mean of the accumulated logarithms
func LyapunovExponent(
	model dynamo.Transition,
	x0, r float64,
	transient, iterations int,
	d0 float64,
) float64 {
	if iterations <= 0 || d0 <= 0 {
		return 0
	}

	x := x0
	for i := 0; i < transient; i++ {
		x = dynamo.Clamp(model.Advance(x, r))
	}

	xp := x + d0
	if xp > 1 {
		xp = x - d0
	}

	sumLog := 0.0
	count := 0

	for i := 0; i < iterations; i++ {
		x = dynamo.Clamp(model.Advance(x, r))
		xp = dynamo.Clamp(model.Advance(xp, r))

		sep := math.Abs(xp - x)
		if sep == 0 {
			// Both collapsed onto the same point; restart the pair.
			xp = x + d0
			if xp > 1 {
				xp = x - d0
			}
			continue
		}

		sumLog += math.Log(sep / d0)
		count++

		xp = x + (xp-x)*d0/sep
	}

	if count == 0 {
		return 0
	}
	return sumLog / float64(count)
}

// LogisticLyapunov computes the exponent of the reference map from its
// derivative f'(x) = r(1−2x): λ = mean ln|r(1−2x_n)|.
func LogisticLyapunov(x0, r float64, transient, iterations int) float64 {
	if iterations <= 0 {
		return 0
	}

	x := x0
	for i := 0; i < transient; i++ {
		x = dynamo.Clamp(dynamo.Logistic(x, r))
	}

	sum := 0.0
	count := 0
	for i := 0; i < iterations; i++ {
		d := math.Abs(r * (1 - 2*x))
		if d > 0 {
			sum += math.Log(d)
			count++
		}
		x = dynamo.Clamp(dynamo.Logistic(x, r))
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// LyapunovSpectrum evaluates the exponent for each growth rate in rs.
func LyapunovSpectrum(model dynamo.Transition, x0 float64, rs []float64, transient, iterations int) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = LyapunovExponent(model, x0, r, transient, iterations, 1e-9)
	}
	return out
}
