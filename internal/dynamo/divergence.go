package dynamo

import "math"

// Divergence returns |a[i]−b[i]| for every index. Series of different
// lengths are a caller error and are never truncated.
func Divergence(a, b []float64) (Series, error) {
	if len(a) != len(b) {
		return nil, &LengthError{Left: len(a), Right: len(b)}
	}
	out := make(Series, len(a))
	for i := range a {
		out[i] = math.Abs(a[i] - b[i])
	}
	return out, nil
}
