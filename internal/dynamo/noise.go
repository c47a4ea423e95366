package dynamo

import (
	"math/rand"
	"time"
)

// NoNoise is the disabled perturbation. It never touches a random stream.
type NoNoise struct{}

func (NoNoise) Sample() float64 { return 0 }

// GaussianNoise draws zero-mean normal samples from its own generator. A
// zero GaussianNoise seeds its generator from the clock on first use.
type GaussianNoise struct {
	StdDev float64
	rng    *rand.Rand
}

// NewGaussianNoise seeds a dedicated generator. A zero seed uses the clock,
// which makes the stream non-reproducible. The standard deviation must be
// finite and positive; use NewNoise when zero should disable the noise.
func NewGaussianNoise(stdDev float64, seed int64) (*GaussianNoise, error) {
	if !isFinite(stdDev) || stdDev <= 0 {
		return nil, invalidf("gaussian standard deviation must be finite and > 0, got %v", stdDev)
	}
	return &GaussianNoise{
		StdDev: stdDev,
		rng:    newRand(seed),
	}, nil
}

func (g *GaussianNoise) Sample() float64 {
	if g.rng == nil {
		g.rng = newRand(0)
	}
	return g.rng.NormFloat64() * g.StdDev
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NewNoise returns NoNoise for a zero standard deviation and a seeded
// GaussianNoise otherwise.
func NewNoise(stdDev float64, seed int64) (Perturbation, error) {
	if !isFinite(stdDev) || stdDev < 0 {
		return nil, invalidf("noise standard deviation must be finite and >= 0, got %v", stdDev)
	}
	if stdDev == 0 {
		return NoNoise{}, nil
	}
	return NewGaussianNoise(stdDev, seed)
}
