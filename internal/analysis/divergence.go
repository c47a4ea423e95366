package analysis

import (
	"math"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

// DefaultHorizonThreshold is the divergence at which two trajectories are
// considered to have decorrelated on the unit interval.
const DefaultHorizonThreshold = 0.1

// Summary condenses a divergence series.
type Summary struct {
	Initial float64 `json:"initial"`
	Final   float64 `json:"final"`
	Max     float64 `json:"max"`
	MaxStep int     `json:"max_step"`
	Mean    float64 `json:"mean"`
	// Horizon is the first step whose divergence exceeds the threshold,
	// or -1 if it never does.
	Horizon int `json:"horizon"`
	// GrowthRate is the least-squares slope of ln(divergence) up to the
	// horizon: the empirical exponential separation rate per step.
	GrowthRate float64 `json:"growth_rate"`
}

// Summarize computes a Summary; an empty series yields a zero Summary with
// Horizon -1.
func Summarize(div dynamo.Series, threshold float64) Summary {
	s := Summary{Horizon: -1}
	if len(div) == 0 {
		return s
	}

	s.Initial = div[0]
	s.Final = div[len(div)-1]

	sum := 0.0
	for i, d := range div {
		sum += d
		if d > s.Max {
			s.Max = d
			s.MaxStep = i
		}
		if s.Horizon < 0 && d > threshold {
			s.Horizon = i
		}
	}
	s.Mean = sum / float64(len(div))

	end := len(div)
	if s.Horizon >= 0 {
		end = s.Horizon + 1
	}
	s.GrowthRate = logSlope(div[:end])

	return s
}

func logSlope(div []float64) float64 {
	var n, sx, sy, sxx, sxy float64
	for i, d := range div {
		if d <= 0 {
			continue
		}
		x := float64(i)
		y := math.Log(d)
		n++
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	den := n*sxx - sx*sx
	if n < 2 || den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}
