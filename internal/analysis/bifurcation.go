package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

// BifurcationPoint represents the attractor found for one growth rate.
type BifurcationPoint struct {
	R      float64
	Values []float64 // distinct states visited after the transient
	Period int       // detected period, -1 when none was found
}

// BifurcationDiagram sweeps r and records the states the map settles on.
// This is useful for visualizing the period-doubling route to chaos.
//
// Parameters:
// - model: transition to iterate
// - rMin, rMax: range to sweep
// - rSteps: number of r values to test
// - x0: initial state for every r
// - transient, record: iterations to discard and to keep
func BifurcationDiagram(
	model dynamo.Transition,
	rMin, rMax float64,
	rSteps int,
	x0 float64,
	transient, record int,
) []BifurcationPoint {
	if rSteps <= 1 {
		rSteps = 2 // Prevent division by zero
	}
	results := make([]BifurcationPoint, 0, rSteps)
	rStep := (rMax - rMin) / float64(rSteps-1)

	for i := 0; i < rSteps; i++ {
		r := rMin + float64(i)*rStep

		x := x0
		for n := 0; n < transient; n++ {
			x = dynamo.Clamp(model.Advance(x, r))
		}

		orbit := make([]float64, 0, record)
		values := make([]float64, 0, 16)
		seen := make(map[int]bool)

		for n := 0; n < record; n++ {
			x = dynamo.Clamp(model.Advance(x, r))
			orbit = append(orbit, x)

			// Quantize to find distinct values
			key := int(x * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, x)
			}
		}

		results = append(results, BifurcationPoint{
			R:      r,
			Values: values,
			Period: DetectPeriod(orbit, 64, 1e-6),
		})
	}

	return results
}

// DetectPeriod finds the smallest power-of-two period of an orbit, or -1.
func DetectPeriod(orbit []float64, maxPeriod int, tol float64) int {
	for period := 1; period <= maxPeriod; period *= 2 {
		if len(orbit) < 2*period {
			break
		}
		periodic := true
		for i := 0; i+period < len(orbit); i++ {
			if math.Abs(orbit[i]-orbit[i+period]) > tol {
				periodic = false
				break
			}
		}
		if periodic {
			return period
		}
	}
	return -1
}

// PeriodBand is a run of consecutive growth rates sharing one period.
type PeriodBand struct {
	RMin, RMax float64
	Period     int
}

// PeriodBands merges adjacent points of a diagram with equal periods, so the
// period-doubling cascade reads as 1, 2, 4, ... then -1 for chaos.
func PeriodBands(data []BifurcationPoint) []PeriodBand {
	var bands []PeriodBand
	for _, pt := range data {
		if n := len(bands); n > 0 && bands[n-1].Period == pt.Period {
			bands[n-1].RMax = pt.R
			continue
		}
		bands = append(bands, PeriodBand{RMin: pt.R, RMax: pt.R, Period: pt.Period})
	}
	return bands
}

// BifurcationToASCII converts bifurcation data to ASCII art
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// Find value range - need at least one valid value
	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, v := range p.Values {
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
			} else {
				minVal = math.Min(minVal, v)
				maxVal = math.Max(maxVal, v)
			}
		}
	}
	if !foundFirst {
		return ""
	}

	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := newCanvas(width, height)

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}

		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	return renderCanvas(canvas)
}

func newCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	return canvas
}

func renderCanvas(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
