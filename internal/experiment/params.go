package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

// Slider ranges and defaults of the explorer.
const (
	MinR     = 2.5
	MaxR     = 4.0
	DefaultR = 3.7
	StepR    = 0.01

	MinX0     = 0.0
	MaxX0     = 1.0
	DefaultX0 = 0.2
	StepX0    = 0.01

	MinSteps     = 10
	MaxSteps     = 200
	DefaultSteps = 100
	StepSteps    = 10

	MinEpsilon     = 0.0
	MaxEpsilon     = 0.1
	DefaultEpsilon = 0.01
	StepEpsilon    = 0.001

	MinDelta     = 0.0
	MaxDelta     = 0.1
	DefaultDelta = 0.001
	StepDelta    = 0.001

	MinNoise     = 0.0
	MaxNoise     = 0.1
	DefaultNoise = 0.01
	StepNoise    = 0.001
)

// paramRanges holds the slider range of every continuous parameter, in
// sidebar order.
var paramRanges = []struct {
	name   string
	lo, hi float64
}{
	{"r", MinR, MaxR},
	{"x0", MinX0, MaxX0},
	{"epsilon", MinEpsilon, MaxEpsilon},
	{"delta", MinDelta, MaxDelta},
	{"noise", MinNoise, MaxNoise},
}

// ParamNames lists the continuous parameters in sidebar order.
func ParamNames() []string {
	names := make([]string, len(paramRanges))
	for i, pr := range paramRanges {
		names[i] = pr.name
	}
	return names
}

// ParamRange returns the slider range of a continuous parameter.
func ParamRange(name string) (lo, hi float64, ok bool) {
	for _, pr := range paramRanges {
		if pr.name == name {
			return pr.lo, pr.hi, true
		}
	}
	return 0, 0, false
}

// Params is the parameter set of one request. Noise of zero disables the
// perturbation; Seed of zero draws a fresh seed from the clock.
type Params struct {
	R       float64 `json:"r" yaml:"r" mapstructure:"r"`
	X0      float64 `json:"x0" yaml:"x0" mapstructure:"x0"`
	Steps   int     `json:"steps" yaml:"steps" mapstructure:"steps"`
	Epsilon float64 `json:"epsilon" yaml:"epsilon" mapstructure:"epsilon"`
	Delta   float64 `json:"delta" yaml:"delta" mapstructure:"delta"`
	Noise   float64 `json:"noise" yaml:"noise" mapstructure:"noise"`
	Seed    int64   `json:"seed" yaml:"seed" mapstructure:"seed"`
}

func DefaultParams() Params {
	return Params{
		R:       DefaultR,
		X0:      DefaultX0,
		Steps:   DefaultSteps,
		Epsilon: DefaultEpsilon,
		Delta:   DefaultDelta,
	}
}

// Validate enforces the hard invariants. Range limits are Clamp's job.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"r", p.R}, {"x0", p.X0}, {"epsilon", p.Epsilon}, {"delta", p.Delta}, {"noise", p.Noise},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", dynamo.ErrInvalidArgument, f.name, f.v)
		}
	}
	if p.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", dynamo.ErrInvalidArgument, p.Steps)
	}
	if p.Noise < 0 {
		return fmt.Errorf("%w: noise must be >= 0, got %v", dynamo.ErrInvalidArgument, p.Noise)
	}
	return nil
}

// Clamp brings every field into its slider range.
func (p Params) Clamp() Params {
	p.R = clampf(p.R, MinR, MaxR)
	p.X0 = clampf(p.X0, MinX0, MaxX0)
	p.Epsilon = clampf(p.Epsilon, MinEpsilon, MaxEpsilon)
	p.Delta = clampf(p.Delta, MinDelta, MaxDelta)
	p.Noise = clampf(p.Noise, MinNoise, MaxNoise)
	if p.Steps < MinSteps {
		p.Steps = MinSteps
	}
	if p.Steps > MaxSteps {
		p.Steps = MaxSteps
	}
	return p
}

// NoiseFor builds the perturbation of the n-th trajectory of a run, so that
// trajectories of one seeded run draw from independent reproducible streams.
func (p Params) NoiseFor(n int) (dynamo.Perturbation, error) {
	seed := p.Seed
	if seed != 0 {
		seed += int64(n)
	}
	return dynamo.NewNoise(p.Noise, seed)
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
