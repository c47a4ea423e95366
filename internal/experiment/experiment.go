package experiment

import (
	"fmt"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

type Kind string

const (
	Hawkmoth  Kind = "hawkmoth"
	Butterfly Kind = "butterfly"
)

// Comparison holds two trajectories of the same length and their divergence.
type Comparison struct {
	Kind          Kind
	Title         string
	Subtitle      string
	Params        Params
	BaselineLabel string
	VariantLabel  string
	DivergenceTag string
	Baseline      dynamo.Trajectory
	Variant       dynamo.Trajectory
	Divergence    dynamo.Series
}

// Run is one trajectory request inside an experiment. Observer, when set,
// sees every step of the run.
type Run struct {
	Model    dynamo.Transition
	X0       float64
	Observer dynamo.Observer
}

// Compare simulates baseline and variant under p and diffs them.
func Compare(p Params, baseline, variant Run) (dynamo.Trajectory, dynamo.Trajectory, dynamo.Series, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, nil, err
	}

	base, err := simulate(p, baseline, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("baseline: %w", err)
	}
	vari, err := simulate(p, variant, 1)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("variant: %w", err)
	}

	div, err := dynamo.Divergence(base, vari)
	if err != nil {
		return nil, nil, nil, err
	}
	return base, vari, div, nil
}

func simulate(p Params, run Run, n int) (dynamo.Trajectory, error) {
	noise, err := p.NoiseFor(n)
	if err != nil {
		return nil, err
	}
	sim := dynamo.New(run.Model, noise)
	if run.Observer != nil {
		sim.AddObserver(run.Observer)
	}
	return sim.Run(run.X0, p.R, p.Steps)
}

// Watch runs the experiment of the given kind with an observer attached to
// each trajectory. Either observer may be nil.
func Watch(kind Kind, p Params, baseline, variant dynamo.Observer) (*Comparison, error) {
	switch kind {
	case Hawkmoth:
		return hawkmoth(p, baseline, variant)
	case Butterfly:
		return butterfly(p, baseline, variant)
	}
	return nil, fmt.Errorf("unknown experiment: %s", kind)
}

// RunHawkmoth holds the initial state fixed and swaps the model.
func RunHawkmoth(p Params) (*Comparison, error) {
	return hawkmoth(p, nil, nil)
}

func hawkmoth(p Params, bo, vo dynamo.Observer) (*Comparison, error) {
	base, vari, div, err := Compare(p,
		Run{Model: dynamo.Reference{}, X0: p.X0, Observer: bo},
		Run{Model: dynamo.Approximate{Epsilon: p.Epsilon}, X0: p.X0, Observer: vo},
	)
	if err != nil {
		return nil, fmt.Errorf("hawkmoth: %w", err)
	}
	return &Comparison{
		Kind:          Hawkmoth,
		Title:         "Hawkmoth Effect",
		Subtitle:      "same initial, different model",
		Params:        p,
		BaselineLabel: "True Model",
		VariantLabel:  fmt.Sprintf("Approx Model (ε=%g)", p.Epsilon),
		DivergenceTag: "|True - Approx|",
		Baseline:      base,
		Variant:       vari,
		Divergence:    div,
	}, nil
}

// RunButterfly holds the model fixed and shifts the initial state by delta.
func RunButterfly(p Params) (*Comparison, error) {
	return butterfly(p, nil, nil)
}

func butterfly(p Params, bo, vo dynamo.Observer) (*Comparison, error) {
	base, vari, div, err := Compare(p,
		Run{Model: dynamo.Reference{}, X0: p.X0, Observer: bo},
		Run{Model: dynamo.Reference{}, X0: p.X0 + p.Delta, Observer: vo},
	)
	if err != nil {
		return nil, fmt.Errorf("butterfly: %w", err)
	}
	return &Comparison{
		Kind:          Butterfly,
		Title:         "Butterfly Effect",
		Subtitle:      "different initial, same model",
		Params:        p,
		BaselineLabel: fmt.Sprintf("x₀ = %.3f", p.X0),
		VariantLabel:  fmt.Sprintf("x₀ + δ = %.3f", p.X0+p.Delta),
		DivergenceTag: "|x₀ - (x₀+δ)|",
		Baseline:      base,
		Variant:       vari,
		Divergence:    div,
	}, nil
}
