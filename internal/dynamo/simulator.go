package dynamo

// Simulator iterates a Transition from an initial state, adding a
// Perturbation and clamping into [0,1] after every step.
type Simulator struct {
	model     Transition
	noise     Perturbation
	observers []Observer
}

// New builds a simulator. A nil noise means no perturbation.
func New(model Transition, noise Perturbation) *Simulator {
	if noise == nil {
		noise = NoNoise{}
	}
	return &Simulator{
		model:     model,
		noise:     noise,
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run returns a fresh trajectory of length steps+1. x0 is stored verbatim at
// index 0 even when it lies outside [0,1]; every later state is clamped.
func (s *Simulator) Run(x0, r float64, steps int) (Trajectory, error) {
	if err := s.validate(x0, r, steps); err != nil {
		return nil, err
	}

	tr := make(Trajectory, 0, steps+1)
	tr = append(tr, x0)

	x := x0
	for i := 1; i <= steps; i++ {
		next := s.model.Advance(x, r)
		next += s.noise.Sample()
		x = Clamp(next)
		tr = append(tr, x)

		for _, obs := range s.observers {
			obs.OnStep(i, x)
		}
	}

	return tr, nil
}

func (s *Simulator) validate(x0, r float64, steps int) error {
	if s.model == nil {
		return invalidf("transition is nil")
	}
	if steps < 1 {
		return invalidf("steps must be at least 1, got %d", steps)
	}
	if !isFinite(x0) {
		return invalidf("initial state must be finite, got %v", x0)
	}
	if !isFinite(r) {
		return invalidf("growth rate must be finite, got %v", r)
	}
	return nil
}

// Simulate is a one-shot Run.
func Simulate(model Transition, x0, r float64, noise Perturbation, steps int) (Trajectory, error) {
	return New(model, noise).Run(x0, r, steps)
}

// Clamp limits x to the closed interval [0,1].
func Clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
