// Package dynamo provides the core primitives for iterating the logistic map.
//
// The package defines the small set of types every experiment is built from:
//
//   - [Transition]: one step of a one-dimensional map (x_{n+1} = f(x_n, r))
//   - [Reference]: the exact logistic map r·x·(1−x)
//   - [Approximate]: the structurally perturbed map r·x·(1−x+ε·sin(πx))
//   - [Perturbation]: additive noise injected after every step
//   - [Simulator]: drives a Transition and returns a [Trajectory]
//   - [Divergence]: elementwise |a−b| of two trajectories
//
// # Example
//
//	noise, _ := dynamo.NewNoise(0.01, 42)
//	truth, _ := dynamo.Simulate(dynamo.Reference{}, 0.2, 3.7, noise, 100)
//	approx, _ := dynamo.Simulate(dynamo.Approximate{Epsilon: 0.01}, 0.2, 3.7, noise, 100)
//	div, _ := dynamo.Divergence(truth, approx)
//
// # Thread Safety
//
// Transitions are stateless values. A [GaussianNoise] owns its random
// generator and must not be shared between goroutines; create one per run.
package dynamo
