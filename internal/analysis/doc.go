// Package analysis provides chaos and divergence analysis for the logistic map.
//
// The package characterises trajectories produced by [dynamo.Simulate]:
//
//   - [Summarize]: divergence statistics and the predictability horizon
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [LogisticLyapunov]: the same exponent from the analytic derivative
//   - [BifurcationDiagram]: sweep of r recording the attractor
//   - [GenerateReturnMap]: x_n against x_{n+1} scatter
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(dynamo.Reference{}, 0.2, 3.9, 100, 1000, 1e-9)
//	if lambda > 0 {
//	    // nearby trajectories separate exponentially
//	}
package analysis
