// Package viz renders experiment results for the terminal.
//
// Charts are drawn with asciigraph and framed with lipgloss styles:
//
//   - [TrajectoryChart]: baseline and variant trajectories on one plot
//   - [DivergenceChart]: the divergence series
//   - [Render]: title, both charts and a summary block
//   - [SparklineChart]: compact one-line series used by the explorer
package viz
