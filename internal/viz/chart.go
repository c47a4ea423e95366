package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/hawkmoth/internal/analysis"
	"github.com/san-kum/hawkmoth/internal/experiment"
)

type ChartOptions struct {
	Height int
	Width  int
	// Color enables ANSI colors in the plots.
	Color bool
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{Height: 12, Width: 80, Color: true}
}

// divergence colors follow the two tabs of the explorer.
var divergenceColor = map[experiment.Kind]asciigraph.AnsiColor{
	experiment.Hawkmoth:  asciigraph.Red,
	experiment.Butterfly: asciigraph.Purple,
}

// TrajectoryChart plots baseline and variant over the time step axis.
func TrajectoryChart(cmp *experiment.Comparison, opts ChartOptions) string {
	if cmp == nil || len(cmp.Baseline) == 0 {
		return ""
	}

	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.Caption(cmp.Title),
		asciigraph.SeriesLegends(cmp.BaselineLabel, cmp.VariantLabel),
	}
	// Legends index into the series colors, so both are always set.
	if opts.Color {
		options = append(options,
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Orange),
			asciigraph.CaptionColor(asciigraph.Cyan),
		)
	} else {
		options = append(options, asciigraph.SeriesColors(asciigraph.Default, asciigraph.Default))
	}

	return asciigraph.PlotMany([][]float64{cmp.Baseline, cmp.Variant}, options...)
}

// DivergenceChart plots |baseline − variant| over the time step axis.
func DivergenceChart(cmp *experiment.Comparison, opts ChartOptions) string {
	if cmp == nil || len(cmp.Divergence) == 0 {
		return ""
	}

	height := opts.Height * 5 / 8
	if height < 4 {
		height = 4
	}

	options := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(opts.Width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(3),
		asciigraph.Caption("Divergence " + cmp.DivergenceTag),
	}
	if opts.Color {
		options = append(options,
			asciigraph.SeriesColors(divergenceColor[cmp.Kind]),
			asciigraph.CaptionColor(asciigraph.Cyan),
		)
	}

	return asciigraph.Plot(cmp.Divergence, options...)
}

// SummaryBlock lists the divergence statistics.
func SummaryBlock(s analysis.Summary) string {
	horizon := "never"
	if s.Horizon >= 0 {
		horizon = fmt.Sprintf("step %d", s.Horizon)
	}

	rows := [][2]string{
		{"initial", fmt.Sprintf("%.6f", s.Initial)},
		{"final", fmt.Sprintf("%.6f", s.Final)},
		{"max", fmt.Sprintf("%.6f @ %d", s.Max, s.MaxStep)},
		{"mean", fmt.Sprintf("%.6f", s.Mean)},
		{"horizon", horizon},
		{"growth/step", fmt.Sprintf("%+.4f", s.GrowthRate)},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-12s", row[0])))
		b.WriteString(MetricValue.Render(row[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// Render lays out one comparison: header, trajectories, divergence, summary.
func Render(cmp *experiment.Comparison, opts ChartOptions) string {
	if cmp == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%s (%s)", cmp.Title, cmp.Subtitle)))
	b.WriteString("\n\n")
	b.WriteString(TrajectoryChart(cmp, opts))
	b.WriteString("\n\n")
	b.WriteString(DivergenceChart(cmp, opts))
	b.WriteString("\n\n")
	b.WriteString(SummaryBlock(analysis.Summarize(cmp.Divergence, analysis.DefaultHorizonThreshold)))
	return b.String()
}
