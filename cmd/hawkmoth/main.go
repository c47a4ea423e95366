package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/hawkmoth/internal/analysis"
	"github.com/san-kum/hawkmoth/internal/automation"
	"github.com/san-kum/hawkmoth/internal/config"
	"github.com/san-kum/hawkmoth/internal/experiment"
	"github.com/san-kum/hawkmoth/internal/export"
	"github.com/san-kum/hawkmoth/internal/tui"
	"github.com/san-kum/hawkmoth/internal/viz"
)

var (
	// Parameter set
	r       float64
	x0      float64
	steps   int
	epsilon float64
	delta   float64
	noise   float64
	seed    int64
	// Config sources
	configFile string
	preset     string
	// Output
	format    string
	height    int
	width     int
	noColor   bool
	live      bool
	frameRate int
	verbose   bool
	// Analysis
	model        string
	rMin         float64
	rMax         float64
	rSteps       int
	bifTransient int
	record       int
	transient    int
	iterations   int
	spectrum     int
	// Sweeps and ensembles
	expName   string
	sweepMin  float64
	sweepMax  float64
	points    int
	members   int
	threshold float64
)

var log = logrus.New()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hawkmoth",
		Short: "sensitivity explorer for the logistic map",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			// Default to the interactive explorer when no command given
			return tui.Run(cfg)
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&r, "r", experiment.DefaultR, "growth rate")
	pf.Float64Var(&x0, "x0", experiment.DefaultX0, "initial state")
	pf.IntVar(&steps, "steps", experiment.DefaultSteps, "number of steps")
	pf.Float64Var(&epsilon, "epsilon", experiment.DefaultEpsilon, "structural perturbation of the approximate model")
	pf.Float64Var(&delta, "delta", experiment.DefaultDelta, "initial condition shift")
	pf.Float64Var(&noise, "noise", 0, "gaussian noise std dev (0 disables)")
	pf.Int64Var(&seed, "seed", 0, "noise seed (0 seeds from the clock)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&height, "height", config.DefaultChartHeight, "chart height")
	pf.IntVar(&width, "width", config.DefaultChartWidth, "chart width")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(
		newExperimentCmd(experiment.Hawkmoth, "same initial state, true vs approximate model"),
		newExperimentCmd(experiment.Butterfly, "same model, initial state shifted by delta"),
		newLyapunovCmd(),
		newBifurcationCmd(),
		newPhaseCmd(),
		newSweepCmd(),
		newEnsembleCmd(),
		newScenarioCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}

func setupLogging(w io.Writer) {
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// params resolves the configuration and brings it into the slider ranges.
func params(cmd *cobra.Command) (*config.Config, experiment.Params, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, experiment.Params{}, err
	}
	p := cfg.Params()
	if err := p.Validate(); err != nil {
		return nil, experiment.Params{}, err
	}
	if clamped := p.Clamp(); clamped != p {
		log.WithField("requested", fmt.Sprintf("%+v", p)).Warn("parameters clamped to explorer ranges")
		p = clamped
	}
	return cfg, p, nil
}

func newExperimentCmd(kind experiment.Kind, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, kind)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "chart", "output format (chart|csv|json)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "plain charts without ANSI colors")
	cmd.Flags().BoolVar(&live, "live", false, "animate each trajectory on stderr while it runs")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "frames per second for --live")
	return cmd
}

func runExperiment(cmd *cobra.Command, kind experiment.Kind) error {
	cfg, p, err := params(cmd)
	if err != nil {
		return err
	}

	var exportFormat export.Format
	if format != "chart" {
		if exportFormat, err = export.ParseFormat(format); err != nil {
			return err
		}
	}

	log.WithField("experiment", kind).
		WithField("r", p.R).
		WithField("x0", p.X0).
		WithField("steps", p.Steps).
		WithField("noise", p.Noise).
		Debug("running experiment")

	start := time.Now()
	var cmp *experiment.Comparison
	if live {
		base := tui.NewLiveRenderer(cmd.ErrOrStderr(), "baseline", frameRate)
		vari := tui.NewLiveRenderer(cmd.ErrOrStderr(), "variant ", frameRate)
		cmp, err = experiment.Watch(kind, p, base, handoff{vari, base})
		vari.Done()
	} else {
		cmp, err = experiment.Watch(kind, p, nil, nil)
	}
	if err != nil {
		return err
	}
	log.WithField("elapsed", time.Since(start)).Debug("experiment complete")

	out := cmd.OutOrStdout()
	if exportFormat != "" {
		return export.Write(out, exportFormat, cmp)
	}

	opts := viz.ChartOptions{Height: cfg.Chart.Height, Width: cfg.Chart.Width, Color: !noColor}
	fmt.Fprintln(out, viz.Render(cmp, opts))
	return nil
}

// handoff ends the previous animation line when its own run starts.
type handoff struct {
	*tui.LiveRenderer
	prev *tui.LiveRenderer
}

func (h handoff) OnStep(step int, x float64) {
	if step == 1 {
		h.prev.Done()
	}
	h.LiveRenderer.OnStep(step, x)
}

func newLyapunovCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the Lyapunov exponent of both models at --r",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := params(cmd)
			if err != nil {
				return err
			}

			registry := experiment.NewRegistry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tR\tLAMBDA\tREGIME")

			analytic := analysis.LogisticLyapunov(p.X0, p.R, transient, iterations)
			fmt.Fprintf(w, "logistic (analytic)\t%.3f\t%+.4f\t%s\n", p.R, analytic, regime(analytic))

			for _, name := range registry.ListModels() {
				m, err := registry.GetModel(name, p)
				if err != nil {
					return err
				}
				lambda := analysis.LyapunovExponent(m, p.X0, p.R, transient, iterations, 1e-9)
				fmt.Fprintf(w, "%s\t%.3f\t%+.4f\t%s\n", m.Name(), p.R, lambda, regime(lambda))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if spectrum > 1 {
				return printSpectrum(cmd.OutOrStdout(), registry, p)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&transient, "transient", 1000, "iterations discarded before measuring")
	cmd.Flags().IntVar(&iterations, "iterations", 10000, "iterations averaged")
	cmd.Flags().IntVar(&spectrum, "spectrum", 0, "also sample this many growth rates across the slider range")
	return cmd
}

func printSpectrum(out io.Writer, registry *experiment.Registry, p experiment.Params) error {
	rs := make([]float64, spectrum)
	for i := range rs {
		rs[i] = experiment.MinR + float64(i)*(experiment.MaxR-experiment.MinR)/float64(spectrum-1)
	}

	fmt.Fprintf(out, "\nspectrum r ∈ [%.2f, %.2f]\n", experiment.MinR, experiment.MaxR)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range registry.ListModels() {
		m, err := registry.GetModel(name, p)
		if err != nil {
			return err
		}
		lambdas := analysis.LyapunovSpectrum(m, p.X0, rs, transient, iterations)
		chaotic := 0
		for _, l := range lambdas {
			if l > 1e-3 {
				chaotic++
			}
		}
		// Shift so the sparkline baseline is the most stable rate.
		shifted := make([]float64, len(lambdas))
		lo := lambdas[0]
		for _, l := range lambdas {
			lo = min(lo, l)
		}
		for i, l := range lambdas {
			shifted[i] = l - lo
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d chaotic\n", m.Name(), viz.SparklineChart(shifted, len(shifted)), chaotic, len(rs))
	}
	return w.Flush()
}

func regime(lambda float64) string {
	switch {
	case lambda > 1e-3:
		return "chaotic"
	case lambda < -1e-3:
		return "stable"
	}
	return "marginal"
}

func newBifurcationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "ASCII bifurcation diagram over [--r-min, --r-max]",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := params(cmd)
			if err != nil {
				return err
			}

			m, err := experiment.NewRegistry().GetModel(model, p)
			if err != nil {
				return err
			}

			start := time.Now()
			data := analysis.BifurcationDiagram(m, rMin, rMax, rSteps, p.X0, bifTransient, record)
			log.WithField("points", len(data)).WithField("elapsed", time.Since(start)).Debug("bifurcation sweep complete")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  r ∈ [%.2f, %.2f]\n", m.Name(), rMin, rMax)
			fmt.Fprint(out, analysis.BifurcationToASCII(data, cfg.Chart.Width, cfg.Chart.Height*2))

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "R\tPERIOD")
			for _, band := range analysis.PeriodBands(data) {
				period := "aperiodic"
				if band.Period > 0 {
					period = fmt.Sprintf("%d", band.Period)
				}
				fmt.Fprintf(w, "%.3f–%.3f\t%s\n", band.RMin, band.RMax, period)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&model, "model", "reference", "transition to iterate (reference|approximate)")
	cmd.Flags().Float64Var(&rMin, "r-min", 2.8, "lowest growth rate")
	cmd.Flags().Float64Var(&rMax, "r-max", experiment.MaxR, "highest growth rate")
	cmd.Flags().IntVar(&rSteps, "r-steps", 120, "number of growth rates")
	cmd.Flags().IntVar(&bifTransient, "transient", 500, "iterations discarded per growth rate")
	cmd.Flags().IntVar(&record, "record", 100, "iterations recorded per growth rate")
	return cmd
}

func newPhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "phase [hawkmoth|butterfly]",
		Short:     "return maps x(n) → x(n+1) of both trajectories",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: experiment.NewRegistry().ListExperiments(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := params(cmd)
			if err != nil {
				return err
			}

			cmp, err := experiment.Watch(experiment.Kind(args[0]), p, nil, nil)
			if err != nil {
				return err
			}

			size := cfg.Chart.Height * 2
			maps := []*analysis.ReturnMap{
				analysis.GenerateReturnMap(cmp.BaselineLabel, cmp.Baseline),
				analysis.GenerateReturnMap(cmp.VariantLabel, cmp.Variant),
			}
			panels := make([]string, 0, len(maps))
			for _, rm := range maps {
				panels = append(panels, viz.BoxWithTitle(rm.Label, analysis.ReturnMapToASCII(rm, size*2, size), size*2+2))
			}
			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.JoinHorizontal(lipgloss.Top, panels[0], "  ", panels[1]))
			return nil
		},
	}
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "sweep [r|x0|epsilon|delta|noise]",
		Short:     "predictability horizon across a parameter range",
		Args:      cobra.ExactArgs(1),
		ValidArgs: experiment.ParamNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := params(cmd)
			if err != nil {
				return err
			}

			lo, hi, ok := experiment.ParamRange(args[0])
			if !ok {
				return fmt.Errorf("unknown sweep parameter: %s", args[0])
			}
			if cmd.Flags().Changed("min") {
				lo = sweepMin
			}
			if cmd.Flags().Changed("max") {
				hi = sweepMax
			}

			name := expName
			if name == "" {
				name = sweepExperiment(args[0], cfg.Experiment)
			}
			registry := experiment.NewRegistry()
			if err := checkExperiment(registry, name); err != nil {
				return err
			}

			sweep := &automation.ParameterSweep{
				Experiment: name,
				ParamName:  args[0],
				ParamMin:   lo,
				ParamMax:   hi,
				NumSteps:   points,
				Base:       p,
				Threshold:  threshold,
			}
			results, err := automation.RunSweep(cmd.Context(), sweep, registry, log)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s sweep over %s\n\n", name, args[0])
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tHORIZON\tMAX\tMEAN\tGROWTH\n", args[0])
			for _, res := range results {
				fmt.Fprintf(w, "%.4f\t%s\t%.4f\t%.4f\t%+.4f\n",
					res.ParamValue, horizonText(res.Summary.Horizon), res.Summary.Max, res.Summary.Mean, res.Summary.GrowthRate)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&expName, "experiment", "", "experiment to sweep (defaults by parameter)")
	cmd.Flags().Float64Var(&sweepMin, "min", 0, "first parameter value (defaults to the slider minimum)")
	cmd.Flags().Float64Var(&sweepMax, "max", 0, "last parameter value (defaults to the slider maximum)")
	cmd.Flags().IntVar(&points, "points", 11, "number of parameter values")
	cmd.Flags().Float64Var(&threshold, "threshold", analysis.DefaultHorizonThreshold, "divergence that ends predictability")
	return cmd
}

func checkExperiment(registry *experiment.Registry, name string) error {
	names := registry.ListExperiments()
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("unknown experiment: %s (available: %v)", name, names)
}

// sweepExperiment picks the experiment a parameter affects.
func sweepExperiment(param, fallback string) string {
	switch param {
	case "epsilon":
		return string(experiment.Hawkmoth)
	case "delta":
		return string(experiment.Butterfly)
	}
	return fallback
}

func horizonText(h int) string {
	if h < 0 {
		return "never"
	}
	return fmt.Sprintf("%d", h)
}

func newEnsembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a noisy experiment and average the divergence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := params(cmd)
			if err != nil {
				return err
			}
			if p.Noise == 0 {
				p.Noise = cfg.NoiseLevel
				p = p.Clamp()
				log.WithField("noise", p.Noise).Info("noise disabled, using configured level")
			}

			name := expName
			if name == "" {
				name = cfg.Experiment
			}
			registry := experiment.NewRegistry()
			if err := checkExperiment(registry, name); err != nil {
				return err
			}

			ens := &automation.EnsembleConfig{
				Experiment: name,
				Base:       p,
				Members:    members,
				Seed:       p.Seed,
				Threshold:  threshold,
			}
			res, err := automation.RunEnsemble(cmd.Context(), ens, registry, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s ensemble, %d members, noise σ=%g\n\n", name, members, p.Noise)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "crossed threshold\t%d/%d\n", res.Crossed, len(res.Members))
			if res.Crossed > 0 {
				fmt.Fprintf(w, "mean horizon\t%.1f\n", res.MeanHorizon)
			}
			fmt.Fprintf(w, "mean divergence\t%s\n", viz.SparklineChart(res.MeanDivergence, 40))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&expName, "experiment", "", "experiment to repeat (defaults to the configured one)")
	cmd.Flags().IntVar(&members, "members", 20, "ensemble size")
	cmd.Flags().Float64Var(&threshold, "threshold", analysis.DefaultHorizonThreshold, "divergence that ends predictability")
	return cmd
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the experiments listed in a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return fmt.Errorf("failed to load scenario: %w", err)
			}

			results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sc.Name != "" {
				fmt.Fprintf(out, "%s\n\n", sc.Name)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tEXPERIMENT\tHORIZON\tFINAL\tDIVERGENCE")
			for i, cmp := range results {
				s := analysis.Summarize(cmp.Divergence, analysis.DefaultHorizonThreshold)
				label := sc.Runs[i].Label
				if label == "" {
					label = fmt.Sprintf("#%d", i+1)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%s\n",
					label, cmp.Kind, horizonText(s.Horizon), s.Final, viz.SparklineChart(cmp.Divergence, 24))
			}
			return w.Flush()
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEXPERIMENT\tR\tX0\tSTEPS\tEPSILON\tDELTA\tNOISE")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				noiseText := "off"
				if cfg.NoiseEnabled {
					noiseText = fmt.Sprintf("%g", cfg.NoiseLevel)
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%d\t%g\t%g\t%s\n",
					name, cfg.Experiment, cfg.R, cfg.X0, cfg.Steps, cfg.Epsilon, cfg.Delta, noiseText)
			}
			return w.Flush()
		},
	}
}
