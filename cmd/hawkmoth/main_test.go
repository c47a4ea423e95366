package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func parsed(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := newRootCmd().Find([]string{"hawkmoth"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestHawkmothCSV(t *testing.T) {
	out, err := execute(t, "hawkmoth", "--steps", "20", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 22)
	assert.Equal(t, "step,baseline,variant,divergence", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,0.2,0.2,0"))
}

func TestButterflyJSON(t *testing.T) {
	out, err := execute(t, "butterfly", "--steps", "30", "--delta", "0.01", "--format", "json")
	require.NoError(t, err)

	var data struct {
		Experiment string    `json:"experiment"`
		Divergence []float64 `json:"divergence"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, "butterfly", data.Experiment)
	assert.Len(t, data.Divergence, 31)
	assert.InDelta(t, 0.01, data.Divergence[0], 1e-12)
}

func TestExperimentChart(t *testing.T) {
	out, err := execute(t, "hawkmoth", "--no-color", "--height", "6", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Hawkmoth Effect")
	assert.Contains(t, out, "Approx Model (ε=0.01)")
}

func TestExperimentLive(t *testing.T) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"butterfly", "--steps", "10", "--live", "--fps", "0", "--format", "csv"})
	require.NoError(t, root.Execute())

	assert.Contains(t, errOut.String(), "baseline")
	assert.Contains(t, errOut.String(), "variant")
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 12)
}

func TestUnknownFormat(t *testing.T) {
	_, err := execute(t, "hawkmoth", "--format", "svg")
	assert.EqualError(t, err, "unknown export format: svg")
}

func TestUnknownPreset(t *testing.T) {
	_, err := execute(t, "hawkmoth", "--preset", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset: nope")
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("r: 3.8\nsteps: 50\nx0: 0.3\n"), 0644))

	t.Setenv("HAWKMOTH_STEPS", "70")
	t.Setenv("HAWKMOTH_CHART_WIDTH", "64")

	cmd := parsed(t, "--preset", "noisy", "--config", path, "--x0", "0.4")
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, 3.8, cfg.R, "file over preset")
	assert.True(t, cfg.NoiseEnabled, "preset over defaults")
	assert.Equal(t, 70, cfg.Steps, "environment over file")
	assert.Equal(t, 0.4, cfg.X0, "flag over file")
	assert.Equal(t, 64, cfg.Chart.Width)
}

func TestNoiseFlag(t *testing.T) {
	cfg, err := resolveConfig(parsed(t, "--noise", "0.02"))
	require.NoError(t, err)
	assert.True(t, cfg.NoiseEnabled)
	assert.Equal(t, 0.02, cfg.Params().Noise)

	cfg, err = resolveConfig(parsed(t, "--preset", "noisy", "--noise", "0"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Params().Noise)
}

func TestLyapunov(t *testing.T) {
	out, err := execute(t, "lyapunov", "--r", "4", "--iterations", "2000")
	require.NoError(t, err)
	assert.Contains(t, out, "logistic (analytic)")
	assert.Contains(t, out, "reference")
	assert.Contains(t, out, "chaotic")

	out, err = execute(t, "lyapunov", "--r", "2.8")
	require.NoError(t, err)
	assert.Contains(t, out, "stable")
	assert.NotContains(t, out, "chaotic")
}

func TestBifurcation(t *testing.T) {
	out, err := execute(t, "bifurcation", "--r-steps", "20", "--record", "20", "--model", "approximate")
	require.NoError(t, err)
	assert.Contains(t, out, "approximate(ε=0.01)")
	assert.Contains(t, out, "PERIOD")

	out, err = execute(t, "bifurcation", "--r-min", "2.8", "--r-max", "4.0", "--r-steps", "13", "--record", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "2.800–")
	assert.Contains(t, out, "aperiodic")

	_, err = execute(t, "bifurcation", "--model", "tent")
	assert.EqualError(t, err, "unknown model: tent")
}

func TestSweep(t *testing.T) {
	out, err := execute(t, "sweep", "epsilon", "--points", "3", "--max", "0.02")
	require.NoError(t, err)
	assert.Contains(t, out, "hawkmoth sweep over epsilon")
	assert.Contains(t, out, "0.0200")

	_, err = execute(t, "sweep", "steps")
	assert.EqualError(t, err, "unknown sweep parameter: steps")
}

func TestSweepDefaultsToSliderRange(t *testing.T) {
	out, err := execute(t, "sweep", "r", "--points", "3")
	require.NoError(t, err)
	for _, want := range []string{"2.5000", "3.2500", "4.0000"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "0.0500")

	_, err = execute(t, "sweep", "r", "--min", "1", "--max", "3")
	assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)

	_, err = execute(t, "sweep", "x0", "--experiment", "moth")
	assert.ErrorContains(t, err, "unknown experiment: moth")
}

func TestNegativeNoiseRejected(t *testing.T) {
	_, err := execute(t, "hawkmoth", "--noise", "-0.1")
	assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)

	path := filepath.Join(t.TempDir(), "noisy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("noise_enabled: true\nnoise_level: -0.2\n"), 0644))
	_, err = execute(t, "butterfly", "--config", path)
	assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)
}

func TestEnsembleUnknownExperiment(t *testing.T) {
	_, err := execute(t, "ensemble", "--experiment", "moth")
	assert.ErrorContains(t, err, "available: [butterfly hawkmoth]")
}

func TestEnsemble(t *testing.T) {
	out, err := execute(t, "ensemble", "--members", "4", "--seed", "7", "--steps", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "4 members")
	assert.Contains(t, out, "crossed threshold")
}

func TestScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	scenario := `name: demo
runs:
  - experiment: hawkmoth
    label: small-eps
    epsilon: 0.001
  - experiment: butterfly
    steps: 50
`
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0644))

	out, err := execute(t, "scenario", path)
	require.NoError(t, err)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "small-eps")
	assert.Contains(t, out, "#2")
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range []string{"default", "fully-chaotic", "noisy"} {
		assert.Contains(t, out, name)
	}
}

func TestLyapunovSpectrum(t *testing.T) {
	out, err := execute(t, "lyapunov", "--spectrum", "16", "--iterations", "500", "--transient", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "spectrum r ∈ [2.50, 4.00]")
	assert.Contains(t, out, "/16 chaotic")
}

func TestPhase(t *testing.T) {
	out, err := execute(t, "phase", "butterfly", "--height", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "x₀ = 0.200")
	assert.Contains(t, out, "x₀ + δ = 0.201")

	_, err = execute(t, "phase", "moth")
	assert.ErrorContains(t, err, `invalid argument "moth"`)
}
