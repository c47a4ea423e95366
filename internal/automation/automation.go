package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/hawkmoth/internal/analysis"
	"github.com/san-kum/hawkmoth/internal/dynamo"
	"github.com/san-kum/hawkmoth/internal/experiment"
)

// Scenario defines a scripted sequence of experiments
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun is a single experiment in a scenario
type ScenarioRun struct {
	Experiment        string `yaml:"experiment"`
	Label             string `yaml:"label"`
	experiment.Params `yaml:",inline"`
}

// LoadScenario loads a scenario from a YAML file. Fields a run leaves out
// take their default values.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Runs        []yaml.Node `yaml:"runs"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	scenario := &Scenario{Name: raw.Name, Description: raw.Description}
	for i := range raw.Runs {
		run := ScenarioRun{Params: experiment.DefaultParams()}
		if err := raw.Runs[i].Decode(&run); err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		scenario.Runs = append(scenario.Runs, run)
	}
	return scenario, nil
}

// RunScenario executes all runs in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, log logrus.FieldLogger) ([]*experiment.Comparison, error) {
	results := make([]*experiment.Comparison, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		log.WithFields(logrus.Fields{
			"run":        i + 1,
			"of":         len(scenario.Runs),
			"experiment": run.Experiment,
			"label":      run.Label,
		}).Debug("running scenario step")

		runner, err := registry.GetExperiment(run.Experiment)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		cmp, err := runner(run.Params)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		results = append(results, cmp)
	}

	return results, nil
}

// ParameterSweep runs one experiment across a range of a single parameter
type ParameterSweep struct {
	Experiment string
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Base       experiment.Params
	Threshold  float64
}

// SweepResult holds the divergence summary for one parameter value
type SweepResult struct {
	ParamValue float64
	Summary    analysis.Summary
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, log logrus.FieldLogger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps, got %d", dynamo.ErrInvalidArgument, sweep.NumSteps)
	}

	lo, hi, ok := experiment.ParamRange(sweep.ParamName)
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s", sweep.ParamName)
	}
	if !(lo <= sweep.ParamMin && sweep.ParamMin <= sweep.ParamMax && sweep.ParamMax <= hi) {
		return nil, fmt.Errorf("%w: %s sweep [%g, %g] must lie within [%g, %g]",
			dynamo.ErrInvalidArgument, sweep.ParamName, sweep.ParamMin, sweep.ParamMax, lo, hi)
	}

	runner, err := registry.GetExperiment(sweep.Experiment)
	if err != nil {
		return nil, err
	}

	threshold := sweep.Threshold
	if threshold <= 0 {
		threshold = analysis.DefaultHorizonThreshold
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		paramVal := sweep.ParamMin + float64(i)*paramStep
		if i == sweep.NumSteps-1 {
			paramVal = sweep.ParamMax
		}
		p, err := setParam(sweep.Base, sweep.ParamName, paramVal)
		if err != nil {
			return nil, err
		}

		cmp, err := runner(p)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Summary:    analysis.Summarize(cmp.Divergence, threshold),
		})

		log.WithField("step", i+1).WithField(sweep.ParamName, paramVal).Debug("sweep step complete")
	}

	return results, nil
}

func setParam(p experiment.Params, name string, v float64) (experiment.Params, error) {
	switch name {
	case "r":
		p.R = v
	case "x0":
		p.X0 = v
	case "epsilon":
		p.Epsilon = v
	case "delta":
		p.Delta = v
	case "noise":
		p.Noise = v
	default:
		return p, fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return p, nil
}

// EnsembleConfig defines a noisy ensemble: the same experiment repeated
// with independent noise streams.
type EnsembleConfig struct {
	Experiment string
	Base       experiment.Params
	Members    int
	Seed       int64
	Threshold  float64
}

// EnsembleResult holds per-member statistics and the mean divergence series
type EnsembleResult struct {
	Members        []analysis.Summary
	MeanDivergence dynamo.Series
	MeanHorizon    float64 // over members that crossed the threshold
	Crossed        int
}

// RunEnsemble executes the members one after another, each with its own
// seeded generators.
func RunEnsemble(ctx context.Context, cfg *EnsembleConfig, registry *experiment.Registry, log logrus.FieldLogger) (*EnsembleResult, error) {
	if cfg.Members < 1 {
		return nil, fmt.Errorf("%w: ensemble needs at least 1 member, got %d", dynamo.ErrInvalidArgument, cfg.Members)
	}

	runner, err := registry.GetExperiment(cfg.Experiment)
	if err != nil {
		return nil, err
	}

	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = analysis.DefaultHorizonThreshold
	}

	res := &EnsembleResult{Members: make([]analysis.Summary, 0, cfg.Members)}
	horizonSum := 0

	for m := 0; m < cfg.Members; m++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := cfg.Base
		if cfg.Seed != 0 {
			// Two streams per member: baseline and variant.
			p.Seed = cfg.Seed + int64(2*m)
		}

		cmp, err := runner(p)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", m+1, err)
		}

		if res.MeanDivergence == nil {
			res.MeanDivergence = make(dynamo.Series, len(cmp.Divergence))
		}
		for i, d := range cmp.Divergence {
			res.MeanDivergence[i] += d / float64(cfg.Members)
		}

		s := analysis.Summarize(cmp.Divergence, threshold)
		if s.Horizon >= 0 {
			res.Crossed++
			horizonSum += s.Horizon
		}
		res.Members = append(res.Members, s)

		if (m+1)%10 == 0 {
			log.WithField("members", m+1).Debug("ensemble progress")
		}
	}

	if res.Crossed > 0 {
		res.MeanHorizon = float64(horizonSum) / float64(res.Crossed)
	}
	return res, nil
}
