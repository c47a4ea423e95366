package config

import "sort"

var Presets = map[string]*Config{
	"default": {
		Experiment: "hawkmoth", R: 3.7, X0: 0.2, Steps: 100, Epsilon: 0.01, Delta: 0.001, NoiseLevel: 0.01,
	},
	"periodic": {
		Experiment: "hawkmoth", R: 3.2, X0: 0.2, Steps: 100, Epsilon: 0.05, Delta: 0.01, NoiseLevel: 0.01,
	},
	"onset": {
		Experiment: "butterfly", R: 3.57, X0: 0.2, Steps: 200, Epsilon: 0.01, Delta: 0.001, NoiseLevel: 0.01,
	},
	"window": {
		Experiment: "butterfly", R: 3.83, X0: 0.2, Steps: 150, Epsilon: 0.01, Delta: 0.001, NoiseLevel: 0.01,
	},
	"fully-chaotic": {
		Experiment: "butterfly", R: 4.0, X0: 0.2, Steps: 60, Epsilon: 0.001, Delta: 0.0001, NoiseLevel: 0.01,
	},
	"noisy": {
		Experiment: "hawkmoth", R: 3.7, X0: 0.2, Steps: 100, Epsilon: 0.01, Delta: 0.001,
		NoiseEnabled: true, NoiseLevel: 0.005, Seed: 1,
	},
}

// GetPreset returns a copy of the named preset with default chart settings,
// or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = DefaultChartHeight
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = DefaultChartWidth
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
