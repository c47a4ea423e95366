package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/hawkmoth/internal/experiment"
)

const (
	DefaultExperiment  = "hawkmoth"
	DefaultChartHeight = 12
	DefaultChartWidth  = 80
)

type Config struct {
	Experiment   string      `yaml:"experiment" mapstructure:"experiment"`
	R            float64     `yaml:"r" mapstructure:"r"`
	X0           float64     `yaml:"x0" mapstructure:"x0"`
	Steps        int         `yaml:"steps" mapstructure:"steps"`
	Epsilon      float64     `yaml:"epsilon" mapstructure:"epsilon"`
	Delta        float64     `yaml:"delta" mapstructure:"delta"`
	NoiseEnabled bool        `yaml:"noise_enabled" mapstructure:"noise_enabled"`
	NoiseLevel   float64     `yaml:"noise_level" mapstructure:"noise_level"`
	Seed         int64       `yaml:"seed" mapstructure:"seed"`
	Chart        ChartConfig `yaml:"chart" mapstructure:"chart"`
}

type ChartConfig struct {
	Height int `yaml:"height" mapstructure:"height"`
	Width  int `yaml:"width" mapstructure:"width"`
}

func DefaultConfig() *Config {
	return &Config{
		Experiment: DefaultExperiment,
		R:          experiment.DefaultR,
		X0:         experiment.DefaultX0,
		Steps:      experiment.DefaultSteps,
		Epsilon:    experiment.DefaultEpsilon,
		Delta:      experiment.DefaultDelta,
		NoiseLevel: experiment.DefaultNoise,
		Chart: ChartConfig{
			Height: DefaultChartHeight,
			Width:  DefaultChartWidth,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads path on top of a copy of base. Keys missing from the file
// keep the value from base.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}


// Params converts the file representation into an experiment parameter
// set. A disabled noise checkbox keeps its level but yields zero noise.
func (c *Config) Params() experiment.Params {
	p := experiment.Params{
		R:       c.R,
		X0:      c.X0,
		Steps:   c.Steps,
		Epsilon: c.Epsilon,
		Delta:   c.Delta,
		Seed:    c.Seed,
	}
	if c.NoiseEnabled {
		p.Noise = c.NoiseLevel
	}
	return p
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
