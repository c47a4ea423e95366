package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/hawkmoth/internal/config"
	"github.com/san-kum/hawkmoth/internal/dynamo"
)

const envPrefix = "HAWKMOTH"

// resolveConfig layers, lowest first: defaults, --preset, --config,
// HAWKMOTH_* environment, explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg, err := applyEnv(cfg)
	if err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides cfg with HAWKMOTH_* variables, e.g. HAWKMOTH_R or
// HAWKMOTH_CHART_WIDTH.
func applyEnv(cfg *config.Config) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Only keys with a default are visible to Unmarshal.
	v.SetDefault("experiment", cfg.Experiment)
	v.SetDefault("r", cfg.R)
	v.SetDefault("x0", cfg.X0)
	v.SetDefault("steps", cfg.Steps)
	v.SetDefault("epsilon", cfg.Epsilon)
	v.SetDefault("delta", cfg.Delta)
	v.SetDefault("noise_enabled", cfg.NoiseEnabled)
	v.SetDefault("noise_level", cfg.NoiseLevel)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("chart.height", cfg.Chart.Height)
	v.SetDefault("chart.width", cfg.Chart.Width)

	out := &config.Config{}
	if err := v.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return out, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("r") {
		cfg.R = r
	}
	if flags.Changed("x0") {
		cfg.X0 = x0
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = epsilon
	}
	if flags.Changed("delta") {
		cfg.Delta = delta
	}
	if flags.Changed("noise") {
		if !(noise >= 0) || math.IsInf(noise, 0) {
			return fmt.Errorf("%w: --noise must be finite and >= 0, got %v", dynamo.ErrInvalidArgument, noise)
		}
		cfg.NoiseEnabled = noise > 0
		if noise > 0 {
			cfg.NoiseLevel = noise
		}
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("height") {
		cfg.Chart.Height = height
	}
	if flags.Changed("width") {
		cfg.Chart.Width = width
	}
	return nil
}
