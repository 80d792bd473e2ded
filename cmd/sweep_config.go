package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vishnu190806/emergency-supply-chain-management-system/sim"
)

// Define struct for YAML
type sweepPreset struct {
	Rates       []float64 `yaml:"rates"`
	HorizonS    float64   `yaml:"horizon_seconds"`
	ServiceRate float64   `yaml:"service_rate"`
	ArrivalSeed int64     `yaml:"arrival_seed"`
	ServiceSeed int64     `yaml:"service_seed"`
}

// loadSweepPreset reads a sweep configuration from a yaml file.
func loadSweepPreset(path string) (sim.SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.SweepConfig{}, err
	}

	var preset sweepPreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return sim.SweepConfig{}, err
	}
	if len(preset.Rates) == 0 {
		return sim.SweepConfig{}, fmt.Errorf("%s: no rates", path)
	}
	if preset.HorizonS <= 0 {
		preset.HorizonS = 3600
	}
	if preset.ServiceRate <= 0 {
		return sim.SweepConfig{}, fmt.Errorf("%s: service_rate must be positive", path)
	}

	return sim.SweepConfig{
		Rates:       preset.Rates,
		Horizon:     preset.HorizonS,
		ServiceRate: preset.ServiceRate,
		ArrivalSeed: preset.ArrivalSeed,
		ServiceSeed: preset.ServiceSeed,
	}, nil
}
