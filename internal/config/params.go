package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"quanta-tokenomics/internal/budget"
	"quanta-tokenomics/internal/domain"
)

// Scenario is a parameter file: economic parameters plus a budget selection.
// Fields absent from the file keep their defaults.
type Scenario struct {
	Parameters  domain.EconomicParameters `yaml:"parameters"`
	Preset      string                    `yaml:"preset"`
	Adjustments domain.CostAdjustments    `yaml:"adjustments"`
}

// DefaultScenario returns the default parameters with the balanced preset.
func DefaultScenario() Scenario {
	return Scenario{
		Parameters:  domain.DefaultParameters(),
		Preset:      domain.PresetBalanced,
		Adjustments: domain.DefaultCostAdjustments(),
	}
}

// LoadScenario reads a scenario file. An empty path returns the defaults.
func LoadScenario(path string) (Scenario, error) {
	if path == "" {
		return DefaultScenario(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read params file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes YAML over DefaultScenario. Unknown keys are rejected.
func ParseScenario(data []byte) (Scenario, error) {
	s := DefaultScenario()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := s.Parameters.Validate(); err != nil {
		return Scenario{}, err
	}
	if _, err := budget.Preset(s.Preset); err != nil {
		return Scenario{}, err
	}
	return s, nil
}
