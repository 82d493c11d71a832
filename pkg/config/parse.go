package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/archbench/archbench-engine/pkg/models"
)

// ParseConfigYAML parses a Config from YAML bytes on top of Default() and
// validates it.
func ParseConfigYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ParseNodeDefaultsYAML parses and validates a map of node-type defaults.
func ParseNodeDefaultsYAML(data []byte) (map[string]models.NodeTypeDefaults, error) {
	var entries map[string]models.NodeTypeDefaults
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse node defaults yaml: %w", err)
	}
	if err := validateNodeDefaults(entries); err != nil {
		return nil, fmt.Errorf("invalid node defaults: %w", err)
	}
	return entries, nil
}

// ParseScenarioYAML decodes a Scenario from YAML bytes. An empty document
// decodes to a nil scenario.
func ParseScenarioYAML(data []byte) (*models.Scenario, error) {
	var scenario *models.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario yaml: %w", err)
	}
	return scenario, nil
}

// ParseScenarioJSON decodes a Scenario from JSON bytes. Unknown fields are
// ignored; a literal null decodes to a nil scenario.
func ParseScenarioJSON(data []byte) (*models.Scenario, error) {
	var scenario *models.Scenario
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario json: %w", err)
	}
	return scenario, nil
}
