package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Scenario is a YAML description of a search run.
type Scenario struct {
	Edges      []string `yaml:"edges"`
	Generators int      `yaml:"generators"`
}

// loadScenario reads and validates a scenario file.
func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(sc.Edges) == 0 {
		return nil, fmt.Errorf("scenario %s has no edges", path)
	}
	return &sc, nil
}
