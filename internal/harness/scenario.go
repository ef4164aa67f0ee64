package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a codec conformance scenario: JSON inputs run through
// the parser generated for one struct of a schema.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the path of the schema file. Relative paths are resolved
	// against the scenario file's directory by LoadScenario.
	Schema string `yaml:"schema"`

	// Root names the top-level struct whose parser runs.
	Root string `yaml:"root"`

	// InitialCapacity overrides the array parser's first allocation.
	InitialCapacity int `yaml:"initial_capacity,omitempty"`

	// Cases run in order.
	Cases []Case `yaml:"cases"`
}

// Case is one parser input.
type Case struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Expect Expect `yaml:"expect,omitempty"`
}

// Expect lists what a case must observe. Nil fields are not checked.
type Expect struct {
	// Error is the exact message written to the parser's error buffer.
	// Empty means the input must parse.
	Error string `yaml:"error,omitempty"`

	// Output is the re-encoded text of a successful parse. Defaults to
	// the input.
	Output *string `yaml:"output,omitempty"`

	Allocs    *int     `yaml:"allocs,omitempty"`
	Grows     *int     `yaml:"grows,omitempty"`
	Destroyed []string `yaml:"destroyed,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "case:" vs "cases:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", s.Schema)
	}

	if s.Root == "" {
		return fmt.Errorf("root is required")
	}

	if s.InitialCapacity < 0 {
		return fmt.Errorf("initial_capacity must be positive")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := map[string]bool{}
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true
		if c.Expect.Error != "" && c.Expect.Output != nil {
			return fmt.Errorf("cases[%d]: output and error are mutually exclusive", i)
		}
	}

	return nil
}
