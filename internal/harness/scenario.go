package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/irverify/internal/diag"
)

// Scenario is one conformance case: an IR input plus what verifying it
// must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the IR document. Relative paths are resolved against the
	// scenario file's directory by LoadScenario.
	Input string `yaml:"input"`

	// Recursive selects recursive verification. Nil means true.
	Recursive *bool `yaml:"recursive,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// IsRecursive reports the effective recursive flag.
func (s *Scenario) IsRecursive() bool {
	return s.Recursive == nil || *s.Recursive
}

// Expectation describes the expected outcome.
type Expectation struct {
	// Pass is true if the IR must verify cleanly.
	Pass bool `yaml:"pass"`

	// Count, if set, is the exact number of diagnostics.
	Count *int `yaml:"count,omitempty"`

	// LoadError, if set, is the irload error code the input must fail with.
	LoadError string `yaml:"load_error,omitempty"`

	// Diagnostics are matched in order against the emitted diagnostics.
	// Extra emitted diagnostics are allowed unless Count says otherwise.
	Diagnostics []ExpectedDiagnostic `yaml:"diagnostics,omitempty"`
}

// ExpectedDiagnostic matches one emitted diagnostic. Empty fields match
// anything.
type ExpectedDiagnostic struct {
	Code     string `yaml:"code"`
	Severity string `yaml:"severity,omitempty"`

	// Contains must be a substring of the message.
	Contains string `yaml:"contains,omitempty"`

	// Notes[i] must be a substring of the i-th note's message.
	Notes []string `yaml:"notes,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath is LoadScenario with relative input paths
// resolved against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Input != "" && !filepath.IsAbs(scenario.Input) && basePath != "" {
		scenario.Input = filepath.Join(basePath, scenario.Input)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Input == "" {
		return fmt.Errorf("input is required")
	}
	if _, err := os.Stat(s.Input); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", s.Input)
	}

	e := s.Expect
	if e.Count != nil && *e.Count < 0 {
		return fmt.Errorf("expect.count must be non-negative")
	}
	if e.LoadError != "" {
		if e.Pass || e.Count != nil || len(e.Diagnostics) > 0 {
			return fmt.Errorf("expect.load_error excludes pass, count and diagnostics")
		}
		return nil
	}
	if e.Pass && len(e.Diagnostics) > 0 {
		return fmt.Errorf("expect.pass is true but diagnostics are expected")
	}

	for i, d := range e.Diagnostics {
		if d.Code == "" {
			return fmt.Errorf("expect.diagnostics[%d]: code is required", i)
		}
		if d.Severity != "" {
			if _, err := diag.ParseSeverity(d.Severity); err != nil {
				return fmt.Errorf("expect.diagnostics[%d]: %w", i, err)
			}
		}
	}

	return nil
}
