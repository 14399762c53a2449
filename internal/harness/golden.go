package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
)

// Snapshot is the golden-file view of a scenario result. Run ids and
// fingerprints are left out so that unrelated IR changes do not churn the
// golden files.
type Snapshot struct {
	ScenarioName string
	Verified     bool
	LoadError    string
	Diagnostics  []diag.Diagnostic
}

// NewSnapshot captures result under name.
func NewSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		ScenarioName: name,
		Verified:     result.Verified,
		LoadError:    result.LoadError,
		Diagnostics:  result.Diagnostics,
	}
}

// toCanonicalMap converts the snapshot to the value types accepted by
// ir.MarshalCanonical.
func (s Snapshot) toCanonicalMap() map[string]any {
	diags := make([]any, len(s.Diagnostics))
	for i, d := range s.Diagnostics {
		notes := make([]any, len(d.Notes))
		for j, n := range d.Notes {
			notes[j] = map[string]any{
				"loc":     n.Loc.String(),
				"message": n.Message,
			}
		}
		diags[i] = map[string]any{
			"code":     d.Code,
			"loc":      d.Loc.String(),
			"message":  d.Message,
			"notes":    notes,
			"severity": d.Severity.String(),
		}
	}

	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"verified":      s.Verified,
		"diagnostics":   diags,
	}
	if s.LoadError != "" {
		m["load_error"] = s.LoadError
	}
	return m
}

// Marshal renders the snapshot as canonical JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
