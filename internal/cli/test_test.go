package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommand_HarnessScenarios(t *testing.T) {
	out, _, err := execute(t, "test", harnessTestdata)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ swapped_dominance")
	assert.Contains(t, out, "✓ undefined_value")
	assert.Contains(t, out, "Test Summary: 6 passed, 0 failed, 6 total")
	assert.Contains(t, out, "All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	out, _, err := execute(t, "test", "--filter", "swapped_*", harnessTestdata)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_InvalidFilter(t *testing.T) {
	_, _, err := execute(t, "test", "--filter", "[", harnessTestdata)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_NoScenarios(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

// writeScenarioDir lays out a scenario directory with one input.
func writeScenarioDir(t *testing.T, inputFile, scenario string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "inputs"), 0o755))

	data, err := os.ReadFile(input(inputFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inputs", inputFile), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "case.yaml"), []byte(scenario), 0o644))
	return dir
}

const swappedScenario = `name: case
description: "swapped operands"
input: inputs/swapped.yaml
expect:
  pass: false
  diagnostics:
    - code: V401
`

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	dir := writeScenarioDir(t, "swapped.yaml", swappedScenario)

	out, _, err := execute(t, "test", "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ case (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "case.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"code":"V401"`)

	out, _, err = execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ case\n")
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	dir := writeScenarioDir(t, "swapped.yaml", swappedScenario)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "golden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "case.golden"), []byte(`{}`), 0o644))

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ case")
	assert.Contains(t, out, "do not match golden file")
}

func TestTestCommand_ExpectationFailure(t *testing.T) {
	dir := writeScenarioDir(t, "loop.yaml", `name: case
description: "expects a failure that never comes"
input: inputs/loop.yaml
expect:
  pass: false
  diagnostics:
    - code: V401
`)

	out, _, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTestCommand_BadScenario(t *testing.T) {
	dir := writeScenarioDir(t, "loop.yaml", "name: case\n")

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ case.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("s", "golden", "case.golden"), goldenFilePath(filepath.Join("s", "case.yaml")))
}
