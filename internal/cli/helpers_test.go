package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

const harnessTestdata = "../harness/testdata"

func input(name string) string {
	return filepath.Join(harnessTestdata, "inputs", name)
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
