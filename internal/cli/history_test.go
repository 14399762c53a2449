package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedDB verifies two inputs into a fresh database.
func recordedDB(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "runs.db")
	_, _, err := execute(t, "verify", "--db", db, input("loop.yaml"), input("swapped.yaml"))
	require.Error(t, err)
	return db
}

func TestHistory_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_Empty(t *testing.T) {
	out, _, err := execute(t, "history", "--db", filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistory_List(t *testing.T) {
	db := recordedDB(t)

	out, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, input("loop.yaml"))
	assert.Contains(t, out, "fail")

	out, _, err = execute(t, "--format", "json", "history", "--db", db, "--limit", "1")
	require.NoError(t, err)
	var resp struct {
		Data struct {
			Runs []RunJSON `json:"runs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, int64(2), resp.Data.Runs[0].Seq)
}

func TestHistory_RunAndFingerprint(t *testing.T) {
	db := recordedDB(t)

	out, _, err := execute(t, "--format", "json", "history", "--db", db)
	require.NoError(t, err)
	var list struct {
		Data struct {
			Runs []RunJSON `json:"runs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Data.Runs, 2)
	failed := list.Data.Runs[0]

	out, _, err = execute(t, "history", "--db", db, "--run", failed.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Run:         "+failed.ID)
	assert.Contains(t, out, "Passed:      false")
	assert.Contains(t, out, "[V401]")

	out, _, err = execute(t, "--format", "json", "history", "--db", db, "--fingerprint", failed.Fingerprint)
	require.NoError(t, err)
	var one struct {
		Data RunJSON `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &one))
	assert.Equal(t, failed.ID, one.Data.ID)
	require.Len(t, one.Data.Diagnostics, 1)
	assert.Equal(t, "V401", one.Data.Diagnostics[0].Code)
}

func TestHistory_NotFound(t *testing.T) {
	db := recordedDB(t)

	out, _, err := execute(t, "history", "--db", db, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E_NOT_FOUND]")
}

func TestHistory_RunAndFingerprintExclusive(t *testing.T) {
	_, _, err := execute(t, "history", "--db", filepath.Join(t.TempDir(), "runs.db"), "--run", "a", "--fingerprint", "b")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
