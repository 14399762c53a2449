package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
	"github.com/roach88/irverify/internal/testutil"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequentialIDGenerator("")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDiagnostic() diag.Diagnostic {
	return diag.Errorf(ir.FileLineCol("in.yaml", 3, 7), "V401",
		"operand #0 does not dominate this use").
		AttachNote(ir.FileLineCol("in.yaml", 9, 5), "operand defined here (op in the same region)").
		AttachNote(ir.UnknownLoc(), "see current operation: \"test.op\"()")
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)
	for name, want := range map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"user_version": "1",
	} {
		got, err := s.pragma(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestOpen_UnreachablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "history.db")
	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open run history "+path)
}

func TestOpen_MigratesVersionZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("DROP INDEX idx_runs_fingerprint")
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 0")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	var n int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_runs_fingerprint'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClose_NilDB(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}

func TestRecordRun_AssignsIDAndSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.RecordRun(ctx, Run{Source: "a.yaml", Fingerprint: "fp-a", Recursive: true, Passed: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "run-0001", first.ID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, 0, first.DiagnosticCount)

	second, err := s.RecordRun(ctx, Run{Source: "b.yaml", Fingerprint: "fp-b"}, []diag.Diagnostic{sampleDiagnostic()})
	require.NoError(t, err)
	assert.Equal(t, "run-0002", second.ID)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, 1, second.DiagnosticCount)

	got, ok, err := s.GetRun(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestRecordRun_IdempotentOnID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := Run{ID: "fixed", Source: "a.yaml", Fingerprint: "fp", Passed: true}
	first, err := s.RecordRun(ctx, run, nil)
	require.NoError(t, err)

	run.Passed = false
	again, err := s.RecordRun(ctx, run, []diag.Diagnostic{sampleDiagnostic()})
	require.NoError(t, err)
	assert.Equal(t, first, again)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Passed)

	diags, err := s.RunDiagnostics(ctx, "fixed")
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestRunDiagnostics_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	warning := diag.Diagnostic{Loc: ir.NameLoc("@main"), Severity: diag.SeverityWarning, Code: "V999", Message: "odd"}
	in := []diag.Diagnostic{sampleDiagnostic(), warning}

	run, err := s.RecordRun(ctx, Run{Source: "x.yaml", Fingerprint: "fp"}, in)
	require.NoError(t, err)

	out, err := s.RunDiagnostics(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[1].String(), out[1].String())
	assert.Equal(t, diag.SeverityWarning, out[1].Severity)
}

func TestRunDiagnostics_UnknownRun(t *testing.T) {
	s := createTestStore(t)
	diags, err := s.RunDiagnostics(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, src := range []string{"a", "b", "c"} {
		_, err := s.RecordRun(ctx, Run{Source: src, Fingerprint: "fp-" + src}, nil)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].Source)
	assert.Equal(t, "b", runs[1].Source)

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)
	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestLatestByFingerprint(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.RecordRun(ctx, Run{Source: "old", Fingerprint: "same", Passed: false}, nil)
	require.NoError(t, err)
	_, err = s.RecordRun(ctx, Run{Source: "other", Fingerprint: "different"}, nil)
	require.NoError(t, err)
	_, err = s.RecordRun(ctx, Run{Source: "new", Fingerprint: "same", Passed: true}, nil)
	require.NoError(t, err)

	run, ok, err := s.LatestByFingerprint(ctx, "same")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", run.Source)
	assert.True(t, run.Passed)

	_, ok, err = s.LatestByFingerprint(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetRun_Missing(t *testing.T) {
	s := createTestStore(t)
	_, ok, err := s.GetRun(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.NewID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, UUIDv7Generator{}.NewID())
}

func TestNotesMarshalling(t *testing.T) {
	text, err := marshalNotes([]diag.Note{{Loc: ir.UnknownLoc(), Message: "m"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"loc":"","message":"m"}]`, text)

	notes, err := unmarshalNotes(text)
	require.NoError(t, err)
	assert.Equal(t, []diag.Note{{Loc: ir.UnknownLoc(), Message: "m"}}, notes)

	notes, err = unmarshalNotes("[]")
	require.NoError(t, err)
	assert.Nil(t, notes)

	_, err = unmarshalNotes("{")
	assert.Error(t, err)
}
