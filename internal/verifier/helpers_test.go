package verifier

import (
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// verifyCollect runs Verify and returns every diagnostic plus the error.
func verifyCollect(t *testing.T, root *ir.Operation, recursive bool, opts ...Option) ([]diag.Diagnostic, error) {
	t.Helper()
	var sink diag.Collector
	opts = append([]Option{WithSink(&sink), WithLogger(quietLogger)}, opts...)
	err := Verify(root, recursive, opts...)
	return sink.Diagnostics(), err
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}
