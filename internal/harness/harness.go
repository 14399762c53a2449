package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
	"github.com/roach88/irverify/internal/irload"
	"github.com/roach88/irverify/internal/store"
	"github.com/roach88/irverify/internal/testutil"
	"github.com/roach88/irverify/internal/verifier"
)

// Harness runs scenarios against a store.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a harness that records runs into st. A nil logger discards.
func New(st *store.Store, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{store: st, logger: logger}
}

// Run executes a scenario in a fresh in-memory store with sequential run
// ids.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewSequentialIDGenerator("run")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	return New(st, nil).Run(context.Background(), scenario)
}

// Run loads the scenario input, verifies it, records the run and checks
// the expectations.
//
// The input is loaded under its base name so that locations in the
// diagnostics do not depend on where the scenario lives. A load failure
// with an irload code is an outcome, not an error; anything else that
// stops the scenario from running is returned as an error.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	data, err := os.ReadFile(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	result := NewResult()
	loaded, err := irload.Load(filepath.Base(scenario.Input), data)
	if err != nil {
		code := irload.Code(err)
		if code == "" {
			return nil, err
		}
		h.logger.Debug("scenario input rejected", "scenario", scenario.Name, "code", code, "error", err)
		result.LoadError = code
		h.evaluate(result, scenario)
		return result, nil
	}

	var sink diag.Collector
	verr := verifier.Verify(loaded.Root, scenario.IsRecursive(),
		verifier.WithSink(&sink),
		verifier.WithLogger(h.logger),
	)
	if verr != nil && !errors.Is(verr, verifier.ErrVerificationFailed) {
		return nil, verr
	}
	result.Verified = verr == nil

	fingerprint, err := ir.Fingerprint(loaded.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint input: %w", err)
	}
	result.Fingerprint = fingerprint

	run, err := h.store.RecordRun(ctx, store.Run{
		Source:      scenario.Input,
		Fingerprint: fingerprint,
		Recursive:   scenario.IsRecursive(),
		Passed:      result.Verified,
	}, sink.Diagnostics())
	if err != nil {
		return nil, err
	}
	result.RunID = run.ID

	result.Diagnostics, err = h.store.RunDiagnostics(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	h.evaluate(result, scenario)
	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"run", run.ID,
		"verified", result.Verified,
		"pass", result.Pass,
	)
	return result, nil
}

func (h *Harness) evaluate(result *Result, scenario *Scenario) {
	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
}
