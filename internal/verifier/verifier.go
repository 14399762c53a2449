package verifier

import (
	"log/slog"
	"time"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/dominance"
	"github.com/roach88/irverify/internal/ir"
)

// Oracle answers the dominance queries the verifier needs. A new Oracle is
// built for every verification scope.
type Oracle interface {
	IsReachableFromEntry(b *ir.Block) bool
	ProperlyDominates(v *ir.Value, user *ir.Operation) bool
}

// Option configures Verify.
type Option func(*verifier)

// WithSink sends diagnostics to sink instead of the logger.
func WithSink(sink diag.Sink) Option {
	return func(v *verifier) { v.sink = sink }
}

// WithLogger sets the logger for progress records. Diagnostics also go here
// unless WithSink is given.
func WithLogger(logger *slog.Logger) Option {
	return func(v *verifier) { v.logger = logger }
}

// WithDominance replaces the dominance oracle factory.
func WithDominance(newOracle func() Oracle) Option {
	return func(v *verifier) { v.newOracle = newOracle }
}

type verifier struct {
	recursive bool
	sink      diag.Sink
	logger    *slog.Logger
	newOracle func() Oracle
}

// Verify checks root and, if recursive, everything nested in it.
//
// It returns nil if the IR is valid and ErrVerificationFailed otherwise. The
// IR is never modified.
func Verify(root *ir.Operation, recursive bool, opts ...Option) error {
	v := &verifier{recursive: recursive}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	if v.sink == nil {
		v.sink = diag.NewSlogSink(v.logger)
	}
	if v.newOracle == nil {
		v.newOracle = func() Oracle { return dominance.New() }
	}

	start := time.Now()
	v.logger.Debug("verification started",
		"op", root.Name(),
		"loc", root.Loc().String(),
		"recursive", recursive,
	)

	err := v.verifyOpAndDominance(root)

	v.logger.Debug("verification finished",
		"op", root.Name(),
		"ok", err == nil,
		"duration", time.Since(start),
	)
	return err
}

// verifyOpAndDominance runs both phases for one isolation scope. Dominance
// is only checked once the structure is known to be sound, since a malformed
// CFG can break dominator construction.
func (v *verifier) verifyOpAndDominance(op *ir.Operation) error {
	if err := v.verifyOperation(op); err != nil {
		return err
	}
	if op.NumRegions() == 0 {
		return nil
	}
	return v.verifyDominanceOfContainedRegions(op, v.newOracle())
}

// fail emits d and returns ErrVerificationFailed.
func (v *verifier) fail(d diag.Diagnostic) error {
	v.sink.Emit(d)
	return ErrVerificationFailed
}
