package verifier

import (
	"sync/atomic"

	"github.com/roach88/irverify/internal/ir"
	"github.com/roach88/irverify/internal/parallel"
)

// verifyIsolated runs the full two-phase verification on every isolated
// operation directly inside op's regions. Each gets its own worklists and
// oracle, so they run through parallel.ForEach with only a failure flag
// shared between them. Every task runs to completion.
func (v *verifier) verifyIsolated(op *ir.Operation) error {
	if !v.recursive {
		return nil
	}

	var isolated []*ir.Operation
	for _, region := range op.Regions() {
		for _, b := range region.Blocks() {
			for _, o := range b.Operations() {
				if isIsolated(o) {
					isolated = append(isolated, o)
				}
			}
		}
	}
	if len(isolated) == 0 {
		return nil
	}

	cfg := op.Context().Threading()
	v.logger.Debug("verifying isolated operations",
		"parent", op.Name(),
		"count", len(isolated),
		"parallel", cfg.Enabled,
	)

	var failed atomic.Bool
	parallel.ForEach(cfg, isolated, func(o *ir.Operation) {
		if v.verifyOpAndDominance(o) != nil {
			failed.Store(true)
		}
	})
	if failed.Load() {
		return ErrVerificationFailed
	}
	return nil
}
