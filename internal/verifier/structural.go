package verifier

import (
	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
)

// opError builds a diagnostic whose message is prefixed with the operation
// name, the way operation hooks report.
func opError(op *ir.Operation, code, format string, args ...any) diag.Diagnostic {
	d := diag.Errorf(op.Loc(), code, format, args...)
	d.Message = "'" + op.Name() + "' op " + d.Message
	return d
}

func (v *verifier) verifyBlockOnEntrance(b *ir.Block) error {
	for _, arg := range b.Arguments() {
		if arg.Owner() != b {
			return v.fail(diag.Errorf(arg.Loc(), CodeArgumentOwner, "block argument not owned by block"))
		}
	}

	if b.Empty() {
		if mayBeValidWithoutTerminator(b) {
			return nil
		}
		return v.fail(diag.Errorf(b.Parent().Loc(), CodeEmptyBlock, "empty block: expect at least a terminator"))
	}

	back := b.Back()
	for _, op := range b.Operations() {
		if op.NumSuccessors() != 0 && op != back {
			return v.fail(diag.Errorf(op.Loc(), CodeMidBlockSuccessors,
				"operation with block successors must terminate its parent block"))
		}
	}
	return nil
}

func (v *verifier) verifyBlockOnExit(b *ir.Block) error {
	for _, succ := range b.Successors() {
		if succ.Parent() != b.Parent() {
			return v.fail(opError(b.Back(), CodeCrossRegionBranch, "branching to block of a different region"))
		}
	}

	if mayBeValidWithoutTerminator(b) {
		return nil
	}

	terminator := b.Back()
	if !terminator.MightHaveTrait(ir.TraitTerminator) {
		return v.fail(diag.Errorf(terminator.Loc(), CodeMissingTerminator,
			"block with no terminator, has %s", terminator))
	}
	return nil
}

func (v *verifier) verifyOpOnEntrance(op *ir.Operation) error {
	for _, operand := range op.Operands() {
		if operand == nil {
			return v.fail(diag.Errorf(op.Loc(), CodeNullOperand, "null operand found"))
		}
	}

	ctx := op.Context()
	for _, attr := range op.Attrs() {
		ns := attr.DialectNamespace()
		if ns == "" {
			continue
		}
		av, ok := ctx.LookupDialect(ns).(ir.AttributeVerifier)
		if !ok {
			continue
		}
		if err := av.VerifyOperationAttribute(op, attr); err != nil {
			return v.fail(opError(op, CodeAttributeHook, "attribute '%s': %v", attr.Name, err))
		}
	}

	info := op.Info()
	if info != nil && info.Verify != nil {
		if err := info.Verify(op); err != nil {
			return v.fail(opError(op, CodeInvariantHook, "%v", err))
		}
	}

	for i, region := range op.Regions() {
		if op.IsRegistered() && op.RegionKind(i) == ir.RegionKindGraph {
			if !region.Empty() && !region.HasOneBlock() {
				return v.fail(opError(op, CodeGraphRegionBlocks, "expects graph region #%d to have 0 or 1 blocks", i))
			}
		}
		if region.Empty() {
			continue
		}
		if !region.Front().HasNoPredecessors() {
			return v.fail(diag.Errorf(op.Loc(), CodeEntryPredecessors, "entry block of region may not have predecessors"))
		}
	}
	return nil
}

func (v *verifier) verifyOpOnExit(op *ir.Operation) error {
	if err := v.verifyIsolated(op); err != nil {
		return err
	}

	if info := op.Info(); info != nil {
		if info.VerifyRegions != nil {
			if err := info.VerifyRegions(op); err != nil {
				return v.fail(opError(op, CodeRegionInvariantHook, "%v", err))
			}
		}
		return nil
	}

	dialect := op.Dialect()
	if dialect == nil {
		if !op.Context().AllowsUnregisteredDialects() {
			return v.fail(opError(op, CodeUnregisteredDialect,
				"created with unregistered dialect. If this is intended, please enable "+
					"unregistered dialects on the context, or pass --allow-unregistered-dialect "+
					"to the irverify tool"))
		}
		return nil
	}

	if !dialect.AllowsUnknownOperations() {
		return v.fail(diag.Errorf(op.Loc(), CodeUnknownOperation,
			"unregistered operation '%s' found in dialect ('%s') that does not allow unknown operations",
			op.Name(), dialect.Namespace()))
	}
	return nil
}
