package verifier

import "github.com/roach88/irverify/internal/ir"

// mayBeValidWithoutTerminator reports whether b may lack a terminator: it is
// detached, or it is the only block of its region and the region's parent is
// absent or might carry the no-terminator trait. Unregistered parents might
// carry any trait.
func mayBeValidWithoutTerminator(b *ir.Block) bool {
	region := b.Parent()
	if region == nil {
		return true
	}
	if !region.HasOneBlock() {
		return false
	}
	op := region.ParentOp()
	return op == nil || op.MightHaveTrait(ir.TraitNoTerminator)
}
