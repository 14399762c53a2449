package verifier

import (
	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
)

// verifyDominanceOfContainedRegions checks that every operand used in a
// reachable block of root's regions is properly dominated by its definition.
// Nested non-isolated regions are checked with the same oracle, including
// those under unreachable blocks. Stops at the first violation.
func (v *verifier) verifyDominanceOfContainedRegions(root *ir.Operation, oracle Oracle) error {
	worklist := []*ir.Operation{root}
	for len(worklist) > 0 {
		op := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		for _, region := range op.Regions() {
			for _, b := range region.Blocks() {
				reachable := oracle.IsReachableFromEntry(b)
				for _, user := range b.Operations() {
					if reachable {
						for i, operand := range user.Operands() {
							// Non-recursive walks never ran the structural
							// operand check on these ops.
							if operand == nil {
								return v.fail(diag.Errorf(user.Loc(), CodeNullOperand, "null operand found"))
							}
							if oracle.ProperlyDominates(operand, user) {
								continue
							}
							return v.fail(diagnoseInvalidOperandDominance(user, i))
						}
					}

					if v.recursive && user.NumRegions() != 0 && !user.HasTrait(ir.TraitIsolatedFromAbove) {
						worklist = append(worklist, user)
					}
				}
			}
		}
	}
	return nil
}
