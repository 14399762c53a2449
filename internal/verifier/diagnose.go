package verifier

import (
	"fmt"

	"github.com/roach88/irverify/internal/diag"
	"github.com/roach88/irverify/internal/ir"
)

// diagnoseInvalidOperandDominance explains why operand #index of user is not
// dominated, with a note locating the definition relative to the use.
func diagnoseInvalidOperandDominance(user *ir.Operation, index int) diag.Diagnostic {
	d := diag.Errorf(user.Loc(), CodeOperandDominance, "operand #%d does not dominate this use", index)
	operand := user.Operand(index)

	useBlock := user.Block()
	useRegion := useBlock.Parent()

	if def := operand.DefiningOp(); def != nil {
		defBlock := def.Block()
		var defRegion *ir.Region
		if defBlock != nil {
			defRegion = defBlock.Parent()
		}

		var where string
		switch {
		case defBlock == useBlock:
			where = " (op in the same block)"
		case defRegion == useRegion:
			where = " (op in the same region)"
		case defRegion != nil && defRegion.IsProperAncestor(useRegion):
			where = " (op in a parent region)"
		case useRegion != nil && useRegion.IsProperAncestor(defRegion):
			where = " (op in a child region)"
		default:
			where = " (op is neither in a parent nor in a child region)"
		}
		return d.AttachNote(def.Loc(), "operand defined here"+where)
	}

	defBlock := operand.Owner()
	defRegion := defBlock.Parent()
	loc := ir.UnknownLoc()
	if parent := defBlock.ParentOp(); parent != nil {
		loc = parent.Loc()
	}
	if defRegion == nil {
		return d.AttachNote(loc, "operand defined as a block argument (block without parent)")
	}
	if defBlock == useBlock {
		panic(&InternalError{Message: fmt.Sprintf(
			"block argument %s reported as not dominating a use in its own block", operand)})
	}

	var where string
	switch {
	case defRegion == useRegion:
		where = " in the same region)"
	case defRegion.IsProperAncestor(useRegion):
		where = " in a parent region)"
	case useRegion != nil && useRegion.IsProperAncestor(defRegion):
		where = " in a child region)"
	default:
		where = " neither in a parent nor in a child region)"
	}
	return d.AttachNote(loc, fmt.Sprintf("operand defined as a block argument (block #%d%s", defBlock.Index(), where))
}
