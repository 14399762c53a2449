package verifier

import "github.com/roach88/irverify/internal/ir"

// workItem is one frame of the structural walk: exactly one of op and block
// is set. entered flips to true after the entrance visit.
type workItem struct {
	op      *ir.Operation
	block   *ir.Block
	entered bool
}

// verifyOperation walks the tree under root with an explicit stack, calling
// the entrance check before a node's children and the exit check after them.
// Isolated operations with regions are never pushed; verifyIsolated handles
// them when their parent exits.
func (v *verifier) verifyOperation(root *ir.Operation) error {
	worklist := []workItem{{op: root}}
	for len(worklist) > 0 {
		top := &worklist[len(worklist)-1]
		isExit := top.entered
		top.entered = true
		item := *top

		if isExit {
			var err error
			if item.op != nil {
				err = v.verifyOpOnExit(item.op)
			} else {
				err = v.verifyBlockOnExit(item.block)
			}
			if err != nil {
				return err
			}
			worklist = worklist[:len(worklist)-1]
			continue
		}

		if item.block != nil {
			if err := v.verifyBlockOnEntrance(item.block); err != nil {
				return err
			}
			ops := item.block.Operations()
			for i := len(ops) - 1; i >= 0; i-- {
				if isIsolated(ops[i]) {
					continue
				}
				worklist = append(worklist, workItem{op: ops[i]})
			}
			continue
		}

		if err := v.verifyOpOnEntrance(item.op); err != nil {
			return err
		}
		if !v.recursive {
			continue
		}
		regions := item.op.Regions()
		for i := len(regions) - 1; i >= 0; i-- {
			blocks := regions[i].Blocks()
			for j := len(blocks) - 1; j >= 0; j-- {
				worklist = append(worklist, workItem{block: blocks[j]})
			}
		}
	}
	return nil
}

// isIsolated reports whether op starts its own verification scope.
func isIsolated(op *ir.Operation) bool {
	return op.NumRegions() != 0 && op.HasTrait(ir.TraitIsolatedFromAbove)
}
