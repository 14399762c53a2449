package dialects

import (
	"fmt"

	"github.com/roach88/irverify/internal/ir"
)

// RegisterBuiltin registers builtin.module.
func RegisterBuiltin(ctx *ir.Context) error {
	return Register(ctx, &Dialect{Name: "builtin"},
		Spec{
			Name:          "builtin.module",
			Traits:        ir.TraitNoTerminator | ir.TraitIsolatedFromAbove,
			Operands:      0,
			Results:       0,
			Regions:       1,
			Successors:    0,
			RegionKinds:   []ir.RegionKind{ir.RegionKindGraph},
			VerifyRegions: verifyModuleBody,
		},
	)
}

func verifyModuleBody(op *ir.Operation) error {
	body := op.Region(0)
	if body.Empty() {
		return nil
	}
	if n := body.Front().NumArguments(); n != 0 {
		return fmt.Errorf("expects body block to have no arguments, but found %d", n)
	}
	return nil
}
