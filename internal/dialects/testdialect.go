package dialects

import (
	"fmt"

	"github.com/roach88/irverify/internal/ir"
)

// RegisterTest registers the test dialect. It accepts unknown operations and
// rejects any operation carrying a test.reject attribute.
func RegisterTest(ctx *ir.Context) error {
	d := &Dialect{
		Name:         "test",
		AllowUnknown: true,
		AttrKinds:    map[string]AttrKind{"test.count": KindInt},
		VerifyAttr: func(_ *ir.Operation, attr ir.NamedAttribute) error {
			if attr.Name == "test.reject" {
				return fmt.Errorf("rejected by the test dialect")
			}
			return nil
		},
	}

	open := func(name string, traits ir.Trait) Spec {
		return Spec{
			Name:       name,
			Traits:     traits,
			Operands:   Variadic,
			Results:    Variadic,
			Regions:    Variadic,
			Successors: Variadic,
		}
	}

	graph := open("test.graph", ir.TraitNoTerminator)
	graph.RegionKinds = []ir.RegionKind{ir.RegionKindGraph, ir.RegionKindGraph}

	opFail := open("test.op_fail", 0)
	opFail.Verify = func(*ir.Operation) error { return ErrHook }

	regionFail := open("test.region_fail", ir.TraitNoTerminator)
	regionFail.VerifyRegions = func(*ir.Operation) error { return ErrHook }

	return Register(ctx, d,
		open("test.op", 0),
		open("test.no_terminator", ir.TraitNoTerminator),
		open("test.isolated", ir.TraitIsolatedFromAbove|ir.TraitNoTerminator),
		open("test.isolated_cfg", ir.TraitIsolatedFromAbove),
		open("test.terminator", ir.TraitTerminator),
		graph,
		opFail,
		regionFail,
	)
}
