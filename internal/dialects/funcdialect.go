package dialects

import "github.com/roach88/irverify/internal/ir"

// RegisterFunc registers func.func, func.return and func.call.
// The dialect checks that func.inline is a bool wherever it appears.
func RegisterFunc(ctx *ir.Context) error {
	d := &Dialect{
		Name:      "func",
		AttrKinds: map[string]AttrKind{"func.inline": KindBool},
	}
	return Register(ctx, d,
		Spec{
			Name:          "func.func",
			Traits:        ir.TraitIsolatedFromAbove,
			Operands:      0,
			Results:       0,
			Regions:       1,
			Successors:    0,
			RequiredAttrs: map[string]AttrKind{"sym_name": KindString},
		},
		Spec{
			Name:       "func.return",
			Traits:     ir.TraitTerminator,
			Operands:   Variadic,
			Results:    0,
			Regions:    0,
			Successors: 0,
		},
		Spec{
			Name:          "func.call",
			Operands:      Variadic,
			Results:       Variadic,
			Regions:       0,
			Successors:    0,
			RequiredAttrs: map[string]AttrKind{"callee": KindString},
		},
	)
}
