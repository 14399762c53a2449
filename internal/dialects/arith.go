package dialects

import "github.com/roach88/irverify/internal/ir"

// RegisterArith registers arith.constant and arith.addi.
func RegisterArith(ctx *ir.Context) error {
	return Register(ctx, &Dialect{Name: "arith"},
		Spec{
			Name:          "arith.constant",
			Operands:      0,
			Results:       1,
			Regions:       0,
			Successors:    0,
			RequiredAttrs: map[string]AttrKind{"value": KindAny},
		},
		Spec{
			Name:       "arith.addi",
			Operands:   2,
			Results:    1,
			Regions:    0,
			Successors: 0,
		},
	)
}
