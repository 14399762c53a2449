package dialects

import "github.com/roach88/irverify/internal/ir"

// RegisterCF registers the unstructured branch operations.
func RegisterCF(ctx *ir.Context) error {
	return Register(ctx, &Dialect{Name: "cf"},
		Spec{
			Name:       "cf.br",
			Traits:     ir.TraitTerminator,
			Operands:   Variadic,
			Results:    0,
			Regions:    0,
			Successors: 1,
		},
		Spec{
			Name:        "cf.cond_br",
			Traits:      ir.TraitTerminator,
			Operands:    Variadic,
			MinOperands: 1,
			Results:     0,
			Regions:     0,
			Successors:  2,
		},
	)
}
