package dialects

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/irverify/internal/ir"
)

// Variadic disables a count check in Spec.
const Variadic = -1

// Spec declares a registered operation.
type Spec struct {
	Name   string
	Traits ir.Trait

	// Exact counts, or Variadic. MinOperands applies when Operands is
	// Variadic.
	Operands    int
	MinOperands int
	Results     int
	Regions     int
	Successors  int

	// RegionKinds gives the kind of region i. Missing entries are SSACFG.
	RegionKinds []ir.RegionKind

	// RequiredAttrs must be present with the given kind.
	RequiredAttrs map[string]AttrKind

	// Verify and VerifyRegions run after the declarative checks.
	Verify        func(op *ir.Operation) error
	VerifyRegions func(op *ir.Operation) error
}

// OpInfo converts the spec into a registry entry.
func (s Spec) OpInfo() ir.OpInfo {
	info := ir.OpInfo{
		Name:          s.Name,
		Traits:        s.Traits,
		Verify:        s.verify,
		VerifyRegions: s.VerifyRegions,
	}
	if len(s.RegionKinds) > 0 {
		kinds := s.RegionKinds
		info.RegionKind = func(_ *ir.Operation, index int) ir.RegionKind {
			if index < len(kinds) {
				return kinds[index]
			}
			return ir.RegionKindSSACFG
		}
	}
	return info
}

func (s Spec) verify(op *ir.Operation) error {
	if err := checkCount("operands", s.Operands, op.NumOperands()); err != nil {
		return err
	}
	if s.Operands == Variadic && op.NumOperands() < s.MinOperands {
		return fmt.Errorf("expected at least %d operands, but found %d", s.MinOperands, op.NumOperands())
	}
	if err := checkCount("results", s.Results, op.NumResults()); err != nil {
		return err
	}
	if err := checkCount("regions", s.Regions, op.NumRegions()); err != nil {
		return err
	}
	if err := checkCount("successors", s.Successors, op.NumSuccessors()); err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(s.RequiredAttrs)) {
		v, ok := op.Attr(name)
		if !ok {
			return fmt.Errorf("requires attribute '%s'", name)
		}
		if kind := s.RequiredAttrs[name]; !kind.Accepts(v) {
			return fmt.Errorf("attribute '%s' must be %s, got %s", name, kind, describe(v))
		}
	}

	if s.Verify != nil {
		return s.Verify(op)
	}
	return nil
}

func checkCount(what string, want, got int) error {
	if want == Variadic || want == got {
		return nil
	}
	return fmt.Errorf("expected %d %s, but found %d", want, what, got)
}

// ErrHook is returned by the always-failing test hooks.
var ErrHook = errors.New("hook rejected operation")
