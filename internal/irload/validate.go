package irload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/irverify/internal/dialects"
	"github.com/roach88/irverify/internal/ir"
)

// validateDocument checks what the decoder cannot: required fields, names
// and the dialect declarations.
func validateDocument(doc *Document) error {
	if doc.Root == nil {
		return &LoadError{Code: ErrCodeSchema, Message: "missing required field: root"}
	}
	if doc.Threads < 0 {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("threads must be >= 0, got %d", doc.Threads)}
	}
	seen := make(map[string]bool)
	for i := range doc.Dialects {
		d := &doc.Dialects[i]
		if d.Name == "" {
			return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("dialects[%d]: missing required field: name", i)}
		}
		if seen[d.Name] {
			return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("dialect %q declared twice", d.Name)}
		}
		seen[d.Name] = true
		if _, _, err := d.specs(); err != nil {
			return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("dialect %q: %v", d.Name, err), Err: err}
		}
	}
	return validateOp(doc.Root, "root")
}

func validateOp(n *OpNode, path string) error {
	if n.Op == "" {
		return &LoadError{
			Code:    ErrCodeSchema,
			Line:    n.Line,
			Column:  n.Column,
			Message: fmt.Sprintf("%s: missing required field: op", path),
		}
	}
	for ri := range n.Regions {
		for bi := range n.Regions[ri].Blocks {
			b := &n.Regions[ri].Blocks[bi]
			for oi := range b.Ops {
				child := fmt.Sprintf("%s.regions[%d].blocks[%d].ops[%d]", path, ri, bi, oi)
				if err := validateOp(&b.Ops[oi], child); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func withFile(err error, path string) error {
	var le *LoadError
	if errors.As(err, &le) && le.File == "" {
		le.File = path
	}
	return err
}

// specs converts the declaration into a dialect and its operation specs.
func (d *DialectDecl) specs() (*dialects.Dialect, []dialects.Spec, error) {
	dialect := &dialects.Dialect{Name: d.Name, AllowUnknown: d.AllowUnknownOps}
	if len(d.Attributes) > 0 {
		kinds, err := parseKinds(d.Attributes)
		if err != nil {
			return nil, nil, fmt.Errorf("attributes: %w", err)
		}
		dialect.AttrKinds = kinds
	}

	specs := make([]dialects.Spec, 0, len(d.Ops))
	for _, od := range d.Ops {
		s, err := od.spec(d.Name)
		if err != nil {
			return nil, nil, err
		}
		specs = append(specs, s)
	}
	return dialect, specs, nil
}

func (od OpDecl) spec(namespace string) (dialects.Spec, error) {
	if !strings.HasPrefix(od.Name, namespace+".") {
		return dialects.Spec{}, fmt.Errorf("op %q must be prefixed with %q", od.Name, namespace+".")
	}
	s := dialects.Spec{Name: od.Name, MinOperands: od.MinOperands}

	for _, name := range od.Traits {
		t, err := ir.ParseTrait(name)
		if err != nil {
			return s, fmt.Errorf("op %q: %w", od.Name, err)
		}
		s.Traits |= t
	}
	for _, name := range od.RegionKinds {
		k, err := ir.ParseRegionKind(name)
		if err != nil {
			return s, fmt.Errorf("op %q: %w", od.Name, err)
		}
		s.RegionKinds = append(s.RegionKinds, k)
	}

	var err error
	if s.Operands, err = count("operands", od.Operands); err != nil {
		return s, fmt.Errorf("op %q: %w", od.Name, err)
	}
	if s.Results, err = count("results", od.Results); err != nil {
		return s, fmt.Errorf("op %q: %w", od.Name, err)
	}
	if s.Regions, err = count("regions", od.Regions); err != nil {
		return s, fmt.Errorf("op %q: %w", od.Name, err)
	}
	if s.Successors, err = count("successors", od.Successors); err != nil {
		return s, fmt.Errorf("op %q: %w", od.Name, err)
	}

	if len(od.RequiredAttributes) > 0 {
		if s.RequiredAttrs, err = parseKinds(od.RequiredAttributes); err != nil {
			return s, fmt.Errorf("op %q: required_attributes: %w", od.Name, err)
		}
	}
	return s, nil
}

func count(field string, n *int) (int, error) {
	if n == nil {
		return dialects.Variadic, nil
	}
	if *n < 0 {
		return 0, fmt.Errorf("%s must be >= 0, got %d", field, *n)
	}
	return *n, nil
}

func parseKinds(m map[string]string) (map[string]dialects.AttrKind, error) {
	out := make(map[string]dialects.AttrKind, len(m))
	for name, kind := range m {
		k, err := dialects.ParseAttrKind(kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = k
	}
	return out, nil
}
