package dialects

import (
	"fmt"
	"sort"

	"github.com/roach88/irverify/internal/ir"
)

// Dialect is a namespace with an optional per-attribute kind table.
// It implements ir.Dialect and ir.AttributeVerifier.
type Dialect struct {
	Name         string
	AllowUnknown bool

	// AttrKinds constrains discardable attributes prefixed with the
	// namespace. Attributes missing from the table are accepted.
	AttrKinds map[string]AttrKind

	// VerifyAttr runs after the kind check. Optional.
	VerifyAttr func(op *ir.Operation, attr ir.NamedAttribute) error
}

// Namespace implements ir.Dialect.
func (d *Dialect) Namespace() string { return d.Name }

// AllowsUnknownOperations implements ir.Dialect.
func (d *Dialect) AllowsUnknownOperations() bool { return d.AllowUnknown }

// VerifyOperationAttribute implements ir.AttributeVerifier.
func (d *Dialect) VerifyOperationAttribute(op *ir.Operation, attr ir.NamedAttribute) error {
	if kind, ok := d.AttrKinds[attr.Name]; ok && !kind.Accepts(attr.Value) {
		return fmt.Errorf("expected %s value, got %s", kind, describe(attr.Value))
	}
	if d.VerifyAttr != nil {
		return d.VerifyAttr(op, attr)
	}
	return nil
}

// AttrKind names the accepted shape of an attribute value.
type AttrKind string

const (
	KindAny    AttrKind = "any"
	KindString AttrKind = "string"
	KindInt    AttrKind = "int"
	KindBool   AttrKind = "bool"
	KindFloat  AttrKind = "float"
	KindArray  AttrKind = "array"
	KindDict   AttrKind = "dict"
	KindUnit   AttrKind = "unit"
)

var kinds = []AttrKind{KindAny, KindString, KindInt, KindBool, KindFloat, KindArray, KindDict, KindUnit}

// ParseAttrKind validates a kind name.
func ParseAttrKind(s string) (AttrKind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown attribute kind %q", s)
}

// Accepts reports whether v has kind k. Integers are accepted as floats.
func (k AttrKind) Accepts(v any) bool {
	switch k {
	case KindAny:
		return true
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		return isInt(v)
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindFloat:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return isInt(v)
	case KindArray:
		_, ok := v.([]any)
		return ok
	case KindDict:
		_, ok := v.(map[string]any)
		return ok
	case KindUnit:
		return v == nil
	default:
		return false
	}
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "unit"
	case string:
		return "string"
	case bool:
		return "bool"
	case float32, float64:
		return "float"
	case []any:
		return "array"
	case map[string]any:
		return "dict"
	}
	if isInt(v) {
		return "int"
	}
	return fmt.Sprintf("%T", v)
}

// Register adds d and every spec to ctx.
func Register(ctx *ir.Context, d *Dialect, specs ...Spec) error {
	if err := ctx.RegisterDialect(d); err != nil {
		return err
	}
	for _, s := range specs {
		if err := ctx.RegisterOperation(s.OpInfo()); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAll registers every standard dialect.
func RegisterAll(ctx *ir.Context) error {
	for _, reg := range []func(*ir.Context) error{
		RegisterBuiltin,
		RegisterFunc,
		RegisterCF,
		RegisterArith,
		RegisterTest,
	} {
		if err := reg(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Names lists the namespaces RegisterAll installs, sorted.
func Names() []string {
	names := []string{"builtin", "func", "cf", "arith", "test"}
	sort.Strings(names)
	return names
}
