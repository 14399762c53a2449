package ir

import (
	"fmt"
	"strings"
)

// String renders the operation on one line in generic form, without nested
// region bodies:
//
//	%x, %y = "name"(%a, %b)[^bb1] {attr = 1} (1 region)
func (o *Operation) String() string {
	var sb strings.Builder

	if len(o.results) > 0 {
		for i, r := range o.results {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(r.String())
		}
		sb.WriteString(" = ")
	}

	fmt.Fprintf(&sb, "%q(", o.name)
	for i, v := range o.operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(')')

	if len(o.successors) > 0 {
		sb.WriteByte('[')
		for i, b := range o.successors {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.String())
		}
		sb.WriteByte(']')
	}

	if len(o.attrs) > 0 {
		sb.WriteString(" {")
		for i, a := range o.attrs {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s = %s", a.Name, formatAttr(a.Value))
		}
		sb.WriteByte('}')
	}

	switch n := len(o.regions); n {
	case 0:
	case 1:
		sb.WriteString(" (1 region)")
	default:
		fmt.Fprintf(&sb, " (%d regions)", n)
	}
	return sb.String()
}

// String renders the block's label, falling back to its index.
func (b *Block) String() string {
	if b == nil {
		return "^<<NULL BLOCK>>"
	}
	if b.label != "" {
		return "^" + b.label
	}
	if i := b.Index(); i >= 0 {
		return fmt.Sprintf("^bb%d", i)
	}
	return "^<detached>"
}

func formatAttr(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case nil:
		return "unit"
	default:
		return fmt.Sprint(val)
	}
}
