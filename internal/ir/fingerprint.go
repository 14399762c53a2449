package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

// DomainFingerprint prefixes every operation fingerprint. The version suffix
// leaves room for changing the canonical form.
const DomainFingerprint = "irverify/fingerprint/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The null byte keeps domain and data from running into each other.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content hash of op and everything nested in it.
//
// Values and blocks are numbered in walk order, so the fingerprint depends on
// structure and attributes but not on source names. Locations are excluded.
// Values defined outside op are referenced by their printed name.
func Fingerprint(op *Operation) (string, error) {
	doc, err := CanonicalForm(op)
	if err != nil {
		return "", err
	}
	data, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", op.Name(), err)
	}
	return hashWithDomain(DomainFingerprint, data), nil
}

// CanonicalForm renders op as a tree of canonical JSON values.
func CanonicalForm(op *Operation) (map[string]any, error) {
	n := &numbering{
		values: make(map[*Value]int),
		blocks: make(map[*Block]int),
	}
	n.assign(op)
	return n.render(op)
}

type numbering struct {
	values map[*Value]int
	blocks map[*Block]int
}

func (n *numbering) assign(op *Operation) {
	for _, r := range op.results {
		n.values[r] = len(n.values)
	}
	for _, region := range op.regions {
		for _, b := range region.blocks {
			n.blocks[b] = len(n.blocks)
			for _, a := range b.args {
				n.values[a] = len(n.values)
			}
			for _, nested := range b.ops {
				n.assign(nested)
			}
		}
	}
}

func (n *numbering) valueRef(v *Value) string {
	if v == nil {
		return ""
	}
	if id, ok := n.values[v]; ok {
		return "v" + strconv.Itoa(id)
	}
	return "ext:" + v.String()
}

func (n *numbering) blockRef(b *Block) string {
	if id, ok := n.blocks[b]; ok {
		return "b" + strconv.Itoa(id)
	}
	return "ext:" + b.String()
}

func (n *numbering) render(op *Operation) (map[string]any, error) {
	operands := make([]any, len(op.operands))
	for i, v := range op.operands {
		operands[i] = n.valueRef(v)
	}

	attrs := make(map[string]any, len(op.attrs))
	for _, a := range op.attrs {
		val, err := canonicalAttr(a.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: attribute %q: %w", op.name, a.Name, err)
		}
		attrs[a.Name] = val
	}

	successors := make([]any, len(op.successors))
	for i, b := range op.successors {
		successors[i] = n.blockRef(b)
	}

	regions := make([]any, len(op.regions))
	for i, region := range op.regions {
		blocks := make([]any, len(region.blocks))
		for j, b := range region.blocks {
			args := make([]any, len(b.args))
			for k, a := range b.args {
				args[k] = n.valueRef(a)
			}
			ops := make([]any, len(b.ops))
			for k, nested := range b.ops {
				rendered, err := n.render(nested)
				if err != nil {
					return nil, err
				}
				ops[k] = rendered
			}
			blocks[j] = map[string]any{
				"id":   n.blockRef(b),
				"args": args,
				"ops":  ops,
			}
		}
		regions[i] = blocks
	}

	results := make([]any, len(op.results))
	for i, r := range op.results {
		results[i] = n.valueRef(r)
	}

	return map[string]any{
		"name":       op.name,
		"operands":   operands,
		"results":    results,
		"attrs":      attrs,
		"successors": successors,
		"regions":    regions,
	}, nil
}

// canonicalAttr maps attribute payloads onto the canonical JSON subset.
// Floats become their shortest decimal string and null becomes "unit".
func canonicalAttr(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return "unit", nil
	case string, bool, int, int64:
		return val, nil
	case int32:
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return strconv.FormatUint(val, 10), nil
		}
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case float64:
		return "f:" + strconv.FormatFloat(val, 'g', -1, 64), nil
	case float32:
		return "f:" + strconv.FormatFloat(float64(val), 'g', -1, 32), nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			c, err := canonicalAttr(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			c, err := canonicalAttr(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = c
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported attribute value %T", v)
	}
}
