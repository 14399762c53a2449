package irload

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/irverify/internal/ir"
)

var (
	opKeys     = keySet("op", "loc", "operands", "results", "attributes", "successors", "regions")
	regionKeys = keySet("blocks")
	blockKeys  = keySet("label", "args", "ops")
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// checkKeys rejects unknown mapping keys. Custom unmarshalers decode through
// yaml.Node, which does not inherit the decoder's KnownFields setting.
func checkKeys(node *yaml.Node, allowed map[string]bool, what string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", node.Line, what)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !allowed[key.Value] {
			return fmt.Errorf("line %d: field %s not found in %s", key.Line, key.Value, what)
		}
	}
	return nil
}

// UnmarshalYAML decodes an operation and records its position.
func (n *OpNode) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, opKeys, "op"); err != nil {
		return err
	}
	type plain OpNode
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*n = OpNode(p)
	n.Line, n.Column = node.Line, node.Column
	return nil
}

// UnmarshalYAML decodes a region.
func (r *RegionNode) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, regionKeys, "region"); err != nil {
		return err
	}
	type plain RegionNode
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = RegionNode(p)
	return nil
}

// UnmarshalYAML decodes a block and records its position.
func (b *BlockNode) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, blockKeys, "block"); err != nil {
		return err
	}
	type plain BlockNode
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*b = BlockNode(p)
	b.Line, b.Column = node.Line, node.Column
	return nil
}

// ParseYAML decodes a YAML document strictly. Unknown fields at any depth
// are rejected.
func ParseYAML(path string, data []byte) (*Document, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeSchema, File: path, Message: "empty document"}
		}
		return nil, &LoadError{
			Code:    ErrCodeParse,
			File:    path,
			Message: fmt.Sprintf("failed to parse YAML: %v", err),
			Err:     err,
		}
	}
	if err := validateDocument(&doc); err != nil {
		return nil, withFile(err, path)
	}
	return &doc, nil
}

// LoadYAML parses and builds a YAML document. Operations without an
// explicit loc get the file:line:col of their node.
func LoadYAML(path string, data []byte) (*Loaded, error) {
	doc, err := ParseYAML(path, data)
	if err != nil {
		return nil, err
	}
	return build(doc, path, yamlLocator{file: path})
}

type yamlLocator struct {
	file string
}

func (l yamlLocator) opLoc(n *OpNode, _ string) ir.Location {
	if n.Line == 0 {
		return ir.NameLoc(l.file)
	}
	return ir.FileLineCol(l.file, n.Line, n.Column)
}

func (l yamlLocator) blockLoc(b *BlockNode, _ string) ir.Location {
	if b.Line == 0 {
		return ir.NameLoc(l.file)
	}
	return ir.FileLineCol(l.file, b.Line, b.Column)
}
