package irload

import (
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/irverify/internal/dialects"
	"github.com/roach88/irverify/internal/ir"
	"github.com/roach88/irverify/internal/parallel"
)

// Loaded is a built document.
type Loaded struct {
	Context  *ir.Context
	Root     *ir.Operation
	Source   string
	Document *Document
}

// LoadFile reads path and dispatches on its extension.
func LoadFile(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, File: path, Message: err.Error(), Err: err}
	}
	return Load(path, data)
}

// Load builds data as a document named name. The format is chosen by the
// extension of name: .yaml, .yml or .cue.
func Load(name string, data []byte) (*Loaded, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return LoadYAML(name, data)
	case ".cue":
		return LoadCUE(name, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeRead,
			File:    name,
			Message: fmt.Sprintf("unsupported file extension %q (want .yaml, .yml or .cue)", filepath.Ext(name)),
		}
	}
}

// Threading maps a document thread count onto a parallel.Config: 0 keeps
// the default, 1 is sequential and n > 1 caps the worker count at n.
func Threading(n int) parallel.Config {
	switch {
	case n == 1:
		return parallel.Sequential()
	case n > 1:
		cfg := parallel.DefaultConfig()
		cfg.Limit = n
		return cfg
	default:
		return parallel.DefaultConfig()
	}
}

// NewContext creates a context with the standard dialects plus those the
// document declares.
func NewContext(doc *Document) (*ir.Context, error) {
	ctx := ir.NewContext()
	if err := dialects.RegisterAll(ctx); err != nil {
		return nil, err
	}
	for i := range doc.Dialects {
		decl := &doc.Dialects[i]
		d, specs, err := decl.specs()
		if err == nil {
			err = dialects.Register(ctx, d, specs...)
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("dialect %q: %v", decl.Name, err), Err: err}
		}
	}
	ctx.SetAllowUnregisteredDialects(doc.AllowUnregisteredDialects)
	ctx.SetThreading(Threading(doc.Threads))
	return ctx, nil
}

// Build turns a decoded document into IR. Operations without an explicit
// loc are located by their path in the document.
func Build(doc *Document, source string) (*Loaded, error) {
	return build(doc, source, pathLocator{file: source})
}

type locator interface {
	opLoc(n *OpNode, path string) ir.Location
	blockLoc(b *BlockNode, path string) ir.Location
}

type pathLocator struct {
	file string
}

func (l pathLocator) opLoc(_ *OpNode, path string) ir.Location {
	return ir.NameLoc(l.file + ":" + path)
}

func (l pathLocator) blockLoc(_ *BlockNode, path string) ir.Location {
	return ir.NameLoc(l.file + ":" + path)
}

func build(doc *Document, source string, loc locator) (*Loaded, error) {
	if err := validateDocument(doc); err != nil {
		return nil, withFile(err, source)
	}
	ctx, err := NewContext(doc)
	if err != nil {
		return nil, withFile(err, source)
	}

	b := &builder{
		ctx:    ctx,
		loc:    loc,
		values: make(map[string]*ir.Value),
		blocks: make(map[string]*ir.Block),
	}
	root, err := b.buildOp(doc.Root, "root")
	if err == nil {
		err = b.resolve()
	}
	if err != nil {
		return nil, withFile(err, source)
	}
	return &Loaded{Context: ctx, Root: root, Source: source, Document: doc}, nil
}

type pendingOperand struct {
	op    *ir.Operation
	index int
	name  string
	node  *OpNode
	path  string
}

type pendingSuccessors struct {
	op    *ir.Operation
	names []string
	node  *OpNode
	path  string
}

type builder struct {
	ctx    *ir.Context
	loc    locator
	values map[string]*ir.Value
	blocks map[string]*ir.Block

	operands   []pendingOperand
	successors []pendingSuccessors
}

func (b *builder) buildOp(n *OpNode, path string) (*ir.Operation, error) {
	attrs := make([]ir.NamedAttribute, 0, len(n.Attributes))
	for name, raw := range n.Attributes {
		v, err := normalizeAttr(raw)
		if err != nil {
			return nil, nodeError(ErrCodeSchema, n, fmt.Sprintf("%s: attribute %q: %v", path, name, err))
		}
		attrs = append(attrs, ir.NamedAttribute{Name: name, Value: v})
	}

	loc := b.loc.opLoc(n, path)
	if n.Loc != "" {
		loc = ir.ParseLocation(n.Loc)
	}

	resultNames := make([]string, len(n.Results))
	for i, r := range n.Results {
		resultNames[i] = valueName(r)
	}

	op := b.ctx.NewOperation(ir.OperationState{
		Name:        n.Op,
		Loc:         loc,
		Operands:    make([]*ir.Value, len(n.Operands)),
		ResultNames: resultNames,
		Attributes:  attrs,
		NumRegions:  len(n.Regions),
	})

	for _, v := range op.Results() {
		if err := b.define(v.Name(), v, n, path); err != nil {
			return nil, err
		}
	}
	for i, ref := range n.Operands {
		if ref == nil {
			continue
		}
		if name := valueName(*ref); name != "" {
			b.operands = append(b.operands, pendingOperand{op: op, index: i, name: name, node: n, path: path})
		}
	}
	if len(n.Successors) > 0 {
		b.successors = append(b.successors, pendingSuccessors{op: op, names: n.Successors, node: n, path: path})
	}

	for ri := range n.Regions {
		region := op.Region(ri)
		for bi := range n.Regions[ri].Blocks {
			bn := &n.Regions[ri].Blocks[bi]
			bpath := fmt.Sprintf("%s.regions[%d].blocks[%d]", path, ri, bi)
			block, err := b.buildBlock(bn, bpath)
			if err != nil {
				return nil, err
			}
			region.Append(block)

			for oi := range bn.Ops {
				child, err := b.buildOp(&bn.Ops[oi], fmt.Sprintf("%s.ops[%d]", bpath, oi))
				if err != nil {
					return nil, err
				}
				block.Append(child)
			}
		}
	}
	return op, nil
}

func (b *builder) buildBlock(bn *BlockNode, path string) (*ir.Block, error) {
	block := ir.NewBlock()
	if label := blockName(bn.Label); label != "" {
		if _, dup := b.blocks[label]; dup {
			return nil, &LoadError{
				Code:    ErrCodeResolve,
				Line:    bn.Line,
				Column:  bn.Column,
				Message: fmt.Sprintf("%s: redefinition of block ^%s", path, label),
			}
		}
		b.blocks[label] = block
		block.SetLabel(label)
	}

	loc := b.loc.blockLoc(bn, path)
	for _, arg := range bn.Args {
		name := valueName(arg)
		v := block.AddArgument(name, loc)
		if name == "" {
			continue
		}
		if _, dup := b.values[name]; dup {
			return nil, &LoadError{
				Code:    ErrCodeResolve,
				Line:    bn.Line,
				Column:  bn.Column,
				Message: fmt.Sprintf("%s: redefinition of value %%%s", path, name),
			}
		}
		b.values[name] = v
	}
	return block, nil
}

func (b *builder) define(name string, v *ir.Value, n *OpNode, path string) error {
	if name == "" {
		return nil
	}
	if _, dup := b.values[name]; dup {
		return nodeError(ErrCodeResolve, n, fmt.Sprintf("%s: redefinition of value %%%s", path, name))
	}
	b.values[name] = v
	return nil
}

// resolve binds every use once all definitions are known.
func (b *builder) resolve() error {
	for _, p := range b.operands {
		v, ok := b.values[p.name]
		if !ok {
			return nodeError(ErrCodeResolve, p.node,
				fmt.Sprintf("%s: use of undefined value %%%s", p.path, p.name))
		}
		p.op.SetOperand(p.index, v)
	}
	for _, p := range b.successors {
		targets := make([]*ir.Block, len(p.names))
		for i, name := range p.names {
			blk, ok := b.blocks[blockName(name)]
			if !ok {
				return nodeError(ErrCodeResolve, p.node,
					fmt.Sprintf("%s: reference to undefined block ^%s", p.path, blockName(name)))
			}
			targets[i] = blk
		}
		p.op.SetSuccessors(targets...)
	}
	return nil
}

func nodeError(code string, n *OpNode, msg string) *LoadError {
	return &LoadError{Code: code, Line: n.Line, Column: n.Column, Message: msg}
}

// valueName strips an optional leading '%'.
func valueName(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "%")
}

// blockName strips an optional leading '^'.
func blockName(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "^")
}

// normalizeAttr maps decoded attribute values onto the types the dialects
// and the fingerprint understand: int, float64, string, bool, nil, []any
// and map[string]any.
func normalizeAttr(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, int, float64:
		return val, nil
	case int64:
		if val < math.MinInt || val > math.MaxInt {
			return nil, fmt.Errorf("integer %d out of range", val)
		}
		return int(val), nil
	case int32:
		return int(val), nil
	case uint64:
		if val > math.MaxInt {
			return nil, fmt.Errorf("integer %d out of range", val)
		}
		return int(val), nil
	case uint32:
		return int(val), nil
	case uint:
		if uint64(val) > math.MaxInt {
			return nil, fmt.Errorf("integer %d out of range", val)
		}
		return int(val), nil
	case float32:
		return float64(val), nil
	case *big.Int:
		if !val.IsInt64() {
			return nil, fmt.Errorf("integer %s out of range", val)
		}
		return normalizeAttr(val.Int64())
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			n, err := normalizeAttr(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			n, err := normalizeAttr(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
