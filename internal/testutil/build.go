package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/irverify/internal/dialects"
	"github.com/roach88/irverify/internal/ir"
)

// NewContext returns a context with every standard dialect registered and
// threading enabled.
func NewContext(t testing.TB) *ir.Context {
	t.Helper()
	ctx := ir.NewContext()
	require.NoError(t, dialects.RegisterAll(ctx))
	return ctx
}

// OpOption configures an operation built by Op.
type OpOption func(*ir.OperationState)

// Operands sets the operand list. A nil entry is a null operand.
func Operands(vs ...*ir.Value) OpOption {
	return func(s *ir.OperationState) { s.Operands = vs }
}

// Results sets the number of results.
func Results(n int) OpOption {
	return func(s *ir.OperationState) { s.NumResults = n }
}

// Attr adds a discardable attribute.
func Attr(name string, value any) OpOption {
	return func(s *ir.OperationState) {
		s.Attributes = append(s.Attributes, ir.NamedAttribute{Name: name, Value: value})
	}
}

// Regions sets the number of regions.
func Regions(n int) OpOption {
	return func(s *ir.OperationState) { s.NumRegions = n }
}

// Successors sets the successor blocks.
func Successors(bs ...*ir.Block) OpOption {
	return func(s *ir.OperationState) { s.Successors = bs }
}

// At sets the location.
func At(loc ir.Location) OpOption {
	return func(s *ir.OperationState) { s.Loc = loc }
}

// Op creates a detached operation. Its location defaults to a name location
// equal to the operation name.
func Op(ctx *ir.Context, name string, opts ...OpOption) *ir.Operation {
	state := ir.OperationState{Name: name, Loc: ir.NameLoc(name)}
	for _, opt := range opts {
		opt(&state)
	}
	return ctx.NewOperation(state)
}

// Block creates a block holding ops.
func Block(ops ...*ir.Operation) *ir.Block {
	b := ir.NewBlock()
	b.Append(ops...)
	return b
}

// Fill appends blocks to region index of op and returns op.
func Fill(op *ir.Operation, index int, blocks ...*ir.Block) *ir.Operation {
	op.Region(index).Append(blocks...)
	return op
}

// Func wraps blocks in a func.func named name.
func Func(ctx *ir.Context, name string, blocks ...*ir.Block) *ir.Operation {
	fn := Op(ctx, "func.func", Regions(1), Attr("sym_name", name), At(ir.NameLoc("@"+name)))
	return Fill(fn, 0, blocks...)
}

// Module wraps ops in a builtin.module with a single block.
func Module(ctx *ir.Context, ops ...*ir.Operation) *ir.Operation {
	mod := Op(ctx, "builtin.module", Regions(1))
	return Fill(mod, 0, Block(ops...))
}
