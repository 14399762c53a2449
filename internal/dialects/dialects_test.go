package dialects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irverify/internal/dialects"
	"github.com/roach88/irverify/internal/ir"
	"github.com/roach88/irverify/internal/testutil"
)

func verifyHook(t *testing.T, op *ir.Operation) error {
	t.Helper()
	require.True(t, op.IsRegistered(), "%s must be registered", op.Name())
	return op.Info().Verify(op)
}

func TestRegisterAllTwiceFails(t *testing.T) {
	ctx := testutil.NewContext(t)
	assert.ErrorContains(t, dialects.RegisterAll(ctx), "already registered")
	assert.Equal(t, []string{"arith", "builtin", "cf", "func", "test"}, dialects.Names())
}

func TestModuleTraits(t *testing.T) {
	ctx := testutil.NewContext(t)
	mod := testutil.Op(ctx, "builtin.module", testutil.Regions(1))

	assert.True(t, mod.HasTrait(ir.TraitNoTerminator))
	assert.True(t, mod.HasTrait(ir.TraitIsolatedFromAbove))
	assert.Equal(t, ir.RegionKindGraph, mod.RegionKind(0))
	assert.NoError(t, verifyHook(t, mod))
}

func TestModuleBodyArguments(t *testing.T) {
	ctx := testutil.NewContext(t)
	b := testutil.Block()
	b.AddArgument("x", ir.UnknownLoc())
	mod := testutil.Fill(testutil.Op(ctx, "builtin.module", testutil.Regions(1)), 0, b)

	err := mod.Info().VerifyRegions(mod)
	assert.EqualError(t, err, "expects body block to have no arguments, but found 1")
}

func TestCountChecks(t *testing.T) {
	ctx := testutil.NewContext(t)
	c := testutil.Op(ctx, "arith.constant", testutil.Results(1), testutil.Attr("value", 1))

	tests := []struct {
		name string
		op   *ir.Operation
		want string
	}{
		{
			name: "addi operands",
			op:   testutil.Op(ctx, "arith.addi", testutil.Operands(c.Result(0)), testutil.Results(1)),
			want: "expected 2 operands, but found 1",
		},
		{
			name: "constant results",
			op:   testutil.Op(ctx, "arith.constant", testutil.Attr("value", 1)),
			want: "expected 1 results, but found 0",
		},
		{
			name: "br successors",
			op:   testutil.Op(ctx, "cf.br"),
			want: "expected 1 successors, but found 0",
		},
		{
			name: "cond_br condition",
			op:   testutil.Op(ctx, "cf.cond_br", testutil.Successors(ir.NewBlock(), ir.NewBlock())),
			want: "expected at least 1 operands, but found 0",
		},
		{
			name: "func regions",
			op:   testutil.Op(ctx, "func.func", testutil.Attr("sym_name", "f")),
			want: "expected 1 regions, but found 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, verifyHook(t, tt.op), tt.want)
		})
	}
}

func TestRequiredAttributes(t *testing.T) {
	ctx := testutil.NewContext(t)

	missing := testutil.Op(ctx, "func.func", testutil.Regions(1))
	assert.EqualError(t, verifyHook(t, missing), "requires attribute 'sym_name'")

	wrong := testutil.Op(ctx, "func.func", testutil.Regions(1), testutil.Attr("sym_name", 3))
	assert.EqualError(t, verifyHook(t, wrong), "attribute 'sym_name' must be string, got int")

	ok := testutil.Op(ctx, "func.call", testutil.Attr("callee", "g"), testutil.Results(2))
	assert.NoError(t, verifyHook(t, ok))
}

func TestFuncInlineAttribute(t *testing.T) {
	ctx := testutil.NewContext(t)
	op := testutil.Op(ctx, "test.op")

	d, ok := ctx.LookupDialect("func").(ir.AttributeVerifier)
	require.True(t, ok)

	assert.NoError(t, d.VerifyOperationAttribute(op, ir.NamedAttribute{Name: "func.inline", Value: true}))
	assert.EqualError(t,
		d.VerifyOperationAttribute(op, ir.NamedAttribute{Name: "func.inline", Value: "yes"}),
		"expected bool value, got string")
	assert.NoError(t, d.VerifyOperationAttribute(op, ir.NamedAttribute{Name: "func.other", Value: "yes"}))
}

func TestTestDialectHooks(t *testing.T) {
	ctx := testutil.NewContext(t)

	assert.True(t, ctx.LookupDialect("test").AllowsUnknownOperations())
	assert.False(t, ctx.LookupDialect("func").AllowsUnknownOperations())

	fail := testutil.Op(ctx, "test.op_fail")
	assert.ErrorIs(t, verifyHook(t, fail), dialects.ErrHook)

	regionFail := testutil.Op(ctx, "test.region_fail", testutil.Regions(1))
	assert.ErrorIs(t, regionFail.Info().VerifyRegions(regionFail), dialects.ErrHook)

	graph := testutil.Op(ctx, "test.graph", testutil.Regions(3))
	assert.Equal(t, ir.RegionKindGraph, graph.RegionKind(1))
	assert.Equal(t, ir.RegionKindSSACFG, graph.RegionKind(2))

	d := ctx.LookupDialect("test").(ir.AttributeVerifier)
	assert.EqualError(t,
		d.VerifyOperationAttribute(fail, ir.NamedAttribute{Name: "test.reject"}),
		"rejected by the test dialect")
	assert.EqualError(t,
		d.VerifyOperationAttribute(fail, ir.NamedAttribute{Name: "test.count", Value: 1.5}),
		"expected int value, got float")
}

func TestAttrKinds(t *testing.T) {
	tests := []struct {
		kind dialects.AttrKind
		v    any
		ok   bool
	}{
		{dialects.KindAny, nil, true},
		{dialects.KindString, "s", true},
		{dialects.KindString, 1, false},
		{dialects.KindInt, int64(3), true},
		{dialects.KindInt, 3.0, false},
		{dialects.KindFloat, 3, true},
		{dialects.KindFloat, 3.5, true},
		{dialects.KindBool, false, true},
		{dialects.KindArray, []any{1}, true},
		{dialects.KindDict, map[string]any{}, true},
		{dialects.KindUnit, nil, true},
		{dialects.KindUnit, "x", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.kind.Accepts(tt.v), "%s accepts %#v", tt.kind, tt.v)
	}

	k, err := dialects.ParseAttrKind("dict")
	require.NoError(t, err)
	assert.Equal(t, dialects.KindDict, k)
	_, err = dialects.ParseAttrKind("tensor")
	assert.Error(t, err)
}
