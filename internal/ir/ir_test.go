package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDialect struct {
	ns           string
	allowUnknown bool
}

func (d fakeDialect) Namespace() string             { return d.ns }
func (d fakeDialect) AllowsUnknownOperations() bool { return d.allowUnknown }

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx := NewContext()
	require.NoError(t, ctx.RegisterDialect(fakeDialect{ns: "t"}))
	require.NoError(t, ctx.RegisterOperation(OpInfo{Name: "t.term", Traits: TraitTerminator}))
	require.NoError(t, ctx.RegisterOperation(OpInfo{Name: "t.iso", Traits: TraitIsolatedFromAbove | TraitNoTerminator}))
	return ctx
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in   string
		want Location
		str  string
	}{
		{"", UnknownLoc(), "loc(unknown)"},
		{"a.yaml:3:5", FileLineCol("a.yaml", 3, 5), "a.yaml:3:5"},
		{"C:/x/a.yaml:10:1", FileLineCol("C:/x/a.yaml", 10, 1), "C:/x/a.yaml:10:1"},
		{"callsite", NameLoc("callsite"), "callsite"},
		{"a.yaml:x:5", NameLoc("a.yaml:x:5"), "a.yaml:x:5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseLocation(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
		})
	}
	assert.True(t, UnknownLoc().IsUnknown())
}

func TestTraitString(t *testing.T) {
	assert.Equal(t, "none", Trait(0).String())
	assert.Equal(t, "terminator|isolated_from_above", (TraitTerminator | TraitIsolatedFromAbove).String())

	tr, err := ParseTrait("no_terminator")
	require.NoError(t, err)
	assert.Equal(t, TraitNoTerminator, tr)

	_, err = ParseTrait("pure")
	assert.Error(t, err)
}

func TestParseRegionKind(t *testing.T) {
	k, err := ParseRegionKind("graph")
	require.NoError(t, err)
	assert.Equal(t, RegionKindGraph, k)

	k, err = ParseRegionKind("")
	require.NoError(t, err)
	assert.Equal(t, RegionKindSSACFG, k)

	_, err = ParseRegionKind("dag")
	assert.Error(t, err)
}

func TestContextRegistration(t *testing.T) {
	ctx := NewContext()

	err := ctx.RegisterOperation(OpInfo{Name: "t.op"})
	assert.ErrorContains(t, err, "not registered")

	require.NoError(t, ctx.RegisterDialect(fakeDialect{ns: "t"}))
	assert.ErrorContains(t, ctx.RegisterDialect(fakeDialect{ns: "t"}), "already registered")
	assert.ErrorContains(t, ctx.RegisterDialect(fakeDialect{}), "empty namespace")

	require.NoError(t, ctx.RegisterOperation(OpInfo{Name: "t.op"}))
	assert.ErrorContains(t, ctx.RegisterOperation(OpInfo{Name: "t.op"}), "already registered")

	assert.NotNil(t, ctx.LookupOperation("t.op"))
	assert.Nil(t, ctx.LookupOperation("t.other"))
	assert.Equal(t, "t", DialectNamespace("t.op.sub"))
	assert.Equal(t, "", DialectNamespace("bare"))
	assert.Equal(t, "", DialectNamespace(".x"))
}

func TestTraitQueries(t *testing.T) {
	ctx := newTestContext(t)

	term := ctx.NewOperation(OperationState{Name: "t.term"})
	assert.True(t, term.IsRegistered())
	assert.True(t, term.HasTrait(TraitTerminator))
	assert.False(t, term.HasTrait(TraitNoTerminator))
	assert.False(t, term.MightHaveTrait(TraitNoTerminator))

	unknown := ctx.NewOperation(OperationState{Name: "t.unknown"})
	assert.False(t, unknown.IsRegistered())
	assert.False(t, unknown.HasTrait(TraitTerminator))
	assert.True(t, unknown.MightHaveTrait(TraitTerminator))
	assert.Equal(t, "t", unknown.Dialect().Namespace())
	assert.Nil(t, ctx.NewOperation(OperationState{Name: "other.op"}).Dialect())
}

func TestAttributesSortedAndUnique(t *testing.T) {
	ctx := NewContext()
	op := ctx.NewOperation(OperationState{
		Name: "x.op",
		Attributes: []NamedAttribute{
			{Name: "b", Value: 1},
			{Name: "a", Value: "s"},
			{Name: "b", Value: 2},
		},
	})

	require.Len(t, op.Attrs(), 2)
	assert.Equal(t, "a", op.Attrs()[0].Name)
	v, ok := op.Attr("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = op.Attr("c")
	assert.False(t, ok)
	assert.Equal(t, "x", NamedAttribute{Name: "x.attr"}.DialectNamespace())
}

func TestSuccessorsMaintainPredecessors(t *testing.T) {
	ctx := newTestContext(t)
	region := NewRegion()
	b0, b1, b2 := NewBlock(), NewBlock(), NewBlock()
	region.Append(b0, b1, b2)

	br := ctx.NewOperation(OperationState{Name: "t.term", Successors: []*Block{b1, b1}})
	b0.Append(br)

	assert.Equal(t, []*Block{b0, b0}, b1.Predecessors())
	assert.True(t, b0.HasNoPredecessors())
	assert.Equal(t, []*Block{b1, b1}, b0.Successors())

	br.SetSuccessors(b2)
	assert.True(t, b1.HasNoPredecessors())
	assert.Equal(t, []*Block{b0}, b2.Predecessors())
}

func TestBlockOrderAndRemoval(t *testing.T) {
	ctx := newTestContext(t)
	b := NewBlock()
	a := ctx.NewOperation(OperationState{Name: "t.a"})
	mid := ctx.NewOperation(OperationState{Name: "t.b"})
	c := ctx.NewOperation(OperationState{Name: "t.c"})
	b.Append(a, mid, c)

	assert.True(t, a.IsBeforeInBlock(c))
	assert.False(t, c.IsBeforeInBlock(a))

	b.Remove(mid)
	assert.Nil(t, mid.Block())
	assert.Equal(t, 2, b.Len())
	assert.True(t, a.IsBeforeInBlock(c))

	assert.Panics(t, func() { NewBlock().Append(a) })
}

func TestAncestorQueries(t *testing.T) {
	ctx := newTestContext(t)

	outer := ctx.NewOperation(OperationState{Name: "t.iso", NumRegions: 1})
	ob := NewBlock()
	outer.Region(0).Append(ob)

	inner := ctx.NewOperation(OperationState{Name: "t.wrap", NumRegions: 1})
	ob.Append(inner)
	ib := NewBlock()
	inner.Region(0).Append(ib)

	leaf := ctx.NewOperation(OperationState{Name: "t.leaf", NumResults: 1})
	ib.Append(leaf)

	r := outer.Region(0)
	assert.Same(t, inner, r.FindAncestorOpInRegion(leaf))
	assert.Same(t, ob, r.FindAncestorBlockInRegion(ib))
	assert.Nil(t, inner.Region(0).FindAncestorOpInRegion(outer))
	assert.True(t, r.IsProperAncestor(inner.Region(0)))
	assert.False(t, inner.Region(0).IsAncestor(r))
	assert.True(t, outer.IsProperAncestor(leaf))
	assert.False(t, leaf.IsProperAncestor(outer))
	assert.Same(t, outer, leaf.ParentOp().ParentOp())
	assert.Equal(t, outer.Loc(), r.Loc())
	assert.Equal(t, UnknownLoc(), NewRegion().Loc())
	assert.True(t, ob.IsEntryBlock())
	assert.Same(t, ib, leaf.Result(0).ParentBlock())
}

func TestValueString(t *testing.T) {
	ctx := newTestContext(t)
	op := ctx.NewOperation(OperationState{Name: "t.def", NumResults: 2, ResultNames: []string{"x"}})
	b := NewBlock()
	arg := b.AddArgument("", UnknownLoc())

	var null *Value
	assert.Equal(t, "<<NULL VALUE>>", null.String())
	assert.Equal(t, "%x", op.Result(0).String())
	assert.Equal(t, "%t.def#1", op.Result(1).String())
	assert.Equal(t, "%arg0", arg.String())
	assert.True(t, arg.IsBlockArgument())
	assert.Same(t, b, arg.Owner())
}

func TestOperationString(t *testing.T) {
	ctx := newTestContext(t)
	region := NewRegion()
	b0, b1 := NewBlock(), NewBlock()
	b1.SetLabel("exit")
	region.Append(b0, b1)
	arg := b0.AddArgument("a", UnknownLoc())

	op := ctx.NewOperation(OperationState{
		Name:        "t.term",
		Operands:    []*Value{arg, nil},
		ResultNames: []string{"r"},
		Attributes:  []NamedAttribute{{Name: "k", Value: "v"}, {Name: "n", Value: 3}},
		Successors:  []*Block{b0, b1},
		NumRegions:  2,
	})

	assert.Equal(t,
		`%r = "t.term"(%a, <<NULL VALUE>>)[^bb0, ^exit] {k = "v", n = 3} (2 regions)`,
		op.String())
}

func buildFingerprintTree(ctx *Context, argName, attr string) *Operation {
	root := ctx.NewOperation(OperationState{Name: "t.iso", NumRegions: 1})
	b := NewBlock()
	root.Region(0).Append(b)
	a := b.AddArgument(argName, UnknownLoc())
	def := ctx.NewOperation(OperationState{
		Name:       "t.def",
		Operands:   []*Value{a},
		NumResults: 1,
		Attributes: []NamedAttribute{{Name: "value", Value: attr}, {Name: "scale", Value: 1.5}},
		Loc:        NameLoc(argName),
	})
	b.Append(def, ctx.NewOperation(OperationState{Name: "t.term", Operands: []*Value{def.Result(0)}}))
	return root
}

func TestFingerprintIgnoresNamesAndLocations(t *testing.T) {
	ctx := newTestContext(t)

	fp1, err := Fingerprint(buildFingerprintTree(ctx, "x", "one"))
	require.NoError(t, err)
	fp2, err := Fingerprint(buildFingerprintTree(ctx, "y", "one"))
	require.NoError(t, err)
	fp3, err := Fingerprint(buildFingerprintTree(ctx, "x", "two"))
	require.NoError(t, err)

	assert.Len(t, fp1, 64)
	assert.Equal(t, fp1, fp2)
	assert.NotEqual(t, fp1, fp3)
}

func TestFingerprintRejectsUnsupportedAttribute(t *testing.T) {
	ctx := newTestContext(t)
	op := ctx.NewOperation(OperationState{
		Name:       "t.op",
		Attributes: []NamedAttribute{{Name: "bad", Value: struct{}{}}},
	})

	_, err := Fingerprint(op)
	assert.ErrorContains(t, err, "unsupported attribute value")
}

func TestHashWithDomainSeparates(t *testing.T) {
	data := []byte("payload")
	assert.NotEqual(t, hashWithDomain("a", data), hashWithDomain("b", data))
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}
