package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncBuilder(t *testing.T) {
	ctx := NewContext(t)

	c := Op(ctx, "arith.constant", Results(1), Attr("value", 1))
	ret := Op(ctx, "func.return", Operands(c.Result(0)))
	fn := Func(ctx, "f", Block(c, ret))
	mod := Module(ctx, fn)

	require.Equal(t, 1, mod.Region(0).NumBlocks())
	assert.Same(t, mod, fn.ParentOp())
	assert.Same(t, fn, ret.ParentOp())
	assert.True(t, c.IsRegistered())
	v, ok := fn.Attr("sym_name")
	require.True(t, ok)
	assert.Equal(t, "f", v)
	assert.Equal(t, "@f", fn.Loc().String())
}
