package irload

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAttr(t *testing.T) {
	got, err := normalizeAttr(map[string]any{
		"a": int64(3),
		"b": []any{uint32(1), float32(0.5), nil},
		"c": big.NewInt(7),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": 3,
		"b": []any{1, float64(0.5), nil},
		"c": 7,
	}, got)

	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	_, err = normalizeAttr([]any{huge})
	assert.ErrorContains(t, err, "[0]: integer")

	_, err = normalizeAttr(struct{}{})
	assert.ErrorContains(t, err, "unsupported value")
}

func TestThreading(t *testing.T) {
	assert.True(t, Threading(0).Enabled)
	assert.False(t, Threading(1).Enabled)

	cfg := Threading(4)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 4, cfg.Limit)
}

func TestValueAndBlockNames(t *testing.T) {
	assert.Equal(t, "x", valueName(" %x "))
	assert.Equal(t, "bb1", blockName("^bb1"))
}
