package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCopiesInput(t *testing.T) {
	src := map[string]string{"home": "mhm"}
	ctx := New(src)
	src["home"] = "changed"

	v, ok := ctx.Get("home")
	require.True(t, ok)
	assert.Equal(t, "mhm", v)
}

func TestForkLeavesParentUntouched(t *testing.T) {
	parent := New(map[string]string{"a": "1", "b": "2"})
	child := parent.Fork(map[string]string{"b": "3", "c": "4"})

	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, parent.Map())
	assert.Equal(t, map[string]string{"a": "1", "b": "3", "c": "4"}, child.Map())
}

func TestZeroValue(t *testing.T) {
	var ctx Context
	assert.Equal(t, 0, ctx.Len())
	_, ok := ctx.Get("x")
	assert.False(t, ok)

	forked := ctx.With("x", "y")
	assert.Equal(t, 1, forked.Len())
	assert.Equal(t, 0, ctx.Len())
}

func TestLookup(t *testing.T) {
	ctx := New(map[string]string{"a": "1"})

	v, err := ctx.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = ctx.Lookup("missing")
	assert.ErrorContains(t, err, "missing")
}

func TestKeysAndString(t *testing.T) {
	ctx := New(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []string{"a", "b"}, ctx.Keys())
	assert.Equal(t, "{a=1, b=2}", ctx.String())
	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, ctx.Env())
}
