package tregex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tregex/tree"
)

func TestVariableStringsScopes(t *testing.T) {
	t.Parallel()
	v := NewVariableStrings()

	v.SetVar("i", "1")
	v.SetVar("i", "1")
	v.SetVar("j", "2")
	assert.Equal(t, []string{"i", "j"}, v.Names())

	v.UnsetVar("i")
	got, ok := v.Get("i")
	require.True(t, ok, "still bound by the second scope")
	assert.Equal(t, "1", got)

	v.UnsetVar("i")
	_, ok = v.Get("i")
	assert.False(t, ok)
	v.UnsetVar("i")
	_, ok = v.Get("i")
	assert.False(t, ok)

	v.SetVar("i", "3")
	got, _ = v.Get("i")
	assert.Equal(t, "3", got)

	v.Reset()
	assert.Empty(t, v.Names())
}

func TestVariableStringsConflictPanics(t *testing.T) {
	t.Parallel()
	v := NewVariableStrings()
	v.SetVar("i", "1")
	assert.Panics(t, func() { v.SetVar("i", "2") })
}

func TestContextIndexes(t *testing.T) {
	t.Parallel()
	root := tree.MustParse(sampleTree)
	ctx := NewContext(root, nil)
	np := nodeByLabel(t, root, "NP")
	vp := nodeByLabel(t, root, "VP")

	assert.Nil(t, ctx.Parent(root))
	assert.Same(t, root, ctx.Parent(np))
	assert.Nil(t, ctx.Parent(tree.Leaf("elsewhere")))

	assert.Equal(t, span{left: 0, right: 2}, ctx.span(np))
	assert.Equal(t, span{left: 2, right: 4}, ctx.span(vp))
	assert.Equal(t, span{left: 0, right: 4}, ctx.span(root))

	assert.Same(t, vp, ctx.head(root))
	assert.Nil(t, ctx.head(nodeByLabel(t, root, "dog")), "leaves have no head")
	assert.Same(t, nodeByLabel(t, root, "the"), ctx.head(nodeByLabel(t, root, "DT")))
	assert.NotNil(t, ctx.HeadFinder())
}
