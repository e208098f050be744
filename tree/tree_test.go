package tree

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "(NP (DT the) (NN dog))", "(NP (DT the) (NN dog))"},
		{"extra whitespace", "  (S\n\t(NP (NN dog))\n  (VP (VBZ barks)))  ", "(S (NP (NN dog)) (VP (VBZ barks)))"},
		{"unlabeled root", "( (S (NN x)))", "( (S (NN x)))"},
		{"leaf only child", "(X y)", "(X y)"},
		{"hyphenated labels", "(NP-SBJ (-NONE- *T*-1))", "(NP-SBJ (-NONE- *T*-1))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"", "(NP (DT the)", "NP", "(A) (B)", ")", "()", "(())", "(S ())"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", input)
	}
}

func TestReaderReadsSequence(t *testing.T) {
	t.Parallel()
	r := NewStringReader("(A a) (B b)\n(C (D d))")

	trees, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, trees, 3)
	assert.Equal(t, "C", trees[2].Label)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "sample.mrg")
	require.NoError(t, os.WriteFile(path, []byte("(S (NP (NN a)))\n(S (VP (VB b)))\n"), 0o644))

	trees, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, trees, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.mrg"))
	assert.Error(t, err)
}

func TestTreeAccessors(t *testing.T) {
	t.Parallel()
	root := MustParse("(S (NP (DT the) (NN dog)) (VP (VBZ barks)))")
	np := root.Child(0)
	vp := root.Child(1)

	assert.Equal(t, "NP", np.Label)
	assert.Equal(t, vp, root.LastChild())
	assert.Nil(t, root.Child(2))
	assert.Nil(t, root.Child(-1))
	assert.Equal(t, 1, root.IndexOf(vp))
	assert.Equal(t, -1, np.IndexOf(vp))

	assert.True(t, np.Child(0).IsPreTerminal())
	assert.False(t, np.IsPreTerminal())
	assert.True(t, np.Child(0).Child(0).IsLeaf())

	assert.True(t, root.Dominates(np.Child(1).Child(0)))
	assert.False(t, np.Dominates(vp))
	assert.False(t, np.Dominates(np))

	assert.Equal(t, "the dog barks", root.Yield())
	assert.Equal(t, 9, root.Size())

	parents := root.Parents()
	assert.Equal(t, root, parents[np])
	assert.Equal(t, vp, parents[vp.Child(0)])
	_, ok := parents[root]
	assert.False(t, ok)
}

func TestPreorder(t *testing.T) {
	t.Parallel()
	root := MustParse("(A (B b) (C (D d) e))")

	var labels []string
	it := NewPreorder(root)
	for n := it.Next(); n != nil; n = it.Next() {
		labels = append(labels, n.Label)
	}
	assert.Equal(t, []string{"A", "B", "b", "C", "D", "d", "e"}, labels)
	assert.Nil(t, it.Next())
	assert.Nil(t, NewPreorder(nil).Next())
}

func TestBasicCategory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		label string
		want  string
	}{
		{"NP", "NP"},
		{"NP-SBJ", "NP"},
		{"NP-SBJ-1", "NP"},
		{"NP=2", "NP"},
		{"-NONE-", "-NONE-"},
		{"-LRB-", "-LRB-"},
		{"PRP$", "PRP$"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BasicCategory(tt.label), "label %q", tt.label)
	}
}
