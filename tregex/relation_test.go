package tregex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tregex/tree"
)

const sampleTree = "(S (NP (DT the) (NN dog)) (VP (VBZ barks) (ADVP (RB loudly))))"

// nodeByLabel returns the first node in preorder labeled label.
func nodeByLabel(t *testing.T, root *tree.Tree, label string) *tree.Tree {
	t.Helper()
	it := tree.NewPreorder(root)
	for n := it.Next(); n != nil; n = it.Next() {
		if n.Label == label {
			return n
		}
	}
	require.FailNow(t, "no node labeled "+label)
	return nil
}

func collect(it NodeIterator) []*tree.Tree {
	var nodes []*tree.Tree
	for n := it.Next(); n != nil; n = it.Next() {
		nodes = append(nodes, n)
	}
	return nodes
}

func labelsOf(nodes []*tree.Tree) []string {
	labels := make([]string, 0, len(nodes))
	for _, n := range nodes {
		labels = append(labels, n.Label)
	}
	return labels
}

func TestRelationCandidates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		symbol string
		arg    string
		from   string
		want   []string
	}{
		{"<<", "", "S", []string{"NP", "DT", "the", "NN", "dog", "VP", "VBZ", "barks", "ADVP", "RB", "loudly"}},
		{">>", "", "dog", []string{"NN", "NP", "S"}},
		{"<", "", "NP", []string{"DT", "NN"}},
		{">", "", "DT", []string{"NP"}},
		{"..", "", "DT", []string{"NN", "dog", "VP", "VBZ", "barks", "ADVP", "RB", "loudly"}},
		{",,", "", "VBZ", []string{"NP", "NN", "dog", "DT", "the"}},
		{".", "", "DT", []string{"NN", "dog"}},
		{".", "", "NP", []string{"VP", "VBZ", "barks"}},
		{",", "", "VP", []string{"NP", "NN", "dog"}},
		{"$", "", "NP", []string{"VP"}},
		{"$++", "", "VBZ", []string{"ADVP"}},
		{"$--", "", "ADVP", []string{"VBZ"}},
		{"$+", "", "DT", []string{"NN"}},
		{"$+", "", "NN", nil},
		{"$-", "", "NN", []string{"DT"}},
		{"<:", "", "ADVP", []string{"RB"}},
		{">:", "", "RB", []string{"ADVP"}},
		{">:", "", "DT", nil},
		{"<<:", "", "ADVP", []string{"RB", "loudly"}},
		{">>:", "", "loudly", []string{"RB", "ADVP"}},
		{"<<,", "", "S", []string{"NP", "DT", "the"}},
		{"<<-", "", "S", []string{"VP", "ADVP", "RB", "loudly"}},
		{">>,", "", "the", []string{"DT", "NP", "S"}},
		{">>-", "", "loudly", []string{"RB", "ADVP", "VP", "S"}},
		{"==", "", "NP", []string{"NP"}},
		{"<=", "", "NP", []string{"NP", "DT", "NN"}},
		{"<#", "", "NP", []string{"NN"}},
		{"<<#", "", "S", []string{"VP", "VBZ", "barks"}},
		{">#", "", "barks", []string{"VBZ"}},
		{">#", "", "DT", nil},
		{">>#", "", "barks", []string{"VBZ", "VP", "S"}},
		{"<", "1", "S", []string{"NP"}},
		{"<", "-1", "S", []string{"VP"}},
		{"<", "2", "NP", []string{"NN"}},
		{"<", "3", "NP", nil},
		{"<", "1", "the", nil},
		{">", "1", "NP", []string{"S"}},
		{">", "-1", "NP", nil},
		{">", "-1", "VP", []string{"S"}},
		{">", "2", "NP", nil},
	}

	root := tree.MustParse(sampleTree)
	for _, tt := range tests {
		t.Run(tt.symbol+tt.arg+" "+tt.from, func(t *testing.T) {
			ctx := NewContext(root, nil)
			rel, err := Lookup(tt.symbol, tt.arg)
			require.NoError(t, err)

			from := nodeByLabel(t, root, tt.from)
			got := collect(rel.Candidates(from, ctx))
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, labelsOf(got))
			}
			for _, n := range got {
				assert.True(t, rel.Satisfies(from, n, ctx), "%s %s %s", tt.from, rel, n.Label)
			}
		})
	}
}

func TestRelationSatisfies(t *testing.T) {
	t.Parallel()
	root := tree.MustParse(sampleTree)
	tests := []struct {
		symbol string
		a, b   string
		want   bool
	}{
		{"<<", "S", "loudly", true},
		{"<<", "DT", "NN", false},
		{"<<", "NP", "NP", false},
		{">>", "the", "NP", true},
		{"..", "the", "loudly", true},
		{"..", "VP", "NP", false},
		{",,", "VP", "NP", true},
		{".", "DT", "dog", true},
		{".", "DT", "VP", false},
		{"$", "NP", "NP", false},
		{"$++", "NP", "VP", true},
		{"$--", "NP", "VP", false},
		{"<:", "NP", "DT", false},
		{"<<:", "VP", "RB", false},
		{"<#", "VP", "VBZ", true},
		{"<#", "VP", "ADVP", false},
		{"==", "NP", "VP", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+" "+tt.symbol+" "+tt.b, func(t *testing.T) {
			ctx := NewContext(root, nil)
			rel := MustLookup(tt.symbol, "")
			a, b := nodeByLabel(t, root, tt.a), nodeByLabel(t, root, tt.b)
			assert.Equal(t, tt.want, rel.Satisfies(a, b, ctx))
		})
	}
}

func TestSplitterEnumeratesWholeTree(t *testing.T) {
	t.Parallel()
	root := tree.MustParse(sampleTree)
	ctx := NewContext(root, nil)
	dog := nodeByLabel(t, root, "dog")

	got := collect(SplitterRelation.Candidates(dog, ctx))
	assert.Len(t, got, root.Size())
	assert.Same(t, root, got[0])
	assert.Equal(t, []*tree.Tree{dog}, collect(RootRelation.Candidates(dog, ctx)))
}

func TestUnbrokenCategoryRelations(t *testing.T) {
	t.Parallel()

	t.Run("dominance", func(t *testing.T) {
		t.Parallel()
		root := tree.MustParse("(S (VP (VP (VB run))))")
		ctx := NewContext(root, nil)
		vb := nodeByLabel(t, root, "VB")
		run := nodeByLabel(t, root, "run")

		down := MustLookup("<+", "VP")
		assert.Equal(t, []string{"VP", "VP", "VB"}, labelsOf(collect(down.Candidates(root, ctx))))
		assert.True(t, down.Satisfies(root, vb, ctx))
		assert.False(t, down.Satisfies(root, run, ctx))

		up := MustLookup(">+", "VP")
		assert.Equal(t, []string{"VP", "VP", "S"}, labelsOf(collect(up.Candidates(vb, ctx))))
		assert.True(t, up.Satisfies(vb, root, ctx))

		all := MustLookup("<+", "__")
		assert.Equal(t, []string{"VP", "VP", "VB", "run"}, labelsOf(collect(all.Candidates(root, ctx))))

		notVP := MustLookup("<+", "!VP")
		assert.Equal(t, []string{"VP"}, labelsOf(collect(notVP.Candidates(root, ctx))))
	})

	t.Run("precedence", func(t *testing.T) {
		t.Parallel()
		root := tree.MustParse("(NP (DT a) (JJ big) (JJ red) (NN ball))")
		ctx := NewContext(root, nil)
		dt := nodeByLabel(t, root, "DT")
		nn := nodeByLabel(t, root, "NN")

		assert.True(t, MustLookup(".+", "JJ").Satisfies(dt, nn, ctx))
		assert.True(t, MustLookup(",+", "JJ").Satisfies(nn, dt, ctx))
		assert.False(t, MustLookup(".+", "NN").Satisfies(dt, nn, ctx))
		assert.True(t, MustLookup(".+", "/^J/").Satisfies(dt, nn, ctx))
	})
}

func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("interned", func(t *testing.T) {
		t.Parallel()
		assert.Same(t, MustLookup("<", "2"), MustLookup("<", "2"))
		assert.Same(t, MustLookup("<+", "VP"), MustLookup("<+", "VP"))
		assert.Same(t, MustLookup("<", ""), MustLookup("<", ""))
	})

	t.Run("aliases", func(t *testing.T) {
		t.Parallel()
		assert.Same(t, MustLookup("<", "1"), MustLookup("<,", ""))
		assert.Same(t, MustLookup("<", "-1"), MustLookup("<-", ""))
		assert.Same(t, MustLookup(">", "-1"), MustLookup(">`", ""))
		assert.Same(t, MustLookup("$++", ""), MustLookup("$..", ""))
		assert.Same(t, MustLookup("$-", ""), MustLookup("$,", ""))
		assert.Same(t, RootRelation, MustLookup("", ""))
		assert.Same(t, SplitterRelation, MustLookup(":", ""))
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		for _, tc := range []struct{ symbol, arg string }{
			{"<<<", ""},
			{"<", "0"},
			{"<", "x"},
			{"<+", ""},
			{"<<", "2"},
			{"<+", "(("},
		} {
			_, err := Lookup(tc.symbol, tc.arg)
			assert.Error(t, err, "%q %q", tc.symbol, tc.arg)
		}
	})

	t.Run("string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "<2", MustLookup("<", "2").String())
		assert.Equal(t, "<+(VP)", MustLookup("<+", "VP").String())
		assert.Equal(t, "<<", MustLookup("<<", "").String())
		assert.NotEmpty(t, MustLookup("$++", "").Describe())
	})
}
