package tregex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tregex/tree"
)

func TestClassifyDescription(t *testing.T) {
	t.Parallel()
	tests := []struct {
		desc  string
		mode  DescriptionMode
		exact string
	}{
		{"__", ModeAnything, ""},
		{"/.*/", ModeAnything, ""},
		{"/^.*$/", ModeAnything, ""},
		{"NP", ModeExact, "NP"},
		{"/^NP$/", ModeExact, "NP"},
		{"/^-NONE-$/", ModeExact, "-NONE-"},
		{`/^PRP\$$/`, ModeExact, "PRP$"},
		{"/^,$/", ModeExact, ","},
		{"/^[.]$/", ModeExact, "."},
		{"NP|VP", ModeStringSet, ""},
		{"/^(?:NP|VP)$/", ModeStringSet, ""},
		{"/^(?i:np|vp)$/", ModeStringSet, ""},
		{"/^NN/", ModeStringSet, ""},
		{"/^(?:NN|VB)/", ModeStringSet, ""},
		{"/NP/", ModePattern, ""},
		{`/^NP-\d+$/`, ModePattern, ""},
		{"a|b|c|d|e|f|g|h|i", ModePattern, ""},
		{"/^(?:a|b|c|d|e|f|g|h|i)$/", ModePattern, ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			d, err := NewDescription(DescriptionSpec{Desc: tt.desc})
			require.NoError(t, err)
			assert.Equal(t, tt.mode, d.Mode())
			if tt.mode == ModeExact {
				assert.Equal(t, tt.exact, d.exact)
			}
		})
	}
}

func TestDescriptionLabels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		spec  DescriptionSpec
		label string
		want  bool
	}{
		{"exact", DescriptionSpec{Desc: "NP"}, "NP", true},
		{"exact is whole label", DescriptionSpec{Desc: "NP"}, "NP-SBJ", false},
		{"set", DescriptionSpec{Desc: "NP|VP"}, "VP", true},
		{"set miss", DescriptionSpec{Desc: "NP|VP"}, "PP", false},
		{"prefix", DescriptionSpec{Desc: "/^NN/"}, "NNS", true},
		{"prefix miss", DescriptionSpec{Desc: "/^NN/"}, "VB", false},
		{"fold", DescriptionSpec{Desc: "/^(?i:np|vp)$/"}, "Np", true},
		{"regex finds", DescriptionSpec{Desc: "/NP/"}, "ADNP", true},
		{"regex miss", DescriptionSpec{Desc: "/^NP-[0-9]/"}, "NP-X", false},
		{"large set", DescriptionSpec{Desc: "a|b|c|d|e|f|g|h|i"}, "i", true},
		{"large set is whole label", DescriptionSpec{Desc: "a|b|c|d|e|f|g|h|i"}, "ab", false},
		{"negated", DescriptionSpec{Desc: "NP", NegatedDesc: true}, "NP", false},
		{"negated miss", DescriptionSpec{Desc: "NP", NegatedDesc: true}, "VP", true},
		{"empty label", DescriptionSpec{Desc: "__"}, "", false},
		{"empty label negated", DescriptionSpec{Desc: "NP", NegatedDesc: true}, "", true},
		{"basic category", DescriptionSpec{Desc: "NP", BasicCategory: true}, "NP-SBJ-1", true},
		{"basic category keeps -NONE-", DescriptionSpec{Desc: "-NONE-", BasicCategory: true}, "-NONE-", true},
		{"custom basic category", DescriptionSpec{
			Desc:              "np",
			BasicCategory:     true,
			BasicCategoryFunc: func(s string) string { return "np" },
		}, "NP", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDescription(tt.spec)
			require.NoError(t, err)
			ctx := NewContext(tree.Leaf("root"), nil)
			_, ok := d.accept(tree.Leaf(tt.label), ctx)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestDescriptionVariableGroups(t *testing.T) {
	t.Parallel()
	d, err := NewDescription(DescriptionSpec{
		Desc:      `/^NP-(\d+)$/`,
		VarGroups: []VarGroup{{Group: 1, Name: "i"}},
	})
	require.NoError(t, err)

	ctx := NewContext(tree.Leaf("root"), nil)
	captures, ok := d.accept(tree.Leaf("NP-12"), ctx)
	require.True(t, ok)
	assert.Equal(t, []capture{{name: "i", value: "12"}}, captures)

	ctx.vars.SetVar("i", "7")
	_, ok = d.accept(tree.Leaf("NP-12"), ctx)
	assert.False(t, ok, "disagrees with bound variable")
	_, ok = d.accept(tree.Leaf("NP-7"), ctx)
	assert.True(t, ok)
}

func TestNewDescriptionErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		spec     DescriptionSpec
		semantic bool
	}{
		{"negated and optional", DescriptionSpec{Desc: "NP", Negated: true, Optional: true}, true},
		{"nothing to match", DescriptionSpec{}, true},
		{"link with label", DescriptionSpec{Desc: "NP", Link: "a"}, true},
		{"groups on a word", DescriptionSpec{Desc: "NP", VarGroups: []VarGroup{{Group: 1, Name: "x"}}}, true},
		{"missing group", DescriptionSpec{Desc: "/^NP(.*)$/", VarGroups: []VarGroup{{Group: 2, Name: "x"}}}, true},
		{"modified backreference", DescriptionSpec{Name: "a", BasicCategory: true}, true},
		{"bad regex", DescriptionSpec{Desc: "/(/"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescription(tt.spec)
			require.Error(t, err)
			var serr *SemanticError
			assert.Equal(t, tt.semantic, errors.As(err, &serr))
		})
	}
}

func TestDescriptionReferences(t *testing.T) {
	t.Parallel()
	np1 := tree.New("NP", tree.Leaf("a"))
	np2 := tree.New("NP", tree.Leaf("b"))
	root := tree.New("S", np1, np2)
	ctx := NewContext(root, nil)
	ctx.names["x"] = np1

	backref, err := NewDescription(DescriptionSpec{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, ModeBackreference, backref.Mode())
	assert.False(t, backref.binds())
	_, ok := backref.accept(np1, ctx)
	assert.True(t, ok)
	_, ok = backref.accept(np2, ctx)
	assert.False(t, ok, "same label, different node")

	link, err := NewDescription(DescriptionSpec{Link: "x", Name: "y"})
	require.NoError(t, err)
	assert.Equal(t, ModeLink, link.Mode())
	assert.True(t, link.binds())
	_, ok = link.accept(np2, ctx)
	assert.True(t, ok)
	_, ok = link.accept(root, ctx)
	assert.False(t, ok)

	unbound, err := NewDescription(DescriptionSpec{Link: "nope"})
	require.NoError(t, err)
	_, ok = unbound.accept(np1, ctx)
	assert.False(t, ok)
}
