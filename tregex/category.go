package tregex

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/gnoswap-labs/tregex/tree"
)

// categoryMatcher is the label test of the unbroken chain relations. Its
// argument is "__", a "/regex/" or a literal alternation like "NP|VP",
// optionally prefixed by "!" to negate and "@" to compare basic categories.
type categoryMatcher struct {
	re       *regexp2.Regexp // nil matches every label
	negated  bool
	basicCat bool
}

func newCategoryMatcher(arg string) (*categoryMatcher, error) {
	c := &categoryMatcher{}
	if strings.HasPrefix(arg, "!") {
		c.negated = true
		arg = arg[1:]
	}
	if strings.HasPrefix(arg, "@") {
		c.basicCat = true
		arg = arg[1:]
	}

	var src string
	switch {
	case arg == "":
		return nil, errors.New("empty category")
	case arg == "__":
		return c, nil
	case len(arg) >= 2 && arg[0] == '/' && arg[len(arg)-1] == '/':
		src = arg[1 : len(arg)-1]
	default:
		src = "^(?:" + arg + ")$"
	}

	re, err := regexp2.Compile(src, regexp2.None)
	if err != nil {
		return nil, err
	}
	c.re = re
	return c, nil
}

func (c *categoryMatcher) matches(t *tree.Tree) bool {
	label := t.Label
	if label == "" {
		return c.negated
	}
	if c.basicCat {
		label = tree.BasicCategory(label)
	}
	found := true
	if c.re != nil {
		ok, err := c.re.MatchString(label)
		found = err == nil && ok
	}
	return found != c.negated
}
