package tregex

import (
	"github.com/gnoswap-labs/tregex/tree"
)

// Node is a node of a compiled pattern: a *Description or a *Coordination.
// Nodes are immutable and may be shared by any number of matchers.
type Node interface {
	Negated() bool
	Optional() bool
	String() string

	children() []Node
	newMatcher(ctx *Context, anchor *tree.Tree) matcher
}

// matcher is the resumable search state of one pattern node against one
// anchor. matches tries the next solution; getMatch is the node held by the
// last successful call; the reset methods release every binding.
type matcher interface {
	matches() bool
	getMatch() *tree.Tree
	resetChildIter()
	resetChildIterAt(t *tree.Tree)
}

// Pattern is a checked pattern ready to be matched against trees.
type Pattern struct {
	root       Node
	text       string
	headFinder tree.HeadFinder
}

// NewPattern checks root and wraps it as a pattern. text is the source the
// pattern was compiled from, if any.
//
// Names must be declared once, before any backreference or link to them, and
// never inside a negated node. Only the outermost nodes may use the root and
// ":" relations.
func NewPattern(root Node, text string) (*Pattern, error) {
	if root == nil {
		return nil, semanticf("", "empty pattern")
	}
	v := &validator{root: root, known: make(map[string]bool)}
	if err := v.checkTopLevel(root); err != nil {
		return nil, err
	}
	if err := v.walk(root, false); err != nil {
		return nil, err
	}
	if text == "" {
		text = root.String()
	}
	return &Pattern{root: root, text: text}, nil
}

func (p *Pattern) Root() Node { return p.root }

// String returns the pattern source.
func (p *Pattern) String() string { return p.text }

// WithHeadFinder returns a copy of p whose matchers use hf by default.
func (p *Pattern) WithHeadFinder(hf tree.HeadFinder) *Pattern {
	cp := *p
	cp.headFinder = hf
	return &cp
}

// MatcherOption configures a Matcher.
type MatcherOption func(*matcherOptions)

type matcherOptions struct {
	headFinder tree.HeadFinder
}

// WithMatcherHeadFinder overrides the head finder for one search.
func WithMatcherHeadFinder(hf tree.HeadFinder) MatcherOption {
	return func(o *matcherOptions) {
		o.headFinder = hf
	}
}

// Matcher returns a new matcher searching t. Matchers are cheap; use one per
// goroutine.
func (p *Pattern) Matcher(t *tree.Tree, opts ...MatcherOption) *Matcher {
	o := matcherOptions{headFinder: p.headFinder}
	for _, opt := range opts {
		opt(&o)
	}
	ctx := NewContext(t, o.headFinder)
	return &Matcher{
		pattern: p,
		ctx:     ctx,
		root:    p.root.newMatcher(ctx, t),
	}
}

type validator struct {
	root  Node
	known map[string]bool
}

func (v *validator) checkTopLevel(root Node) error {
	switch n := root.(type) {
	case *Description:
		if n.rel != RootRelation {
			return semanticf("", "the first node of a pattern cannot have relation %s", n.rel)
		}
		return nil
	case *Coordination:
		if !n.topLevel() {
			return semanticf("", "a pattern cannot start with a coordination")
		}
		for i, child := range n.nodes {
			d, ok := child.(*Description)
			if !ok {
				return semanticf("", "a split pattern must be made of node descriptions")
			}
			want := SplitterRelation
			if i == 0 {
				want = RootRelation
			}
			if d.rel != want {
				return semanticf(d.name, "part %d of a split pattern has relation %s", i, d.rel)
			}
		}
		return nil
	}
	return semanticf("", "unknown pattern node %T", root)
}

// walk visits the nodes in pattern order. The top-level nodes were checked
// already; below them the root and ":" relations are rejected.
func (v *validator) walk(n Node, negated bool) error {
	negated = negated || n.Negated()
	if d, ok := n.(*Description); ok {
		if err := v.checkDescription(d, negated); err != nil {
			return err
		}
	}
	for _, child := range n.children() {
		if d, ok := child.(*Description); ok && d.rel.topLevel() && !v.isSplitPart(n, d) {
			return semanticf(d.name, "relation %s is only allowed at the top of a pattern", d.rel)
		}
		if err := v.walk(child, negated); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) isSplitPart(parent Node, d *Description) bool {
	c, ok := parent.(*Coordination)
	return ok && parent == v.root && c.topLevel() && d.rel.topLevel()
}

func (v *validator) checkDescription(d *Description, negated bool) error {
	switch d.mode {
	case ModeBackreference:
		if !v.known[d.name] {
			return semanticf(d.name, "backreference to undeclared name")
		}
		return nil
	case ModeLink:
		if !v.known[d.link] {
			return semanticf(d.link, "link to undeclared name")
		}
	}
	if d.name == "" {
		return nil
	}
	if negated {
		return semanticf(d.name, "cannot name a node inside a negated pattern")
	}
	if v.known[d.name] {
		return semanticf(d.name, "name declared twice")
	}
	v.known[d.name] = true
	return nil
}
