package tregex

import (
	"github.com/gnoswap-labs/tregex/tree"
)

// Context is the state shared by every node matcher of one search: the
// root being searched, its parent and leaf-edge indexes, named nodes, bound
// variables and the head finder. Indexes are built lazily, once per root.
type Context struct {
	root       *tree.Tree
	headFinder tree.HeadFinder
	parents    map[*tree.Tree]*tree.Tree
	edges      map[*tree.Tree]span
	names      map[string]*tree.Tree
	vars       *VariableStrings
}

// span is the half-open range of leaf positions a node covers.
type span struct {
	left, right int
}

// NewContext returns a context for searching root. A nil head finder means
// tree.DefaultHeadFinder.
func NewContext(root *tree.Tree, hf tree.HeadFinder) *Context {
	if hf == nil {
		hf = tree.DefaultHeadFinder()
	}
	return &Context{
		root:       root,
		headFinder: hf,
		names:      make(map[string]*tree.Tree),
		vars:       NewVariableStrings(),
	}
}

func (c *Context) Root() *tree.Tree { return c.root }

func (c *Context) HeadFinder() tree.HeadFinder { return c.headFinder }

// Parent returns the parent of t within the root, or nil for the root and
// for nodes outside it.
func (c *Context) Parent(t *tree.Tree) *tree.Tree {
	if c.parents == nil {
		c.parents = c.root.Parents()
	}
	return c.parents[t]
}

// span returns the leaf positions covered by t.
func (c *Context) span(t *tree.Tree) span {
	if c.edges == nil {
		c.edges = make(map[*tree.Tree]span)
		c.indexEdges(c.root, 0)
	}
	return c.edges[t]
}

func (c *Context) indexEdges(t *tree.Tree, left int) int {
	if t.IsLeaf() {
		c.edges[t] = span{left: left, right: left + 1}
		return left + 1
	}
	right := left
	for _, child := range t.Children {
		right = c.indexEdges(child, right)
	}
	c.edges[t] = span{left: left, right: right}
	return right
}

// head returns the head child of t: nothing for a leaf, the only child of
// a pre-terminal, otherwise whatever the head finder picks.
func (c *Context) head(t *tree.Tree) *tree.Tree {
	switch {
	case t.IsLeaf():
		return nil
	case t.IsPreTerminal():
		return t.FirstChild()
	}
	h := c.headFinder.DetermineHead(t)
	if h == t {
		return nil
	}
	return h
}
