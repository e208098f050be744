package tregex

import (
	"github.com/gnoswap-labs/tregex/tree"
)

func onlyChild(t *tree.Tree) *tree.Tree {
	if len(t.Children) != 1 {
		return nil
	}
	return t.Children[0]
}

// ithChild returns the n-th child, 1-based; negative n counts from the end.
func ithChild(t *tree.Tree, n int) *tree.Tree {
	if n > 0 {
		return t.Child(n - 1)
	}
	return t.Child(len(t.Children) + n)
}

// onChain reports whether target is reached from first by repeated steps.
func onChain(first, target *tree.Tree, step func(*tree.Tree) *tree.Tree) bool {
	for n := first; n != nil; n = step(n) {
		if n == target {
			return true
		}
	}
	return false
}

// edgeParent returns t's parent when pick selects t among the parent's
// children, and nil otherwise.
func edgeParent(t *tree.Tree, ctx *Context, pick func(*tree.Tree) *tree.Tree) *tree.Tree {
	p := ctx.Parent(t)
	if p == nil || pick(p) != t {
		return nil
	}
	return p
}

func contains(it NodeIterator, target *tree.Tree) bool {
	for n := it.Next(); n != nil; n = it.Next() {
		if n == target {
			return true
		}
	}
	return false
}

// nextAdjacent returns the node starting right after t ends (forward) or
// ending right before t starts, climbing out of edge positions first.
func nextAdjacent(t *tree.Tree, ctx *Context, forward bool) *tree.Tree {
	cur := t
	for {
		p := ctx.Parent(cur)
		if p == nil {
			return nil
		}
		i := p.IndexOf(cur)
		if forward && i+1 < len(p.Children) {
			return p.Children[i+1]
		}
		if !forward && i > 0 {
			return p.Children[i-1]
		}
		cur = p
	}
}

// precedingOrFollowing enumerates every node after t (forward) in document
// order, or every node before t nearest first.
func precedingOrFollowing(t *tree.Tree, ctx *Context, forward bool) NodeIterator {
	// sisters per level, innermost level first
	var levels [][]*tree.Tree
	for cur := ctx.Parent(t); cur != nil; cur = ctx.Parent(cur) {
		i := cur.IndexOf(t)
		if forward {
			levels = append(levels, cur.Children[i+1:])
		} else {
			levels = append(levels, reversed(cur.Children[:i]))
		}
		t = cur
	}

	it := &stackIterator{reversed: !forward}
	for j := len(levels) - 1; j >= 0; j-- {
		it.pushVisitOrder(levels[j])
	}
	return it
}

func sisterCandidates(kind relationKind, t *tree.Tree, ctx *Context) NodeIterator {
	p := ctx.Parent(t)
	if p == nil {
		return emptyIterator{}
	}
	i := p.IndexOf(t)

	switch kind {
	case kindSisterOf:
		sisters := make([]*tree.Tree, 0, len(p.Children)-1)
		sisters = append(sisters, p.Children[:i]...)
		sisters = append(sisters, p.Children[i+1:]...)
		return &sliceIterator{nodes: sisters}
	case kindLeftSisterOf:
		return &sliceIterator{nodes: p.Children[i+1:]}
	case kindRightSisterOf:
		return &sliceIterator{nodes: reversed(p.Children[:i])}
	case kindImmediateLeftSisterOf:
		return single(p.Child(i + 1))
	case kindImmediateRightSisterOf:
		return single(p.Child(i - 1))
	}
	return emptyIterator{}
}

func satisfiesSisterOrder(kind relationKind, a, b *tree.Tree, ctx *Context) bool {
	p := ctx.Parent(a)
	if p == nil || p != ctx.Parent(b) {
		return false
	}
	i, j := p.IndexOf(a), p.IndexOf(b)
	switch kind {
	case kindLeftSisterOf:
		return i < j
	case kindRightSisterOf:
		return i > j
	case kindImmediateLeftSisterOf:
		return j == i+1
	case kindImmediateRightSisterOf:
		return j == i-1
	}
	return false
}

func (r *Relation) unbrokenDominates(a, b *tree.Tree) bool {
	for _, kid := range a.Children {
		if kid == b {
			return true
		}
		if r.category.matches(kid) && r.unbrokenDominates(kid, b) {
			return true
		}
	}
	return false
}

// unbrokenAdjacency follows immediate precedence (or following) from a node
// through every node that matches the category.
type unbrokenAdjacency struct {
	ctx     *Context
	cat     *categoryMatcher
	forward bool
	stack   []*tree.Tree
	seen    map[*tree.Tree]bool
}

func newUnbrokenAdjacency(t *tree.Tree, ctx *Context, cat *categoryMatcher, forward bool) *unbrokenAdjacency {
	it := &unbrokenAdjacency{ctx: ctx, cat: cat, forward: forward, seen: make(map[*tree.Tree]bool)}
	it.pushAdjacent(t)
	return it
}

func (it *unbrokenAdjacency) pushAdjacent(n *tree.Tree) {
	step := (*tree.Tree).FirstChild
	if !it.forward {
		step = (*tree.Tree).LastChild
	}
	for c := nextAdjacent(n, it.ctx, it.forward); c != nil; c = step(c) {
		if !it.seen[c] {
			it.seen[c] = true
			it.stack = append(it.stack, c)
		}
	}
}

func (it *unbrokenAdjacency) Next() *tree.Tree {
	if len(it.stack) == 0 {
		return nil
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	if it.cat.matches(n) {
		it.pushAdjacent(n)
	}
	return n
}

func reversed(nodes []*tree.Tree) []*tree.Tree {
	out := make([]*tree.Tree, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}
