package tregex

import (
	"github.com/gnoswap-labs/tregex/tree"
)

// NodeIterator lazily enumerates candidate nodes. Next returns nil once the
// candidates are exhausted.
type NodeIterator interface {
	Next() *tree.Tree
}

var (
	_ NodeIterator = emptyIterator{}
	_ NodeIterator = (*sliceIterator)(nil)
	_ NodeIterator = (*chainIterator)(nil)
	_ NodeIterator = (*stackIterator)(nil)
	_ NodeIterator = (*tree.Preorder)(nil)
)

type emptyIterator struct{}

func (emptyIterator) Next() *tree.Tree { return nil }

// sliceIterator yields a fixed list of nodes.
type sliceIterator struct {
	nodes []*tree.Tree
	pos   int
}

func single(t *tree.Tree) NodeIterator {
	if t == nil {
		return emptyIterator{}
	}
	return &sliceIterator{nodes: []*tree.Tree{t}}
}

func (it *sliceIterator) Next() *tree.Tree {
	if it.pos >= len(it.nodes) {
		return nil
	}
	n := it.nodes[it.pos]
	it.pos++
	return n
}

// chainIterator yields next, step(next), step(step(next)), ... until step
// returns nil.
type chainIterator struct {
	next *tree.Tree
	step func(*tree.Tree) *tree.Tree
}

func chain(first *tree.Tree, step func(*tree.Tree) *tree.Tree) NodeIterator {
	return &chainIterator{next: first, step: step}
}

func (it *chainIterator) Next() *tree.Tree {
	n := it.next
	if n != nil {
		it.next = it.step(n)
	}
	return n
}

// stackIterator walks subtrees with an explicit stack. Each popped node is
// yielded; its children are pushed when expand allows it. With reversed set
// the children are visited right to left.
type stackIterator struct {
	stack    []*tree.Tree
	expand   func(*tree.Tree) bool
	reversed bool
}

func (it *stackIterator) push(nodes ...*tree.Tree) {
	it.stack = append(it.stack, nodes...)
}

// pushVisitOrder pushes nodes so that nodes[0] is popped first.
func (it *stackIterator) pushVisitOrder(nodes []*tree.Tree) {
	for i := len(nodes) - 1; i >= 0; i-- {
		it.stack = append(it.stack, nodes[i])
	}
}

func (it *stackIterator) Next() *tree.Tree {
	if len(it.stack) == 0 {
		return nil
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	if it.expand == nil || it.expand(n) {
		if it.reversed {
			it.push(n.Children...)
		} else {
			it.pushVisitOrder(n.Children)
		}
	}
	return n
}
