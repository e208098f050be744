// Package tree provides the labeled, ordered trees searched by tregex
// patterns, together with a Penn treebank bracket reader, head finders and
// the basic-category function used to strip functional tags from labels.
//
// Node identity is pointer identity: two subtrees with equal labels and
// children are still different nodes. Trees do not store parent pointers.
package tree

import (
	"strings"
)

// Tree is a node of a labeled ordered tree. An empty Label means the node
// carries no label.
type Tree struct {
	Label    string
	Children []*Tree
}

// New returns a node with the given label and children.
func New(label string, children ...*Tree) *Tree {
	return &Tree{Label: label, Children: children}
}

// Leaf returns a node without children.
func Leaf(label string) *Tree {
	return &Tree{Label: label}
}

func (t *Tree) IsLeaf() bool { return len(t.Children) == 0 }

// IsPreTerminal reports whether t has exactly one child and that child is a leaf.
func (t *Tree) IsPreTerminal() bool {
	return len(t.Children) == 1 && t.Children[0].IsLeaf()
}

func (t *Tree) NumChildren() int { return len(t.Children) }

// Child returns the i-th child (0-based) or nil when out of range.
func (t *Tree) Child(i int) *Tree {
	if i < 0 || i >= len(t.Children) {
		return nil
	}
	return t.Children[i]
}

func (t *Tree) FirstChild() *Tree { return t.Child(0) }

func (t *Tree) LastChild() *Tree { return t.Child(len(t.Children) - 1) }

// IndexOf returns the position of child among t's children, or -1.
func (t *Tree) IndexOf(child *Tree) int {
	for i, c := range t.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Dominates reports whether other is a proper descendant of t.
func (t *Tree) Dominates(other *Tree) bool {
	stack := append([]*Tree(nil), t.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == other {
			return true
		}
		stack = append(stack, n.Children...)
	}
	return false
}

// Leaves returns the leaves of t from left to right.
func (t *Tree) Leaves() []*Tree {
	var leaves []*Tree
	it := NewPreorder(t)
	for n := it.Next(); n != nil; n = it.Next() {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Yield joins the leaf labels of t with single spaces.
func (t *Tree) Yield() string {
	leaves := t.Leaves()
	words := make([]string, 0, len(leaves))
	for _, l := range leaves {
		words = append(words, l.Label)
	}
	return strings.Join(words, " ")
}

// Size returns the number of nodes in t.
func (t *Tree) Size() int {
	n := 0
	it := NewPreorder(t)
	for node := it.Next(); node != nil; node = it.Next() {
		n++
	}
	return n
}

// Parents maps every node below t to its parent. t itself is absent.
func (t *Tree) Parents() map[*Tree]*Tree {
	parents := make(map[*Tree]*Tree)
	it := NewPreorder(t)
	for n := it.Next(); n != nil; n = it.Next() {
		for _, c := range n.Children {
			parents[c] = n
		}
	}
	return parents
}

// String renders t in Penn bracket notation, e.g. "(NP (DT the) (NN dog))".
func (t *Tree) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Tree) write(sb *strings.Builder) {
	if t.IsLeaf() {
		sb.WriteString(t.Label)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(t.Label)
	for _, c := range t.Children {
		sb.WriteByte(' ')
		c.write(sb)
	}
	sb.WriteByte(')')
}

// Preorder walks a tree in document order without recursion.
type Preorder struct {
	stack []*Tree
}

// NewPreorder returns an iterator positioned before root.
func NewPreorder(root *Tree) *Preorder {
	if root == nil {
		return &Preorder{}
	}
	return &Preorder{stack: []*Tree{root}}
}

// Next returns the next node, or nil once the walk is over.
func (p *Preorder) Next() *Tree {
	if len(p.stack) == 0 {
		return nil
	}
	n := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	for i := len(n.Children) - 1; i >= 0; i-- {
		p.stack = append(p.stack, n.Children[i])
	}
	return n
}
