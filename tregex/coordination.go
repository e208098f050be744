package tregex

import (
	"strings"

	"github.com/gnoswap-labs/tregex/tree"
)

// CoordinationSpec combines two or more pattern nodes that share an anchor.
type CoordinationSpec struct {
	Conj     bool // and; otherwise or
	Negated  bool
	Optional bool
	Children []Node
}

// Coordination is a boolean combination of pattern nodes. Every child is
// matched against the same anchor, each through its own relation.
type Coordination struct {
	conj     bool
	negated  bool
	optional bool
	nodes    []Node
}

var _ Node = (*Coordination)(nil)

func NewCoordination(spec CoordinationSpec) (*Coordination, error) {
	if spec.Negated && spec.Optional {
		return nil, semanticf("", "a coordination cannot be both negated and optional")
	}
	if len(spec.Children) < 2 {
		return nil, semanticf("", "a coordination needs at least two children, got %d", len(spec.Children))
	}
	for _, child := range spec.Children {
		if child == nil {
			return nil, semanticf("", "nil coordination child")
		}
	}
	return &Coordination{
		conj:     spec.Conj,
		negated:  spec.Negated,
		optional: spec.Optional,
		nodes:    append([]Node(nil), spec.Children...),
	}, nil
}

func (c *Coordination) Conj() bool       { return c.conj }
func (c *Coordination) Negated() bool    { return c.negated }
func (c *Coordination) Optional() bool   { return c.optional }
func (c *Coordination) Children() []Node { return append([]Node(nil), c.nodes...) }
func (c *Coordination) children() []Node { return c.nodes }

// topLevel reports whether c is the "A : B" split at the top of a pattern.
func (c *Coordination) topLevel() bool {
	d, ok := c.nodes[0].(*Description)
	return ok && d.rel.topLevel()
}

func (c *Coordination) String() string {
	parts := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		parts[i] = n.String()
	}
	if c.topLevel() {
		return strings.Join(parts, " : ")
	}

	var prefix string
	switch {
	case c.negated:
		prefix = "!"
	case c.optional:
		prefix = "?"
	}
	if c.conj {
		body := strings.Join(parts, " ")
		if prefix == "" {
			return body
		}
		return prefix + "[" + body + "]"
	}
	return prefix + "[" + strings.Join(parts, " | ") + "]"
}

func (c *Coordination) newMatcher(ctx *Context, anchor *tree.Tree) matcher {
	return &coordinationMatcher{ctx: ctx, node: c, anchor: anchor}
}

// coordinationMatcher combines its children's solutions.
//
// A conjunction searches for an assignment where every child holds a
// solution at the same time, retreating to the previous child when one is
// exhausted. A disjunction tries the children in order and resumes from the
// child that last succeeded. Negated forms answer once per reset.
type coordinationMatcher struct {
	ctx      *Context
	node     *Coordination
	anchor   *tree.Tree
	children []matcher // built on first use
	current  int

	vacuous bool // optional success without a solution has been reported
	matched bool // at least one real solution was found since the reset
	done    bool // negated answer has been given
}

func (m *coordinationMatcher) init() {
	if m.children != nil {
		return
	}
	m.children = make([]matcher, len(m.node.nodes))
	for i, n := range m.node.nodes {
		m.children[i] = n.newMatcher(m.ctx, m.anchor)
	}
}

func (m *coordinationMatcher) matches() bool {
	m.init()
	switch {
	case m.node.negated:
		return m.matchesNegated()
	case m.node.conj:
		return m.matchesConj()
	default:
		return m.matchesDisj()
	}
}

// matchesNegated runs the underlying search once and reports the opposite,
// leaving no bindings behind.
func (m *coordinationMatcher) matchesNegated() bool {
	if m.done {
		return false
	}
	m.done = true

	var holds bool
	if m.node.conj {
		holds = m.matchesConj()
	} else {
		holds = m.matchesDisj()
	}
	for _, child := range m.children {
		child.resetChildIter()
	}
	m.current = 0
	m.matched = false
	return !holds
}

func (m *coordinationMatcher) matchesConj() bool {
	n := len(m.children)
	if m.current < 0 {
		return m.vacuousOnce()
	}
	// all children hold; ask the last one for its next solution
	if m.current == n {
		m.current = n - 1
	}
	for m.current >= 0 {
		if m.children[m.current].matches() {
			m.current++
			if m.current == n {
				m.matched = true
				return true
			}
			continue
		}
		m.children[m.current].resetChildIter()
		m.current--
	}
	return m.vacuousOnce()
}

func (m *coordinationMatcher) matchesDisj() bool {
	for m.current < len(m.children) {
		if m.children[m.current].matches() {
			m.matched = true
			return true
		}
		m.children[m.current].resetChildIter()
		m.current++
	}
	return m.vacuousOnce()
}

// vacuousOnce reports the success of an optional node that found nothing,
// at most once per reset.
func (m *coordinationMatcher) vacuousOnce() bool {
	if !m.node.optional || m.vacuous || m.matched {
		return false
	}
	m.vacuous = true
	return true
}

func (m *coordinationMatcher) getMatch() *tree.Tree {
	if m.node.conj || m.node.negated {
		panic("tregex: a conjunction or negated coordination has no single match")
	}
	if m.children == nil || m.current >= len(m.children) {
		return nil
	}
	return m.children[m.current].getMatch()
}

func (m *coordinationMatcher) resetChildIter() {
	for _, child := range m.children {
		child.resetChildIter()
	}
	m.current = 0
	m.vacuous = false
	m.matched = false
	m.done = false
}

func (m *coordinationMatcher) resetChildIterAt(t *tree.Tree) {
	m.anchor = t
	for _, child := range m.children {
		child.resetChildIterAt(t)
	}
	m.current = 0
	m.vacuous = false
	m.matched = false
	m.done = false
}
