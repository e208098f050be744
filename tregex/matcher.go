package tregex

import (
	"sort"

	"github.com/gnoswap-labs/tregex/tree"
)

// Matcher searches one tree for a pattern. Successive calls to Find walk
// the tree in preorder and return every match in turn; a node matching in
// several ways is reported once per way.
//
// A Matcher holds mutable search state and must not be used from several
// goroutines at once.
type Matcher struct {
	pattern *Pattern
	ctx     *Context
	root    matcher

	findIter    *tree.Preorder
	findCurrent *tree.Tree
	findAtNode  *tree.Tree
}

// Find advances to the next match of the pattern anywhere in the tree.
func (m *Matcher) Find() bool {
	if m.findIter == nil {
		m.findIter = tree.NewPreorder(m.ctx.root)
	}
	if m.findCurrent != nil && m.root.matches() {
		return true
	}
	for {
		m.findCurrent = m.findIter.Next()
		if m.findCurrent == nil {
			return false
		}
		if m.MatchesAt(m.findCurrent) {
			return true
		}
	}
}

// FindAt advances to the next match rooted at t. Moving to a different node
// requires a Reset first; doing otherwise panics.
func (m *Matcher) FindAt(t *tree.Tree) bool {
	if m.findAtNode != nil && m.findAtNode != t {
		panic("tregex: FindAt called on a different node without Reset")
	}
	if m.findAtNode == nil {
		m.findAtNode = t
		return m.MatchesAt(t)
	}
	return m.root.matches()
}

// FindNextMatchingNode advances to the next match rooted at a node other
// than the current one.
func (m *Matcher) FindNextMatchingNode() bool {
	last := m.Match()
	for m.Find() {
		if m.Match() != last {
			return true
		}
	}
	return false
}

// Matches reports whether the pattern has a further solution at the node
// the matcher is anchored at.
func (m *Matcher) Matches() bool {
	return m.root.matches()
}

// MatchesAt restarts the search anchored at t and reports whether the
// pattern matches there.
func (m *Matcher) MatchesAt(t *tree.Tree) bool {
	m.root.resetChildIterAt(t)
	return m.root.matches()
}

// Match returns the node the current match is rooted at.
func (m *Matcher) Match() *tree.Tree {
	if c, ok := m.root.(*coordinationMatcher); ok && c.node.conj {
		// split patterns are rooted at their first part
		if c.children == nil {
			return nil
		}
		return c.children[0].getMatch()
	}
	return m.root.getMatch()
}

// Node returns the node bound to name by the current match.
func (m *Matcher) Node(name string) *tree.Tree {
	return m.ctx.names[name]
}

// NodeNames returns the names bound by the current match, sorted.
func (m *Matcher) NodeNames() []string {
	names := make([]string, 0, len(m.ctx.names))
	for name := range m.ctx.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variable returns the string bound to a coindexation variable.
func (m *Matcher) Variable(name string) (string, bool) {
	return m.ctx.vars.Get(name)
}

// Variables returns the bound coindexation variables.
func (m *Matcher) Variables() *VariableStrings { return m.ctx.vars }

// Reset discards the search state so the tree can be searched again from
// the start.
func (m *Matcher) Reset() {
	m.findIter = nil
	m.findCurrent = nil
	m.findAtNode = nil
	m.root.resetChildIterAt(m.ctx.root)
	clear(m.ctx.names)
	m.ctx.vars.Reset()
}

func (m *Matcher) Pattern() *Pattern { return m.pattern }

// Root returns the tree being searched.
func (m *Matcher) Root() *tree.Tree { return m.ctx.root }

func (m *Matcher) HeadFinder() tree.HeadFinder { return m.ctx.headFinder }
