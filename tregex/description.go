package tregex

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/gnoswap-labs/tregex/tree"
	"github.com/gnoswap-labs/tregex/tregex/query"
)

// VarGroup binds a regex capture group to a coindexation variable.
type VarGroup = query.VarGroup

// DescriptionMode is how a description tests node labels.
type DescriptionMode int

const (
	ModeAnything DescriptionMode = iota
	ModeExact
	ModeStringSet
	ModePattern
	ModeBackreference
	ModeLink
)

func (m DescriptionMode) String() string {
	switch m {
	case ModeAnything:
		return "anything"
	case ModeExact:
		return "exact"
	case ModeStringSet:
		return "string set"
	case ModePattern:
		return "pattern"
	case ModeBackreference:
		return "backreference"
	case ModeLink:
		return "link"
	}
	return fmt.Sprintf("DescriptionMode(%d)", int(m))
}

// maxSetWords bounds the alternations turned into a string set.
const maxSetWords = 8

// DescriptionSpec holds the parts of one node description.
type DescriptionSpec struct {
	Relation      *Relation // nil means RootRelation
	Negated       bool
	Optional      bool
	NegatedDesc   bool
	BasicCategory bool
	Desc          string // "NP", "NP|VP", "/^V/", "__" or "" for references
	VarGroups     []VarGroup
	Name          string
	Link          string
	Child         Node

	// BasicCategoryFunc maps labels when BasicCategory is set. Defaults to
	// tree.BasicCategory.
	BasicCategoryFunc func(string) string
	// RegexTimeout bounds each regex evaluation; zero means no limit.
	RegexTimeout time.Duration
}

// Description is a pattern node that tests one tree node: its relation to
// the anchor, its label, and optionally a child pattern below it.
type Description struct {
	rel          *Relation
	negated      bool
	optional     bool
	negDesc      bool
	basicCat     bool
	basicCatFunc func(string) string
	desc         string
	mode         DescriptionMode
	exact        string
	set          *stringSet
	re           *regexp2.Regexp
	varGroups    []VarGroup
	name         string
	link         string
	child        Node
}

var _ Node = (*Description)(nil)

// NewDescription checks and classifies spec.
func NewDescription(spec DescriptionSpec) (*Description, error) {
	d := &Description{
		rel:          spec.Relation,
		negated:      spec.Negated,
		optional:     spec.Optional,
		negDesc:      spec.NegatedDesc,
		basicCat:     spec.BasicCategory,
		basicCatFunc: spec.BasicCategoryFunc,
		desc:         spec.Desc,
		varGroups:    spec.VarGroups,
		name:         spec.Name,
		link:         spec.Link,
		child:        spec.Child,
	}
	if d.rel == nil {
		d.rel = RootRelation
	}
	if d.basicCatFunc == nil {
		d.basicCatFunc = tree.BasicCategory
	}

	switch {
	case d.negated && d.optional:
		return nil, semanticf(d.name, "a node cannot be both negated and optional")
	case d.desc == "" && d.link == "" && d.name == "":
		return nil, semanticf("", "description needs a label, a name or a link")
	case d.desc != "" && d.link != "":
		return nil, semanticf(d.link, "a linked node cannot have its own label")
	case d.link != "":
		d.mode = ModeLink
		if len(d.varGroups) > 0 {
			return nil, semanticf(d.link, "variable groups need a regex description")
		}
		return d, nil
	case d.desc == "":
		d.mode = ModeBackreference
		if d.negDesc || d.basicCat || len(d.varGroups) > 0 {
			return nil, semanticf(d.name, "a backreference cannot carry label modifiers")
		}
		return d, nil
	}

	if err := d.classify(spec.RegexTimeout); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Description) classify(timeout time.Duration) error {
	if len(d.varGroups) > 0 {
		body, ok := regexBody(d.desc)
		if !ok {
			return semanticf(d.name, "variable groups need a regex description, got %q", d.desc)
		}
		if err := d.compile(body, timeout); err != nil {
			return err
		}
		maxGroup := 0
		for _, n := range d.re.GetGroupNumbers() {
			maxGroup = max(maxGroup, n)
		}
		for _, g := range d.varGroups {
			if g.Group < 1 || g.Group > maxGroup {
				return semanticf(g.Name, "regex %s has no group %d", d.desc, g.Group)
			}
		}
		return nil
	}

	mode, exact, set, body := classifyDescription(d.desc)
	d.mode, d.exact, d.set = mode, exact, set
	if mode == ModePattern {
		return d.compile(body, timeout)
	}
	return nil
}

func (d *Description) compile(body string, timeout time.Duration) error {
	re, err := regexp2.Compile(body, regexp2.None)
	if err != nil {
		return fmt.Errorf("invalid regex %s: %w", d.desc, err)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	d.mode = ModePattern
	d.re = re
	return nil
}

func (d *Description) Relation() *Relation   { return d.rel }
func (d *Description) Negated() bool         { return d.negated }
func (d *Description) Optional() bool        { return d.optional }
func (d *Description) Mode() DescriptionMode { return d.mode }
func (d *Description) Name() string          { return d.name }
func (d *Description) Link() string          { return d.link }
func (d *Description) Desc() string          { return d.desc }
func (d *Description) NegatedDesc() bool     { return d.negDesc }
func (d *Description) BasicCategory() bool   { return d.basicCat }
func (d *Description) Child() Node           { return d.child }

func (d *Description) children() []Node {
	if d.child == nil {
		return nil
	}
	return []Node{d.child}
}

// binds reports whether a match of d records the node under d's name.
func (d *Description) binds() bool {
	return d.name != "" && d.mode != ModeBackreference
}

func (d *Description) String() string {
	var sb strings.Builder
	d.write(&sb)
	return sb.String()
}

func (d *Description) write(sb *strings.Builder) {
	nested := !d.rel.topLevel()
	if nested {
		if d.negated {
			sb.WriteByte('!')
		}
		if d.optional {
			sb.WriteByte('?')
		}
		sb.WriteString(d.rel.String())
		sb.WriteByte(' ')
	}
	parens := nested && d.child != nil
	if parens {
		sb.WriteByte('(')
	}

	switch d.mode {
	case ModeBackreference:
		sb.WriteString("=" + d.name)
	case ModeLink:
		sb.WriteString("~" + d.link)
		if d.name != "" {
			sb.WriteString("=" + d.name)
		}
	default:
		if d.negDesc {
			sb.WriteByte('!')
		}
		if d.basicCat {
			sb.WriteByte('@')
		}
		sb.WriteString(d.desc)
		for _, g := range d.varGroups {
			fmt.Fprintf(sb, "#%d%%%s", g.Group, g.Name)
		}
		if d.name != "" {
			sb.WriteString("=" + d.name)
		}
	}

	if d.child != nil {
		sb.WriteByte(' ')
		sb.WriteString(d.child.String())
	}
	if parens {
		sb.WriteByte(')')
	}
}

type capture struct {
	name, value string
}

// accept tests candidate n against the label part of d and returns the
// variable captures to commit when it passes.
func (d *Description) accept(n *tree.Tree, ctx *Context) ([]capture, bool) {
	switch d.mode {
	case ModeBackreference:
		return nil, ctx.names[d.name] == n
	case ModeLink:
		linked, ok := ctx.names[d.link]
		if !ok {
			return nil, false
		}
		found := d.category(n.Label) == d.category(linked.Label)
		return nil, found != d.negDesc
	}

	if n.Label == "" {
		return nil, d.negDesc
	}
	label := d.category(n.Label)

	var (
		found    bool
		captures []capture
	)
	switch d.mode {
	case ModeAnything:
		found = true
	case ModeExact:
		found = label == d.exact
	case ModeStringSet:
		found = d.set.contains(label)
	case ModePattern:
		m, err := d.re.FindStringMatch(label)
		found = err == nil && m != nil
		if found && len(d.varGroups) > 0 {
			captures, found = d.capture(m, ctx)
		}
	}
	return captures, found != d.negDesc
}

// capture reads the variable groups of m. It fails when a group disagrees
// with a value already bound to its variable.
func (d *Description) capture(m *regexp2.Match, ctx *Context) ([]capture, bool) {
	captures := make([]capture, 0, len(d.varGroups))
	for _, g := range d.varGroups {
		value := ""
		if grp := m.GroupByNumber(g.Group); grp != nil {
			value = grp.String()
		}
		if bound, ok := ctx.vars.Get(g.Name); ok && bound != value {
			return nil, false
		}
		for _, c := range captures {
			if c.name == g.Name && c.value != value {
				return nil, false
			}
		}
		captures = append(captures, capture{name: g.Name, value: value})
	}
	return captures, true
}

func (d *Description) category(label string) string {
	if d.basicCat && label != "" {
		return d.basicCatFunc(label)
	}
	return label
}

func (d *Description) newMatcher(ctx *Context, anchor *tree.Tree) matcher {
	return &descriptionMatcher{ctx: ctx, node: d, anchor: anchor}
}

// descriptionMatcher walks the relation candidates of its anchor, keeping
// the current candidate bound while its child pattern has solutions.
type descriptionMatcher struct {
	ctx       *Context
	node      *Description
	anchor    *tree.Tree
	iter      NodeIterator
	candidate *tree.Tree
	child     matcher // built on first use

	finished    bool
	matchedOnce bool // a childless candidate has been reported
	committed   []string
	named       bool
}

func (m *descriptionMatcher) matches() bool {
	if m.finished {
		m.release()
		m.candidate = nil
		return false
	}
	for !m.finished {
		if m.matchChild() {
			if m.node.negated {
				m.release()
				m.finished = true
				return false
			}
			// optional nodes take their first solution only
			if m.node.optional {
				m.finished = true
			}
			return true
		}
		m.goToNextCandidate()
	}

	m.release()
	m.candidate = nil
	if m.node.negated {
		return true
	}
	return m.node.optional
}

func (m *descriptionMatcher) matchChild() bool {
	if m.candidate == nil {
		return false
	}
	if m.node.child == nil {
		if m.matchedOnce {
			return false
		}
		m.matchedOnce = true
		return true
	}
	if m.child == nil {
		m.child = m.node.child.newMatcher(m.ctx, m.candidate)
	}
	return m.child.matches()
}

func (m *descriptionMatcher) goToNextCandidate() {
	m.decommit()
	m.candidate = nil
	if m.iter == nil {
		m.iter = m.node.rel.Candidates(m.anchor, m.ctx)
	}

	for n := m.iter.Next(); n != nil; n = m.iter.Next() {
		captures, ok := m.node.accept(n, m.ctx)
		if !ok {
			continue
		}
		m.candidate = n
		m.matchedOnce = false
		if m.child != nil {
			m.child.resetChildIterAt(n)
		}
		if m.node.binds() {
			m.ctx.names[m.node.name] = n
			m.named = true
		}
		for _, c := range captures {
			m.ctx.vars.SetVar(c.name, c.value)
			m.committed = append(m.committed, c.name)
		}
		return
	}
	m.finished = true
}

// decommit unbinds the name and variables of the current candidate.
func (m *descriptionMatcher) decommit() {
	for _, name := range m.committed {
		m.ctx.vars.UnsetVar(name)
	}
	m.committed = m.committed[:0]
	if m.named {
		delete(m.ctx.names, m.node.name)
		m.named = false
	}
}

func (m *descriptionMatcher) release() {
	m.decommit()
	if m.child != nil {
		m.child.resetChildIter()
	}
}

func (m *descriptionMatcher) getMatch() *tree.Tree { return m.candidate }

func (m *descriptionMatcher) resetChildIter() {
	m.release()
	m.iter = nil
	m.candidate = nil
	m.finished = false
	m.matchedOnce = false
}

func (m *descriptionMatcher) resetChildIterAt(t *tree.Tree) {
	m.anchor = t
	m.resetChildIter()
}
