package tregex

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gnoswap-labs/tregex/tree"
	"github.com/gnoswap-labs/tregex/tregex/query"
)

// Compiler turns pattern text into patterns. A Compiler is safe for
// concurrent use.
type Compiler struct {
	basicCat     func(string) string
	headFinder   tree.HeadFinder
	regexTimeout time.Duration
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithBasicCategory sets the function behind "@" descriptions.
func WithBasicCategory(f func(string) string) CompilerOption {
	return func(c *Compiler) {
		c.basicCat = f
	}
}

// WithHeadFinder sets the head finder used by compiled patterns.
func WithHeadFinder(hf tree.HeadFinder) CompilerOption {
	return func(c *Compiler) {
		c.headFinder = hf
	}
}

// WithRegexTimeout bounds each regex evaluation during matching.
func WithRegexTimeout(d time.Duration) CompilerOption {
	return func(c *Compiler) {
		c.regexTimeout = d
	}
}

func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		basicCat:   tree.BasicCategory,
		headFinder: tree.DefaultHeadFinder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCompiler = NewCompiler()

// Compile compiles text with the default compiler.
func Compile(text string) (*Pattern, error) {
	return defaultCompiler.Compile(text)
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) *Pattern {
	p, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Compile parses and checks text. Malformed text and bad regular
// expressions yield a *SyntaxError; naming mistakes yield a *SemanticError.
func (c *Compiler) Compile(text string) (*Pattern, error) {
	ast, err := query.Parse(text)
	if err != nil {
		return nil, err
	}
	b := &builder{Compiler: c, text: text}
	root, err := b.build(ast)
	if err != nil {
		return nil, err
	}
	p, err := NewPattern(root, text)
	if err != nil {
		return nil, err
	}
	p.headFinder = c.headFinder
	return p, nil
}

// builder converts one syntax tree into pattern nodes.
type builder struct {
	*Compiler
	text string
}

func (b *builder) build(n query.Node) (Node, error) {
	switch n := n.(type) {
	case *query.DescriptionNode:
		return b.buildDescription(n)
	case *query.CoordinationNode:
		children := make([]Node, 0, len(n.Children))
		for _, child := range n.Children {
			built, err := b.build(child)
			if err != nil {
				return nil, err
			}
			children = append(children, built)
		}
		coord, err := NewCoordination(CoordinationSpec{
			Conj:     n.Conj,
			Negated:  n.Negated,
			Optional: n.Optional,
			Children: children,
		})
		if err != nil {
			return nil, b.positioned(n, err)
		}
		return coord, nil
	}
	return nil, fmt.Errorf("tregex: unknown syntax node %T", n)
}

func (b *builder) buildDescription(n *query.DescriptionNode) (Node, error) {
	rel, err := Lookup(n.Relation.Symbol, n.Relation.Arg)
	if err != nil {
		return nil, b.positioned(n, err)
	}

	var child Node
	if n.Child != nil {
		if child, err = b.build(n.Child); err != nil {
			return nil, err
		}
	}

	d, err := NewDescription(DescriptionSpec{
		Relation:          rel,
		Negated:           n.Negated,
		Optional:          n.Optional,
		NegatedDesc:       n.NegatedDesc,
		BasicCategory:     n.BasicCat,
		Desc:              n.Desc,
		VarGroups:         n.VarGroups,
		Name:              n.Name,
		Link:              n.Link,
		Child:             child,
		BasicCategoryFunc: b.basicCat,
		RegexTimeout:      b.regexTimeout,
	})
	if err != nil {
		return nil, b.positioned(n, err)
	}
	return d, nil
}

// positioned turns construction failures other than semantic ones into
// syntax errors at the node's position.
func (b *builder) positioned(n query.Node, err error) error {
	var serr *SemanticError
	if errors.As(err, &serr) {
		return err
	}
	pos := n.Position()
	return &SyntaxError{Pos: pos, Token: b.tokenAt(pos), Msg: err.Error()}
}

func (b *builder) tokenAt(pos int) string {
	if pos < 0 || pos >= len(b.text) {
		return ""
	}
	rest := b.text[pos:]
	if i := strings.IndexAny(rest, " \t\n"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
