package query

import (
	"fmt"
	"strings"
)

// TokenType defines different types of tokens that can be produced by the lexer.
type TokenType int

const (
	TokenIdent    TokenType = iota // labels, names, group numbers, "__"
	TokenRegex                     // /.../
	TokenRelation                  // <, <<, $++, <2, <+(VP), ...
	TokenLParen                    // '('
	TokenRParen                    // ')'
	TokenLBracket                  // '['
	TokenRBracket                  // ']'
	TokenBang                      // '!'
	TokenQuestion                  // '?'
	TokenAt                        // '@'
	TokenHash                      // '#'
	TokenPercent                   // '%'
	TokenEquals                    // '='
	TokenTilde                     // '~'
	TokenAmp                       // '&'
	TokenPipe                      // '|'
	TokenColon                     // ':'
	TokenEOF                       // End of input
)

var tokenNames = [...]string{
	TokenIdent:    "identifier",
	TokenRegex:    "regex",
	TokenRelation: "relation",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenBang:     "'!'",
	TokenQuestion: "'?'",
	TokenAt:       "'@'",
	TokenHash:     "'#'",
	TokenPercent:  "'%'",
	TokenEquals:   "'='",
	TokenTilde:    "'~'",
	TokenAmp:      "'&'",
	TokenPipe:     "'|'",
	TokenColon:    "':'",
	TokenEOF:      "end of pattern",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType // type of this token
	Value    string    // the literal string for this token; the operator for relations
	Arg      string    // relation argument: child index or category, empty otherwise
	Position int       // the starting position in the original input
}

// SyntaxError reports a pattern that cannot be tokenized or parsed.
type SyntaxError struct {
	Pos   int    // byte offset in the pattern
	Token string // offending text, empty at end of input
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("syntax error at offset %d near %q: %s", e.Pos, e.Token, e.Msg)
}

// NodeType defines different node types for AST construction.
type NodeType int

const (
	NodeDescription NodeType = iota
	NodeCoordination
)

// Node is an interface that any AST node must implement.
type Node interface {
	Type() NodeType // returns the node type
	String() string // debugging or printing purpose
	Position() int  // where the node starts in the input
}

var (
	_ Node = (*DescriptionNode)(nil)
	_ Node = (*CoordinationNode)(nil)
)

// Relation is the relation written in front of a node. An empty Symbol marks
// the first top-level node; ":" marks the later parts of a top-level
// "A : B" pattern.
type Relation struct {
	Symbol string
	Arg    string
}

func (r Relation) String() string {
	switch {
	case r.Symbol == "":
		return "Root"
	case r.Arg == "":
		return r.Symbol
	case strings.HasSuffix(r.Symbol, "+"):
		return r.Symbol + "(" + r.Arg + ")"
	default:
		return r.Symbol + r.Arg
	}
}

// VarGroup binds regex group Group of a description to variable Name.
type VarGroup struct {
	Group int
	Name  string
}

// DescriptionNode is one node description: "NP=a", "!@/^V/", "=a", "~a".
type DescriptionNode struct {
	Relation    Relation
	Negated     bool // "!<" in front of the relation
	Optional    bool // "?<" in front of the relation
	NegatedDesc bool // "!NP"
	BasicCat    bool // "@NP"
	Desc        string
	VarGroups   []VarGroup
	Name        string
	Link        string
	Child       Node
	pos         int
}

func (d *DescriptionNode) Type() NodeType { return NodeDescription }
func (d *DescriptionNode) Position() int  { return d.pos }

func (d *DescriptionNode) String() string {
	var sb strings.Builder
	sb.WriteString("DescriptionNode(")
	sb.WriteString(d.Relation.String())
	sb.WriteByte(' ')
	if d.Negated {
		sb.WriteByte('!')
	}
	if d.Optional {
		sb.WriteByte('?')
	}
	if d.NegatedDesc {
		sb.WriteByte('!')
	}
	if d.BasicCat {
		sb.WriteByte('@')
	}
	sb.WriteString(d.Desc)
	for _, g := range d.VarGroups {
		fmt.Fprintf(&sb, "#%d%%%s", g.Group, g.Name)
	}
	if d.Link != "" {
		sb.WriteString("~" + d.Link)
	}
	if d.Name != "" {
		sb.WriteString("=" + d.Name)
	}
	sb.WriteByte(')')
	if d.Child != nil {
		childStr := strings.ReplaceAll(d.Child.String(), "\n", "\n  ")
		sb.WriteString(":\n  " + childStr)
	}
	return sb.String()
}

// CoordinationNode combines two or more children with and/or.
type CoordinationNode struct {
	Conj     bool
	Negated  bool
	Optional bool
	Children []Node
	pos      int
}

func (c *CoordinationNode) Type() NodeType { return NodeCoordination }
func (c *CoordinationNode) Position() int  { return c.pos }

func (c *CoordinationNode) String() string {
	kind := "Or"
	if c.Conj {
		kind = "And"
	}
	prefix := ""
	if c.Negated {
		prefix = "!"
	}
	if c.Optional {
		prefix = "?"
	}
	result := fmt.Sprintf("%sCoordinationNode(%s, %d children):\n", prefix, kind, len(c.Children))
	for i, child := range c.Children {
		childStr := strings.ReplaceAll(child.String(), "\n", "\n  ")
		result += fmt.Sprintf("  %d: %s\n", i, childStr)
	}
	return strings.TrimRight(result, "\n")
}
