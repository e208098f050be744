package query

import (
	"fmt"
	"strconv"
)

// Parser consumes tokens produced by the lexer and builds an AST.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a new Parser instance
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		pos := 0
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Position
		}
		tokens = append(tokens, Token{Type: TokenEOF, Position: pos})
	}
	return &Parser{
		tokens:  tokens,
		current: 0,
	}
}

// Parse tokenizes and parses a whole pattern.
func Parse(input string) (Node, error) {
	tokens, err := NewLexer(input).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse processes all tokens and builds an AST. A top-level "A : B" pattern
// becomes a conjunction whose later parts carry the ":" relation.
func (p *Parser) Parse() (Node, error) {
	first, err := p.parseSubNode(Relation{})
	if err != nil {
		return nil, err
	}

	parts := []Node{first}
	for p.peek().Type == TokenColon {
		p.advance()
		part, err := p.parseSubNode(Relation{Symbol: ":"})
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf(tok, "unexpected %s", tok.Type)
	}
	if len(parts) == 1 {
		return first, nil
	}
	return &CoordinationNode{Conj: true, Children: parts, pos: first.Position()}, nil
}

// parseSubNode parses a node description together with the relations
// hanging off it.
func (p *Parser) parseSubNode(rel Relation) (*DescriptionNode, error) {
	if p.peek().Type == TokenLParen {
		p.advance()
		node, err := p.parseSubNode(rel)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		if p.startsRelation() {
			child, err := p.parseRelationDisj()
			if err != nil {
				return nil, err
			}
			node.Child = conjoin(node.Child, child)
		}
		return node, nil
	}

	node, err := p.parseModDescription(rel)
	if err != nil {
		return nil, err
	}
	if p.startsRelation() {
		child, err := p.parseRelationDisj()
		if err != nil {
			return nil, err
		}
		node.Child = child
	}
	return node, nil
}

// conjoin adds more relations to a node that already has some.
func conjoin(existing, more Node) Node {
	if existing == nil {
		return more
	}
	if c, ok := existing.(*CoordinationNode); ok && c.Conj && !c.Negated && !c.Optional {
		c.Children = append(c.Children, more)
		return c
	}
	return &CoordinationNode{Conj: true, Children: []Node{existing, more}, pos: existing.Position()}
}

func (p *Parser) parseRelationDisj() (Node, error) {
	first, err := p.parseRelationConj()
	if err != nil {
		return nil, err
	}
	alts := []Node{first}
	for p.peek().Type == TokenPipe {
		p.advance()
		next, err := p.parseRelationConj()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return &CoordinationNode{Conj: false, Children: alts, pos: first.Position()}, nil
}

func (p *Parser) parseRelationConj() (Node, error) {
	first, err := p.parseModRelation()
	if err != nil {
		return nil, err
	}
	items := []Node{first}
	for {
		if p.peek().Type == TokenAmp {
			p.advance()
		} else if !p.startsRelation() {
			break
		}
		next, err := p.parseModRelation()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &CoordinationNode{Conj: true, Children: items, pos: first.Position()}, nil
}

func (p *Parser) parseModRelation() (Node, error) {
	negated, optional := false, false
	switch p.peek().Type {
	case TokenBang:
		negated = true
		p.advance()
	case TokenQuestion:
		optional = true
		p.advance()
	}

	if p.peek().Type == TokenLBracket {
		p.advance()
		node, err := p.parseRelationDisj()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		applyModifiers(node, negated, optional)
		return node, nil
	}

	relTok, err := p.expect(TokenRelation)
	if err != nil {
		return nil, err
	}
	rel := Relation{Symbol: relTok.Value, Arg: relTok.Arg}

	var child *DescriptionNode
	if p.peek().Type == TokenLParen {
		p.advance()
		child, err = p.parseSubNode(rel)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
	} else {
		child, err = p.parseModDescription(rel)
		if err != nil {
			return nil, err
		}
	}
	child.pos = relTok.Position
	applyModifiers(child, negated, optional)
	return child, nil
}

// applyModifiers sets "!" or "?" on a node. A second "!" cancels the first.
func applyModifiers(n Node, negated, optional bool) {
	switch n := n.(type) {
	case *DescriptionNode:
		n.Negated = n.Negated != negated
		n.Optional = n.Optional || optional
	case *CoordinationNode:
		n.Negated = n.Negated != negated
		n.Optional = n.Optional || optional
	}
}

func (p *Parser) parseModDescription(rel Relation) (*DescriptionNode, error) {
	node := &DescriptionNode{Relation: rel, pos: p.peek().Position}

	switch p.peek().Type {
	case TokenEquals:
		// backreference
		p.advance()
		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		node.Name = name.Value
		return node, nil

	case TokenTilde:
		p.advance()
		link, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		node.Link = link.Value
		if err := p.parseName(node); err != nil {
			return nil, err
		}
		return node, nil
	}

	if p.peek().Type == TokenBang {
		node.NegatedDesc = true
		p.advance()
	}
	if p.peek().Type == TokenAt {
		node.BasicCat = true
		p.advance()
	}

	switch tok := p.peek(); tok.Type {
	case TokenIdent:
		p.advance()
		node.Desc = tok.Value
		// "NP|VP", but not "NP | < VP"
		for p.peek().Type == TokenPipe && p.peekAt(1).Type == TokenIdent {
			p.advance()
			node.Desc += "|" + p.advance().Value
		}
	case TokenRegex:
		p.advance()
		node.Desc = tok.Value
		for p.peek().Type == TokenHash {
			group, err := p.parseVarGroup()
			if err != nil {
				return nil, err
			}
			node.VarGroups = append(node.VarGroups, group)
		}
	default:
		return nil, p.errorf(tok, "expected node description, got %s", tok.Type)
	}

	if err := p.parseName(node); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseName(node *DescriptionNode) error {
	if p.peek().Type != TokenEquals {
		return nil
	}
	p.advance()
	name, err := p.expect(TokenIdent)
	if err != nil {
		return err
	}
	node.Name = name.Value
	return nil
}

// parseVarGroup parses "#1%name".
func (p *Parser) parseVarGroup() (VarGroup, error) {
	p.advance()
	num, err := p.expect(TokenIdent)
	if err != nil {
		return VarGroup{}, err
	}
	group, convErr := strconv.Atoi(num.Value)
	if convErr != nil || group < 0 {
		return VarGroup{}, p.errorf(num, "group number must be a non-negative integer")
	}
	if _, err := p.expect(TokenPercent); err != nil {
		return VarGroup{}, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return VarGroup{}, err
	}
	return VarGroup{Group: group, Name: name.Value}, nil
}

func (p *Parser) startsRelation() bool {
	switch p.peek().Type {
	case TokenRelation, TokenBang, TokenQuestion, TokenLBracket:
		return true
	}
	return false
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != typ {
		return tok, p.errorf(tok, "expected %s, got %s", typ, tok.Type)
	}
	return p.advance(), nil
}

func (p *Parser) peek() Token { return p.peekAt(0) }

// peekAt never runs past the EOF token.
func (p *Parser) peekAt(offset int) Token {
	i := p.current + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Type != TokenEOF {
		p.current++
	}
	return tok
}

func (p *Parser) errorf(tok Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: tok.Position, Token: tok.Value, Msg: fmt.Sprintf(format, args...)}
}
