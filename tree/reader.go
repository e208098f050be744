package tree

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode"
)

// ErrMalformed is wrapped by every error the bracket reader returns for bad input.
var ErrMalformed = errors.New("malformed tree")

type tokenType int

const (
	tokenOpen  tokenType = iota // '('
	tokenClose                  // ')'
	tokenAtom                   // label or word
	tokenEOF
)

type token struct {
	typ   tokenType
	value string
	pos   int
}

// lexer splits bracketed treebank text into parentheses and atoms.
type lexer struct {
	input    string
	position int
	tokens   []token
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) tokenize() []token {
	for l.position < len(l.input) {
		currentPos := l.position
		switch c := l.input[l.position]; {
		case c == '(':
			l.addToken(tokenOpen, "(", currentPos)
			l.position++
		case c == ')':
			l.addToken(tokenClose, ")", currentPos)
			l.position++
		case isSpace(c):
			l.position++
		default:
			l.lexAtom(currentPos)
		}
	}
	l.addToken(tokenEOF, "", l.position)
	return l.tokens
}

func (l *lexer) lexAtom(startPos int) {
	start := l.position
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '(' || c == ')' || isSpace(c) {
			break
		}
		l.position++
	}
	l.addToken(tokenAtom, l.input[start:l.position], startPos)
}

func (l *lexer) addToken(typ tokenType, value string, pos int) {
	l.tokens = append(l.tokens, token{typ: typ, value: value, pos: pos})
}

func isSpace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

// Reader reads a sequence of bracketed trees, as found in Penn treebank
// .mrg files: "(ROOT (S (NP (DT the) (NN dog)) (VP (VBZ barks))))".
// A node may omit its label, "( (S ...))", but not both its label and its
// children: "()" is malformed.
type Reader struct {
	tokens  []token
	current int
}

// NewReader consumes r entirely and returns a Reader over its trees.
func NewReader(r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading trees: %w", err)
	}
	return NewStringReader(string(data)), nil
}

// NewStringReader returns a Reader over the trees in s.
func NewStringReader(s string) *Reader {
	return &Reader{tokens: newLexer(s).tokenize()}
}

// Next returns the next tree, or io.EOF when the input is exhausted.
func (r *Reader) Next() (*Tree, error) {
	tok := r.peek()
	switch tok.typ {
	case tokenEOF:
		return nil, io.EOF
	case tokenOpen:
		return r.parseNode()
	default:
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrMalformed, tok.value, tok.pos)
	}
}

// ReadAll returns every remaining tree.
func (r *Reader) ReadAll() ([]*Tree, error) {
	var trees []*Tree
	for {
		t, err := r.Next()
		if errors.Is(err, io.EOF) {
			return trees, nil
		}
		if err != nil {
			return trees, err
		}
		trees = append(trees, t)
	}
}

func (r *Reader) parseNode() (*Tree, error) {
	open := r.advance()
	node := &Tree{}
	if r.peek().typ == tokenAtom {
		node.Label = r.advance().value
	}
	for {
		tok := r.peek()
		switch tok.typ {
		case tokenClose:
			r.advance()
			if node.Label == "" && len(node.Children) == 0 {
				return nil, fmt.Errorf("%w: empty brackets at offset %d", ErrMalformed, open.pos)
			}
			return node, nil
		case tokenOpen:
			child, err := r.parseNode()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case tokenAtom:
			r.advance()
			node.Children = append(node.Children, Leaf(tok.value))
		case tokenEOF:
			return nil, fmt.Errorf("%w: unclosed '(' at offset %d", ErrMalformed, open.pos)
		}
	}
}

func (r *Reader) peek() token { return r.tokens[r.current] }

func (r *Reader) advance() token {
	tok := r.tokens[r.current]
	if tok.typ != tokenEOF {
		r.current++
	}
	return tok
}

// Parse reads exactly one tree from s.
func Parse(s string) (*Tree, error) {
	r := NewStringReader(s)
	t, err := r.Next()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if err != nil {
		return nil, err
	}
	if tok := r.peek(); tok.typ != tokenEOF {
		return nil, fmt.Errorf("%w: trailing %q at offset %d", ErrMalformed, tok.value, tok.pos)
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Tree {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ReadFile returns every tree stored in the named file.
func ReadFile(filename string) ([]*Tree, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", filename, err)
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return nil, err
	}
	trees, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	return trees, nil
}
