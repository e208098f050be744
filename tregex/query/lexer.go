package query

import (
	"strings"
	"unicode"
)

// relationOps lists every relation operator, longest first so that the
// lexer always takes the longest match.
var relationOps = []string{
	"<<,", "<<-", "<<`", "<<:", "<<#",
	">>,", ">>-", ">>`", ">>:", ">>#",
	"$++", "$--", "$..", "$,,",
	"<<", ">>", "<=", "==",
	"<,", "<-", "<`", "<:", "<#", "<+",
	">,", ">-", ">`", ">:", ">#", ">+",
	"..", ",,", ".+", ",+",
	"$+", "$-", "$.", "$,",
	"<", ">", ".", ",", "$",
}

// categoryOps take a parenthesized category argument, as in "<+(VP)".
var categoryOps = map[string]bool{
	"<+": true,
	">+": true,
	".+": true,
	",+": true,
}

// identStop holds the characters that end an identifier.
const identStop = "()[]/|@!#%&=?<>~.,$:;{}"

// Lexer is responsible for scanning the input string and producing tokens.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    input,
		position: 0,
		tokens:   make([]Token, 0),
	}
}

var singleChar = map[byte]TokenType{
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
	'!': TokenBang,
	'?': TokenQuestion,
	'@': TokenAt,
	'#': TokenHash,
	'%': TokenPercent,
	'~': TokenTilde,
	'&': TokenAmp,
	'|': TokenPipe,
	':': TokenColon,
}

// Tokenize processes the entire input and produces the list of tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		currentPos := l.position
		c := l.input[l.position]

		switch {
		case isWhitespace(c):
			l.position++

		case c == '=':
			if l.peekByte(1) == '=' {
				l.addToken(TokenRelation, "==", "", currentPos)
				l.position += 2
				continue
			}
			l.addToken(TokenEquals, "=", "", currentPos)
			l.position++

		case c == '/':
			if err := l.lexRegex(currentPos); err != nil {
				return nil, err
			}

		case c == '<' || c == '>' || c == '.' || c == ',' || c == '$':
			if err := l.lexRelation(currentPos); err != nil {
				return nil, err
			}

		default:
			if typ, ok := singleChar[c]; ok {
				l.addToken(typ, string(c), "", currentPos)
				l.position++
				continue
			}
			if strings.IndexByte(identStop, c) >= 0 {
				return nil, &SyntaxError{Pos: currentPos, Token: string(c), Msg: "unexpected character"}
			}
			// position incrementing is handled inside `lexIdent`
			l.lexIdent(currentPos)
		}
	}

	// At the end, add an EOF token to indicate we're done.
	l.addToken(TokenEOF, "", "", l.position)
	return l.tokens, nil
}

// lexRegex scans a /.../ literal; "\/" does not end it.
func (l *Lexer) lexRegex(startPos int) error {
	for i := l.position + 1; i < len(l.input); i++ {
		switch l.input[i] {
		case '\\':
			i++
		case '/':
			l.addToken(TokenRegex, l.input[startPos:i+1], "", startPos)
			l.position = i + 1
			return nil
		}
	}
	return &SyntaxError{Pos: startPos, Token: l.input[startPos:], Msg: "unterminated regex"}
}

// lexRelation scans a relation operator, including its child index or
// category argument.
func (l *Lexer) lexRelation(startPos int) error {
	c := l.input[l.position]

	// "<2", "<-1", ">3", ">-2"
	if c == '<' || c == '>' {
		i := l.position + 1
		sign := ""
		if l.peekByte(1) == '-' {
			sign = "-"
			i++
		}
		j := i
		for j < len(l.input) && isDigit(l.input[j]) {
			j++
		}
		if j > i {
			l.addToken(TokenRelation, string(c), sign+l.input[i:j], startPos)
			l.position = j
			return nil
		}
	}

	for _, op := range relationOps {
		if !strings.HasPrefix(l.input[l.position:], op) {
			continue
		}
		l.position += len(op)
		if !categoryOps[op] {
			l.addToken(TokenRelation, op, "", startPos)
			return nil
		}
		arg, err := l.lexCategoryArg(op, startPos)
		if err != nil {
			return err
		}
		l.addToken(TokenRelation, op, arg, startPos)
		return nil
	}
	return &SyntaxError{Pos: startPos, Token: string(c), Msg: "unknown relation"}
}

func (l *Lexer) lexCategoryArg(op string, startPos int) (string, error) {
	if l.peekByte(0) != '(' {
		return "", &SyntaxError{Pos: startPos, Token: op, Msg: "expected '(' after relation"}
	}
	depth := 0
	for i := l.position; i < len(l.input); i++ {
		switch l.input[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				arg := strings.TrimSpace(l.input[l.position+1 : i])
				if arg == "" {
					return "", &SyntaxError{Pos: startPos, Token: op, Msg: "empty category argument"}
				}
				l.position = i + 1
				return arg, nil
			}
		}
	}
	return "", &SyntaxError{Pos: startPos, Token: l.input[startPos:], Msg: "unterminated category argument"}
}

// lexIdent scans consecutive identifier characters to produce TokenIdent.
func (l *Lexer) lexIdent(startPos int) {
	start := l.position
	for l.position < len(l.input) {
		c := l.input[l.position]
		if isWhitespace(c) || strings.IndexByte(identStop, c) >= 0 {
			break
		}
		l.position++
	}
	l.addToken(TokenIdent, l.input[start:l.position], "", startPos)
}

func (l *Lexer) peekByte(offset int) byte {
	if l.position+offset >= len(l.input) {
		return 0
	}
	return l.input[l.position+offset]
}

// addToken is a helper to append a new token to the lexer's token list.
func (l *Lexer) addToken(tokenType TokenType, value, arg string, pos int) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Arg:      arg,
		Position: pos,
	})
}

// isWhitespace checks if the given byte is a space, tab, newline, etc. using unicode.IsSpace.
func isWhitespace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
