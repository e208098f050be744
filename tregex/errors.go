package tregex

import (
	"fmt"

	"github.com/gnoswap-labs/tregex/tregex/query"
)

// SyntaxError reports a pattern that cannot be tokenized or parsed, or
// whose regular expressions do not compile.
type SyntaxError = query.SyntaxError

// SemanticError reports a well-formed pattern that violates a construction
// rule, such as a name declared twice.
type SemanticError struct {
	Name string // offending node name, if any
	Msg  string
}

func (e *SemanticError) Error() string {
	if e.Name == "" {
		return "semantic error: " + e.Msg
	}
	return fmt.Sprintf("semantic error: %s: %q", e.Msg, e.Name)
}

func semanticf(name, format string, args ...any) *SemanticError {
	return &SemanticError{Name: name, Msg: fmt.Sprintf(format, args...)}
}
