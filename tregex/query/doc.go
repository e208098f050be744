/*
Package query provides a lexer and parser for the tree pattern language
used by package tregex.

# Overview

A pattern describes a node by its label and the relations it must have
with other nodes. The parser only builds a syntax tree; classifying
descriptions, interning relations and checking names happen when package
tregex compiles the syntax tree into a pattern.

# Node descriptions

  - NP             a literal label
  - NP|VP|PP       any of several labels
  - /^NN/          a regular expression (find semantics)
  - __             any node
  - !NP            any node not labeled NP
  - @NP            compare the basic category ("NP-SBJ" matches)
  - NP=n           name the matched node n
  - =n             the node named n (backreference)
  - ~n             a node with the same label as the node named n
  - /^(.*)-1$/#1%x bind regex group 1 to variable x

# Relations

Relations follow the node they constrain: "NP < DT" matches an NP that is
the parent of a DT. Consecutive relations are conjoined ("NP < DT < NN"),
"|" separates alternatives, "!" negates a relation and "?" makes it
optional. Square brackets group relations: "NP [< DT | < PRP$]".
Parentheses give the child node relations of its own: "S < (NP < DT)".

Operators include <, >, <<, >>, <n, <-n, >n, >-n, <,, <-, >,, >-, <:, >:,
<<:, >>:, <<,, <<-, >>,, >>-, ., .., ,, ,,, $, $+, $-, $++, $--, $.., $,,,
==, <=, <#, >#, <<#, >># and the category-restricted <+(C), >+(C), .+(C)
and ,+(C).

A top-level pattern may be split with ":" into parts that are matched
against the same tree independently and share named nodes:

	S < NP=subj : =subj < PRP

# Token Types

  - TokenIdent: labels, names and numbers
  - TokenRegex: /.../, where "\/" does not end the literal
  - TokenRelation: a relation operator with its index or category argument
  - punctuation tokens: ( ) [ ] ! ? @ # % = ~ & | :
  - TokenEOF: end of input marker

Identifiers cannot contain whitespace or any of ()[]/|@!#%&=?<>~.,$:;{}.
Labels with those characters are written as regular expressions, for
example /^,$/ or /^PRP\$$/.

# Usage Example

	ast, err := query.Parse("NP < (NN=noun !$- DT)")
	if err != nil {
		var serr *query.SyntaxError
		if errors.As(err, &serr) {
			fmt.Println(serr.Pos)
		}
	}
	fmt.Println(ast)
*/
package query
