/*
Package tregex matches structural patterns against labeled, ordered trees,
in the way grep matches regular expressions against lines.

# Patterns

A pattern is compiled from text (see package query for the syntax) or put
together from Description and Coordination nodes:

	p := tregex.MustCompile("NP < NN=noun")

A Description tests one tree node: its relation to the node above it in
the pattern, its label, and the pattern below it. Labels are classified
when the pattern is built so that plain words are compared as strings and
only real regular expressions run the regex engine, which is
github.com/dlclark/regexp2.

A Coordination combines nodes with "and" or "or". Every child of a
coordination is matched against the same node, each through its own
relation.

# Matching

A Matcher is the mutable search state of one pattern over one tree:

	m := p.Matcher(t)
	for m.Find() {
		fmt.Println(m.Match(), m.Node("noun"))
	}

The search backtracks: each pattern node enumerates the candidates of its
relation lazily and keeps the current one, together with its name and
variable bindings, only while the nodes below it can still be satisfied.
Named nodes and variables therefore always describe the solution currently
held. Backtracking is exponential in the worst case.

Patterns and relations are immutable and may be shared between
goroutines; matchers may not. Use one matcher per tree and goroutine.
*/
package tregex
