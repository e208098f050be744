package tree

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HeadFinder picks the head child of a phrase. For a leaf it returns the
// leaf itself.
type HeadFinder interface {
	DetermineHead(t *Tree) *Tree
}

// HeadFinderFunc adapts a function to the HeadFinder interface.
type HeadFinderFunc func(t *Tree) *Tree

func (f HeadFinderFunc) DetermineHead(t *Tree) *Tree { return f(t) }

var (
	// FirstChildHeadFinder heads every phrase by its first child.
	FirstChildHeadFinder HeadFinder = HeadFinderFunc(func(t *Tree) *Tree {
		if t.IsLeaf() {
			return t
		}
		return t.FirstChild()
	})

	// LastChildHeadFinder heads every phrase by its last child.
	LastChildHeadFinder HeadFinder = HeadFinderFunc(func(t *Tree) *Tree {
		if t.IsLeaf() {
			return t
		}
		return t.LastChild()
	})
)

// Direction tells a HeadRule how to scan the children of a phrase.
type Direction string

const (
	// Left scans label by label, each time from the leftmost child.
	Left Direction = "left"
	// Right scans label by label, each time from the rightmost child.
	Right Direction = "right"
	// LeftDis scans children left to right, accepting any listed label.
	LeftDis Direction = "leftdis"
	// RightDis scans children right to left, accepting any listed label.
	RightDis Direction = "rightdis"
)

func (d Direction) valid() bool {
	switch d {
	case Left, Right, LeftDis, RightDis:
		return true
	}
	return false
}

func (d Direction) fromRight() bool { return d == Right || d == RightDis }

// HeadRule is one step of a category's head rules.
type HeadRule struct {
	Direction Direction `yaml:"direction"`
	Labels    []string  `yaml:"labels"`
}

// HeadRules maps a basic category to its ordered rules.
type HeadRules map[string][]HeadRule

// RuleHeadFinder is a table-driven head finder in the style of Collins (1999).
// Phrases whose category has no rules are headed by their first child.
type RuleHeadFinder struct {
	rules HeadRules
}

func NewRuleHeadFinder(rules HeadRules) *RuleHeadFinder {
	return &RuleHeadFinder{rules: rules}
}

// DefaultHeadFinder returns a RuleHeadFinder with rules for Penn treebank categories.
func DefaultHeadFinder() *RuleHeadFinder {
	return NewRuleHeadFinder(PennHeadRules())
}

func (h *RuleHeadFinder) DetermineHead(t *Tree) *Tree {
	switch len(t.Children) {
	case 0:
		return t
	case 1:
		return t.Children[0]
	}

	rules, ok := h.rules[BasicCategory(t.Label)]
	if !ok || len(rules) == 0 {
		return t.FirstChild()
	}
	for _, rule := range rules {
		if head := rule.find(t.Children); head != nil {
			return head
		}
	}
	if rules[len(rules)-1].Direction.fromRight() {
		return t.LastChild()
	}
	return t.FirstChild()
}

func (r HeadRule) find(children []*Tree) *Tree {
	n := len(children)
	at := func(i int) *Tree {
		if r.Direction.fromRight() {
			return children[n-1-i]
		}
		return children[i]
	}

	switch r.Direction {
	case Left, Right:
		for _, label := range r.Labels {
			for i := 0; i < n; i++ {
				if c := at(i); BasicCategory(c.Label) == label {
					return c
				}
			}
		}
	case LeftDis, RightDis:
		for i := 0; i < n; i++ {
			c := at(i)
			cat := BasicCategory(c.Label)
			for _, label := range r.Labels {
				if cat == label {
					return c
				}
			}
		}
	}
	return nil
}

// LoadHeadRules reads head rules from a yaml file of the form
//
//	VP:
//	  - direction: left
//	    labels: [TO, VBD, VBN, MD]
func LoadHeadRules(path string) (HeadRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading head rules: %w", err)
	}

	var rules HeadRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing head rules: %w", err)
	}
	for cat, list := range rules {
		for i, rule := range list {
			if !rule.Direction.valid() {
				return nil, fmt.Errorf("head rules for %q: rule %d: unknown direction %q", cat, i, rule.Direction)
			}
		}
	}
	return rules, nil
}

// PennHeadRules returns a fresh copy of the built-in Penn treebank rules.
func PennHeadRules() HeadRules {
	return HeadRules{
		"":      {{Left, []string{"S", "SINV", "SQ", "SBARQ", "FRAG", "NP", "VP"}}},
		"ROOT":  {{Left, []string{"S", "SINV", "SQ", "SBARQ", "FRAG", "NP", "VP"}}},
		"ADJP":  {{Left, []string{"NNS", "QP", "NN", "$", "ADVP", "JJ", "VBN", "VBG", "ADJP", "JJR", "NP", "JJS", "DT", "FW", "RBR", "RBS", "SBAR", "RB"}}},
		"ADVP":  {{Right, []string{"RB", "RBR", "RBS", "FW", "ADVP", "TO", "CD", "JJR", "JJ", "IN", "NP", "JJS", "NN"}}},
		"CONJP": {{Right, []string{"CC", "RB", "IN"}}},
		"FRAG":  {{Right, nil}},
		"INTJ":  {{Left, nil}},
		"LST":   {{Right, []string{"LS", ":"}}},
		"NAC":   {{Left, []string{"NN", "NNS", "NNP", "NNPS", "NP", "NAC", "EX", "$", "CD", "QP", "PRP", "VBG", "JJ", "JJS", "JJR", "ADJP", "FW"}}},
		"NP": {
			{RightDis, []string{"NN", "NNP", "NNPS", "NNS", "NX", "POS", "JJR"}},
			{Left, []string{"NP", "PRP"}},
			{RightDis, []string{"$", "ADJP", "PRN"}},
			{Right, []string{"CD"}},
			{RightDis, []string{"JJ", "JJS", "RB", "QP"}},
		},
		"NX":     {{Left, nil}},
		"PP":     {{Right, []string{"IN", "TO", "VBG", "VBN", "RP", "FW"}}},
		"PRN":    {{Left, nil}},
		"PRT":    {{Right, []string{"RP"}}},
		"QP":     {{Left, []string{"$", "IN", "NNS", "NN", "JJ", "RB", "DT", "CD", "NCD", "QP", "JJR", "JJS"}}},
		"RRC":    {{Right, []string{"VP", "NP", "ADVP", "ADJP", "PP"}}},
		"S":      {{Left, []string{"TO", "IN", "VP", "S", "SBAR", "ADJP", "UCP", "NP"}}},
		"SBAR":   {{Left, []string{"WHNP", "WHPP", "WHADVP", "WHADJP", "IN", "DT", "S", "SQ", "SINV", "SBAR", "FRAG"}}},
		"SBARQ":  {{Left, []string{"SQ", "S", "SINV", "SBARQ", "FRAG"}}},
		"SINV":   {{Left, []string{"VBZ", "VBD", "VBP", "VB", "MD", "VP", "S", "SINV", "ADJP", "NP"}}},
		"SQ":     {{Left, []string{"VBZ", "VBD", "VBP", "VB", "MD", "VP", "SQ"}}},
		"UCP":    {{Right, nil}},
		"VP":     {{Left, []string{"TO", "VBD", "VBN", "MD", "VBZ", "VB", "VBG", "VBP", "VP", "ADJP", "NN", "NNS", "NP"}}},
		"WHADJP": {{Left, []string{"CC", "WRB", "JJ", "ADJP"}}},
		"WHADVP": {{Right, []string{"CC", "WRB"}}},
		"WHNP":   {{Left, []string{"WDT", "WP", "WP$", "WHADJP", "WHPP", "WHNP"}}},
		"WHPP":   {{Right, []string{"IN", "TO", "FW"}}},
		"X":      {{Right, nil}},
	}
}
