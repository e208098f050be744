package tregex

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gnoswap-labs/tregex/tree"
)

type relationKind int

const (
	kindRoot relationKind = iota
	kindSplitter
	kindEquals
	kindParentEquals
	kindDominates
	kindDominatedBy
	kindParentOf
	kindChildOf
	kindPrecedes
	kindImmediatelyPrecedes
	kindFollows
	kindImmediatelyFollows
	kindSisterOf
	kindLeftSisterOf
	kindRightSisterOf
	kindImmediateLeftSisterOf
	kindImmediateRightSisterOf
	kindHasOnlyChild
	kindOnlyChildOf
	kindHasLeftmostDescendant
	kindHasRightmostDescendant
	kindLeftmostDescendantOf
	kindRightmostDescendantOf
	kindUnaryPathAncestorOf
	kindUnaryPathDescendantOf
	kindImmediatelyHeadedBy
	kindImmediatelyHeads
	kindHeadedBy
	kindHeads
	kindHasIthChild
	kindIthChildOf
	kindUnbrokenDominates
	kindUnbrokenDominatedBy
	kindUnbrokenPrecedes
	kindUnbrokenFollows
)

// Relation is an immutable binary relation between tree nodes. Relations
// are interned: looking up the same symbol and argument twice returns the
// same *Relation.
type Relation struct {
	kind     relationKind
	symbol   string
	arg      string
	index    int // child index for <n and >n: 1-based, negative counts from the end
	category *categoryMatcher
}

type relationKey struct {
	symbol string
	arg    string
}

var (
	// RootRelation anchors the first node of a pattern at the node being searched.
	RootRelation = &Relation{kind: kindRoot, symbol: "Root"}
	// SplitterRelation anchors the later parts of an "A : B" pattern anywhere in the tree.
	SplitterRelation = &Relation{kind: kindSplitter, symbol: ":"}

	basicRelations map[string]*Relation

	paramMu        sync.Mutex
	paramRelations = make(map[relationKey]*Relation)
)

func init() {
	basicRelations = map[string]*Relation{
		"":     RootRelation,
		"Root": RootRelation,
		":":    SplitterRelation,
	}
	for sym, kind := range map[string]relationKind{
		"==":  kindEquals,
		"<=":  kindParentEquals,
		"<<":  kindDominates,
		">>":  kindDominatedBy,
		"<":   kindParentOf,
		">":   kindChildOf,
		"..":  kindPrecedes,
		".":   kindImmediatelyPrecedes,
		",,":  kindFollows,
		",":   kindImmediatelyFollows,
		"$":   kindSisterOf,
		"$++": kindLeftSisterOf,
		"$--": kindRightSisterOf,
		"$+":  kindImmediateLeftSisterOf,
		"$-":  kindImmediateRightSisterOf,
		"<:":  kindHasOnlyChild,
		">:":  kindOnlyChildOf,
		"<<,": kindHasLeftmostDescendant,
		"<<-": kindHasRightmostDescendant,
		">>,": kindLeftmostDescendantOf,
		">>-": kindRightmostDescendantOf,
		"<<:": kindUnaryPathAncestorOf,
		">>:": kindUnaryPathDescendantOf,
		"<#":  kindImmediatelyHeadedBy,
		">#":  kindImmediatelyHeads,
		"<<#": kindHeadedBy,
		">>#": kindHeads,
	} {
		basicRelations[sym] = &Relation{kind: kind, symbol: sym}
	}

	for alias, canonical := range map[string]string{
		"$..": "$++",
		"$,,": "$--",
		"$.":  "$+",
		"$,":  "$-",
		"<<`": "<<-",
		">>`": ">>-",
	} {
		basicRelations[alias] = basicRelations[canonical]
	}

	for alias, key := range map[string]relationKey{
		"<,": {"<", "1"},
		"<-": {"<", "-1"},
		"<`": {"<", "-1"},
		">,": {">", "1"},
		">-": {">", "-1"},
		">`": {">", "-1"},
	} {
		r, err := lookupParameterized(key.symbol, key.arg)
		if err != nil {
			panic(err)
		}
		basicRelations[alias] = r
	}
}

// Lookup returns the relation written as symbol, with arg holding the child
// index of "<n"/">n" or the category of "<+(C)", ">+(C)", ".+(C)" and ",+(C)".
// The empty symbol and "Root" name RootRelation; ":" names SplitterRelation.
func Lookup(symbol, arg string) (*Relation, error) {
	if arg == "" {
		if r, ok := basicRelations[symbol]; ok {
			return r, nil
		}
	}
	return lookupParameterized(symbol, arg)
}

// MustLookup is like Lookup but panics on error.
func MustLookup(symbol, arg string) *Relation {
	r, err := Lookup(symbol, arg)
	if err != nil {
		panic(err)
	}
	return r
}

func lookupParameterized(symbol, arg string) (*Relation, error) {
	var kind relationKind
	switch symbol {
	case "<":
		kind = kindHasIthChild
	case ">":
		kind = kindIthChildOf
	case "<+":
		kind = kindUnbrokenDominates
	case ">+":
		kind = kindUnbrokenDominatedBy
	case ".+":
		kind = kindUnbrokenPrecedes
	case ",+":
		kind = kindUnbrokenFollows
	default:
		if arg != "" {
			return nil, fmt.Errorf("relation %q takes no argument", symbol)
		}
		return nil, fmt.Errorf("unknown relation %q", symbol)
	}
	if arg == "" {
		return nil, fmt.Errorf("relation %q requires an argument", symbol)
	}

	r := &Relation{kind: kind, symbol: symbol}
	switch kind {
	case kindHasIthChild, kindIthChildOf:
		n, err := strconv.Atoi(arg)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("relation %q: child index must be a non-zero integer, got %q", symbol, arg)
		}
		r.index = n
		r.arg = strconv.Itoa(n)
	default:
		cat, err := newCategoryMatcher(arg)
		if err != nil {
			return nil, fmt.Errorf("relation %q: %w", symbol, err)
		}
		r.category = cat
		r.arg = arg
	}

	key := relationKey{symbol: r.symbol, arg: r.arg}
	paramMu.Lock()
	defer paramMu.Unlock()
	if existing, ok := paramRelations[key]; ok {
		return existing, nil
	}
	paramRelations[key] = r
	return r, nil
}

// Symbol returns the canonical operator, e.g. "<<" or "<+".
func (r *Relation) Symbol() string { return r.symbol }

// Arg returns the child index or category argument, or "".
func (r *Relation) Arg() string { return r.arg }

func (r *Relation) String() string {
	switch {
	case r.arg == "":
		return r.symbol
	case r.category != nil:
		return r.symbol + "(" + r.arg + ")"
	default:
		return r.symbol + r.arg
	}
}

// topLevel reports whether r may only appear on the outermost pattern nodes.
func (r *Relation) topLevel() bool {
	return r.kind == kindRoot || r.kind == kindSplitter
}

// Satisfies reports whether "a r b" holds within the context's root.
func (r *Relation) Satisfies(a, b *tree.Tree, ctx *Context) bool {
	switch r.kind {
	case kindRoot, kindEquals:
		return a == b
	case kindSplitter:
		return true
	case kindParentEquals:
		return a == b || a.IndexOf(b) >= 0
	case kindDominates:
		return a.Dominates(b)
	case kindDominatedBy:
		return b.Dominates(a)
	case kindParentOf:
		return a.IndexOf(b) >= 0
	case kindChildOf:
		return b.IndexOf(a) >= 0
	case kindPrecedes:
		return ctx.span(a).right <= ctx.span(b).left
	case kindImmediatelyPrecedes:
		return ctx.span(a).right == ctx.span(b).left
	case kindFollows:
		return ctx.span(b).right <= ctx.span(a).left
	case kindImmediatelyFollows:
		return ctx.span(b).right == ctx.span(a).left
	case kindSisterOf:
		p := ctx.Parent(a)
		return a != b && p != nil && p == ctx.Parent(b)
	case kindLeftSisterOf, kindRightSisterOf, kindImmediateLeftSisterOf, kindImmediateRightSisterOf:
		return satisfiesSisterOrder(r.kind, a, b, ctx)
	case kindHasOnlyChild:
		return len(a.Children) == 1 && a.Children[0] == b
	case kindOnlyChildOf:
		return len(b.Children) == 1 && b.Children[0] == a
	case kindHasLeftmostDescendant:
		return onChain(a.FirstChild(), b, (*tree.Tree).FirstChild)
	case kindHasRightmostDescendant:
		return onChain(a.LastChild(), b, (*tree.Tree).LastChild)
	case kindLeftmostDescendantOf:
		return onChain(b.FirstChild(), a, (*tree.Tree).FirstChild)
	case kindRightmostDescendantOf:
		return onChain(b.LastChild(), a, (*tree.Tree).LastChild)
	case kindUnaryPathAncestorOf:
		return onChain(onlyChild(a), b, onlyChild)
	case kindUnaryPathDescendantOf:
		return onChain(onlyChild(b), a, onlyChild)
	case kindImmediatelyHeadedBy:
		return b != nil && ctx.head(a) == b
	case kindImmediatelyHeads:
		return a != nil && ctx.head(b) == a
	case kindHeadedBy:
		return onChain(ctx.head(a), b, ctx.head)
	case kindHeads:
		return onChain(ctx.head(b), a, ctx.head)
	case kindHasIthChild:
		return ithChild(a, r.index) == b
	case kindIthChildOf:
		return ithChild(b, r.index) == a
	case kindUnbrokenDominates:
		return r.unbrokenDominates(a, b)
	case kindUnbrokenDominatedBy:
		return r.unbrokenDominates(b, a)
	case kindUnbrokenPrecedes, kindUnbrokenFollows:
		return contains(r.Candidates(a, ctx), b)
	}
	panic(fmt.Sprintf("tregex: unhandled relation %q", r.symbol))
}

// Candidates enumerates every b with "t r b", lazily. The order is fixed
// for each relation kind.
func (r *Relation) Candidates(t *tree.Tree, ctx *Context) NodeIterator {
	switch r.kind {
	case kindRoot, kindEquals:
		return single(t)
	case kindSplitter:
		return tree.NewPreorder(ctx.Root())
	case kindParentEquals:
		return &sliceIterator{nodes: append([]*tree.Tree{t}, t.Children...)}
	case kindDominates:
		it := &stackIterator{}
		it.pushVisitOrder(t.Children)
		return it
	case kindDominatedBy:
		return chain(ctx.Parent(t), ctx.Parent)
	case kindParentOf:
		return &sliceIterator{nodes: t.Children}
	case kindChildOf:
		return single(ctx.Parent(t))
	case kindPrecedes:
		return precedingOrFollowing(t, ctx, true)
	case kindImmediatelyPrecedes:
		return chain(nextAdjacent(t, ctx, true), (*tree.Tree).FirstChild)
	case kindFollows:
		return precedingOrFollowing(t, ctx, false)
	case kindImmediatelyFollows:
		return chain(nextAdjacent(t, ctx, false), (*tree.Tree).LastChild)
	case kindSisterOf, kindLeftSisterOf, kindRightSisterOf, kindImmediateLeftSisterOf, kindImmediateRightSisterOf:
		return sisterCandidates(r.kind, t, ctx)
	case kindHasOnlyChild:
		return single(onlyChild(t))
	case kindOnlyChildOf:
		p := ctx.Parent(t)
		if p == nil || len(p.Children) != 1 {
			return emptyIterator{}
		}
		return single(p)
	case kindHasLeftmostDescendant:
		return chain(t.FirstChild(), (*tree.Tree).FirstChild)
	case kindHasRightmostDescendant:
		return chain(t.LastChild(), (*tree.Tree).LastChild)
	case kindLeftmostDescendantOf:
		return chain(edgeParent(t, ctx, (*tree.Tree).FirstChild), func(n *tree.Tree) *tree.Tree {
			return edgeParent(n, ctx, (*tree.Tree).FirstChild)
		})
	case kindRightmostDescendantOf:
		return chain(edgeParent(t, ctx, (*tree.Tree).LastChild), func(n *tree.Tree) *tree.Tree {
			return edgeParent(n, ctx, (*tree.Tree).LastChild)
		})
	case kindUnaryPathAncestorOf:
		return chain(onlyChild(t), onlyChild)
	case kindUnaryPathDescendantOf:
		return chain(edgeParent(t, ctx, onlyChild), func(n *tree.Tree) *tree.Tree {
			return edgeParent(n, ctx, onlyChild)
		})
	case kindImmediatelyHeadedBy:
		return single(ctx.head(t))
	case kindImmediatelyHeads:
		return single(edgeParent(t, ctx, ctx.head))
	case kindHeadedBy:
		return chain(ctx.head(t), ctx.head)
	case kindHeads:
		return chain(edgeParent(t, ctx, ctx.head), func(n *tree.Tree) *tree.Tree {
			return edgeParent(n, ctx, ctx.head)
		})
	case kindHasIthChild:
		return single(ithChild(t, r.index))
	case kindIthChildOf:
		p := ctx.Parent(t)
		if p == nil || ithChild(p, r.index) != t {
			return emptyIterator{}
		}
		return single(p)
	case kindUnbrokenDominates:
		it := &stackIterator{expand: r.category.matches}
		it.pushVisitOrder(t.Children)
		return it
	case kindUnbrokenDominatedBy:
		return chain(ctx.Parent(t), func(n *tree.Tree) *tree.Tree {
			if !r.category.matches(n) {
				return nil
			}
			return ctx.Parent(n)
		})
	case kindUnbrokenPrecedes:
		return newUnbrokenAdjacency(t, ctx, r.category, true)
	case kindUnbrokenFollows:
		return newUnbrokenAdjacency(t, ctx, r.category, false)
	}
	panic(fmt.Sprintf("tregex: unhandled relation %q", r.symbol))
}

// Describe explains the relation in words, A being the node written before
// the operator and B the node after it.
func (r *Relation) Describe() string {
	return relationDescriptions[r.kind]
}

var relationDescriptions = map[relationKind]string{
	kindRoot:                   "B is the node being searched",
	kindSplitter:               "B is any node of the tree",
	kindEquals:                 "A and B are the same node",
	kindParentEquals:           "A is B or the parent of B",
	kindDominates:              "A dominates B",
	kindDominatedBy:            "A is dominated by B",
	kindParentOf:               "A is the parent of B",
	kindChildOf:                "A is a child of B",
	kindPrecedes:               "A precedes B",
	kindImmediatelyPrecedes:    "A immediately precedes B",
	kindFollows:                "A follows B",
	kindImmediatelyFollows:     "A immediately follows B",
	kindSisterOf:               "A is a sister of B",
	kindLeftSisterOf:           "A is a left sister of B",
	kindRightSisterOf:          "A is a right sister of B",
	kindImmediateLeftSisterOf:  "A is the immediate left sister of B",
	kindImmediateRightSisterOf: "A is the immediate right sister of B",
	kindHasOnlyChild:           "B is the only child of A",
	kindOnlyChildOf:            "A is the only child of B",
	kindHasLeftmostDescendant:  "B is a leftmost descendant of A",
	kindHasRightmostDescendant: "B is a rightmost descendant of A",
	kindLeftmostDescendantOf:   "A is a leftmost descendant of B",
	kindRightmostDescendantOf:  "A is a rightmost descendant of B",
	kindUnaryPathAncestorOf:    "A dominates B through a unary chain",
	kindUnaryPathDescendantOf:  "A is dominated by B through a unary chain",
	kindImmediatelyHeadedBy:    "B is the immediate head of A",
	kindImmediatelyHeads:       "A is the immediate head of B",
	kindHeadedBy:               "B is a head of A",
	kindHeads:                  "A is a head of B",
	kindHasIthChild:            "B is the i-th child of A",
	kindIthChildOf:             "A is the i-th child of B",
	kindUnbrokenDominates:      "A dominates B through nodes matching the category",
	kindUnbrokenDominatedBy:    "A is dominated by B through nodes matching the category",
	kindUnbrokenPrecedes:       "A precedes B through nodes matching the category",
	kindUnbrokenFollows:        "A follows B through nodes matching the category",
}
