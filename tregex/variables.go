package tregex

import (
	"fmt"
	"sort"
)

// VariableStrings holds the strings bound to coindexation variables during a
// search. Several pattern nodes may bind the same variable; it stays set
// until every one of them has released it.
type VariableStrings struct {
	values map[string]string
	counts map[string]int
}

func NewVariableStrings() *VariableStrings {
	return &VariableStrings{
		values: make(map[string]string),
		counts: make(map[string]int),
	}
}

// SetVar binds name to value. Binding a name that is already set to a
// different value is a programming error and panics.
func (v *VariableStrings) SetVar(name, value string) {
	if old, ok := v.values[name]; ok && old != value {
		panic(fmt.Sprintf("tregex: variable %q already bound to %q, cannot rebind to %q", name, old, value))
	}
	v.values[name] = value
	v.counts[name]++
}

// UnsetVar releases one binding of name.
func (v *VariableStrings) UnsetVar(name string) {
	if v.counts[name] > 0 {
		v.counts[name]--
	}
	if v.counts[name] == 0 {
		delete(v.values, name)
		delete(v.counts, name)
	}
}

// Get returns the string bound to name.
func (v *VariableStrings) Get(name string) (string, bool) {
	s, ok := v.values[name]
	return s, ok
}

// Names returns the bound variables in sorted order.
func (v *VariableStrings) Names() []string {
	names := make([]string, 0, len(v.values))
	for name := range v.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v *VariableStrings) Reset() {
	clear(v.values)
	clear(v.counts)
}
