// Package util holds small container and ordering helpers shared across
// flab's core packages. It deliberately stays free of any flab-specific
// domain type so that fa, regex, grammar, and parse can each import it
// without pulling in one another.
package util

import (
	"fmt"
	"sort"
	"strings"
)

// IntSet is a set of ints, used throughout for state identifiers and regex
// leaf-position indices.
type IntSet map[int]struct{}

// NewIntSet builds an IntSet containing the given members.
func NewIntSet(members ...int) IntSet {
	s := make(IntSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add puts v in the set. No-op if already present.
func (s IntSet) Add(v int) {
	s[v] = struct{}{}
}

// Has returns whether v is in the set.
func (s IntSet) Has(v int) bool {
	_, ok := s[v]
	return ok
}

// Remove takes v out of the set. No-op if not present.
func (s IntSet) Remove(v int) {
	delete(s, v)
}

// Len returns the number of elements.
func (s IntSet) Len() int {
	return len(s)
}

// Sorted returns the elements in ascending order.
func (s IntSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Copy returns a new IntSet with the same members.
func (s IntSet) Copy() IntSet {
	newS := make(IntSet, len(s))
	for v := range s {
		newS[v] = struct{}{}
	}
	return newS
}

// Union returns a fresh set containing every member of s and o.
func (s IntSet) Union(o IntSet) IntSet {
	newS := s.Copy()
	for v := range o {
		newS[v] = struct{}{}
	}
	return newS
}

// AddAll merges o's members into s in place.
func (s IntSet) AddAll(o IntSet) {
	for v := range o {
		s[v] = struct{}{}
	}
}

// Equal reports whether s and o contain the same members.
func (s IntSet) Equal(o IntSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o.Has(v) {
			return false
		}
	}
	return true
}

// String renders the set in ascending order, e.g. "{1, 2, 3}".
func (s IntSet) String() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// StringSet is a set of strings, used for symbol alphabets (Σ), FIRST/FOLLOW
// sets, and terminal/nonterminal bookkeeping.
type StringSet map[string]struct{}

// NewStringSet builds a StringSet containing the given members.
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

func (s StringSet) Add(v string) {
	s[v] = struct{}{}
}

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s StringSet) Remove(v string) {
	delete(s, v)
}

func (s StringSet) Len() int {
	return len(s)
}

// Sorted returns the elements in lexicographic order, per spec.md §5's
// ordering guarantee.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s StringSet) Copy() StringSet {
	newS := make(StringSet, len(s))
	for v := range s {
		newS[v] = struct{}{}
	}
	return newS
}

func (s StringSet) Union(o StringSet) StringSet {
	newS := s.Copy()
	for v := range o {
		newS[v] = struct{}{}
	}
	return newS
}

func (s StringSet) AddAll(o StringSet) {
	for v := range o {
		s[v] = struct{}{}
	}
}

// AddAllExcept merges o's members into s in place, skipping except.
func (s StringSet) AddAllExcept(o StringSet, except string) {
	for v := range o {
		if v != except {
			s[v] = struct{}{}
		}
	}
}

func (s StringSet) Equal(o StringSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o.Has(v) {
			return false
		}
	}
	return true
}

func (s StringSet) String() string {
	sorted := s.Sorted()
	return "{" + strings.Join(sorted, ", ") + "}"
}
