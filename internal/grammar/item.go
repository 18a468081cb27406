package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/flab/internal/ferrors"
)

// Item is an LR(0) item: a production head, its body, and a dot position in
// [0, len(Body)] marking parse progress (spec.md §4.H). An ε body is
// represented with an empty Body and Dot fixed at 0.
type Item struct {
	Head string
	Body Production
	Dot  int
}

// AtEnd reports whether the dot has reached the end of the body.
func (it Item) AtEnd() bool {
	return it.Dot >= len(it.Body)
}

// NextSymbol returns the symbol immediately after the dot, if any.
func (it Item) NextSymbol() (string, bool) {
	if it.AtEnd() {
		return "", false
	}
	return it.Body[it.Dot], true
}

// Advance returns the item with the dot moved one position to the right.
func (it Item) Advance() Item {
	return Item{Head: it.Head, Body: it.Body, Dot: it.Dot + 1}
}

// key renders a canonical string for set membership and equality.
func (it Item) key() string {
	return it.String()
}

// String renders an item as "A -> α • β".
func (it Item) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s -> ", it.Head)
	for i, sym := range it.Body {
		if i == it.Dot {
			sb.WriteString("• ")
		}
		sb.WriteString(sym)
		sb.WriteByte(' ')
	}
	if it.Dot == len(it.Body) {
		sb.WriteString("•")
	}
	return strings.TrimRight(sb.String(), " ")
}

// itemsOf returns the initial items for every body of nt: dot at position 0,
// with an ε body collapsing to an empty-bodied item (spec.md §4.H).
func itemsOf(g *Grammar, nt string) []Item {
	var out []Item
	for _, body := range g.Productions(nt) {
		if body.IsEpsilon() {
			out = append(out, Item{Head: nt, Body: Production{}, Dot: 0})
		} else {
			out = append(out, Item{Head: nt, Body: body, Dot: 0})
		}
	}
	return out
}

// ItemSet is an ordered, deduplicated collection of LR(0) items: discovery
// order is preserved (spec.md §5's ordering guarantee), with O(1) membership
// via each item's canonical string.
type ItemSet struct {
	items []Item
	seen  map[string]bool
}

// NewItemSet builds an ItemSet seeded with the given items (duplicates
// collapsed, first occurrence kept).
func NewItemSet(items ...Item) *ItemSet {
	s := &ItemSet{seen: map[string]bool{}}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts it if not already present, reporting whether it was new.
func (s *ItemSet) Add(it Item) bool {
	k := it.key()
	if s.seen[k] {
		return false
	}
	s.seen[k] = true
	s.items = append(s.items, it)
	return true
}

// Items returns the set's items in discovery order.
func (s *ItemSet) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items in the set.
func (s *ItemSet) Len() int {
	return len(s.items)
}

// Key renders a canonical string for the whole set, order-independent,
// suitable for deduplicating item sets during LR(0) collection.
func (s *ItemSet) Key() string {
	keys := make([]string, len(s.items))
	for i, it := range s.items {
		keys[i] = it.key()
	}
	sortStrings(keys)
	return strings.Join(keys, "\n")
}

// sortStrings is a tiny local helper so item.go doesn't need to import sort
// just for this one call site's worth of use beyond what grammar.go already
// imports elsewhere.
func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

// Closure computes closure(I) (spec.md §4.H): while some item A -> α • Bβ
// has B a nonterminal whose productions aren't yet represented in the set,
// add B's initial items. Bounded by ceiling.
func Closure(g *Grammar, seed []Item, ceiling int) (*ItemSet, error) {
	set := NewItemSet(seed...)

	expanded := map[string]bool{}
	for round := 0; ; round++ {
		if round >= ceiling {
			return nil, ferrors.New(ferrors.IterationLimit, "LR(0) closure did not converge")
		}

		changed := false
		for _, it := range set.Items() {
			sym, ok := it.NextSymbol()
			if !ok || !g.IsNonTerminalOf(sym) {
				continue
			}
			if expanded[sym] {
				continue
			}
			expanded[sym] = true
			for _, newItem := range itemsOf(g, sym) {
				if set.Add(newItem) {
					changed = true
				}
			}
		}
		if !changed {
			return set, nil
		}
	}
}

// Goto computes goto(I, X) (spec.md §4.H): the closure of every item
// A -> α X • β for A -> α • X β ∈ I.
func Goto(g *Grammar, items []Item, symbol string, ceiling int) (*ItemSet, error) {
	var moved []Item
	for _, it := range items {
		sym, ok := it.NextSymbol()
		if ok && sym == symbol {
			moved = append(moved, it.Advance())
		}
	}
	if len(moved) == 0 {
		return NewItemSet(), nil
	}
	return Closure(g, moved, ceiling)
}

// LR0Collection is the canonical collection of LR(0) item sets, in discovery
// order; State 0 is always the augmented start state.
type LR0Collection struct {
	States []*ItemSet
}

// TransitionKey identifies one goto edge of an LR0Collection.
type TransitionKey struct {
	State  int
	Symbol string
}

// BuildLR0Collection computes the canonical LR(0) collection for an already
// start-augmented grammar g (its start symbol's sole production is the
// original grammar's start symbol), starting from closure({start -> • S})
// and iterating goto to a fixed point over every terminal and nonterminal
// (spec.md §4.H). Returns the collection together with a transition table
// keyed by (stateIndex, symbol) -> stateIndex.
func BuildLR0Collection(g *Grammar) (*LR0Collection, map[TransitionKey]int, error) {
	start := g.StartSymbol()
	seed := itemsOf(g, start)
	initial, err := Closure(g, seed, g.ceiling)
	if err != nil {
		return nil, nil, err
	}

	collection := &LR0Collection{States: []*ItemSet{initial}}
	keyToIndex := map[string]int{initial.Key(): 0}
	transitions := map[TransitionKey]int{}

	symbols := append(append([]string{}, g.NonTerminals()...), g.Terminals()...)

	for i := 0; i < len(collection.States); i++ {
		if i >= g.ceiling {
			return nil, nil, ferrors.New(ferrors.IterationLimit, "LR(0) collection did not converge")
		}
		items := collection.States[i].Items()
		for _, sym := range symbols {
			next, err := Goto(g, items, sym, g.ceiling)
			if err != nil {
				return nil, nil, err
			}
			if next.Len() == 0 {
				continue
			}
			k := next.Key()
			idx, ok := keyToIndex[k]
			if !ok {
				idx = len(collection.States)
				keyToIndex[k] = idx
				collection.States = append(collection.States, next)
			}
			transitions[TransitionKey{State: i, Symbol: sym}] = idx
		}
	}

	return collection, transitions, nil
}
