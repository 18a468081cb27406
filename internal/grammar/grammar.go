// Package grammar implements component E (context-free grammar
// representation, FIRST/FOLLOW) and component F (left-factoring and
// left-recursion elimination) of the flab workbench, grounded on
// original_source/src/Grammar.py and reworked in the tagged-variant, pure-
// function style the rest of flab uses.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/dekarrin/flab/internal/util"
)

// Symbol is a single grammar symbol: a nonterminal, a terminal, or one of
// the two reserved symbols Epsilon and EndOfInput.
type Symbol = string

// Production is an ordered body of symbols, e.g. the right-hand side of one
// alternative of a production. An ε body is represented as Production{Epsilon}.
type Production []Symbol

// Epsilon is the empty-body symbol, written "&" in the file format (spec.md
// §3, §6).
const Epsilon Symbol = "&"

// EndOfInput is the parser-driver sentinel appended to every input stream
// (spec.md §3).
const EndOfInput Symbol = "$"

// IsNonTerminal reports whether sym is a nonterminal: a non-empty symbol
// whose first byte is an uppercase ASCII letter (spec.md §3).
func IsNonTerminal(sym Symbol) bool {
	return sym != "" && sym[0] >= 'A' && sym[0] <= 'Z'
}

// String renders a production body space-separated, e.g. "T E'".
func (p Production) String() string {
	return strings.Join([]string(p), " ")
}

// IsEpsilon reports whether p is the distinguished ε body.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == Epsilon
}

// Grammar is an ordered mapping from nonterminal to its production bodies.
// The first nonterminal added (by AddProduction) is the start symbol
// (spec.md §3). A Grammar is built once via AddProduction calls and is
// otherwise immutable; the transforms in transform.go return fresh Grammars
// rather than mutating their input.
type Grammar struct {
	order   []string
	bodies  map[string][]Production
	ceiling int
}

// Option configures a Grammar at construction.
type Option func(*Grammar)

// DefaultIterationCeiling bounds every fixed-point pass (FIRST/FOLLOW,
// closure, LR(0) collection, factoring, left-recursion removal) absent an
// explicit WithIterationCeiling override (spec.md §5).
const DefaultIterationCeiling = 100

// WithIterationCeiling overrides the fixed-point iteration ceiling. Threaded
// through as a functional option (rather than a package-level global) so
// that a workspace running several grammars concurrently never shares
// mutable config, per Design Notes §9's stance on global state.
func WithIterationCeiling(n int) Option {
	return func(g *Grammar) { g.ceiling = n }
}

// New builds an empty Grammar.
func New(opts ...Option) *Grammar {
	g := &Grammar{
		bodies:  map[string][]Production{},
		ceiling: DefaultIterationCeiling,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddProduction appends body to nt's list of production bodies, recording nt
// in insertion order the first time it's seen. Returns NotContextFree if nt
// is not a single nonterminal symbol.
func (g *Grammar) AddProduction(nt string, body Production) error {
	if !IsNonTerminal(nt) {
		return ferrors.New(ferrors.NotContextFree, "production head %q is not a nonterminal", nt)
	}
	if _, ok := g.bodies[nt]; !ok {
		g.order = append(g.order, nt)
		g.bodies[nt] = nil
	}
	cp := make(Production, len(body))
	copy(cp, body)
	g.bodies[nt] = append(g.bodies[nt], cp)
	return nil
}

// NonTerminals returns the grammar's nonterminals in insertion order; the
// first element is the start symbol.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// StartSymbol returns the first nonterminal added, or "" for an empty
// grammar.
func (g *Grammar) StartSymbol() string {
	if len(g.order) == 0 {
		return ""
	}
	return g.order[0]
}

// Productions returns nt's production bodies, in the order they were added.
func (g *Grammar) Productions(nt string) []Production {
	bodies := g.bodies[nt]
	out := make([]Production, len(bodies))
	copy(out, bodies)
	return out
}

// IsNonTerminalOf reports whether sym names one of g's nonterminals.
func (g *Grammar) IsNonTerminalOf(sym string) bool {
	_, ok := g.bodies[sym]
	return ok
}

// Terminals returns the sorted set of every body symbol across the grammar
// that is not one of g's nonterminals (spec.md §3's derived terminal set).
func (g *Grammar) Terminals() []string {
	set := util.NewStringSet()
	for _, nt := range g.order {
		for _, body := range g.bodies[nt] {
			for _, sym := range body {
				if !g.IsNonTerminalOf(sym) {
					set.Add(sym)
				}
			}
		}
	}
	return set.Sorted()
}

// IsContextFree reports whether every production head is a single
// nonterminal symbol — always true for a Grammar built only through
// AddProduction, since AddProduction itself enforces that invariant (the
// loader also builds grammars through AddProduction); kept as an explicit
// operation (spec.md §4.E).
func (g *Grammar) IsContextFree() bool {
	for _, nt := range g.order {
		if !IsNonTerminal(nt) {
			return false
		}
	}
	return true
}

// Ceiling returns the grammar's configured fixed-point iteration ceiling.
func (g *Grammar) Ceiling() int {
	return g.ceiling
}

// Copy returns a deep, independent copy of g, preserving nonterminal order.
func (g *Grammar) Copy() *Grammar {
	out := New(WithIterationCeiling(g.ceiling))
	for _, nt := range g.order {
		for _, body := range g.bodies[nt] {
			_ = out.AddProduction(nt, body)
		}
	}
	return out
}

// String renders the grammar in the file-format's surface syntax (spec.md
// §6): one "A -> α1 | α2 | …" line per nonterminal, in insertion order.
func (g *Grammar) String() string {
	var sb strings.Builder
	for i, nt := range g.order {
		if i > 0 {
			sb.WriteByte('\n')
		}
		bodies := g.bodies[nt]
		alts := make([]string, len(bodies))
		for j, b := range bodies {
			alts[j] = b.String()
		}
		fmt.Fprintf(&sb, "%s -> %s", nt, strings.Join(alts, " | "))
	}
	return sb.String()
}

// sortedProductionKeys returns a grammar's nonterminals sorted
// lexicographically — used only where the spec calls for comparing key
// *sets* rather than the grammar's insertion order (e.g. the left-recursion
// precondition check in sets.go).
func sortedProductionKeys(g *Grammar) []string {
	out := append([]string(nil), g.order...)
	sort.Strings(out)
	return out
}
