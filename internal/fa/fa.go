// Package fa implements component A (the finite-automaton data structure)
// and component B (the structural algebra over it: reachability pruning,
// dead-state removal, partition-refinement minimization, union, product, and
// subset-construction determinization) of the flab workbench.
//
// Unlike the rest of the ictiobus-derived machinery this was ported from,
// states here are not named strings tagged with a generic payload — spec.md
// §3 is explicit that an FA's states are an ordered set of small integers
// and that Δ is keyed by (src, dst) state pairs carrying a set of symbol
// labels, not by (state, symbol) carrying a single destination. That is the
// one place this package deliberately departs from the teacher's own
// automaton.go in favor of the written spec.
package fa

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/dekarrin/flab/internal/util"
)

// State identifies a vertex of an FA. Union, Product, Determinize and
// Minimize number their results 1..n; Reachable and RemoveDead keep the
// input's numbering; a freshly-built FA (via New) may use whatever integers
// the caller supplies.
type State int

// Epsilon is the empty transition symbol. On disk it is written "&" (spec.md
// §6); in memory it is the empty string, same convention the teacher's
// automaton.go uses for FATransition.input.
const Epsilon = ""

// Edge is a (source, destination) state pair, the key of Δ per spec.md §3.
type Edge struct {
	Src, Dst State
}

// FA is an immutable finite automaton (States, Δ, q0, F). All operations in
// this package and in the fa algebra return fresh FAs; there is no mutation
// after New returns successfully.
type FA struct {
	states util.IntSet
	delta  map[Edge]util.StringSet
	start  State
	final  util.IntSet
}

// New builds an FA from the given states, transition table, start state, and
// accepting set. transitions maps an (src, dst) pair to the (non-empty) set
// of symbols labeling that edge; an empty-string symbol denotes ε.
//
// Returns StateNotFound if any src/dst/start/final state is not in states.
func New(states []State, transitions map[Edge][]string, start State, final []State) (FA, error) {
	stateSet := util.NewIntSet()
	for _, s := range states {
		stateSet.Add(int(s))
	}

	delta := make(map[Edge]util.StringSet, len(transitions))
	for edge, syms := range transitions {
		if !stateSet.Has(int(edge.Src)) {
			return FA{}, ferrors.New(ferrors.StateNotFound, "transition source state %d is not in States", edge.Src)
		}
		if !stateSet.Has(int(edge.Dst)) {
			return FA{}, ferrors.New(ferrors.StateNotFound, "transition destination state %d is not in States", edge.Dst)
		}
		if len(syms) == 0 {
			return FA{}, ferrors.New(ferrors.InvalidFile, "transition %d -> %d has no symbols", edge.Src, edge.Dst)
		}
		set := util.NewStringSet(syms...)
		delta[edge] = set
	}

	if !stateSet.Has(int(start)) {
		return FA{}, ferrors.New(ferrors.StateNotFound, "initial state %d is not in States", start)
	}

	finalSet := util.NewIntSet()
	for _, f := range final {
		if !stateSet.Has(int(f)) {
			return FA{}, ferrors.New(ferrors.StateNotFound, "accepting state %d is not in States", f)
		}
		finalSet.Add(int(f))
	}

	return FA{states: stateSet, delta: delta, start: start, final: finalSet}, nil
}

// States returns the FA's states in ascending order.
func (a FA) States() []State {
	ints := a.states.Sorted()
	out := make([]State, len(ints))
	for i, v := range ints {
		out[i] = State(v)
	}
	return out
}

// Start returns q0.
func (a FA) Start() State {
	return a.start
}

// Final returns F, in ascending order.
func (a FA) Final() []State {
	ints := a.final.Sorted()
	out := make([]State, len(ints))
	for i, v := range ints {
		out[i] = State(v)
	}
	return out
}

// IsFinal reports whether q is an accepting state.
func (a FA) IsFinal(q State) bool {
	return a.final.Has(int(q))
}

// Symbols returns Σ: the sorted union of all symbol labels across Δ,
// excluding ε.
func (a FA) Symbols() []string {
	set := util.NewStringSet()
	for _, syms := range a.delta {
		for _, s := range syms.Sorted() {
			if s != Epsilon {
				set.Add(s)
			}
		}
	}
	return set.Sorted()
}

// hasEpsilon reports whether ε ∈ Σ, i.e. some edge carries the empty symbol.
func (a FA) hasEpsilon() bool {
	for _, syms := range a.delta {
		if syms.Has(Epsilon) {
			return true
		}
	}
	return false
}

// Successors returns the sorted list of states q' such that a ∈ Δ(q, q').
func (a FA) Successors(q State, symbol string) []State {
	var out []State
	for _, dst := range a.States() {
		edge := Edge{Src: q, Dst: dst}
		if syms, ok := a.delta[edge]; ok && syms.Has(symbol) {
			out = append(out, dst)
		}
	}
	return out
}

// AllSuccessors returns every state reachable from q on any single symbol
// (including ε), without regard to which symbol was used.
func (a FA) AllSuccessors(q State) []State {
	var out []State
	for _, dst := range a.States() {
		if _, ok := a.delta[Edge{Src: q, Dst: dst}]; ok {
			out = append(out, dst)
		}
	}
	return out
}

// EdgeSymbols returns the sorted symbol labels on the src->dst edge, or nil
// if there is no such edge.
func (a FA) EdgeSymbols(src, dst State) []string {
	syms, ok := a.delta[Edge{Src: src, Dst: dst}]
	if !ok {
		return nil
	}
	return syms.Sorted()
}

// IsNondeterministic reports whether a is nondeterministic: ε ∈ Σ, or some
// (state, symbol) pair has more than one successor (spec.md §3).
func (a FA) IsNondeterministic() bool {
	if a.hasEpsilon() {
		return true
	}
	for _, q := range a.States() {
		for _, sym := range a.Symbols() {
			if len(a.Successors(q, sym)) >= 2 {
				return true
			}
		}
	}
	return false
}

// EpsilonClosure returns the least set containing q that is closed under
// ε-successors, computed by DFS (cycles permitted).
func (a FA) EpsilonClosure(q State) util.IntSet {
	visited := util.NewIntSet()
	var visit func(State)
	visit = func(s State) {
		if visited.Has(int(s)) {
			return
		}
		visited.Add(int(s))
		for _, next := range a.Successors(s, Epsilon) {
			visit(next)
		}
	}
	visit(q)
	return visited
}

// EpsilonClosureOfSet is EpsilonClosure extended over a whole set of states.
func (a FA) EpsilonClosureOfSet(states util.IntSet) util.IntSet {
	out := util.NewIntSet()
	for _, q := range states.Sorted() {
		out.AddAll(a.EpsilonClosure(State(q)))
	}
	return out
}

// Accepts runs the DFA membership algorithm of spec.md §4.A: start from
// {q0}, and for each symbol of w replace the frontier with the union of
// successors on that symbol; accept iff the final frontier intersects F.
//
// Returns DeterminismMismatch if a is nondeterministic.
func (a FA) Accepts(w []string) (bool, error) {
	if a.IsNondeterministic() {
		return false, ferrors.New(ferrors.DeterminismMismatch, "Accepts requires a deterministic automaton")
	}

	frontier := util.NewIntSet(int(a.start))
	for _, sym := range w {
		next := util.NewIntSet()
		for _, q := range frontier.Sorted() {
			for _, s := range a.Successors(State(q), sym) {
				next.Add(int(s))
			}
		}
		frontier = next
		if frontier.Len() == 0 {
			break
		}
	}

	for _, q := range frontier.Sorted() {
		if a.IsFinal(State(q)) {
			return true, nil
		}
	}
	return false, nil
}

// AcceptsND runs the NFA membership algorithm of spec.md §4.A: precompute
// ε-closures, then simulate by taking the closure of all successors after
// each symbol of w. Works for any FA, deterministic or not.
func (a FA) AcceptsND(w []string) bool {
	frontier := a.EpsilonClosure(a.start)
	for _, sym := range w {
		next := util.NewIntSet()
		for _, q := range frontier.Sorted() {
			for _, s := range a.Successors(State(q), sym) {
				next.AddAll(a.EpsilonClosure(s))
			}
		}
		frontier = next
		if frontier.Len() == 0 {
			break
		}
	}

	for _, q := range frontier.Sorted() {
		if a.IsFinal(State(q)) {
			return true
		}
	}
	return false
}

// AsDeterministic validates a as a DFA and returns it wrapped. Returns
// DeterminismMismatch if a is nondeterministic (Design Notes §9: two typed
// construction paths over one base FA rather than a redundant DFA/NFA pair
// of struct hierarchies).
func AsDeterministic(a FA) (DFA, error) {
	if a.IsNondeterministic() {
		return DFA{}, ferrors.New(ferrors.DeterminismMismatch, "automaton is nondeterministic")
	}
	return DFA{a}, nil
}

// AsNondeterministic wraps a for use with the NFA-only operation
// Determinize. Any FA, deterministic or not, is a valid NFA.
func AsNondeterministic(a FA) NFA {
	return NFA{a}
}

// DFA is an FA known (at the type level) to be deterministic.
type DFA struct{ FA }

// NFA is an FA used via the nondeterministic operations; it may or may not
// actually be deterministic underneath.
type NFA struct{ FA }

// String renders the FA as a compact transition listing, in the spirit of
// the teacher's automaton.go String() methods.
func (a FA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FA(start=%d, final=%v) {\n", a.start, a.Final())
	for _, src := range a.States() {
		for _, dst := range a.States() {
			syms := a.EdgeSymbols(src, dst)
			if len(syms) == 0 {
				continue
			}
			labels := make([]string, len(syms))
			for i, s := range syms {
				if s == Epsilon {
					labels[i] = "ε"
				} else {
					labels[i] = s
				}
			}
			fmt.Fprintf(&sb, "  %d =(%s)=> %d\n", src, strings.Join(labels, ","), dst)
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// sortedEdges is a small helper used by the algebra operations to iterate Δ
// in a deterministic order.
func sortedEdges(delta map[Edge]util.StringSet) []Edge {
	edges := make([]Edge, 0, len(delta))
	for e := range delta {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Src != edges[j].Src {
			return edges[i].Src < edges[j].Src
		}
		return edges[i].Dst < edges[j].Dst
	})
	return edges
}
