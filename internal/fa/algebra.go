package fa

import (
	"fmt"
	"sort"

	"github.com/dekarrin/flab/internal/util"
)

// builder accumulates states/transitions/final states before handing them to
// New, so the algebra operations below don't have to pre-size every map by
// hand the way New's caller would.
type builder struct {
	states  []State
	seen    util.IntSet
	trans   map[Edge][]string
	start   State
	final   []State
	finSeen util.IntSet
}

func newBuilder() *builder {
	return &builder{
		seen:    util.NewIntSet(),
		trans:   map[Edge][]string{},
		finSeen: util.NewIntSet(),
	}
}

func (b *builder) addState(s State) {
	if !b.seen.Has(int(s)) {
		b.seen.Add(int(s))
		b.states = append(b.states, s)
	}
}

func (b *builder) addFinal(s State) {
	b.addState(s)
	if !b.finSeen.Has(int(s)) {
		b.finSeen.Add(int(s))
		b.final = append(b.final, s)
	}
}

func (b *builder) addTransition(src, dst State, symbol string) {
	b.addState(src)
	b.addState(dst)
	edge := Edge{Src: src, Dst: dst}
	for _, have := range b.trans[edge] {
		if have == symbol {
			return
		}
	}
	b.trans[edge] = append(b.trans[edge], symbol)
}

func (b *builder) build() (FA, error) {
	return New(b.states, b.trans, b.start, b.final)
}

// Reachable prunes every state (and its transitions) not reachable by a
// depth-first search from q0, per spec.md §4.B. The resulting FA keeps the
// original state numbering.
func Reachable(a FA) FA {
	reached := util.NewIntSet()
	var visit func(State)
	visit = func(q State) {
		if reached.Has(int(q)) {
			return
		}
		reached.Add(int(q))
		for _, next := range a.AllSuccessors(q) {
			visit(next)
		}
	}
	visit(a.start)

	b := newBuilder()
	b.start = a.start
	for _, q := range a.States() {
		if reached.Has(int(q)) {
			b.addState(q)
		}
	}
	for _, e := range sortedEdges(a.delta) {
		if reached.Has(int(e.Src)) && reached.Has(int(e.Dst)) {
			for _, sym := range a.delta[e].Sorted() {
				b.addTransition(e.Src, e.Dst, sym)
			}
		}
	}
	for _, f := range a.Final() {
		if reached.Has(int(f)) {
			b.addFinal(f)
		}
	}

	out, err := b.build()
	if err != nil {
		// b only ever contains states/edges drawn from a valid a, so this
		// can't actually fail; panicking here would hide a real bug upstream.
		panic(fmt.Sprintf("Reachable: invariant violated: %v", err))
	}
	return out
}

// RemoveDead drops every state that cannot reach any accepting state, found
// via reverse reachability from F. The initial state may itself be dead, in
// which case the result accepts the empty language (spec.md §4.B).
func RemoveDead(a FA) FA {
	// walk predecessors depth-first from F.
	alive := util.NewIntSet()
	var visit func(State)
	visit = func(q State) {
		if alive.Has(int(q)) {
			return
		}
		alive.Add(int(q))
		for _, src := range a.States() {
			for _, dst := range a.AllSuccessors(src) {
				if dst == q {
					visit(src)
				}
			}
		}
	}
	for _, f := range a.Final() {
		visit(f)
	}

	b := newBuilder()
	b.start = a.start
	// the start state survives even if dead, so that an FA with an empty
	// language still has a well-formed start state (spec.md §4.B).
	b.addState(a.start)
	for _, q := range a.States() {
		if alive.Has(int(q)) {
			b.addState(q)
		}
	}
	for _, e := range sortedEdges(a.delta) {
		if (alive.Has(int(e.Src)) || e.Src == a.start) && alive.Has(int(e.Dst)) {
			for _, sym := range a.delta[e].Sorted() {
				b.addTransition(e.Src, e.Dst, sym)
			}
		}
	}
	for _, f := range a.Final() {
		if alive.Has(int(f)) {
			b.addFinal(f)
		}
	}

	out, err := b.build()
	if err != nil {
		panic(fmt.Sprintf("RemoveDead: invariant violated: %v", err))
	}
	return out
}

// renumber reassigns the states of a to a contiguous 1..n range, preserving
// relative order, and returns the new FA along with the old->new mapping.
func renumber(a FA) (FA, map[State]State) {
	mapping := map[State]State{}
	for i, q := range a.States() {
		mapping[q] = State(i + 1)
	}

	b := newBuilder()
	b.start = mapping[a.start]
	for _, q := range a.States() {
		b.addState(mapping[q])
	}
	for _, e := range sortedEdges(a.delta) {
		for _, sym := range a.delta[e].Sorted() {
			b.addTransition(mapping[e.Src], mapping[e.Dst], sym)
		}
	}
	for _, f := range a.Final() {
		b.addFinal(mapping[f])
	}

	out, err := b.build()
	if err != nil {
		panic(fmt.Sprintf("renumber: invariant violated: %v", err))
	}
	return out, mapping
}

// Minimize implements the full minimization pipeline of spec.md §4.B:
// reachability prune ∘ dead-state prune ∘ partition refinement.
func Minimize(a FA) FA {
	pruned := RemoveDead(Reachable(a))
	return partitionRefine(pruned)
}

// partitionRefine runs Hopcroft-style partition refinement (spec.md's
// signature-based round, not the classical splitter-worklist formulation):
// initial partition is {States \ F, F} (non-accepting first), and at each
// round every state gets a signature of (class(q), class(succ(q, a1)), ...)
// over Σ in sorted order, with a sentinel class 0 for a missing successor.
func partitionRefine(a FA) FA {
	states := a.States()

	finalSet := util.NewIntSet()
	for _, f := range a.Final() {
		finalSet.Add(int(f))
	}

	// initial partition: non-accepting states get class 1, accepting get 2,
	// ordered as spec.md mandates (non-accepting first).
	class := map[State]int{}
	for _, q := range states {
		if finalSet.Has(int(q)) {
			class[q] = 2
		} else {
			class[q] = 1
		}
	}

	symbols := a.Symbols()

	for {
		type sigKey struct {
			self int
			rest string
		}
		sigOf := func(q State) sigKey {
			rest := ""
			for _, sym := range symbols {
				succs := a.Successors(q, sym)
				c := "0"
				if len(succs) > 0 {
					// on a DFA there is at most one successor; if somehow
					// more than one slipped through (pre-conversion NFA),
					// fold them via their sorted concatenation of classes.
					ids := make([]int, len(succs))
					for i, s := range succs {
						ids[i] = class[s]
					}
					sort.Ints(ids)
					c = fmt.Sprint(ids)
				}
				rest += "|" + c
			}
			return sigKey{self: class[q], rest: rest}
		}

		sigs := map[State]sigKey{}
		for _, q := range states {
			sigs[q] = sigOf(q)
		}

		// group by signature, assign new class numbers in the order their
		// signature is first seen (discovery order per spec.md §5).
		groupOf := map[sigKey]int{}
		var order []sigKey
		for _, q := range states {
			sig := sigs[q]
			if _, ok := groupOf[sig]; !ok {
				groupOf[sig] = len(order) + 1
				order = append(order, sig)
			}
		}

		changed := false
		newClass := map[State]int{}
		for _, q := range states {
			nc := groupOf[sigs[q]]
			newClass[q] = nc
			if nc != class[q] {
				changed = true
			}
		}
		// A split always gives some state a class number it did not have
		// before, so comparing per-state class numbers detects it.
		class = newClass
		if !changed {
			break
		}
	}

	// emit classes as fresh states, numbered by class id (already in
	// discovery order from the final round).
	maxClass := 0
	for _, q := range states {
		if class[q] > maxClass {
			maxClass = class[q]
		}
	}

	b := newBuilder()
	for c := 1; c <= maxClass; c++ {
		b.addState(State(c))
	}
	b.start = State(class[a.start])

	for _, e := range sortedEdges(a.delta) {
		srcClass := State(class[e.Src])
		dstClass := State(class[e.Dst])
		for _, sym := range a.delta[e].Sorted() {
			b.addTransition(srcClass, dstClass, sym)
		}
	}

	for _, q := range states {
		if finalSet.Has(int(q)) {
			b.addFinal(State(class[q]))
		}
	}

	out, err := b.build()
	if err != nil {
		panic(fmt.Sprintf("partitionRefine: invariant violated: %v", err))
	}
	return out
}

// Union builds the ε-NFA union of a1 and a2 (spec.md §4.B): a fresh start
// state s with ε-edges to both original starts, a2's states offset to keep
// the two disjoint.
func Union(a1, a2 FA) FA {
	offset := len(a1.States()) + 1
	newStart := State(0)

	b := newBuilder()
	b.start = newStart
	b.addState(newStart)

	for _, q := range a1.States() {
		b.addState(q)
	}
	for _, e := range sortedEdges(a1.delta) {
		for _, sym := range a1.delta[e].Sorted() {
			b.addTransition(e.Src, e.Dst, sym)
		}
	}
	for _, f := range a1.Final() {
		b.addFinal(f)
	}

	shift := func(s State) State { return s + State(offset) }
	for _, q := range a2.States() {
		b.addState(shift(q))
	}
	for _, e := range sortedEdges(a2.delta) {
		for _, sym := range a2.delta[e].Sorted() {
			b.addTransition(shift(e.Src), shift(e.Dst), sym)
		}
	}
	for _, f := range a2.Final() {
		b.addFinal(shift(f))
	}

	b.addTransition(newStart, a1.start, Epsilon)
	b.addTransition(newStart, shift(a2.start), Epsilon)

	out, err := b.build()
	if err != nil {
		panic(fmt.Sprintf("Union: invariant violated: %v", err))
	}
	renumbered, _ := renumber(out)
	return renumbered
}

// pairState packs an (AF1, AF2) state pair into the 1..|S1|*|S2| numbering
// spec.md §4.B mandates for Product.
type pairState struct{ p, q State }

// Product builds the intersection automaton of a1 and a2 via the cartesian
// product construction of spec.md §4.B.
func Product(a1, a2 FA) FA {
	states1 := a1.States()
	states2 := a2.States()

	index := map[pairState]State{}
	var order []pairState
	next := State(1)
	for _, p := range states1 {
		for _, q := range states2 {
			ps := pairState{p, q}
			index[ps] = next
			order = append(order, ps)
			next++
		}
	}

	b := newBuilder()
	for _, ps := range order {
		b.addState(index[ps])
	}
	b.start = index[pairState{a1.start, a2.start}]

	symbols := util.NewStringSet(a1.Symbols()...)
	symbols.AddAll(util.NewStringSet(a2.Symbols()...))
	hasEps := a1.hasEpsilon() || a2.hasEpsilon()

	for _, ps := range order {
		src := index[ps]

		if hasEps {
			for _, pPrime := range a1.Successors(ps.p, Epsilon) {
				b.addTransition(src, index[pairState{pPrime, ps.q}], Epsilon)
			}
			for _, qPrime := range a2.Successors(ps.q, Epsilon) {
				b.addTransition(src, index[pairState{ps.p, qPrime}], Epsilon)
			}
		}

		for _, sym := range symbols.Sorted() {
			p1 := a1.Successors(ps.p, sym)
			p2 := a2.Successors(ps.q, sym)
			if len(p1) == 0 || len(p2) == 0 {
				continue
			}
			for _, pPrime := range p1 {
				for _, qPrime := range p2 {
					b.addTransition(src, index[pairState{pPrime, qPrime}], sym)
				}
			}
		}
	}

	for _, f1 := range a1.Final() {
		for _, f2 := range a2.Final() {
			b.addFinal(index[pairState{f1, f2}])
		}
	}

	out, err := b.build()
	if err != nil {
		panic(fmt.Sprintf("Product: invariant violated: %v", err))
	}
	return out
}

// Determinize converts an NFA to a DFA via subset construction (spec.md
// §4.B): the initial D-state is ε-closure({q0}); a worklist computes
// move(S, a) for each non-ε symbol until no new D-state is discovered.
// D-states are numbered 1..n in discovery order.
func Determinize(n NFA) DFA {
	a := n.FA
	symbols := a.Symbols()

	initial := a.EpsilonClosure(a.start)

	type dsKey string
	keyOf := func(s util.IntSet) dsKey { return dsKey(s.String()) }

	discovered := map[dsKey]util.IntSet{}
	names := map[dsKey]State{}
	var order []dsKey

	register := func(s util.IntSet) State {
		k := keyOf(s)
		if name, ok := names[k]; ok {
			return name
		}
		name := State(len(order) + 1)
		discovered[k] = s
		names[k] = name
		order = append(order, k)
		return name
	}

	initialName := register(initial)

	b := newBuilder()
	b.start = initialName
	b.addState(initialName)

	for i := 0; i < len(order); i++ {
		k := order[i]
		s := discovered[k]
		name := names[k]

		for _, sym := range symbols {
			move := util.NewIntSet()
			for _, q := range s.Sorted() {
				for _, succ := range a.Successors(State(q), sym) {
					move.AddAll(a.EpsilonClosure(succ))
				}
			}
			if move.Len() == 0 {
				continue
			}
			destName := register(move)
			b.addTransition(name, destName, sym)
		}
	}

	finalOrig := util.NewIntSet()
	for _, f := range a.Final() {
		finalOrig.Add(int(f))
	}
	for _, k := range order {
		s := discovered[k]
		for elem := range s {
			if finalOrig.Has(elem) {
				b.addFinal(names[k])
				break
			}
		}
	}

	out, err := b.build()
	if err != nil {
		panic(fmt.Sprintf("Determinize: invariant violated: %v", err))
	}
	dfa, err := AsDeterministic(out)
	if err != nil {
		panic(fmt.Sprintf("Determinize: result was not deterministic: %v", err))
	}
	return dfa
}
