package regex

import (
	"github.com/dekarrin/flab/internal/fa"
	"github.com/dekarrin/flab/internal/util"
)

// ToDFA parses raw as a regex and builds its minimal-construction-effort DFA
// directly from followpos, without an intermediate NFA (spec.md §2, §4.D):
//
//  1. S0 = firstPos(root).
//  2. A worklist of D-states (each a set of positions); for the current
//     state S and each distinct symbol labeling a position in S (excluding
//     #), U = the union of followPos(p) for p in S with that label. Add an
//     edge S --a--> U, enqueueing U if new.
//  3. A D-state is accepting iff it contains the position of #.
//  4. D-states are numbered 1..n in discovery order; q0 = 1.
func ToDFA(raw string) (fa.DFA, error) {
	root, dict, err := Parse(raw)
	if err != nil {
		return fa.DFA{}, err
	}

	follow := FollowPos(root)

	hashPos := -1
	for pos, sym := range dict {
		if sym == EndMarker {
			hashPos = pos
		}
	}

	type dsKey string
	keyOf := func(s util.IntSet) dsKey { return dsKey(s.String()) }

	discovered := map[dsKey]util.IntSet{}
	names := map[dsKey]fa.State{}
	var order []dsKey

	register := func(s util.IntSet) fa.State {
		k := keyOf(s)
		if name, ok := names[k]; ok {
			return name
		}
		name := fa.State(len(order) + 1)
		discovered[k] = s
		names[k] = name
		order = append(order, k)
		return name
	}

	s0 := root.FirstPos()
	initialName := register(s0)

	states := []fa.State{initialName}
	transitions := map[fa.Edge][]string{}
	var final []fa.State

	for i := 0; i < len(order); i++ {
		k := order[i]
		s := discovered[k]
		name := names[k]

		symbolsInS := util.NewStringSet()
		for _, pos := range s.Sorted() {
			if sym := dict[pos]; sym != EndMarker {
				symbolsInS.Add(sym)
			}
		}

		for _, sym := range symbolsInS.Sorted() {
			union := util.NewIntSet()
			for _, pos := range s.Sorted() {
				if dict[pos] == sym {
					union.AddAll(follow[pos])
				}
			}
			destName := register(union)
			if destName == fa.State(len(states)+1) {
				states = append(states, destName)
			}
			edge := fa.Edge{Src: name, Dst: destName}
			transitions[edge] = append(transitions[edge], sym)
		}
	}

	for _, k := range order {
		s := discovered[k]
		if s.Has(hashPos) {
			final = append(final, names[k])
		}
	}

	built, err := fa.New(states, transitions, initialName, final)
	if err != nil {
		return fa.DFA{}, err
	}
	return fa.AsDeterministic(built)
}
