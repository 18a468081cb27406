package grammar

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/dekarrin/flab/internal/util"
)

// bodyMap is the working representation transform passes iterate on: a
// snapshot of every nonterminal's bodies, independent of any particular
// Grammar value, plus the order nonterminals were first seen in.
type bodyMap map[string][]Production

func snapshot(g *Grammar) (bodyMap, []string) {
	bodies := bodyMap{}
	order := g.NonTerminals()
	for _, nt := range order {
		bodies[nt] = append([]Production(nil), g.Productions(nt)...)
	}
	return bodies, order
}

func toGrammar(bodies bodyMap, order []string, ceiling int) *Grammar {
	out := New(WithIterationCeiling(ceiling))
	for _, nt := range order {
		for _, b := range bodies[nt] {
			_ = out.AddProduction(nt, b)
		}
	}
	return out
}

// RemoveLeftRecursion eliminates both direct and indirect left recursion
// (spec.md §4.F), visiting nonterminals in g's insertion order. It returns a
// fresh Grammar; g is untouched.
func RemoveLeftRecursion(g *Grammar) (*Grammar, error) {
	if !g.IsContextFree() {
		return nil, ferrors.New(ferrors.NotContextFree, "left-recursion elimination requires a context-free grammar")
	}

	bodies, order := snapshot(g)
	visited := util.NewStringSet()

	for _, nt := range order {
		substituted, err := substituteIndirectHeads(bodies, nt, visited, g.ceiling)
		if err != nil {
			return nil, err
		}

		var lr, nr []Production
		for _, body := range substituted {
			if len(body) > 0 && body[0] == nt {
				lr = append(lr, body)
			} else {
				nr = append(nr, body)
			}
		}

		if len(lr) == 0 {
			bodies[nt] = nr
		} else {
			primed := nt + "'"
			for {
				if _, taken := bodies[primed]; !taken {
					break
				}
				primed += "'"
			}
			var primaryBodies []Production
			if len(nr) == 0 {
				primaryBodies = []Production{{primed}}
			} else {
				for _, body := range nr {
					primaryBodies = append(primaryBodies, appendSymbol(body, primed))
				}
			}

			var primedBodies []Production
			for _, body := range lr {
				primedBodies = append(primedBodies, appendSymbol(body[1:], primed))
			}
			primedBodies = append(primedBodies, Production{Epsilon})

			bodies[nt] = primaryBodies
			order = append(order, primed)
			bodies[primed] = primedBodies
		}

		visited.Add(nt)
	}

	return toGrammar(bodies, order, g.ceiling), nil
}

// substituteIndirectHeads repeatedly replaces any production of nt beginning
// with an already-visited nonterminal B by the concatenation of each of B's
// current bodies with the rest of the production, until no production of nt
// starts with a visited nonterminal (spec.md §4.F step 1).
func substituteIndirectHeads(bodies bodyMap, nt string, visited util.StringSet, ceiling int) ([]Production, error) {
	current := bodies[nt]
	for round := 0; ; round++ {
		if round >= ceiling {
			return nil, ferrors.New(ferrors.IterationLimit, "left-recursion elimination did not converge substituting indirect heads into %s", nt)
		}

		changed := false
		var next []Production
		for _, body := range current {
			if len(body) > 0 && visited.Has(body[0]) {
				changed = true
				head := body[0]
				rest := body[1:]
				for _, hb := range bodies[head] {
					if hb.IsEpsilon() {
						next = append(next, append(Production(nil), rest...))
					} else {
						next = append(next, appendTail(hb, rest))
					}
				}
			} else {
				next = append(next, body)
			}
		}
		current = next
		if !changed {
			return current, nil
		}
	}
}

func appendSymbol(body Production, sym Symbol) Production {
	out := make(Production, 0, len(body)+1)
	out = append(out, body...)
	out = append(out, sym)
	return out
}

func appendTail(head, tail Production) Production {
	out := make(Production, 0, len(head)+len(tail))
	out = append(out, head...)
	out = append(out, tail...)
	return out
}

// LeftFactor removes ambiguity from common prefixes among a nonterminal's
// bodies (spec.md §4.F): direct factoring to a fixed point, then indirect
// factoring rounds (expanding bodies headed by another nonterminal before
// re-running direct factoring) to a fixed point, with both passes together
// bounded by g's iteration ceiling.
func LeftFactor(g *Grammar) (*Grammar, error) {
	if !g.IsContextFree() {
		return nil, ferrors.New(ferrors.NotContextFree, "left factoring requires a context-free grammar")
	}

	bodies, order := snapshot(g)
	counter := 0

	for {
		next, nextOrder := directFactorRound(bodies, order)
		counter++
		if counter >= g.ceiling {
			return nil, ferrors.New(ferrors.IterationLimit, "left factoring did not converge (direct pass)")
		}
		stable := reflect.DeepEqual(bodies, next)
		bodies, order = next, nextOrder
		if stable {
			break
		}
	}

	for {
		next, nextOrder, err := indirectFactorRound(bodies, order, g.ceiling)
		if err != nil {
			return nil, err
		}
		counter++
		if counter >= g.ceiling {
			return nil, ferrors.New(ferrors.IterationLimit, "left factoring did not converge (indirect pass)")
		}
		stable := reflect.DeepEqual(bodies, next)
		bodies, order = next, nextOrder
		if stable {
			break
		}
	}

	return toGrammar(bodies, order, g.ceiling), nil
}

// directFactorRound regroups every nonterminal's bodies by shared first
// symbol, splitting any group of two or more into a fresh nonterminal
// (spec.md §4.F). It processes nonterminals in order, so a fresh
// nonterminal introduced this round is itself regrouped on the next round.
func directFactorRound(bodies bodyMap, order []string) (bodyMap, []string) {
	out := bodyMap{}
	var outOrder []string
	seen := util.NewStringSet()
	put := func(nt string, b Production) {
		if !seen.Has(nt) {
			seen.Add(nt)
			outOrder = append(outOrder, nt)
		}
		out[nt] = append(out[nt], b)
	}

	for _, nt := range order {
		groups := groupByFirstSymbol(bodies[nt])
		count := 1
		for _, grp := range groups {
			if len(grp.items) > 1 {
				fresh := fmt.Sprintf("%s%d", nt, count)
				count++
				put(nt, Production{grp.key, fresh})
				for _, item := range grp.items {
					tail := item[1:]
					if len(tail) == 0 {
						tail = Production{Epsilon}
					}
					put(fresh, append(Production(nil), tail...))
				}
			} else {
				put(nt, grp.items[0])
			}
		}
	}

	return out, outOrder
}

type prefixGroup struct {
	key   string
	items []Production
}

// groupByFirstSymbol sorts bodies lexicographically (by their full symbol
// sequence) and groups consecutive runs sharing a first symbol — the same
// stable grouping original_source/src/Grammar.py gets from
// `groupby(sorted(productions), itemgetter(0))`.
func groupByFirstSymbol(bodies []Production) []prefixGroup {
	sorted := append([]Production(nil), bodies...)
	sort.Slice(sorted, func(i, j int) bool {
		return compareProductions(sorted[i], sorted[j]) < 0
	})

	var groups []prefixGroup
	for _, b := range sorted {
		key := ""
		if len(b) > 0 {
			key = b[0]
		}
		if len(groups) > 0 && groups[len(groups)-1].key == key {
			groups[len(groups)-1].items = append(groups[len(groups)-1].items, b)
		} else {
			groups = append(groups, prefixGroup{key: key, items: []Production{b}})
		}
	}
	return groups
}

func compareProductions(a, b Production) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// indirectFactorRound expands, for every nonterminal A, each body whose head
// is another nonterminal not yet expanded for A — substituting in that
// nonterminal's current bodies, repeatedly until no body of A starts with
// such a nonterminal — then re-runs direct factoring (spec.md §4.F's
// indirect-factoring step).
func indirectFactorRound(bodies bodyMap, order []string, ceiling int) (bodyMap, []string, error) {
	expanded := bodyMap{}
	for _, nt := range order {
		visited := util.NewStringSet(nt)
		next, err := expandIndirectHeads(bodies, bodies[nt], visited, ceiling)
		if err != nil {
			return nil, nil, err
		}
		expanded[nt] = next
	}
	return directFactorRound(expanded, order)
}

func expandIndirectHeads(bodies bodyMap, current []Production, visited util.StringSet, ceiling int) ([]Production, error) {
	for round := 0; ; round++ {
		if round >= ceiling {
			return nil, ferrors.New(ferrors.IterationLimit, "left factoring did not converge expanding indirect heads")
		}

		var lr, nr []Production
		for _, body := range current {
			head := ""
			if len(body) > 0 {
				head = body[0]
			}
			if _, isNT := bodies[head]; isNT && !visited.Has(head) {
				lr = append(lr, body)
			} else {
				nr = append(nr, body)
			}
		}
		for _, body := range lr {
			visited.Add(body[0])
		}

		if len(lr) == 0 {
			return nr, nil
		}

		var next []Production
		for _, body := range lr {
			rest := body[1:]
			for _, hb := range bodies[body[0]] {
				if hb.IsEpsilon() && len(rest) > 0 {
					next = append(next, append(Production(nil), rest...))
				} else {
					next = append(next, appendTail(hb, rest))
				}
			}
		}
		current = append(next, nr...)
	}
}
