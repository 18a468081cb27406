package grammar

import (
	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/dekarrin/flab/internal/util"
)

// checkNotLeftRecursive implements spec.md §4.E's FIRST precondition: run
// left-recursion elimination and compare the resulting nonterminal set to
// g's own. An unequal key set means g was left-recursive (removal had to
// introduce primed nonterminals), so FIRST/FOLLOW refuse to run on it
// (Design Notes §9 calls for memoizing FIRST behind this same pre-check,
// rather than the source's unmemoized recursion).
func checkNotLeftRecursive(g *Grammar) error {
	removed, err := RemoveLeftRecursion(g)
	if err != nil {
		return err
	}
	orig := util.NewStringSet(sortedProductionKeys(g)...)
	after := util.NewStringSet(sortedProductionKeys(removed)...)
	if !orig.Equal(after) {
		return ferrors.New(ferrors.LeftRecursive, "grammar is left-recursive")
	}
	return nil
}

// firstSets memoizes FIRST(X) for every nonterminal X, computed per spec.md
// §4.E. Unlike original_source/src/Grammar.py's unmemoized generateFirst,
// every nonterminal is computed once and cached, since a grammar with wide
// sharing between nonterminals would otherwise recompute the same FIRST set
// exponentially often.
type firstSets struct {
	g     *Grammar
	cache map[string]util.StringSet
}

func newFirstSets(g *Grammar) *firstSets {
	return &firstSets{g: g, cache: map[string]util.StringSet{}}
}

// of returns FIRST(sym): {sym} if sym is a terminal, else the memoized
// nonterminal computation.
func (fs *firstSets) of(sym string) util.StringSet {
	if !fs.g.IsNonTerminalOf(sym) {
		return util.NewStringSet(sym)
	}
	if cached, ok := fs.cache[sym]; ok {
		return cached
	}

	// Guard against re-entrant computation of the same nonterminal while it
	// is still being computed: return an empty working set so mutual
	// recursion terminates; the precondition check already ruled out left
	// recursion, so no nonterminal's FIRST set actually depends on its own
	// unfinished value through a chain of nonterminals with position 0.
	fs.cache[sym] = util.NewStringSet()

	result := util.NewStringSet()
	for _, body := range fs.g.Productions(sym) {
		if body.IsEpsilon() {
			result.Add(Epsilon)
			continue
		}

		allNullable := true
		for _, s := range body {
			sFirst := fs.of(s)
			result.AddAllExcept(sFirst, Epsilon)
			if !sFirst.Has(Epsilon) {
				allNullable = false
				break
			}
		}
		if allNullable {
			result.Add(Epsilon)
		}
	}

	fs.cache[sym] = result
	return result
}

// ofBody computes FIRST(Y1 Y2 … Yk) for a full production body: the
// union of FIRST(Yi) \ {ε} for the leading nullable prefix, plus ε itself
// if every Yi is nullable (or the body is empty).
func (fs *firstSets) ofBody(body Production) util.StringSet {
	result := util.NewStringSet()
	if body.IsEpsilon() {
		result.Add(Epsilon)
		return result
	}

	allNullable := true
	for _, s := range body {
		sFirst := fs.of(s)
		result.AddAllExcept(sFirst, Epsilon)
		if !sFirst.Has(Epsilon) {
			allNullable = false
			break
		}
	}
	if allNullable {
		result.Add(Epsilon)
	}
	return result
}

// FIRST computes FIRST(X) for every nonterminal X of g (spec.md §4.E).
// Returns LeftRecursive if g is still left-recursive.
func FIRST(g *Grammar) (map[string]util.StringSet, error) {
	if err := checkNotLeftRecursive(g); err != nil {
		return nil, err
	}
	fs := newFirstSets(g)
	out := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		out[nt] = fs.of(nt)
	}
	return out, nil
}

// FOLLOW computes FOLLOW(X) for every nonterminal X of g (spec.md §4.E), by
// repeating the single pass over every production to a fixed point.
// Returns LeftRecursive if g is still left-recursive (FOLLOW depends on
// FIRST).
func FOLLOW(g *Grammar) (map[string]util.StringSet, error) {
	if err := checkNotLeftRecursive(g); err != nil {
		return nil, err
	}
	fs := newFirstSets(g)

	follow := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		follow[nt] = util.NewStringSet()
	}
	if start := g.StartSymbol(); start != "" {
		follow[start].Add(EndOfInput)
	}

	for round := 0; ; round++ {
		if round >= g.ceiling {
			return nil, ferrors.New(ferrors.IterationLimit, "FOLLOW did not converge")
		}

		sizeBefore := 0
		for _, s := range follow {
			sizeBefore += s.Len()
		}

		for _, nt := range g.NonTerminals() {
			for _, body := range g.Productions(nt) {
				if body.IsEpsilon() {
					continue
				}
				for i, sym := range body {
					if !g.IsNonTerminalOf(sym) {
						continue
					}
					rest := body[i+1:]
					restFirst := fs.ofBody(rest)
					follow[sym].AddAllExcept(restFirst, Epsilon)
					if len(rest) == 0 || restFirst.Has(Epsilon) {
						follow[sym].AddAll(follow[nt])
					}
				}
			}
		}

		sizeAfter := 0
		for _, s := range follow {
			sizeAfter += s.Len()
		}
		if sizeAfter == sizeBefore {
			break
		}
	}

	return follow, nil
}
