// Package parse implements component G (LL(1) table construction and
// driver) and component H (canonical LR(0) collection, SLR(1) table
// construction and driver) of the flab workbench, grounded on
// original_source/src/Grammar.py's buildLLTable/readInputLL and
// buildSLRTable/readInputSLR.
package parse

import (
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/dekarrin/flab/internal/grammar"
	"github.com/dekarrin/flab/internal/util"
)

// LLTable is a predictive LL(1) parse table: a partial mapping from
// (nonterminal, lookahead terminal) to the production body to expand
// (spec.md §3, §4.G).
type LLTable struct {
	Grammar *grammar.Grammar
	entries map[llKey]grammar.Production
}

type llKey struct {
	nonTerminal string
	lookahead   string
}

// BuildLL1 builds the LL(1) table for g: left-factor, eliminate left
// recursion, compute FIRST/FOLLOW, then fill one table cell per
// (nonterminal, terminal) pair reachable from each production (spec.md
// §4.G). Returns NotLL1 if any ε-producing nonterminal has a non-empty
// FIRST∩FOLLOW intersection.
func BuildLL1(g *grammar.Grammar) (*LLTable, error) {
	factored, err := grammar.LeftFactor(g)
	if err != nil {
		return nil, err
	}
	prepared, err := grammar.RemoveLeftRecursion(factored)
	if err != nil {
		return nil, err
	}

	first, err := grammar.FIRST(prepared)
	if err != nil {
		return nil, err
	}
	follow, err := grammar.FOLLOW(prepared)
	if err != nil {
		return nil, err
	}

	for _, nt := range prepared.NonTerminals() {
		if hasEpsilonProduction(prepared, nt) && intersects(first[nt], follow[nt]) {
			return nil, ferrors.New(ferrors.NotLL1, "FIRST(%s) and FOLLOW(%s) intersect", nt, nt)
		}
	}

	table := &LLTable{Grammar: prepared, entries: map[llKey]grammar.Production{}}

	for _, nt := range prepared.NonTerminals() {
		for _, body := range prepared.Productions(nt) {
			bodyFirst := firstOfBody(prepared, first, body)
			for _, a := range bodyFirst.Sorted() {
				if a == grammar.Epsilon {
					continue
				}
				table.set(nt, a, body)
			}
			if bodyFirst.Has(grammar.Epsilon) {
				for _, b := range follow[nt].Sorted() {
					table.set(nt, b, body)
				}
			}
		}
	}

	return table, nil
}

func (t *LLTable) set(nt, lookahead string, body grammar.Production) {
	t.entries[llKey{nt, lookahead}] = body
}

// Lookup returns the production body for (nonterminal, lookahead), if any.
func (t *LLTable) Lookup(nt, lookahead string) (grammar.Production, bool) {
	b, ok := t.entries[llKey{nt, lookahead}]
	return b, ok
}

// String renders the LL(1) table as a grid, one row per nonterminal and one
// column per terminal (including $), grounded on SLRTable.String()'s use of
// rosed.Edit("").InsertTableOpts(...).
func (t *LLTable) String() string {
	terms := append(append([]string{}, t.Grammar.Terminals()...), grammar.EndOfInput)

	headers := []string{"NT", "|"}
	headers = append(headers, terms...)
	data := [][]string{headers}

	for _, nt := range t.Grammar.NonTerminals() {
		row := []string{nt, "|"}
		for _, term := range terms {
			cell := ""
			if body, ok := t.Lookup(nt, term); ok {
				cell = body.String()
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func hasEpsilonProduction(g *grammar.Grammar, nt string) bool {
	for _, body := range g.Productions(nt) {
		if body.IsEpsilon() {
			return true
		}
	}
	return false
}

func intersects(a, b util.StringSet) bool {
	for _, v := range a.Sorted() {
		if v != grammar.Epsilon && b.Has(v) {
			return true
		}
	}
	return false
}

func firstOfBody(g *grammar.Grammar, first map[string]util.StringSet, body grammar.Production) util.StringSet {
	result := util.NewStringSet()
	if body.IsEpsilon() {
		result.Add(grammar.Epsilon)
		return result
	}

	allNullable := true
	for _, sym := range body {
		var symFirst util.StringSet
		if g.IsNonTerminalOf(sym) {
			symFirst = first[sym]
		} else {
			symFirst = util.NewStringSet(sym)
		}
		result.AddAllExcept(symFirst, grammar.Epsilon)
		if !symFirst.Has(grammar.Epsilon) {
			allNullable = false
			break
		}
	}
	if allNullable {
		result.Add(grammar.Epsilon)
	}
	return result
}

// ReadInputLL runs the stack-driven LL(1) recognizer of spec.md §4.G over a
// whitespace-separated token stream. It never errors on rejection; it
// returns false.
func ReadInputLL(table *LLTable, input string) bool {
	tokens := strings.Fields(input)
	tokens = append(tokens, grammar.EndOfInput)

	stack := util.NewStack[string]()
	stack.Push(grammar.EndOfInput)
	stack.Push(table.Grammar.StartSymbol())

	pos := 0
	read := tokens[pos]

	for {
		if stack.Empty() {
			return false
		}
		top := stack.Peek()

		switch {
		case top == read && read == grammar.EndOfInput:
			return true
		case top == read:
			stack.Pop()
			pos++
			read = tokens[pos]
		case table.Grammar.IsNonTerminalOf(top):
			body, ok := table.Lookup(top, read)
			if !ok {
				return false
			}
			stack.Pop()
			if !body.IsEpsilon() {
				for i := len(body) - 1; i >= 0; i-- {
					stack.Push(body[i])
				}
			}
		default:
			return false
		}
	}
}
