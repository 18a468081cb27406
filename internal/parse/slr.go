package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/flab/internal/grammar"
)

// ActionKind tags one ACTION table cell (spec.md §4.H).
type ActionKind int

const (
	// ActionShift pushes Target and advances the input.
	ActionShift ActionKind = iota
	// ActionReduce pops len(Body) states and pushes GOTO(newTop, Head).
	ActionReduce
	// ActionAccept ends the driver loop successfully.
	ActionAccept
)

// Action is one populated ACTION table cell.
type Action struct {
	Kind   ActionKind
	Target int                 // state to shift to, for ActionShift
	Head   string              // reduction head, for ActionReduce
	Body   grammar.Production  // reduction body, for ActionReduce
}

func (act Action) String() string {
	switch act.Kind {
	case ActionAccept:
		return "ACTION<accept>"
	case ActionReduce:
		return fmt.Sprintf("ACTION<reduce %s -> %s>", act.Head, act.Body.String())
	case ActionShift:
		return fmt.Sprintf("ACTION<shift %d>", act.Target)
	default:
		return "ACTION<unknown>"
	}
}

type actionKey struct {
	state     int
	lookahead string
}

type gotoKey struct {
	state int
	symbol string
}

// SLRTable is a canonical LR(0) collection plus its SLR(1) ACTION/GOTO
// tables (spec.md §3's `LR`/`ACTION`/`GOTO` triple).
type SLRTable struct {
	Grammar    *grammar.Grammar
	Collection *grammar.LR0Collection
	startPrime string
	action     map[actionKey]Action
	goTo       map[gotoKey]int
}

// BuildSLR1 builds the SLR(1) table for g (spec.md §4.H): augments g with a
// fresh start symbol S' -> S, eliminates left recursion on the augmented
// grammar, computes FOLLOW, builds the canonical LR(0) collection, then
// fills ACTION/GOTO per the shift/reduce/accept/goto rules. On conflict the
// later write wins (the spec's documented Open Question resolution); no
// GrammarConflict is raised.
func BuildSLR1(g *grammar.Grammar) (*SLRTable, error) {
	startPrime := freshStartName(g)

	augmented := grammar.New(grammar.WithIterationCeiling(g.Ceiling()))
	if err := augmented.AddProduction(startPrime, grammar.Production{g.StartSymbol()}); err != nil {
		return nil, err
	}
	for _, nt := range g.NonTerminals() {
		for _, body := range g.Productions(nt) {
			if err := augmented.AddProduction(nt, body); err != nil {
				return nil, err
			}
		}
	}

	prepared, err := grammar.RemoveLeftRecursion(augmented)
	if err != nil {
		return nil, err
	}

	follow, err := grammar.FOLLOW(prepared)
	if err != nil {
		return nil, err
	}

	collection, transitions, err := grammar.BuildLR0Collection(prepared)
	if err != nil {
		return nil, err
	}

	table := &SLRTable{
		Grammar:    prepared,
		Collection: collection,
		startPrime: startPrime,
		action:     map[actionKey]Action{},
		goTo:       map[gotoKey]int{},
	}

	for i, state := range collection.States {
		for _, it := range state.Items() {
			sym, hasNext := it.NextSymbol()

			switch {
			case it.Head == startPrime && it.AtEnd():
				table.action[actionKey{i, grammar.EndOfInput}] = Action{Kind: ActionAccept}

			case hasNext && !prepared.IsNonTerminalOf(sym):
				if target, ok := transitions[grammar.TransitionKey{State: i, Symbol: sym}]; ok {
					table.action[actionKey{i, sym}] = Action{Kind: ActionShift, Target: target}
				}

			case !hasNext && it.Head != startPrime:
				for _, b := range follow[it.Head].Sorted() {
					table.action[actionKey{i, b}] = Action{Kind: ActionReduce, Head: it.Head, Body: it.Body}
				}
			}
		}

		for _, nt := range prepared.NonTerminals() {
			if target, ok := transitions[grammar.TransitionKey{State: i, Symbol: nt}]; ok {
				table.goTo[gotoKey{i, nt}] = target
			}
		}
	}

	return table, nil
}

// String renders the ACTION/GOTO tables as a grid: one row per state, one
// "A:<terminal>" column per terminal (including $) and one "G:<nonterminal>"
// column per nonterminal, grounded on ictiobus/parse/slr.go's own table
// dump via rosed.
func (t *SLRTable) String() string {
	terms := append(append([]string{}, t.Grammar.Terminals()...), grammar.EndOfInput)
	nonTerms := t.Grammar.NonTerminals()

	headers := []string{"S", "|"}
	for _, term := range terms {
		headers = append(headers, fmt.Sprintf("A:%s", term))
	}
	headers = append(headers, "|")
	for _, nt := range nonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}

	data := [][]string{headers}
	for i := range t.Collection.States {
		row := []string{fmt.Sprintf("%d", i), "|"}
		for _, term := range terms {
			cell := ""
			if act, ok := t.action[actionKey{i, term}]; ok {
				cell = act.String()
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range nonTerms {
			cell := ""
			if target, ok := t.goTo[gotoKey{i, nt}]; ok {
				cell = fmt.Sprintf("%d", target)
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

// freshStartName returns the original start symbol's name with a trailing
// "'" repeated until it no longer collides with an existing nonterminal
// (spec.md §4.H: "the original start's name with a fresh suffix").
func freshStartName(g *grammar.Grammar) string {
	name := g.StartSymbol() + "'"
	for g.IsNonTerminalOf(name) {
		name += "'"
	}
	return name
}

// ReadInputSLR runs the shift-reduce driver of spec.md §4.H over a
// whitespace-separated token stream.
func ReadInputSLR(table *SLRTable, input string) bool {
	tokens := strings.Fields(input)
	tokens = append(tokens, grammar.EndOfInput)

	states := []int{0}
	pos := 0

	for {
		top := states[len(states)-1]
		lookahead := tokens[pos]

		act, ok := table.action[actionKey{top, lookahead}]
		if !ok {
			return false
		}

		switch act.Kind {
		case ActionAccept:
			return true
		case ActionShift:
			states = append(states, act.Target)
			pos++
		case ActionReduce:
			n := len(act.Body)
			states = states[:len(states)-n]
			newTop := states[len(states)-1]
			next, ok := table.goTo[gotoKey{newTop, act.Head}]
			if !ok {
				return false
			}
			states = append(states, next)
		}
	}
}
