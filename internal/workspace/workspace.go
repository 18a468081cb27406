// Package workspace implements the twelve-operation menu's registry of
// loaded values (SPEC_FULL.md §6, supplemented feature 3): a plain value
// threaded through cmd/flab, grounded on the teacher's uuid.NewRandom()
// id-assignment pattern (server/dao/sqlite) rather than original_source's
// module-global Python dictionaries (spec.md Design Notes §9 on global
// state).
package workspace

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dekarrin/flab/internal/fa"
	"github.com/dekarrin/flab/internal/grammar"
	"github.com/dekarrin/flab/internal/parse"
)

// Handle is a short, stable reference to a value held in a Workspace —
// the first 8 characters of a fresh UUID, which the CLI echoes back to the
// user on load/build so later commands can refer to it.
type Handle string

// Kind tags what sort of value a Handle refers to, for listing.
type Kind string

const (
	KindFA       Kind = "fa"
	KindGrammar  Kind = "grammar"
	KindLL1      Kind = "ll1"
	KindSLR1     Kind = "slr1"
)

// Entry is one row of Workspace.List().
type Entry struct {
	Handle  Handle
	Kind    Kind
	Summary string
}

// Workspace holds every FA, grammar, and parse table loaded or built during
// a session. It carries no package-level state: cmd/flab's session holds
// one *Workspace and every operation goes through that pointer, so a caller
// running several workspaces (e.g. in tests) never shares mutable state
// between them.
type Workspace struct {
	order    []Handle
	automata map[Handle]fa.FA
	grammars map[Handle]*grammar.Grammar
	ll1s     map[Handle]*parse.LLTable
	slr1s    map[Handle]*parse.SLRTable
	kinds    map[Handle]Kind
}

// New builds an empty Workspace.
func New() *Workspace {
	return &Workspace{
		automata: map[Handle]fa.FA{},
		grammars: map[Handle]*grammar.Grammar{},
		ll1s:     map[Handle]*parse.LLTable{},
		slr1s:    map[Handle]*parse.SLRTable{},
		kinds:    map[Handle]Kind{},
	}
}

func freshHandle() Handle {
	id := uuid.New()
	return Handle(id.String()[:8])
}

func (w *Workspace) register(kind Kind) Handle {
	h := freshHandle()
	for w.kinds[h] != "" {
		h = freshHandle()
	}
	w.kinds[h] = kind
	w.order = append(w.order, h)
	return h
}

// PutFA stores a and returns its new handle.
func (w *Workspace) PutFA(a fa.FA) Handle {
	h := w.register(KindFA)
	w.automata[h] = a
	return h
}

// FA retrieves a previously stored automaton.
func (w *Workspace) FA(h Handle) (fa.FA, bool) {
	a, ok := w.automata[h]
	return a, ok
}

// PutGrammar stores g and returns its new handle.
func (w *Workspace) PutGrammar(g *grammar.Grammar) Handle {
	h := w.register(KindGrammar)
	w.grammars[h] = g
	return h
}

// Grammar retrieves a previously stored grammar.
func (w *Workspace) Grammar(h Handle) (*grammar.Grammar, bool) {
	g, ok := w.grammars[h]
	return g, ok
}

// PutLL1 stores an LL(1) table and returns its new handle.
func (w *Workspace) PutLL1(t *parse.LLTable) Handle {
	h := w.register(KindLL1)
	w.ll1s[h] = t
	return h
}

// LL1 retrieves a previously stored LL(1) table.
func (w *Workspace) LL1(h Handle) (*parse.LLTable, bool) {
	t, ok := w.ll1s[h]
	return t, ok
}

// PutSLR1 stores an SLR(1) table and returns its new handle.
func (w *Workspace) PutSLR1(t *parse.SLRTable) Handle {
	h := w.register(KindSLR1)
	w.slr1s[h] = t
	return h
}

// SLR1 retrieves a previously stored SLR(1) table.
func (w *Workspace) SLR1(h Handle) (*parse.SLRTable, bool) {
	t, ok := w.slr1s[h]
	return t, ok
}

// List returns every entry currently held, in the order each was added.
func (w *Workspace) List() []Entry {
	out := make([]Entry, 0, len(w.order))
	for _, h := range w.order {
		var summary string
		switch w.kinds[h] {
		case KindFA:
			a := w.automata[h]
			summary = fmt.Sprintf("%d states, start %d", len(a.States()), a.Start())
		case KindGrammar:
			g := w.grammars[h]
			summary = fmt.Sprintf("start %s, %d nonterminals", g.StartSymbol(), len(g.NonTerminals()))
		case KindLL1:
			summary = fmt.Sprintf("start %s", w.ll1s[h].Grammar.StartSymbol())
		case KindSLR1:
			summary = fmt.Sprintf("%d states", len(w.slr1s[h].Collection.States))
		}
		out = append(out, Entry{Handle: h, Kind: w.kinds[h], Summary: summary})
	}
	return out
}
