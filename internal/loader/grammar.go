package loader

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/dekarrin/flab/internal/grammar"
)

// LoadGrammar reads spec.md §6's grammar format from r:
//
//	A -> α1 α2 … | β1 β2 … | …
//
// Comment lines begin with "--" and are skipped. Multiple lines sharing the
// same left-hand side extend that nonterminal's bodies, grounded on
// original_source/src/Grammar.py's fromFile (split on "->", then "|"). opts
// are forwarded to grammar.New, e.g. to thread a caller-configured iteration
// ceiling through rather than relying on the package default.
func LoadGrammar(r io.Reader, opts ...grammar.Option) (*grammar.Grammar, error) {
	g := grammar.New(opts...)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}

		sides := strings.SplitN(line, "->", 2)
		if len(sides) != 2 {
			return nil, ferrors.New(ferrors.InvalidFile, "production line missing '->': %q", line)
		}

		nt := strings.TrimSpace(sides[0])
		if nt == "" {
			return nil, ferrors.New(ferrors.InvalidFile, "production line has empty left-hand side: %q", line)
		}

		for _, alt := range strings.Split(sides[1], "|") {
			fields := strings.Fields(alt)
			if len(fields) == 0 {
				return nil, ferrors.New(ferrors.InvalidFile, "production alternative is empty: %q", line)
			}
			if err := g.AddProduction(nt, grammar.Production(fields)); err != nil {
				return nil, ferrors.Wrap(ferrors.InvalidFile, err, "invalid production: %q", line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ferrors.Wrap(ferrors.InvalidFile, err, "reading grammar file")
	}

	if len(g.NonTerminals()) == 0 {
		return nil, ferrors.New(ferrors.InvalidFile, "grammar file has no productions")
	}

	return g, nil
}

// SaveGrammar writes g to w in spec.md §6's grammar format, one line per
// nonterminal in insertion order.
func SaveGrammar(w io.Writer, g *grammar.Grammar) error {
	bw := bufio.NewWriter(w)
	for _, nt := range g.NonTerminals() {
		bodies := g.Productions(nt)
		alts := make([]string, len(bodies))
		for i, b := range bodies {
			alts[i] = b.String()
		}
		if _, err := fmt.Fprintf(bw, "%s -> %s\n", nt, strings.Join(alts, " | ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
