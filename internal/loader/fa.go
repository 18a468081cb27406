// Package loader implements the external (non-core) file readers and
// writers of spec.md §6: the automaton and grammar plaintext formats, plus
// a transition-table pretty-printer. It is the only place outside
// cmd/flab that touches the filesystem (spec.md §5).
package loader

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/flab/internal/fa"
	"github.com/dekarrin/flab/internal/ferrors"
)

// LoadFA reads spec.md §6's automaton format from r:
//
//	*vertices N
//	*initial i
//	*final f1 f2 …
//	*transitions
//	src > dst | sym1 sym2 …
//
// States are 1..N. "&" denotes ε. Blank lines are ignored; any other
// structural deviation reports InvalidFile.
func LoadFA(r io.Reader) (fa.FA, error) {
	lines, err := readNonBlankLines(r)
	if err != nil {
		return fa.FA{}, ferrors.Wrap(ferrors.InvalidFile, err, "reading automaton file")
	}

	var n int
	var initial int
	var final []fa.State
	haveVertices, haveInitial, haveFinal := false, false, false
	transitionsIdx := -1

	for i, line := range lines {
		fields := strings.Fields(line)
		switch fields[0] {
		case "*vertices":
			if len(fields) != 2 {
				return fa.FA{}, ferrors.New(ferrors.InvalidFile, "*vertices line must have exactly one count")
			}
			n, err = strconv.Atoi(fields[1])
			if err != nil {
				return fa.FA{}, ferrors.Wrap(ferrors.InvalidFile, err, "*vertices count is not an integer")
			}
			haveVertices = true
		case "*initial":
			if len(fields) != 2 {
				return fa.FA{}, ferrors.New(ferrors.InvalidFile, "*initial line must have exactly one state")
			}
			initial, err = strconv.Atoi(fields[1])
			if err != nil {
				return fa.FA{}, ferrors.Wrap(ferrors.InvalidFile, err, "*initial state is not an integer")
			}
			haveInitial = true
		case "*final":
			for _, f := range fields[1:] {
				v, err := strconv.Atoi(f)
				if err != nil {
					return fa.FA{}, ferrors.Wrap(ferrors.InvalidFile, err, "*final state %q is not an integer", f)
				}
				final = append(final, fa.State(v))
			}
			haveFinal = true
		case "*transitions":
			transitionsIdx = i
		default:
			return fa.FA{}, ferrors.New(ferrors.InvalidFile, "unexpected line before *transitions: %q", line)
		}
		if transitionsIdx != -1 {
			break
		}
	}

	if !haveVertices || !haveInitial || !haveFinal || transitionsIdx == -1 {
		return fa.FA{}, ferrors.New(ferrors.InvalidFile, "missing one of *vertices/*initial/*final/*transitions")
	}

	states := make([]fa.State, n)
	for i := 0; i < n; i++ {
		states[i] = fa.State(i + 1)
	}

	transitions := map[fa.Edge][]string{}
	for _, line := range lines[transitionsIdx+1:] {
		edge, syms, err := parseTransitionLine(line)
		if err != nil {
			return fa.FA{}, err
		}
		transitions[edge] = append(transitions[edge], syms...)
	}

	return fa.New(states, transitions, fa.State(initial), final)
}

// parseTransitionLine parses "src > dst | sym1 sym2 …".
func parseTransitionLine(line string) (fa.Edge, []string, error) {
	arrow := strings.SplitN(line, ">", 2)
	if len(arrow) != 2 {
		return fa.Edge{}, nil, ferrors.New(ferrors.InvalidFile, "transition line missing '>': %q", line)
	}
	src, err := strconv.Atoi(strings.TrimSpace(arrow[0]))
	if err != nil {
		return fa.Edge{}, nil, ferrors.Wrap(ferrors.InvalidFile, err, "transition source is not an integer: %q", line)
	}

	pipe := strings.SplitN(arrow[1], "|", 2)
	if len(pipe) != 2 {
		return fa.Edge{}, nil, ferrors.New(ferrors.InvalidFile, "transition line missing '|': %q", line)
	}
	dst, err := strconv.Atoi(strings.TrimSpace(pipe[0]))
	if err != nil {
		return fa.Edge{}, nil, ferrors.Wrap(ferrors.InvalidFile, err, "transition destination is not an integer: %q", line)
	}

	syms := strings.Fields(pipe[1])
	if len(syms) == 0 {
		return fa.Edge{}, nil, ferrors.New(ferrors.InvalidFile, "transition line has no symbols: %q", line)
	}
	for i, s := range syms {
		if s == "&" {
			syms[i] = fa.Epsilon
		}
	}

	return fa.Edge{Src: fa.State(src), Dst: fa.State(dst)}, syms, nil
}

// SaveFA writes a to w in spec.md §6's automaton format.
func SaveFA(w io.Writer, a fa.FA) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "*vertices %d\n", len(a.States()))
	fmt.Fprintf(bw, "*initial %d\n", a.Start())

	finalStrs := make([]string, len(a.Final()))
	for i, f := range a.Final() {
		finalStrs[i] = strconv.Itoa(int(f))
	}
	fmt.Fprintf(bw, "*final %s\n", strings.Join(finalStrs, " "))
	fmt.Fprintln(bw, "*transitions")

	var edges []fa.Edge
	for _, src := range a.States() {
		for _, dst := range a.States() {
			if syms := a.EdgeSymbols(src, dst); len(syms) > 0 {
				edges = append(edges, fa.Edge{Src: src, Dst: dst})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Src != edges[j].Src {
			return edges[i].Src < edges[j].Src
		}
		return edges[i].Dst < edges[j].Dst
	})

	for _, e := range edges {
		syms := a.EdgeSymbols(e.Src, e.Dst)
		out := make([]string, len(syms))
		for i, s := range syms {
			if s == fa.Epsilon {
				out[i] = "&"
			} else {
				out[i] = s
			}
		}
		fmt.Fprintf(bw, "%d > %d | %s\n", e.Src, e.Dst, strings.Join(out, " "))
	}

	return bw.Flush()
}

// RenderTable renders a as a transition table (terminal columns, state
// rows, an arrow marking the initial state and a star marking accepting
// states), restoring original_source/src/AF.py's toTable/printAF — a
// feature spec.md's distillation dropped but whose Non-goals don't exclude.
func RenderTable(a fa.FA) string {
	cols := a.Symbols()

	headers := []string{"state"}
	headers = append(headers, cols...)
	data := [][]string{headers}

	for _, q := range a.States() {
		label := strconv.Itoa(int(q))
		if q == a.Start() {
			label = "->" + label
		}
		if a.IsFinal(q) {
			label = "*" + label
		}
		row := []string{label}
		for _, sym := range cols {
			succ := a.Successors(q, sym)
			strs := make([]string, len(succ))
			for i, s := range succ {
				strs[i] = strconv.Itoa(int(s))
			}
			row = append(row, strings.Join(strs, ","))
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

func readNonBlankLines(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}
