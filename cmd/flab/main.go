/*
Flab is an interactive workbench for finite automata, regular expressions,
and context-free grammars.

It loads automaton and grammar files in the formats described by the
project's file format spec, and exposes the twelve workbench operations
(load/save/print an FA, determinize, minimize, union, intersect, compile a
regex to a DFA, load a grammar, left-factor it, eliminate its left
recursion, and build+run an LL(1) or SLR(1) table) as both one-shot flags
and an interactive REPL.

Usage:

	flab [flags]

The flags are:

	-f, --fa FILE
		Load an automaton file at startup.

	-g, --grammar FILE
		Load a grammar file at startup.

	-o, --op OP
		Run a single operation non-interactively and exit: one of
		determinize, minimize, factor, left-recursion.

	-c, --ceiling N
		Override the fixed-point iteration ceiling (default 100).

	--config FILE
		Load the iteration ceiling from a TOML config file; a positive
		"ceiling" value there takes precedence over -c.

Once the REPL has started, type "help" for the list of commands. To exit,
type "quit" or send EOF.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/flab/internal/fa"
	"github.com/dekarrin/flab/internal/ferrors"
	"github.com/dekarrin/flab/internal/grammar"
	"github.com/dekarrin/flab/internal/loader"
	"github.com/dekarrin/flab/internal/parse"
	"github.com/dekarrin/flab/internal/regex"
	"github.com/dekarrin/flab/internal/workspace"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitRunError
)

var (
	returnCode int

	faFile       = pflag.StringP("fa", "f", "", "Load an automaton file at startup")
	grammarFile  = pflag.StringP("grammar", "g", "", "Load a grammar file at startup")
	op           = pflag.StringP("op", "o", "", "Run a single operation non-interactively and exit")
	ceiling      = pflag.IntP("ceiling", "c", grammar.DefaultIterationCeiling, "Fixed-point iteration ceiling")
	configFile   = pflag.String("config", "", "TOML config file overriding the iteration ceiling")
)

// config is the optional TOML file's shape, parsed with toml.Unmarshal the
// way internal/tqw's world-loader does (tqw.go).
type config struct {
	Ceiling int `toml:"ceiling"`
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "flab: unrecoverable panic: %v\n", r)
			os.Exit(ExitRunError)
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	effectiveCeiling := *ceiling
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "flab: reading config: %v\n", err)
			returnCode = ExitInitError
			return
		}
		var cfg config
		if err := toml.Unmarshal(data, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "flab: parsing config: %v\n", err)
			returnCode = ExitInitError
			return
		}
		if cfg.Ceiling > 0 {
			effectiveCeiling = cfg.Ceiling
		}
	}

	ws := workspace.New()
	sess := &session{ws: ws, ceiling: effectiveCeiling}

	if *faFile != "" {
		if err := sess.loadFA(*faFile); err != nil {
			fmt.Fprintf(os.Stderr, "flab: %v\n", err)
			returnCode = ExitInitError
			return
		}
	}
	if *grammarFile != "" {
		if err := sess.loadGrammar(*grammarFile); err != nil {
			fmt.Fprintf(os.Stderr, "flab: %v\n", err)
			returnCode = ExitInitError
			return
		}
	}

	if *op != "" {
		if err := sess.runOneShot(*op); err != nil {
			fmt.Fprintf(os.Stderr, "flab: %v\n", err)
			returnCode = ExitRunError
		}
		return
	}

	if err := sess.repl(); err != nil {
		fmt.Fprintf(os.Stderr, "flab: %v\n", err)
		returnCode = ExitRunError
	}
}

// session holds the workspace and the one piece of mutable "current
// selection" state the REPL commands act on by default; everything else is
// addressed explicitly by handle.
type session struct {
	ws         *workspace.Workspace
	ceiling    int
	lastFA     workspace.Handle
	lastGrammar workspace.Handle
}

func (s *session) loadFA(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	a, err := loader.LoadFA(f)
	if err != nil {
		return err
	}
	s.lastFA = s.ws.PutFA(a)
	fmt.Printf("loaded FA as %s\n", s.lastFA)
	return nil
}

func (s *session) loadGrammar(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := loader.LoadGrammar(f, grammar.WithIterationCeiling(s.ceiling))
	if err != nil {
		return err
	}
	s.lastGrammar = s.ws.PutGrammar(g)
	fmt.Printf("loaded grammar as %s\n", s.lastGrammar)
	return nil
}

// runOneShot supports the -o/--op flag for scripting: determinize, minimize,
// factor, and left-recursion all act on the most recently loaded value.
func (s *session) runOneShot(op string) error {
	switch op {
	case "determinize":
		a, ok := s.ws.FA(s.lastFA)
		if !ok {
			return ferrors.New(ferrors.StateNotFound, "no FA loaded")
		}
		det := fa.Determinize(fa.AsNondeterministic(a))
		h := s.ws.PutFA(det.FA)
		fmt.Printf("determinized as %s\n", h)
	case "minimize":
		a, ok := s.ws.FA(s.lastFA)
		if !ok {
			return ferrors.New(ferrors.StateNotFound, "no FA loaded")
		}
		h := s.ws.PutFA(fa.Minimize(a))
		fmt.Printf("minimized as %s\n", h)
	case "factor":
		g, ok := s.ws.Grammar(s.lastGrammar)
		if !ok {
			return ferrors.New(ferrors.StateNotFound, "no grammar loaded")
		}
		factored, err := grammar.LeftFactor(g)
		if err != nil {
			return err
		}
		h := s.ws.PutGrammar(factored)
		fmt.Printf("factored as %s\n", h)
	case "left-recursion":
		g, ok := s.ws.Grammar(s.lastGrammar)
		if !ok {
			return ferrors.New(ferrors.StateNotFound, "no grammar loaded")
		}
		removed, err := grammar.RemoveLeftRecursion(g)
		if err != nil {
			return err
		}
		h := s.ws.PutGrammar(removed)
		fmt.Printf("left-recursion removed as %s\n", h)
	default:
		return ferrors.New(ferrors.InvalidFile, "unknown op %q", op)
	}
	return nil
}

// repl runs the interactive menu: a GNU-readline-backed loop over the
// twelve workbench commands, grounded on internal/input's
// InteractiveCommandReader (tunaq's own console reader).
func (s *session) repl() error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "flab> "})
	if err != nil {
		return fmt.Errorf("create readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return nil
		}

		if err := s.dispatch(cmd, args); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (s *session) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
	case "load-fa":
		return s.loadFA(arg(args, 0))
	case "save-fa":
		return s.cmdSaveFA(args)
	case "print-fa":
		return s.cmdPrintFA(args)
	case "determinize":
		return s.cmdDeterminize(args)
	case "minimize":
		return s.cmdMinimize(args)
	case "union":
		return s.cmdUnion(args)
	case "intersect":
		return s.cmdIntersect(args)
	case "regex":
		return s.cmdRegex(args)
	case "load-grammar":
		return s.loadGrammar(arg(args, 0))
	case "factor":
		return s.cmdFactor(args)
	case "left-recursion":
		return s.cmdLeftRecursion(args)
	case "ll1":
		return s.cmdLL1(args)
	case "slr1":
		return s.cmdSLR1(args)
	case "list":
		s.cmdList()
	default:
		return ferrors.New(ferrors.InvalidFile, "unknown command %q (try help)", cmd)
	}
	return nil
}

func printHelp() {
	fmt.Println(`commands:
  load-fa FILE            load an automaton file
  save-fa HANDLE FILE     save an automaton to file
  print-fa HANDLE         print an automaton's transition table
  determinize HANDLE      subset-construct a DFA from an NFA
  minimize HANDLE         partition-refine a DFA
  union H1 H2             union two automata
  intersect H1 H2         intersect two automata
  regex EXPR              compile a regex to a DFA via followpos
  load-grammar FILE       load a grammar file
  factor HANDLE           left-factor a grammar
  left-recursion HANDLE   eliminate left recursion
  ll1 HANDLE INPUT...     build an LL(1) table and run its recognizer
  slr1 HANDLE INPUT...    build an SLR(1) table and run its recognizer
  list                    list everything currently held
  quit                    exit`)
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (s *session) cmdSaveFA(args []string) error {
	if len(args) < 2 {
		return ferrors.New(ferrors.InvalidFile, "usage: save-fa HANDLE FILE")
	}
	a, ok := s.ws.FA(workspace.Handle(args[0]))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such FA handle %q", args[0])
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	return loader.SaveFA(f, a)
}

func (s *session) cmdPrintFA(args []string) error {
	a, ok := s.ws.FA(workspace.Handle(arg(args, 0)))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such FA handle %q", arg(args, 0))
	}
	fmt.Println(loader.RenderTable(a))
	return nil
}

func (s *session) cmdDeterminize(args []string) error {
	a, ok := s.ws.FA(workspace.Handle(arg(args, 0)))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such FA handle %q", arg(args, 0))
	}
	det := fa.Determinize(fa.AsNondeterministic(a))
	h := s.ws.PutFA(det.FA)
	s.lastFA = h
	fmt.Printf("determinized as %s\n", h)
	return nil
}

func (s *session) cmdMinimize(args []string) error {
	a, ok := s.ws.FA(workspace.Handle(arg(args, 0)))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such FA handle %q", arg(args, 0))
	}
	h := s.ws.PutFA(fa.Minimize(a))
	s.lastFA = h
	fmt.Printf("minimized as %s\n", h)
	return nil
}

func (s *session) cmdUnion(args []string) error {
	if len(args) < 2 {
		return ferrors.New(ferrors.InvalidFile, "usage: union H1 H2")
	}
	a1, ok := s.ws.FA(workspace.Handle(args[0]))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such FA handle %q", args[0])
	}
	a2, ok := s.ws.FA(workspace.Handle(args[1]))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such FA handle %q", args[1])
	}
	h := s.ws.PutFA(fa.Union(a1, a2))
	s.lastFA = h
	fmt.Printf("union as %s\n", h)
	return nil
}

func (s *session) cmdIntersect(args []string) error {
	if len(args) < 2 {
		return ferrors.New(ferrors.InvalidFile, "usage: intersect H1 H2")
	}
	a1, ok := s.ws.FA(workspace.Handle(args[0]))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such FA handle %q", args[0])
	}
	a2, ok := s.ws.FA(workspace.Handle(args[1]))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such FA handle %q", args[1])
	}
	h := s.ws.PutFA(fa.Product(a1, a2))
	s.lastFA = h
	fmt.Printf("intersection as %s\n", h)
	return nil
}

func (s *session) cmdRegex(args []string) error {
	if len(args) < 1 {
		return ferrors.New(ferrors.InvalidExpression, "usage: regex EXPR")
	}
	d, err := regex.ToDFA(strings.Join(args, ""))
	if err != nil {
		return err
	}
	h := s.ws.PutFA(d.FA)
	s.lastFA = h
	fmt.Printf("compiled as %s\n", h)
	return nil
}

func (s *session) cmdFactor(args []string) error {
	g, ok := s.ws.Grammar(workspace.Handle(arg(args, 0)))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such grammar handle %q", arg(args, 0))
	}
	factored, err := grammar.LeftFactor(g)
	if err != nil {
		return err
	}
	h := s.ws.PutGrammar(factored)
	s.lastGrammar = h
	fmt.Printf("factored as %s\n", h)
	return nil
}

func (s *session) cmdLeftRecursion(args []string) error {
	g, ok := s.ws.Grammar(workspace.Handle(arg(args, 0)))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such grammar handle %q", arg(args, 0))
	}
	removed, err := grammar.RemoveLeftRecursion(g)
	if err != nil {
		return err
	}
	h := s.ws.PutGrammar(removed)
	s.lastGrammar = h
	fmt.Printf("left-recursion removed as %s\n", h)
	return nil
}

func (s *session) cmdLL1(args []string) error {
	if len(args) < 1 {
		return ferrors.New(ferrors.InvalidFile, "usage: ll1 HANDLE INPUT...")
	}
	g, ok := s.ws.Grammar(workspace.Handle(args[0]))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such grammar handle %q", args[0])
	}
	table, err := parse.BuildLL1(g)
	if err != nil {
		return err
	}
	s.ws.PutLL1(table)
	accepted := parse.ReadInputLL(table, strings.Join(args[1:], " "))
	fmt.Println(accepted)
	return nil
}

func (s *session) cmdSLR1(args []string) error {
	if len(args) < 1 {
		return ferrors.New(ferrors.InvalidFile, "usage: slr1 HANDLE INPUT...")
	}
	g, ok := s.ws.Grammar(workspace.Handle(args[0]))
	if !ok {
		return ferrors.New(ferrors.StateNotFound, "no such grammar handle %q", args[0])
	}
	table, err := parse.BuildSLR1(g)
	if err != nil {
		return err
	}
	s.ws.PutSLR1(table)
	accepted := parse.ReadInputSLR(table, strings.Join(args[1:], " "))
	fmt.Println(accepted)
	return nil
}

func (s *session) cmdList() {
	for _, e := range s.ws.List() {
		fmt.Printf("%s [%s] %s\n", e.Handle, e.Kind, e.Summary)
	}
}
