// Package ferrors defines the tagged error-kind variant that every flab core
// package returns. All errors are local to the failing operation (spec.md
// §7): there is no retry and no partial result, and the recognizer drivers
// never use these for input rejection — they just return false.
package ferrors

import "fmt"

// Kind tags the category of a flab error, per spec.md §7.
type Kind string

const (
	// InvalidFile marks a malformed automaton or grammar source file.
	InvalidFile Kind = "InvalidFile"

	// InvalidExpression marks a regex that fails syntactic or structural
	// validity checks.
	InvalidExpression Kind = "InvalidExpression"

	// StateNotFound marks a constructor reference to an unknown state.
	StateNotFound Kind = "StateNotFound"

	// EmptyAutomaton marks a table/print/operation on a zero-state FA.
	EmptyAutomaton Kind = "EmptyAutomaton"

	// DeterminismMismatch marks a deterministic-only API invoked on an NFA,
	// or vice versa.
	DeterminismMismatch Kind = "DeterminismMismatch"

	// NotContextFree marks a grammar operation that requires a CFG applied
	// to a grammar that isn't one.
	NotContextFree Kind = "NotContextFree"

	// LeftRecursive marks a FIRST/LL operation attempted on a grammar that
	// is still left-recursive.
	LeftRecursive Kind = "LeftRecursive"

	// NotLL1 marks a grammar whose FIRST/FOLLOW intersection is non-empty
	// for some ε-producing nonterminal.
	NotLL1 Kind = "NotLL1"

	// IterationLimit marks a fixed-point pass (factoring, left-recursion
	// elimination, closure, LR(0) collection, FIRST/FOLLOW) that failed to
	// converge within its ceiling.
	IterationLimit Kind = "IterationLimit"
)

// Error is a flab error: a Kind plus a human-readable message, optionally
// wrapping an underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: cause}
}

// Is reports whether err is a flab *Error of the given kind. It walks the
// Unwrap chain, matching errors.Is's usual contract.
func Is(err error, kind Kind) bool {
	for err != nil {
		if fe, ok := err.(*Error); ok {
			if fe.Kind == kind {
				return true
			}
			err = fe.Wrapped
			continue
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
