// Package ir implements the typed relational intermediate representation
// shared by rule synthesis, Datalog emission, and derivation: sorts, terms,
// relations, atoms, rules, queries, and ground programs.
package ir

import "fmt"

// Kind classifies a fatal IR error so callers can branch on failure mode
// without string-matching messages.
type Kind string

const (
	// KindSortMismatch is raised when a substitution or argument assignment
	// supplies a term of the wrong sort.
	KindSortMismatch Kind = "SortMismatch"
	// KindRelationMismatch is raised when an atom's argument keys don't
	// match its relation's arity.
	KindRelationMismatch Kind = "RelationMismatch"
	// KindNonGroundEvent is raised when a program's event trace contains a
	// non-ground atom.
	KindNonGroundEvent Kind = "NonGroundEvent"
	// KindInfixMisuse is raised when an infix relation is declared as an
	// output or is not binary.
	KindInfixMisuse Kind = "InfixMisuse"
	// KindDuplicateRelation is raised when two distinct relations are
	// registered under incompatible shapes for the same name.
	KindDuplicateRelation Kind = "DuplicateRelation"
	// KindValidationError is raised when rule synthesis finds a mismatch
	// between a precondition builder's declared signature and the
	// procedure it annotates.
	KindValidationError Kind = "ValidationError"
	// KindTreeNavigation is raised by invalid breadcrumbs or by attempting
	// to replace a derivation-tree leaf.
	KindTreeNavigation Kind = "TreeNavigation"
	// KindOracleFailure is raised when the external solver exits non-zero
	// without producing any output relation.
	KindOracleFailure Kind = "OracleFailure"
	// KindEmptyGoal marks a feasibility query whose Goal relation came back
	// with no satisfying tuples: a negative verdict, not a fatal failure.
	KindEmptyGoal Kind = "EmptyGoal"
)

// Error is the structured failure type for the IR layer. Every field is
// descriptive payload for the kind; Error never wraps a lower-level cause
// because IR failures are invariant violations, not I/O failures.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}
