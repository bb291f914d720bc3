package ir

// Sort is a named semantic type for terms. Two sorts are equal iff they
// refer to the same underlying semantic type; implementations are expected
// to be singletons (package-level vars) so that equality can be checked by
// identity of the implementation's own type and value (see SameSort).
type Sort interface {
	// Name is the external textual type name used by the Datalog backend,
	// e.g. "number" or "symbol".
	Name() string

	// Parse converts one tabular-output column into a typed literal Term.
	Parse(raw string) (Term, error)

	// Var builds a fresh variable Term of this sort with the given name.
	Var(name string) Term
}

// SameSort reports whether a and b denote the same semantic type. Sorts are
// singleton implementations, so identity is the concrete Go type behind the
// interface, not the Datalog backend name returned by Name() — two distinct
// sorts are free to share a backend name (biolib registers both TimeSort and
// CountSort as "number") and must still compare unequal.
func SameSort(a, b Sort) bool {
	return a == b
}
