// Package dlparse parses the Datalog source text dlemit produces, back into
// a lightweight syntax tree: declarations, rules, facts, and output
// markers. It exists to let callers verify the emitter's round-trip
// property (see dlemit's tests) rather than to drive any evaluation —
// this module never evaluates Datalog, only reads its own output back.
//
// It is adapted from the teacher's embedded rule-file parser
// (cmd/gangaji/datalog), narrowed to the grammar dlemit actually emits: no
// suggestion rules, aggregation, negation, or arithmetic, since this
// module's rule bodies are conjunctions of plain and infix atoms only.
package dlparse

import "strings"

// Term is a parsed argument: a Variable (bare identifier), or a literal
// Number or Symbol (quoted string).
type Term interface {
	isTerm()
	String() string
}

// Variable is a bare identifier appearing where dlemit would have rendered
// an unsubstituted variable term.
type Variable string

func (Variable) isTerm()          {}
func (v Variable) String() string { return string(v) }

// Number is an unquoted numeric literal.
type Number string

func (Number) isTerm()          {}
func (n Number) String() string { return string(n) }

// Symbol is a double-quoted string literal, stored without its quotes.
type Symbol string

func (Symbol) isTerm()          {}
func (s Symbol) String() string { return `"` + string(s) + `"` }

// Atom is a predicate applied to an ordered argument list: `Name(a, b, c)`.
type Atom struct {
	Predicate string
	Args      []Term
}

func (a Atom) String() string {
	parts := make([]string, len(a.Args))
	for i, t := range a.Args {
		parts[i] = t.String()
	}
	return a.Predicate + "(" + strings.Join(parts, ", ") + ")"
}

// Infix is a binary comparison rendered without a predicate name:
// `lhs OP rhs`.
type Infix struct {
	Lhs Term
	Op  string
	Rhs Term
}

func (i Infix) String() string { return i.Lhs.String() + " " + i.Op + " " + i.Rhs.String() }

// Clause is one body element of a Rule: either an Atom or an Infix.
type Clause interface {
	clauseString() string
}

func (a Atom) clauseString() string   { return a.String() }
func (i Infix) clauseString() string { return i.String() }

// DeclArg names one declared argument and its Datalog type name.
type DeclArg struct {
	Name string
	Type string
}

// Decl is a parsed `.decl Name(k0: t0, k1: t1, ...)` line.
type Decl struct {
	Name string
	Args []DeclArg
}

// Rule is a parsed label-commented rule: `// Label\nHead :-\n  body....`.
type Rule struct {
	Label string
	Head  Atom
	Body  []Clause
}

// Fact is a parsed ground atom statement, terminated by `.`.
type Fact struct {
	Atom Atom
}

// Document is the full parse of one Datalog source text: its declarations
// (in textual order), output markers, rules, and facts.
type Document struct {
	Decls   []Decl
	Outputs []string
	Rules   []Rule
	Facts   []Fact
}

// DeclNames returns the declared relation names in textual (first-
// occurrence) order.
func (d Document) DeclNames() []string {
	out := make([]string, len(d.Decls))
	for i, decl := range d.Decls {
		out[i] = decl.Name
	}
	return out
}
