package ir

// Term is either a Variable or a sort-specific Literal. Terms are immutable;
// every operation that would "change" a term returns a new one.
type Term interface {
	// Sort is the semantic type of this term.
	Sort() Sort

	// Ground reports whether the term contains no variables.
	Ground() bool

	// FreeVars returns the set of variables occurring in the term, keyed by
	// variable name.
	FreeVars() map[string]Variable

	// Substitute replaces every occurrence of the named variable with repl,
	// returning a new term. It is a KindSortMismatch error if repl's sort
	// does not match the variable's sort at the substitution site.
	Substitute(name string, repl Term) (Term, error)

	// DLRepr renders the term in Datalog surface syntax.
	DLRepr() string
}

// Variable is a sorted, named placeholder. It is never ground.
type Variable struct {
	Name    string
	VarSort Sort
}

// NewVariable constructs a Variable of the given sort.
func NewVariable(name string, sort Sort) Variable {
	return Variable{Name: name, VarSort: sort}
}

func (v Variable) Sort() Sort { return v.VarSort }

func (v Variable) Ground() bool { return false }

func (v Variable) FreeVars() map[string]Variable {
	return map[string]Variable{v.Name: v}
}

func (v Variable) Substitute(name string, repl Term) (Term, error) {
	if name != v.Name {
		return v, nil
	}
	if !SameSort(repl.Sort(), v.VarSort) {
		return nil, newErr(
			KindSortMismatch,
			"cannot substitute variable %q (sort %s) with term of sort %s",
			v.Name, v.VarSort.Name(), repl.Sort().Name(),
		)
	}
	return repl, nil
}

func (v Variable) DLRepr() string { return v.Name }

// Literal is a ground, sort-tagged value rendered via a caller-supplied
// printer. Domain sorts (e.g. a day count, a condition symbol) are expected
// to wrap Literal rather than reimplement Term from scratch.
type Literal struct {
	LitSort Sort
	Value   any
	Render  func(any) string
}

// NewLiteral builds a Literal of the given sort, value, and renderer.
func NewLiteral(sort Sort, value any, render func(any) string) Literal {
	return Literal{LitSort: sort, Value: value, Render: render}
}

func (l Literal) Sort() Sort { return l.LitSort }

func (l Literal) Ground() bool { return true }

func (l Literal) FreeVars() map[string]Variable { return map[string]Variable{} }

func (l Literal) Substitute(string, Term) (Term, error) { return l, nil }

func (l Literal) DLRepr() string { return l.Render(l.Value) }

// unionFreeVars merges free-variable sets from several terms/atoms.
func unionFreeVars(sets ...map[string]Variable) map[string]Variable {
	out := map[string]Variable{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
