package ir

import "strings"

// Atom is an application of a Relation to one Term per argument key.
type Atom struct {
	Rel  Relation
	Args map[string]Term
}

// NewAtom validates that args exactly covers rel's arity with sort-matching
// terms, and builds an Atom.
func NewAtom(rel Relation, args map[string]Term) (Atom, error) {
	if len(args) != len(rel.Arity) {
		return Atom{}, newErr(
			KindRelationMismatch,
			"relation %q expects %d arguments, got %d",
			rel.RelName, len(rel.Arity), len(args),
		)
	}
	for _, a := range rel.Arity {
		val, ok := args[a.Key]
		if !ok {
			return Atom{}, newErr(KindRelationMismatch, "relation %q missing argument %q", rel.RelName, a.Key)
		}
		if !SameSort(val.Sort(), a.Sort) {
			return Atom{}, newErr(
				KindSortMismatch,
				"relation %q argument %q expects sort %s, got %s",
				rel.RelName, a.Key, a.Sort.Name(), val.Sort().Name(),
			)
		}
	}
	cp := make(map[string]Term, len(args))
	for k, v := range args {
		cp[k] = v
	}
	return Atom{Rel: rel, Args: cp}, nil
}

// Free builds an atom of rel whose every argument is a fresh variable
// named prefix+key.
func Free(rel Relation, prefix string) Atom {
	a, err := NewAtom(rel, rel.FreeAssignment(prefix))
	if err != nil {
		// FreeAssignment always produces sort-correct, fully-keyed args;
		// a failure here means Relation itself is malformed.
		panic(err)
	}
	return a
}

func (a Atom) Relation() Relation { return a.Rel }

// GetArg returns the term bound to key.
func (a Atom) GetArg(key string) (Term, error) {
	v, ok := a.Args[key]
	if !ok {
		return nil, newErr(KindRelationMismatch, "relation %q has no argument %q", a.Rel.RelName, key)
	}
	return v, nil
}

// SetArg returns a new atom with key rebound to val. val must match key's
// declared sort.
func (a Atom) SetArg(key string, val Term) (Atom, error) {
	sort, ok := a.Rel.SortOf(key)
	if !ok {
		return Atom{}, newErr(KindRelationMismatch, "relation %q has no argument %q", a.Rel.RelName, key)
	}
	if !SameSort(val.Sort(), sort) {
		return Atom{}, newErr(
			KindSortMismatch,
			"relation %q argument %q expects sort %s, got %s",
			a.Rel.RelName, key, sort.Name(), val.Sort().Name(),
		)
	}
	next := make(map[string]Term, len(a.Args))
	for k, v := range a.Args {
		next[k] = v
	}
	next[key] = val
	return Atom{Rel: a.Rel, Args: next}, nil
}

// Ground reports whether every argument is ground.
func (a Atom) Ground() bool {
	for _, k := range a.Rel.Keys() {
		if !a.Args[k].Ground() {
			return false
		}
	}
	return true
}

// FreeVars returns the union of free variables across all arguments.
func (a Atom) FreeVars() map[string]Variable {
	sets := make([]map[string]Variable, 0, len(a.Rel.Arity))
	for _, k := range a.Rel.Keys() {
		sets = append(sets, a.Args[k].FreeVars())
	}
	return unionFreeVars(sets...)
}

// Substitute replaces every occurrence of the named variable across all
// arguments, returning a new atom.
func (a Atom) Substitute(name string, repl Term) (Atom, error) {
	next := a
	for _, k := range a.Rel.Keys() {
		sub, err := next.Args[k].Substitute(name, repl)
		if err != nil {
			return Atom{}, err
		}
		next, err = next.SetArg(k, sub)
		if err != nil {
			return Atom{}, err
		}
	}
	return next, nil
}

// Assignment is a name -> Term mapping used by SubstituteAll and by query
// answers.
type Assignment map[string]Term

// SubstituteAll applies each substitution in assignment in turn.
func (a Atom) SubstituteAll(assignment Assignment) (Atom, error) {
	next := a
	for lhs, rhs := range assignment {
		var err error
		next, err = next.Substitute(lhs, rhs)
		if err != nil {
			return Atom{}, err
		}
	}
	return next, nil
}

// Equal reports structural equality: same relation and same argument
// values at every key.
func (a Atom) Equal(other Atom) bool {
	if !a.Rel.Equal(other.Rel) {
		return false
	}
	for _, k := range a.Rel.Keys() {
		if a.Args[k].DLRepr() != other.Args[k].DLRepr() {
			return false
		}
	}
	return true
}

// Key returns a canonical string identity for the atom, suitable for use as
// a map key (Atom itself holds a map and so is not comparable).
func (a Atom) Key() string { return a.DLRepr() }

// DLRepr renders the atom in Datalog surface syntax: infix relations as
// "lhs SYMBOL rhs", everything else as "Name(arg0, arg1, ...)".
func (a Atom) DLRepr() string {
	if a.Rel.IsInfix() {
		keys := a.Rel.Keys()
		left, right := keys[0], keys[1]
		return a.Args[left].DLRepr() + " " + a.Rel.Infix + " " + a.Args[right].DLRepr()
	}
	parts := make([]string, 0, len(a.Rel.Arity))
	for _, k := range a.Rel.Keys() {
		parts = append(parts, a.Args[k].DLRepr())
	}
	return a.Rel.RelName + "(" + strings.Join(parts, ", ") + ")"
}

// Unparse renders a constructor-like literal for the atom, used by the
// output-program emitter to print a metadata value, e.g.
// `PhenotypeScore(ti=3, tf=8, c="c1")`.
func (a Atom) Unparse() string {
	parts := make([]string, 0, len(a.Rel.Arity))
	for _, k := range a.Rel.Keys() {
		parts = append(parts, k+"="+a.Args[k].DLRepr())
	}
	return a.Rel.RelName + "(" + strings.Join(parts, ", ") + ")"
}
