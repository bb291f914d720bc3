package ir

// Arg names one positional argument of a Relation and its Sort. Order
// within a Relation's Arity matters: it fixes the wire form used by
// GetArg/SetArg iteration and by Datalog declaration rendering.
type Arg struct {
	Key  string
	Sort Sort
}

// Relation is a named n-ary predicate schema. Infix relations must be
// binary; they render without a declaration line and can never be query
// outputs.
type Relation struct {
	RelName string
	Arity   []Arg
	Infix   string // empty when this relation is not rendered infix
}

// NewRelation validates and builds a Relation. An infix symbol is only
// valid for exactly two arguments.
func NewRelation(name string, arity []Arg, infix string) (Relation, error) {
	if infix != "" && len(arity) != 2 {
		return Relation{}, newErr(
			KindInfixMisuse,
			"relation %q declares infix symbol %q but has %d arguments, want 2",
			name, infix, len(arity),
		)
	}
	return Relation{RelName: name, Arity: append([]Arg(nil), arity...), Infix: infix}, nil
}

func (r Relation) Name() string { return r.RelName }

func (r Relation) IsInfix() bool { return r.Infix != "" }

// Keys returns the argument names in declaration order.
func (r Relation) Keys() []string {
	keys := make([]string, len(r.Arity))
	for i, a := range r.Arity {
		keys[i] = a.Key
	}
	return keys
}

// SortOf returns the Sort of the named argument, and whether it exists.
func (r Relation) SortOf(key string) (Sort, bool) {
	for _, a := range r.Arity {
		if a.Key == key {
			return a.Sort, true
		}
	}
	return nil, false
}

// Equal reports structural equality: same name, same infix symbol, and the
// same ordered (key, sort) pairs, with sorts compared by SameSort.
func (r Relation) Equal(other Relation) bool {
	if r.RelName != other.RelName || r.Infix != other.Infix {
		return false
	}
	if len(r.Arity) != len(other.Arity) {
		return false
	}
	for i, a := range r.Arity {
		b := other.Arity[i]
		if a.Key != b.Key || !SameSort(a.Sort, b.Sort) {
			return false
		}
	}
	return true
}

// FreeAssignment builds a fresh-variable assignment over this relation's
// arity, each variable named prefix+key.
func (r Relation) FreeAssignment(prefix string) map[string]Term {
	out := make(map[string]Term, len(r.Arity))
	for _, a := range r.Arity {
		out[a.Key] = a.Sort.Var(prefix + a.Key)
	}
	return out
}

// DeclRepr renders the `.decl` (and, if output, `.output`) lines for this
// relation. It is an error to request an output declaration for an infix
// relation.
func (r Relation) DeclRepr(output bool) (string, error) {
	if r.IsInfix() {
		if output {
			return "", newErr(KindInfixMisuse, "cannot emit infix relation %q as an output", r.RelName)
		}
		return "", nil
	}
	decl := ".decl " + r.RelName + "("
	for i, a := range r.Arity {
		if i > 0 {
			decl += ", "
		}
		decl += a.Key + ": " + a.Sort.Name()
	}
	decl += ")"
	if output {
		decl += "\n.output " + r.RelName
	}
	return decl, nil
}
