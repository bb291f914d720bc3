package ir

import "strings"

// Dependency is one named antecedent atom in a Rule's body: an atom whose
// relation corresponds to an external computation the rule consumes.
type Dependency struct {
	Key  string
	Atom Atom
}

// Rule is a head atom implied by an ordered list of dependencies plus an
// unordered list of checks. The body is dependencies followed by checks.
type Rule struct {
	Label        string
	Head         Atom
	Dependencies []Dependency
	Checks       []Atom
}

// Body returns the full rule body: dependencies in order, then checks.
func (r Rule) Body() []Atom {
	body := make([]Atom, 0, len(r.Dependencies)+len(r.Checks))
	for _, d := range r.Dependencies {
		body = append(body, d.Atom)
	}
	body = append(body, r.Checks...)
	return body
}

// DependencyAtom returns the dependency atom registered under key, if any.
func (r Rule) DependencyAtom(key string) (Atom, bool) {
	for _, d := range r.Dependencies {
		if d.Key == key {
			return d.Atom, true
		}
	}
	return Atom{}, false
}

// DLRepr renders the rule as `// label\nHEAD :-\n  BODY0,\n  BODY1.`.
func (r Rule) DLRepr() string {
	body := r.Body()
	lines := make([]string, len(body))
	for i, a := range body {
		lines[i] = a.DLRepr()
	}
	rhs := strings.Join(lines, ",\n  ") + "."
	return "// " + r.Label + "\n" + r.Head.DLRepr() + " :-\n  " + rhs
}
