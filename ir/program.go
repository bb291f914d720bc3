package ir

// Program is a ground event trace paired with the rules that may derive
// further facts from it.
type Program struct {
	Events []Atom
	Rules  []Rule
}

// NewProgram validates that every event is ground and builds a Program.
// Relation declaration order (first occurrence, events before rule heads
// and bodies) is computed on demand by Relations.
func NewProgram(events []Atom, rules []Rule) (Program, error) {
	for _, e := range events {
		if !e.Ground() {
			return Program{}, newErr(KindNonGroundEvent, "event %s is not ground", e.DLRepr())
		}
	}
	return Program{
		Events: append([]Atom(nil), events...),
		Rules:  append([]Rule(nil), rules...),
	}, nil
}

// Relations returns every relation used by an event, a rule head, or a rule
// body atom, each exactly once, in first-occurrence order (events, then
// rule heads and bodies in rule order). This is also the declaration order
// used by the emitter, and covers every relation a rule's body references
// even when nothing in the event trace or any rule head also uses it.
func (p Program) Relations() []Relation {
	seen := map[string]bool{}
	var out []Relation
	add := func(r Relation) {
		if !seen[r.RelName] {
			seen[r.RelName] = true
			out = append(out, r)
		}
	}
	for _, e := range p.Events {
		add(e.Relation())
	}
	for _, r := range p.Rules {
		add(r.Head.Relation())
		for _, a := range r.Body() {
			add(a.Relation())
		}
	}
	return out
}
