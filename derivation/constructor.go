package derivation

import (
	"context"
	"fmt"

	"github.com/tidegate/protoplan/ir"
	"github.com/tidegate/protoplan/solver"
)

// RuleOption pairs a candidate rule with the assignments the oracle
// reports for its remaining free variables, once its head has been
// unified with the goal under construction. An empty Assignments means
// the rule does not apply here.
type RuleOption struct {
	Rule        ir.Rule
	Assignments []ir.Assignment
}

// Interactor drives tree growth: it is shown the tree after every step and
// chooses, in order, which open goal to work on, which rule to apply
// (from the candidates whose option list is non-empty), and which of that
// rule's option assignments to commit to.
type Interactor interface {
	DisplayTree(t Tree)
	SelectGoal(goals []PathedAtom) (PathedAtom, error)
	SelectRule(options []RuleOption) (RuleOption, error)
	SelectAssignment(assignments []ir.Assignment) (ir.Assignment, error)
}

// Constructor grows a derivation tree for a reference program already
// known (via Oracle) to satisfy the initial goal.
type Constructor struct {
	Program    ir.Program
	Oracle     solver.Oracle
	Interactor Interactor
}

// Construct runs the construction loop from section 4.5: display, collect
// open goals, let the interactor pick a goal/rule/assignment, splice in the
// resulting Step, and repeat until no open goals remain.
func (c *Constructor) Construct(ctx context.Context, initialGoal ir.Atom) (Tree, error) {
	var tree Tree = OpenGoal{Goal: initialGoal}

	for {
		c.Interactor.DisplayTree(tree)

		goals := tree.Goals()
		if len(goals) == 0 {
			return tree, nil
		}

		chosen, err := c.Interactor.SelectGoal(goals)
		if err != nil {
			return nil, fmt.Errorf("selecting goal: %w", err)
		}

		var options []RuleOption
		for _, rule := range c.Program.Rules {
			assignments, err := c.ruleOptions(ctx, chosen.Atom, rule)
			if err != nil {
				return nil, fmt.Errorf("computing options for rule %s: %w", rule.Label, err)
			}
			options = append(options, RuleOption{Rule: rule, Assignments: assignments})
		}

		selected, err := c.Interactor.SelectRule(options)
		if err != nil {
			return nil, fmt.Errorf("selecting rule: %w", err)
		}

		assignment, err := c.Interactor.SelectAssignment(selected.Assignments)
		if err != nil {
			return nil, fmt.Errorf("selecting assignment: %w", err)
		}

		headUnify, err := unifyHead(selected.Rule, chosen.Atom)
		if err != nil {
			return nil, err
		}

		keys := make([]string, len(selected.Rule.Dependencies))
		antecedents := make(map[string]Tree, len(selected.Rule.Dependencies))
		for i, dep := range selected.Rule.Dependencies {
			keys[i] = dep.Key
			concrete, err := dep.Atom.SubstituteAll(headUnify)
			if err != nil {
				return nil, err
			}
			concrete, err = concrete.SubstituteAll(assignment)
			if err != nil {
				return nil, err
			}
			antecedents[dep.Key] = c.makeSubtree(concrete)
		}

		step := Step{
			Label:       selected.Rule.Label,
			Consequent:  chosen.Atom,
			Keys:        keys,
			Antecedents: antecedents,
		}

		tree, err = tree.Replace(chosen.Path, step)
		if err != nil {
			return nil, err
		}
	}
}

// ruleOptions computes a rule's options for goal: if the rule's head
// relation doesn't match the goal's, there are none; otherwise specialise
// the rule's body by unifying head variables with the goal's arguments and
// ask the oracle for every satisfying assignment of what remains free.
func (c *Constructor) ruleOptions(ctx context.Context, goal ir.Atom, rule ir.Rule) ([]ir.Assignment, error) {
	if rule.Head.Relation().Name() != goal.Relation().Name() {
		return nil, nil
	}

	headUnify, err := unifyHead(rule, goal)
	if err != nil {
		return nil, err
	}

	body := rule.Body()
	specialised := make([]ir.Atom, len(body))
	for i, a := range body {
		s, err := a.SubstituteAll(headUnify)
		if err != nil {
			return nil, err
		}
		specialised[i] = s
	}
	if len(specialised) == 0 {
		return nil, nil
	}

	q, err := ir.NewQuery(specialised)
	if err != nil {
		return nil, err
	}
	return c.Oracle.Answer(ctx, c.Program, q)
}

// unifyHead builds the substitution that rewrites rule.Head's variables to
// goal's corresponding arguments.
func unifyHead(rule ir.Rule, goal ir.Atom) (ir.Assignment, error) {
	assignment := ir.Assignment{}
	for _, key := range rule.Head.Relation().Keys() {
		headArg, err := rule.Head.GetArg(key)
		if err != nil {
			return nil, err
		}
		v, ok := headArg.(ir.Variable)
		if !ok {
			return nil, fmt.Errorf("rule %s head argument %q is not a variable", rule.Label, key)
		}
		goalArg, err := goal.GetArg(key)
		if err != nil {
			return nil, err
		}
		assignment[v.Name] = goalArg
	}
	return assignment, nil
}

// makeSubtree wraps a concrete antecedent atom as a Leaf if it occurs in
// the reference trace, or as a fresh OpenGoal otherwise.
func (c *Constructor) makeSubtree(atom ir.Atom) Tree {
	key := atom.Key()
	for _, e := range c.Program.Events {
		if e.Key() == key {
			return Leaf{Event: atom}
		}
	}
	return OpenGoal{Goal: atom}
}
