package interact

import (
	"fmt"

	"github.com/tidegate/protoplan/derivation"
	"github.com/tidegate/protoplan/ir"
)

// Mode is a selection policy for one interaction hook.
type Mode int

const (
	// MANUAL defers to the wrapped Manual interactor for this hook.
	MANUAL Mode = iota
	// FAST_FORWARD auto-selects when exactly one choice is available, and
	// otherwise defers to the wrapped Manual interactor.
	FAST_FORWARD
	// AUTO always selects the first choice, without prompting.
	AUTO
)

// Policy drives goal and rule selection by independent modes, falling back
// to an embedded Manual interactor wherever a mode requires a prompt.
// Assignment selection always behaves as AUTO: the construction loop only
// ever needs one committed assignment per step, and the original CLI tool
// auto-picks when exactly one is offered regardless of policy.
type Policy struct {
	GoalMode Mode
	RuleMode Mode
	Manual   *Manual
}

func (p *Policy) DisplayTree(t derivation.Tree) {
	if p.Manual != nil {
		p.Manual.DisplayTree(t)
	}
}

func (p *Policy) SelectGoal(goals []derivation.PathedAtom) (derivation.PathedAtom, error) {
	switch p.GoalMode {
	case AUTO:
		return goals[0], nil
	case FAST_FORWARD:
		if len(goals) == 1 {
			return goals[0], nil
		}
		fallthrough
	default:
		return p.mustManual().SelectGoal(goals)
	}
}

func (p *Policy) SelectRule(options []derivation.RuleOption) (derivation.RuleOption, error) {
	valid := nonEmpty(options)
	if len(valid) == 0 {
		return derivation.RuleOption{}, fmt.Errorf("no rule has a non-empty option list")
	}
	switch p.RuleMode {
	case AUTO:
		return valid[0], nil
	case FAST_FORWARD:
		if len(valid) == 1 {
			return valid[0], nil
		}
		fallthrough
	default:
		return p.mustManual().SelectRule(options)
	}
}

func (p *Policy) SelectAssignment(assignments []ir.Assignment) (ir.Assignment, error) {
	if len(assignments) == 0 {
		return nil, fmt.Errorf("no assignment available")
	}
	return assignments[0], nil
}

func (p *Policy) mustManual() *Manual {
	if p.Manual == nil {
		panic("interact: MANUAL or FAST_FORWARD mode used without a Manual interactor")
	}
	return p.Manual
}
