package interact_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidegate/protoplan/derivation"
	"github.com/tidegate/protoplan/interact"
	"github.com/tidegate/protoplan/ir"
)

func TestManualSelectGoalReadsIndex(t *testing.T) {
	in := strings.NewReader("1\n")
	var out bytes.Buffer
	m := &interact.Manual{In: in, Out: &out}

	goals := []derivation.PathedAtom{
		{Atom: ir.Atom{}, Path: derivation.Breadcrumbs{"a"}},
		{Atom: ir.Atom{}, Path: derivation.Breadcrumbs{"b"}},
	}
	chosen, err := m.SelectGoal(goals)
	require.NoError(t, err)
	require.Equal(t, derivation.Breadcrumbs{"b"}, chosen.Path)
	require.Contains(t, out.String(), "Select a goal")
}

func TestManualSelectRuleSkipsEmptyOptions(t *testing.T) {
	in := strings.NewReader("0\n")
	m := &interact.Manual{In: in, Out: &bytes.Buffer{}}

	options := []derivation.RuleOption{
		{Rule: ir.Rule{Label: "empty"}, Assignments: nil},
		{Rule: ir.Rule{Label: "good"}, Assignments: []ir.Assignment{{}}},
	}
	chosen, err := m.SelectRule(options)
	require.NoError(t, err)
	require.Equal(t, "good", chosen.Rule.Label)
}

func TestManualSelectAssignmentSkipsPromptWhenSingular(t *testing.T) {
	m := &interact.Manual{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	only := []ir.Assignment{{"x": nil}}
	chosen, err := m.SelectAssignment(only)
	require.NoError(t, err)
	require.Equal(t, only[0], chosen)
}

func TestManualSelectGoalRejectsOutOfRange(t *testing.T) {
	m := &interact.Manual{In: strings.NewReader("5\n"), Out: &bytes.Buffer{}}
	_, err := m.SelectGoal([]derivation.PathedAtom{{Atom: ir.Atom{}}})
	require.Error(t, err)
}

func TestPolicyAutoAlwaysPicksFirst(t *testing.T) {
	p := &interact.Policy{GoalMode: interact.AUTO, RuleMode: interact.AUTO}

	goals := []derivation.PathedAtom{
		{Atom: ir.Atom{}, Path: derivation.Breadcrumbs{"first"}},
		{Atom: ir.Atom{}, Path: derivation.Breadcrumbs{"second"}},
	}
	chosen, err := p.SelectGoal(goals)
	require.NoError(t, err)
	require.Equal(t, derivation.Breadcrumbs{"first"}, chosen.Path)

	options := []derivation.RuleOption{
		{Rule: ir.Rule{Label: "a"}, Assignments: []ir.Assignment{{}}},
		{Rule: ir.Rule{Label: "b"}, Assignments: []ir.Assignment{{}}},
	}
	rule, err := p.SelectRule(options)
	require.NoError(t, err)
	require.Equal(t, "a", rule.Rule.Label)
}

func TestPolicyFastForwardSingleChoiceNeedsNoManual(t *testing.T) {
	p := &interact.Policy{GoalMode: interact.FAST_FORWARD, RuleMode: interact.FAST_FORWARD}

	goals := []derivation.PathedAtom{{Atom: ir.Atom{}, Path: derivation.Breadcrumbs{"only"}}}
	chosen, err := p.SelectGoal(goals)
	require.NoError(t, err)
	require.Equal(t, derivation.Breadcrumbs{"only"}, chosen.Path)

	options := []derivation.RuleOption{{Rule: ir.Rule{Label: "solo"}, Assignments: []ir.Assignment{{}}}}
	rule, err := p.SelectRule(options)
	require.NoError(t, err)
	require.Equal(t, "solo", rule.Rule.Label)
}

func TestPolicyFastForwardMultipleChoicesFallsBackToManual(t *testing.T) {
	p := &interact.Policy{
		GoalMode: interact.FAST_FORWARD,
		Manual:   &interact.Manual{In: strings.NewReader("1\n"), Out: &bytes.Buffer{}},
	}
	goals := []derivation.PathedAtom{
		{Atom: ir.Atom{}, Path: derivation.Breadcrumbs{"a"}},
		{Atom: ir.Atom{}, Path: derivation.Breadcrumbs{"b"}},
	}
	chosen, err := p.SelectGoal(goals)
	require.NoError(t, err)
	require.Equal(t, derivation.Breadcrumbs{"b"}, chosen.Path)
}

func TestPolicySelectRuleErrorsWhenAllEmpty(t *testing.T) {
	p := &interact.Policy{RuleMode: interact.AUTO}
	_, err := p.SelectRule([]derivation.RuleOption{{Rule: ir.Rule{Label: "dead"}, Assignments: nil}})
	require.Error(t, err)
}
