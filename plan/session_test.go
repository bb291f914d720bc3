package plan_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidegate/protoplan/biolib"
	"github.com/tidegate/protoplan/interact"
	"github.com/tidegate/protoplan/ir"
	"github.com/tidegate/protoplan/plan"
)

// factOracle answers a conjunctive query by joining plain atoms against the
// ground event trace and filtering by infix checks, standing in for the
// external Datalog solver. A ground atom that is not an event also holds
// when one rule derives it from the trace in a single step, which is what
// the feasibility probe asks about.
type factOracle struct{}

func derivable(prog ir.Program, goal ir.Atom) bool {
	for _, r := range prog.Rules {
		if r.Head.Relation().Name() != goal.Relation().Name() {
			continue
		}
		unify := ir.Assignment{}
		for _, key := range goal.Relation().Keys() {
			headArg, _ := r.Head.GetArg(key)
			goalArg, _ := goal.GetArg(key)
			unify[headArg.(ir.Variable).Name] = goalArg
		}
		var body []ir.Atom
		for _, a := range r.Body() {
			s, err := a.SubstituteAll(unify)
			if err != nil {
				return false
			}
			body = append(body, s)
		}
		q, err := ir.NewQuery(body)
		if err != nil {
			continue
		}
		if answers, err := (factOracle{}).Answer(context.Background(), prog, q); err == nil && len(answers) > 0 {
			return true
		}
	}
	return false
}

func (factOracle) Answer(_ context.Context, prog ir.Program, q ir.Query) ([]ir.Assignment, error) {
	bindings := []ir.Assignment{{}}
	for _, atom := range q.Atoms {
		var next []ir.Assignment
		for _, b := range bindings {
			specialised, err := atom.SubstituteAll(b)
			if err != nil {
				return nil, err
			}
			if specialised.Relation().IsInfix() {
				extended, ok := evalInfix(specialised)
				if ok {
					next = append(next, extended)
				}
				continue
			}
			next = append(next, matchAgainstFacts(specialised, prog.Events, b)...)
			if specialised.Ground() && derivable(prog, specialised) {
				next = append(next, b)
			}
		}
		bindings = next
	}
	out := make([]ir.Assignment, 0, len(bindings))
	for _, b := range bindings {
		assignment := ir.Assignment{}
		for _, key := range q.Goal.Keys() {
			assignment[key] = b[key]
		}
		out = append(out, assignment)
	}
	return out, nil
}

func evalInfix(atom ir.Atom) (ir.Assignment, bool) {
	lhs, _ := atom.GetArg("lhs")
	rhs, _ := atom.GetArg("rhs")
	_, lok := lhs.(ir.Variable)
	_, rok := rhs.(ir.Variable)
	if lok || rok {
		return nil, false
	}
	switch atom.Relation().Infix {
	case "=":
		return ir.Assignment{}, lhs.DLRepr() == rhs.DLRepr()
	case "<":
		li, _ := strconv.Atoi(lhs.DLRepr())
		ri, _ := strconv.Atoi(rhs.DLRepr())
		return ir.Assignment{}, li < ri
	default:
		return nil, false
	}
}

func matchAgainstFacts(atom ir.Atom, facts []ir.Atom, b ir.Assignment) []ir.Assignment {
	var out []ir.Assignment
	for _, fact := range facts {
		if fact.Relation().Name() != atom.Relation().Name() {
			continue
		}
		ext := ir.Assignment{}
		for k, v := range b {
			ext[k] = v
		}
		ok := true
		for _, key := range atom.Relation().Keys() {
			atomArg, _ := atom.GetArg(key)
			factArg, _ := fact.GetArg(key)
			if v, isVar := atomArg.(ir.Variable); isVar {
				if existing, bound := ext[v.Name]; bound {
					if existing.DLRepr() != factArg.DLRepr() {
						ok = false
						break
					}
				} else {
					ext[v.Name] = factArg
				}
			} else if atomArg.DLRepr() != factArg.DLRepr() {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, ext)
		}
	}
	return out
}

func TestQueryFeasibleLinearProtocolProducesProgram(t *testing.T) {
	lib, err := biolib.New()
	require.NoError(t, err)

	s := plan.NewSession(lib, factOracle{}, &interact.Policy{GoalMode: interact.AUTO, RuleMode: interact.AUTO})

	infect, err := biolib.InfectEvent(biolib.Day(1), biolib.Cond("c"), "lib.fa")
	require.NoError(t, err)
	seq1, err := biolib.SeqEvent(biolib.Day(3), biolib.Cond("c"), "d3.fastq")
	require.NoError(t, err)
	seq2, err := biolib.SeqEvent(biolib.Day(8), biolib.Cond("c"), "d8.fastq")
	require.NoError(t, err)

	require.NoError(t, s.Do(infect.Metadata, infect.Data))
	require.NoError(t, s.Do(seq1.Metadata, seq1.Data))
	require.NoError(t, s.Do(seq2.Metadata, seq2.Data))

	goal, err := ir.NewAtom(biolib.PhenotypeScore, map[string]ir.Term{
		"ti": biolib.Day(3), "tf": biolib.Day(8), "c": biolib.Cond("c"),
	})
	require.NoError(t, err)

	result, err := s.Query(context.Background(), goal)
	require.NoError(t, err)
	require.True(t, result.Feasible)
	require.True(t, strings.Contains(result.Program, "# Load data"))
	require.True(t, strings.Contains(result.Program, "# Compute"))
}

func TestQueryInfeasibleWrongOrderingIsNegativeVerdict(t *testing.T) {
	lib, err := biolib.New()
	require.NoError(t, err)

	s := plan.NewSession(lib, factOracle{}, &interact.Policy{GoalMode: interact.AUTO, RuleMode: interact.AUTO})

	infect, err := biolib.InfectEvent(biolib.Day(1), biolib.Cond("c"), "lib.fa")
	require.NoError(t, err)
	seq1, err := biolib.SeqEvent(biolib.Day(3), biolib.Cond("c"), "d3.fastq")
	require.NoError(t, err)
	seq2, err := biolib.SeqEvent(biolib.Day(8), biolib.Cond("c"), "d8.fastq")
	require.NoError(t, err)
	require.NoError(t, s.Do(infect.Metadata, infect.Data))
	require.NoError(t, s.Do(seq1.Metadata, seq1.Data))
	require.NoError(t, s.Do(seq2.Metadata, seq2.Data))

	goal, err := ir.NewAtom(biolib.PhenotypeScore, map[string]ir.Term{
		"ti": biolib.Day(8), "tf": biolib.Day(3), "c": biolib.Cond("c"),
	})
	require.NoError(t, err)

	result, err := s.Query(context.Background(), goal)
	require.NoError(t, err)
	require.False(t, result.Feasible)
}

func TestQueryTwoConditionsBindsOnlyQueriedSubset(t *testing.T) {
	lib, err := biolib.New()
	require.NoError(t, err)

	s := plan.NewSession(lib, factOracle{}, &interact.Policy{GoalMode: interact.AUTO, RuleMode: interact.AUTO})

	c1, c2 := biolib.Cond("c1"), biolib.Cond("c2")
	infect1, err := biolib.InfectEvent(biolib.Day(1), c1, "lib.fa")
	require.NoError(t, err)
	infect2, err := biolib.InfectEvent(biolib.Day(1), c2, "lib.fa")
	require.NoError(t, err)
	seq3, err := biolib.SeqEvent(biolib.Day(3), c1, "c1-d3.fastq")
	require.NoError(t, err)
	seq5, err := biolib.SeqEvent(biolib.Day(5), c1, "c1-d5.fastq")
	require.NoError(t, err)
	seq7, err := biolib.SeqEvent(biolib.Day(7), c1, "c1-d7.fastq")
	require.NoError(t, err)

	for _, e := range []biolib.Event{infect1, infect2, seq3, seq5, seq7} {
		require.NoError(t, s.Do(e.Metadata, e.Data))
	}

	goal, err := ir.NewAtom(biolib.PhenotypeScore, map[string]ir.Term{
		"ti": biolib.Day(3), "tf": biolib.Day(5), "c": c1,
	})
	require.NoError(t, err)

	result, err := s.Query(context.Background(), goal)
	require.NoError(t, err)
	require.True(t, result.Feasible)
	require.True(t, strings.Contains(result.Program, `"c1"`))
	require.False(t, strings.Contains(result.Program, `"c2"`))
}

func TestDoRejectsNonGroundEvent(t *testing.T) {
	lib, err := biolib.New()
	require.NoError(t, err)
	s := plan.NewSession(lib, factOracle{}, &interact.Policy{GoalMode: interact.AUTO, RuleMode: interact.AUTO})

	freeInfect := ir.Free(biolib.Infect, "x__")
	err = s.Do(freeInfect, "whatever")
	require.Error(t, err)
}
