package solver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidegate/protoplan/ir"
	"github.com/tidegate/protoplan/solver"
)

type numberSort struct{}

func (numberSort) Name() string { return "number" }
func (numberSort) Parse(s string) (ir.Term, error) {
	return ir.NewLiteral(numberSort{}, s, func(v any) string { return v.(string) }), nil
}
func (numberSort) Var(name string) ir.Term { return ir.NewVariable(name, numberSort{}) }

func TestRunnerAnswerParsesGoalTuples(t *testing.T) {
	bin := fakeSolver(t, `
dir=$2
printf '1\n3\n' > "$dir/Goal.csv"
exit 0
`)
	rel, err := ir.NewRelation("Seq", []ir.Arg{{Key: "t", Sort: numberSort{}}}, "")
	require.NoError(t, err)
	prog, err := ir.NewProgram(nil, nil)
	require.NoError(t, err)
	q, err := ir.NewQuery([]ir.Atom{ir.Free(rel, "x__")})
	require.NoError(t, err)

	runner := solver.Runner{Gateway: solver.New(bin)}
	assignments, err := runner.Answer(context.Background(), prog, q)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.Equal(t, "1", assignments[0]["x__t"].DLRepr())
	require.Equal(t, "3", assignments[1]["x__t"].DLRepr())
}
