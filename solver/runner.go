package solver

import (
	"context"
	"fmt"

	"github.com/tidegate/protoplan/dlemit"
	"github.com/tidegate/protoplan/ir"
)

// Oracle answers a query against a program, returning one ir.Assignment per
// satisfying tuple of the query's free variables. It is the interface the
// derivation engine probes at every open subgoal, so that feasibility
// checking and derivation share the same solver infrastructure.
type Oracle interface {
	Answer(ctx context.Context, prog ir.Program, q ir.Query) ([]ir.Assignment, error)
}

// Runner is the default Oracle: it emits Datalog source for (prog, q),
// runs it through a Gateway, and parses the Goal relation's tuples back
// into typed assignments using each free variable's sort.
type Runner struct {
	Gateway *Gateway
}

// NewRunner builds a Runner over the given solver binary.
func NewRunner(binaryPath string) *Runner {
	return &Runner{Gateway: New(binaryPath)}
}

// Answer implements Oracle.
func (r *Runner) Answer(ctx context.Context, prog ir.Program, q ir.Query) ([]ir.Assignment, error) {
	source := dlemit.Program(prog, q)
	out, err := r.Gateway.Run(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("running oracle query: %w", err)
	}

	rows := out.Facts[q.Goal.Name()]
	assignments := make([]ir.Assignment, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(q.Goal.Arity) {
			return nil, fmt.Errorf(
				"oracle returned a %s tuple of arity %d, want %d",
				q.Goal.Name(), len(row), len(q.Goal.Arity),
			)
		}
		assignment := ir.Assignment{}
		for i, arg := range q.Goal.Arity {
			term, err := arg.Sort.Parse(row[i])
			if err != nil {
				return nil, fmt.Errorf("parsing %s.%s: %w", q.Goal.Name(), arg.Key, err)
			}
			assignment[arg.Key] = term
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}
