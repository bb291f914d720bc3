// Package plan is the user-program surface: it wires a Library, a Datalog
// emitter, a solver-backed Oracle, the derivation engine, and the
// output-program renderer into the three calls a domain script makes —
// record an event, pose an analysis query, and get back a verdict plus a
// runnable recipe.
package plan

import (
	"context"
	"fmt"
	"os"

	"github.com/tidegate/protoplan/derivation"
	"github.com/tidegate/protoplan/dlemit"
	"github.com/tidegate/protoplan/interact"
	"github.com/tidegate/protoplan/ir"
	"github.com/tidegate/protoplan/library"
	"github.com/tidegate/protoplan/render"
	"github.com/tidegate/protoplan/solver"
)

// Session accumulates an event trace against a fixed library and answers
// queries against it. It is not safe for concurrent use: event recording
// and querying are expected to happen in one script's sequential flow.
type Session struct {
	library    *library.Library
	oracle     solver.Oracle
	interactor derivation.Interactor

	events []ir.Atom
	data   render.EventData
}

// NewSession builds a Session over lib, answering queries through oracle
// and resolving derivation choices through interactor.
func NewSession(lib *library.Library, oracle solver.Oracle, interactor derivation.Interactor) *Session {
	return &Session{
		library:    lib,
		oracle:     oracle,
		interactor: interactor,
		data:       render.EventData{},
	}
}

// NewCLISession is a convenience constructor wiring a Runner against the
// named solver binary and a fast-forwarding, auto-selecting interactor —
// the defaults a non-interactive script wants.
func NewCLISession(lib *library.Library, solverBinary string) *Session {
	return NewSession(lib, solver.NewRunner(solverBinary), &interact.Policy{
		GoalMode: interact.AUTO,
		RuleMode: interact.FAST_FORWARD,
		Manual:   &interact.Manual{In: os.Stdin, Out: os.Stdout},
	})
}

// Do appends a ground event to the trace. metadata must be one of the
// library's registered event relations, applied to ground terms; data is
// the recorded payload rendered into the output program's "d=" value for
// this event, in the same Go-literal-ish surface render.Program expects.
func (s *Session) Do(metadata ir.Atom, data string) error {
	if !metadata.Ground() {
		return &ir.Error{Kind: ir.KindNonGroundEvent, Message: "event " + metadata.DLRepr() + " is not ground"}
	}
	s.events = append(s.events, metadata)
	s.data[metadata.Key()] = data
	return nil
}

// Result is the outcome of a Query: whether the analysis is derivable, and
// if so, the derivation tree and its rendered output program.
type Result struct {
	Feasible bool
	Tree     derivation.Tree
	Program  string
}

// Query evaluates goal's feasibility against the recorded trace and this
// session's library, and — if feasible — drives the derivation engine and
// renders an output program. An infeasible goal is a negative verdict, not
// an error: only solver/derivation malfunctions return a non-nil error.
func (s *Session) Query(ctx context.Context, goal ir.Atom) (Result, error) {
	prog, err := ir.NewProgram(s.events, s.library.Rules())
	if err != nil {
		return Result{}, err
	}

	feasible, err := s.probe(ctx, prog, goal)
	if err != nil {
		return Result{}, err
	}
	if !feasible {
		return Result{Feasible: false}, nil
	}

	constructor := &derivation.Constructor{Program: prog, Oracle: s.oracle, Interactor: s.interactor}
	tree, err := constructor.Construct(ctx, goal)
	if err != nil {
		return Result{}, fmt.Errorf("constructing derivation: %w", err)
	}

	out, err := render.Program(tree, s.data)
	if err != nil {
		return Result{}, fmt.Errorf("rendering output program: %w", err)
	}

	return Result{Feasible: true, Tree: tree, Program: out}, nil
}

func (s *Session) probe(ctx context.Context, prog ir.Program, goal ir.Atom) (bool, error) {
	q, err := ir.NewQuery([]ir.Atom{goal})
	if err != nil {
		return false, err
	}
	assignments, err := s.oracle.Answer(ctx, prog, q)
	if err != nil {
		return false, err
	}
	return len(assignments) > 0, nil
}

// EmitDatalog renders the Datalog source text that Query(goal) would submit
// to the oracle for a feasibility probe, useful for diagnostics.
func (s *Session) EmitDatalog(goal ir.Atom) (string, error) {
	prog, err := ir.NewProgram(s.events, s.library.Rules())
	if err != nil {
		return "", err
	}
	q, err := ir.NewQuery([]ir.Atom{goal})
	if err != nil {
		return "", err
	}
	return dlemit.Program(prog, q), nil
}
