// Package interact implements the derivation-tree interaction surface:
// the three selection hooks (goal, rule, assignment) the construction loop
// calls at every step, plus the two ways a caller can answer them.
package interact

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/tidegate/protoplan/derivation"
	"github.com/tidegate/protoplan/ir"
)

// Manual presents numbered choices on Out and reads a selection index from
// In, one line at a time.
type Manual struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

func (m *Manual) reader() *bufio.Scanner {
	if m.scanner == nil {
		m.scanner = bufio.NewScanner(m.In)
	}
	return m.scanner
}

func (m *Manual) readIndex(n int) (int, error) {
	s := m.reader()
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("no selection entered")
	}
	i, err := strconv.Atoi(s.Text())
	if err != nil {
		return 0, fmt.Errorf("invalid selection %q: %w", s.Text(), err)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("selection %d out of range [0,%d)", i, n)
	}
	return i, nil
}

func (m *Manual) DisplayTree(t derivation.Tree) {
	fmt.Fprintln(m.Out, "\n===== Derivation tree =====")
	fmt.Fprintln(m.Out, t.String())
	fmt.Fprintln(m.Out, "===================================")
}

func (m *Manual) SelectGoal(goals []derivation.PathedAtom) (derivation.PathedAtom, error) {
	fmt.Fprintln(m.Out, "\nSelect a goal to work on:")
	for i, g := range goals {
		fmt.Fprintf(m.Out, "%d. %s\n", i, g.Atom.DLRepr())
	}
	i, err := m.readIndex(len(goals))
	if err != nil {
		return derivation.PathedAtom{}, err
	}
	return goals[i], nil
}

func (m *Manual) SelectRule(options []derivation.RuleOption) (derivation.RuleOption, error) {
	fmt.Fprintln(m.Out, "\nSelect a rule to use:")
	valid := nonEmpty(options)
	for i, o := range valid {
		fmt.Fprintf(m.Out, "%d. %s\n", i, o.Rule.Label)
	}
	i, err := m.readIndex(len(valid))
	if err != nil {
		return derivation.RuleOption{}, err
	}
	return valid[i], nil
}

func (m *Manual) SelectAssignment(assignments []ir.Assignment) (ir.Assignment, error) {
	if len(assignments) == 1 {
		return assignments[0], nil
	}
	fmt.Fprintln(m.Out, "\nSelect an assignment to use:")
	for i, a := range assignments {
		fmt.Fprintf(m.Out, "%d. %s\n", i, assignmentString(a))
	}
	i, err := m.readIndex(len(assignments))
	if err != nil {
		return nil, err
	}
	return assignments[i], nil
}

func nonEmpty(options []derivation.RuleOption) []derivation.RuleOption {
	var out []derivation.RuleOption
	for _, o := range options {
		if len(o.Assignments) > 0 {
			out = append(out, o)
		}
	}
	return out
}

func assignmentString(a ir.Assignment) string {
	out := "{"
	first := true
	for k, v := range a {
		if !first {
			out += ", "
		}
		first = false
		out += k + " -> " + v.DLRepr()
	}
	return out + "}"
}
