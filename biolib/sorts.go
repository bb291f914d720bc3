// Package biolib is the domain plug-in content the library registration
// interface was built for: time/condition sorts, the Infect/Seq/
// PhenotypeScore event and analysis kinds, and the enrichment procedures
// that derive a phenotype score from a linear infect-then-sequence
// protocol. None of this is part of the rule engine itself; it is the kind
// of content an experimental-biology user would register.
package biolib

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/tidegate/protoplan/ir"
)

// timeSort is the "number" sort: a non-negative day count.
type timeSort struct{}

// TimeSort is the Sort value for Time terms.
var TimeSort ir.Sort = timeSort{}

func (timeSort) Name() string { return "number" }

func (timeSort) Parse(s string) (ir.Term, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parsing time literal %q: %w", s, err)
	}
	return Day(n), nil
}

func (timeSort) Var(name string) ir.Term { return ir.NewVariable(name, TimeSort) }

// Day is a ground Time literal: a day count from the start of the protocol.
func Day(n int) ir.Term {
	return ir.NewLiteral(TimeSort, n, func(v any) string { return strconv.Itoa(v.(int)) })
}

// condSort is the "symbol" sort identifying an experimental condition.
type condSort struct{}

// CondSort is the Sort value for Cond terms.
var CondSort ir.Sort = condSort{}

func (condSort) Name() string { return "symbol" }

func (condSort) Parse(s string) (ir.Term, error) {
	return Cond(s), nil
}

func (condSort) Var(name string) ir.Term { return ir.NewVariable(name, CondSort) }

var anonCondCounter int64

// Cond is a ground Cond literal naming an experimental condition.
func Cond(symbol string) ir.Term {
	return ir.NewLiteral(CondSort, symbol, func(v any) string { return `"` + v.(string) + `"` })
}

// Condition returns a fresh, uniquely-named anonymous condition, mirroring
// a user script that wants a new condition without committing to a name.
func Condition() ir.Term {
	n := atomic.AddInt64(&anonCondCounter, 1)
	return Cond(fmt.Sprintf("c%d", n))
}

// countSort is the "number" sort used by auxiliary occurrence-count facts.
type countSort struct{}

// CountSort is the Sort value for occurrence-count terms.
var CountSort ir.Sort = countSort{}

func (countSort) Name() string { return "number" }

func (countSort) Parse(s string) (ir.Term, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parsing count literal %q: %w", s, err)
	}
	return Count(n), nil
}

func (countSort) Var(name string) ir.Term { return ir.NewVariable(name, CountSort) }

// Count is a ground occurrence-count literal.
func Count(n int) ir.Term {
	return ir.NewLiteral(CountSort, n, func(v any) string { return strconv.Itoa(v.(int)) })
}

// popSort is the "symbol" sort identifying a cell population, independent of
// any infection event — the Population/Infection split stdbiolib.py draws
// between "what population exists" and "what happened to it".
type popSort struct{}

// PopSort is the Sort value for Population terms.
var PopSort ir.Sort = popSort{}

func (popSort) Name() string { return "symbol" }

func (popSort) Parse(s string) (ir.Term, error) {
	return Pop(s), nil
}

func (popSort) Var(name string) ir.Term { return ir.NewVariable(name, PopSort) }

// Pop is a ground Population literal naming a cell population.
func Pop(symbol string) ir.Term {
	return ir.NewLiteral(PopSort, symbol, func(v any) string { return `"` + v.(string) + `"` })
}
