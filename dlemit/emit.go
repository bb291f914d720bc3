// Package dlemit compiles the ir package's typed representation to Datalog
// source text: relation declarations, rules, ground facts, and the query
// block with its synthetic Goal relation.
package dlemit

import (
	"strings"

	"github.com/tidegate/protoplan/ir"
)

// Program renders the full Datalog source text for p answering q: relation
// declarations (program relations plus the query's synthetic Goal
// relation), rules (each preceded by a "// label" comment), ground event
// facts, and finally the query block.
//
// Identical rules registered more than once (same label and same body) are
// only ever emitted once; this is the documented behavior for duplicate
// rule registration across merged libraries.
func Program(p ir.Program, q ir.Query) string {
	var b strings.Builder

	for _, rel := range p.Relations() {
		if rel.IsInfix() {
			continue
		}
		decl, err := rel.DeclRepr(false)
		if err != nil {
			panic(err) // non-infix DeclRepr(false) never errors
		}
		b.WriteString(decl)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	seenRules := map[string]bool{}
	for _, r := range p.Rules {
		repr := r.DLRepr()
		if seenRules[repr] {
			continue
		}
		seenRules[repr] = true
		b.WriteString(repr)
		b.WriteString("\n\n")
	}

	for _, e := range p.Events {
		b.WriteString(e.DLRepr())
		b.WriteString(".\n")
	}
	b.WriteString("\n")

	b.WriteString(q.DLRepr())
	b.WriteString("\n")

	return b.String()
}
