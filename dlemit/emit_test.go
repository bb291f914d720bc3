package dlemit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidegate/protoplan/dlemit"
	"github.com/tidegate/protoplan/dlparse"
	"github.com/tidegate/protoplan/ir"
)

type numberSort struct{}

func (numberSort) Name() string { return "number" }
func (numberSort) Parse(s string) (ir.Term, error) {
	return ir.NewLiteral(numberSort{}, s, func(v any) string { return v.(string) }), nil
}
func (numberSort) Var(name string) ir.Term { return ir.NewVariable(name, numberSort{}) }

type symbolSort struct{}

func (symbolSort) Name() string { return "symbol" }
func (symbolSort) Parse(s string) (ir.Term, error) {
	return ir.NewLiteral(symbolSort{}, s, func(v any) string { return `"` + v.(string) + `"` }), nil
}
func (symbolSort) Var(name string) ir.Term { return ir.NewVariable(name, symbolSort{}) }

func num(n string) ir.Term { return ir.NewLiteral(numberSort{}, n, func(v any) string { return v.(string) }) }
func sym(s string) ir.Term {
	return ir.NewLiteral(symbolSort{}, s, func(v any) string { return `"` + v.(string) + `"` })
}

func TestEmitOrdersDeclsByFirstOccurrence(t *testing.T) {
	infect, err := ir.NewRelation("Infect", []ir.Arg{{Key: "t", Sort: numberSort{}}, {Key: "c", Sort: symbolSort{}}}, "")
	require.NoError(t, err)
	seq, err := ir.NewRelation("Seq", []ir.Arg{{Key: "t", Sort: numberSort{}}, {Key: "c", Sort: symbolSort{}}}, "")
	require.NoError(t, err)

	infectEvent, err := ir.NewAtom(infect, map[string]ir.Term{"t": num("1"), "c": sym("c")})
	require.NoError(t, err)
	seqEvent, err := ir.NewAtom(seq, map[string]ir.Term{"t": num("3"), "c": sym("c")})
	require.NoError(t, err)

	prog, err := ir.NewProgram([]ir.Atom{seqEvent, infectEvent}, nil)
	require.NoError(t, err)

	q, err := ir.NewQuery([]ir.Atom{ir.Free(seq, "x__")})
	require.NoError(t, err)

	text := dlemit.Program(prog, q)

	seqIdx := strings.Index(text, ".decl Seq(")
	infectIdx := strings.Index(text, ".decl Infect(")
	require.True(t, seqIdx >= 0 && infectIdx >= 0)
	require.Less(t, seqIdx, infectIdx, "relations must be declared in first-occurrence order")
}

func TestEmitDeduplicatesIdenticalRules(t *testing.T) {
	rel, err := ir.NewRelation("Mark", []ir.Arg{{Key: "t", Sort: numberSort{}}}, "")
	require.NoError(t, err)

	head := ir.Free(rel, "ret__")
	rule := ir.Rule{Label: "noop", Head: head}

	prog, err := ir.NewProgram(nil, []ir.Rule{rule, rule})
	require.NoError(t, err)
	q, err := ir.NewQuery([]ir.Atom{ir.Free(rel, "x__")})
	require.NoError(t, err)

	text := dlemit.Program(prog, q)
	require.Equal(t, 1, strings.Count(text, "// noop"))
}

func TestEmitIsIdempotent(t *testing.T) {
	rel, err := ir.NewRelation("Mark", []ir.Arg{{Key: "t", Sort: numberSort{}}}, "")
	require.NoError(t, err)
	ev, err := ir.NewAtom(rel, map[string]ir.Term{"t": num("1")})
	require.NoError(t, err)
	prog, err := ir.NewProgram([]ir.Atom{ev}, nil)
	require.NoError(t, err)
	q, err := ir.NewQuery([]ir.Atom{ir.Free(rel, "x__")})
	require.NoError(t, err)

	require.Equal(t, dlemit.Program(prog, q), dlemit.Program(prog, q))
}

func TestEmitParsesBackWithDeclOrderAndFactsPreserved(t *testing.T) {
	infect, err := ir.NewRelation("Infect", []ir.Arg{{Key: "t", Sort: numberSort{}}, {Key: "c", Sort: symbolSort{}}}, "")
	require.NoError(t, err)
	seq, err := ir.NewRelation("Seq", []ir.Arg{{Key: "t", Sort: numberSort{}}, {Key: "c", Sort: symbolSort{}}}, "")
	require.NoError(t, err)

	infectEvent, err := ir.NewAtom(infect, map[string]ir.Term{"t": num("1"), "c": sym("c")})
	require.NoError(t, err)
	seqEvent, err := ir.NewAtom(seq, map[string]ir.Term{"t": num("3"), "c": sym("c")})
	require.NoError(t, err)

	head := ir.Free(seq, "ret__")
	dep := ir.Free(infect, "infection__")
	rule := ir.Rule{
		Label:        "ttest_enrichment",
		Head:         head,
		Dependencies: []ir.Dependency{{Key: "infection", Atom: dep}},
	}

	prog, err := ir.NewProgram([]ir.Atom{infectEvent, seqEvent}, []ir.Rule{rule})
	require.NoError(t, err)
	q, err := ir.NewQuery([]ir.Atom{ir.Free(seq, "x__")})
	require.NoError(t, err)

	text := dlemit.Program(prog, q)

	doc, err := dlparse.Parse(text)
	require.NoError(t, err)

	require.Equal(t, []string{"Infect", "Seq", "Goal"}, doc.DeclNames())
	require.Equal(t, []string{"Goal"}, doc.Outputs)
	require.Len(t, doc.Facts, 2)
	require.Len(t, doc.Rules, 2) // ttest_enrichment + the synthetic query rule

	labelled := doc.Rules[0]
	require.Equal(t, "ttest_enrichment", labelled.Label)
	require.Equal(t, "Seq", labelled.Head.Predicate)
	require.Len(t, labelled.Body, 1)
	require.Equal(t, "Infect", labelled.Body[0].(dlparse.Atom).Predicate)

	// Re-parsing the same text is idempotent: same decl order, same counts.
	doc2, err := dlparse.Parse(text)
	require.NoError(t, err)
	require.Equal(t, doc.DeclNames(), doc2.DeclNames())
	require.Equal(t, len(doc.Facts), len(doc2.Facts))
	require.Equal(t, len(doc.Rules), len(doc2.Rules))
}
