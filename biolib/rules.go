package biolib

import (
	"github.com/tidegate/protoplan/ir"
	"github.com/tidegate/protoplan/library"
	"github.com/tidegate/protoplan/rulegen"
)

// New builds a Library carrying the Infect/Seq/PhenotypeScore relations and
// the enrichment procedures: ttest_enrichment and mageck_enrichment (both
// well-formed), wrong_fn (deliberately mis-ordered, for option pruning),
// and ttest_enrichment_unique (requires a unique infection time).
func New() (*library.Library, error) {
	lib := library.New()

	for _, err := range []error{
		lib.RegisterEvent(Infect),
		lib.RegisterEvent(Seq),
		lib.RegisterEvent(InfectCount),
		lib.RegisterEvent(Population),
		lib.RegisterAnalysis(PhenotypeScore),
		lib.RegisterAnalysis(ReadCount),
	} {
		if err != nil {
			return nil, err
		}
	}

	enrichmentSig := rulegen.Signature{ParamNames: []string{"infection", "seq1", "seq2"}}
	enrichmentProc := func(label string) rulegen.Procedure {
		return rulegen.Procedure{
			Label: label,
			Params: []rulegen.Param{
				{Name: "infection", Metadata: Infect},
				{Name: "seq1", Metadata: Seq},
				{Name: "seq2", Metadata: Seq},
			},
			Return: PhenotypeScore,
		}
	}

	if err := lib.Synthesize(enrichmentProc("ttest_enrichment"), enrichmentSig, enrichmentPrecondition); err != nil {
		return nil, err
	}
	if err := lib.Synthesize(enrichmentProc("mageck_enrichment"), enrichmentSig, enrichmentPrecondition); err != nil {
		return nil, err
	}
	if err := lib.Synthesize(enrichmentProc("wrong_fn"), enrichmentSig, wrongPrecondition); err != nil {
		return nil, err
	}

	uniqueProc := rulegen.Procedure{
		Label: "ttest_enrichment_unique",
		Params: []rulegen.Param{
			{Name: "infection", Metadata: Infect},
			{Name: "count", Metadata: InfectCount},
			{Name: "seq1", Metadata: Seq},
			{Name: "seq2", Metadata: Seq},
		},
		Return: PhenotypeScore,
	}
	uniqueSig := rulegen.Signature{ParamNames: []string{"infection", "count", "seq1", "seq2"}}
	if err := lib.Synthesize(uniqueProc, uniqueSig, uniquePrecondition); err != nil {
		return nil, err
	}

	amplifyProc := rulegen.Procedure{
		Label: "pcr_amplify",
		Params: []rulegen.Param{
			{Name: "seq", Metadata: Seq},
		},
		Return: ReadCount,
	}
	amplifySig := rulegen.Signature{ParamNames: []string{"seq"}}
	if err := lib.Synthesize(amplifyProc, amplifySig, amplifyPrecondition); err != nil {
		return nil, err
	}

	return lib, nil
}

// amplifyPrecondition requires the amplified read count to describe the same
// time and condition as the sequencing round it was read from.
func amplifyPrecondition(args rulegen.Args) ([]ir.Atom, error) {
	seq, ret := args["seq"], args["ret"]
	return checks(
		check(TimeEq, arg(ret, "t"), arg(seq, "t")),
		check(CondEq, arg(ret, "c"), arg(seq, "c")),
	)
}

// enrichmentPrecondition requires a linear infect-then-sequence protocol
// within one condition: infection strictly before the first sequencing
// round, which is strictly before the second.
func enrichmentPrecondition(args rulegen.Args) ([]ir.Atom, error) {
	infection, seq1, seq2, ret := args["infection"], args["seq1"], args["seq2"], args["ret"]
	return checks(
		check(TimeLt, arg(infection, "t"), arg(seq1, "t")),
		check(TimeLt, arg(seq1, "t"), arg(seq2, "t")),
		check(TimeEq, arg(ret, "ti"), arg(seq1, "t")),
		check(TimeEq, arg(ret, "tf"), arg(seq2, "t")),
		check(CondEq, arg(infection, "c"), arg(seq1, "c")),
		check(CondEq, arg(infection, "c"), arg(seq2, "c")),
		check(CondEq, arg(infection, "c"), arg(ret, "c")),
	)
}

// wrongPrecondition is enrichmentPrecondition with its first ordering check
// inverted: it can never be satisfied by a real protocol, so this rule's
// option list is always empty. It exists to exercise rule-option pruning
// when two rules share a head relation.
func wrongPrecondition(args rulegen.Args) ([]ir.Atom, error) {
	infection, seq1, seq2, ret := args["infection"], args["seq1"], args["seq2"], args["ret"]
	return checks(
		check(TimeLt, arg(seq1, "t"), arg(infection, "t")),
		check(TimeLt, arg(seq1, "t"), arg(seq2, "t")),
		check(TimeEq, arg(ret, "ti"), arg(seq1, "t")),
		check(TimeEq, arg(ret, "tf"), arg(seq2, "t")),
		check(CondEq, arg(infection, "c"), arg(seq1, "c")),
		check(CondEq, arg(infection, "c"), arg(seq2, "c")),
		check(CondEq, arg(infection, "c"), arg(ret, "c")),
	)
}

// uniquePrecondition additionally requires that infection's (t, c) pair
// have exactly one recorded occurrence, via the InfectCount dependency.
func uniquePrecondition(args rulegen.Args) ([]ir.Atom, error) {
	infection, count, seq1, seq2, ret := args["infection"], args["count"], args["seq1"], args["seq2"], args["ret"]
	return checks(
		check(TimeEq, arg(count, "t"), arg(infection, "t")),
		check(CondEq, arg(count, "c"), arg(infection, "c")),
		check(CountEq, arg(count, "n"), Count(1)),
		check(TimeLt, arg(infection, "t"), arg(seq1, "t")),
		check(TimeLt, arg(seq1, "t"), arg(seq2, "t")),
		check(TimeEq, arg(ret, "ti"), arg(seq1, "t")),
		check(TimeEq, arg(ret, "tf"), arg(seq2, "t")),
		check(CondEq, arg(infection, "c"), arg(seq1, "c")),
		check(CondEq, arg(infection, "c"), arg(seq2, "c")),
		check(CondEq, arg(infection, "c"), arg(ret, "c")),
	)
}

func arg(a ir.Atom, key string) ir.Term {
	t, err := a.GetArg(key)
	if err != nil {
		panic(err) // biolib only ever calls arg with keys its own relations declare
	}
	return t
}

type checkBuilder func() (ir.Atom, error)

func check(rel ir.Relation, lhs, rhs ir.Term) checkBuilder {
	return func() (ir.Atom, error) {
		return ir.NewAtom(rel, map[string]ir.Term{"lhs": lhs, "rhs": rhs})
	}
}

func checks(builders ...checkBuilder) ([]ir.Atom, error) {
	out := make([]ir.Atom, len(builders))
	for i, b := range builders {
		a, err := b()
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}
