package biolib

import "github.com/tidegate/protoplan/ir"

func must(r ir.Relation, err error) ir.Relation {
	if err != nil {
		panic(err) // relation shapes below are fixed and known-valid
	}
	return r
}

// Infect is the metadata relation for an infection event: a time and a
// condition.
var Infect = must(ir.NewRelation("Infect", []ir.Arg{
	{Key: "t", Sort: TimeSort},
	{Key: "c", Sort: CondSort},
}, ""))

// Seq is the metadata relation for a sequencing event: a time and a
// condition.
var Seq = must(ir.NewRelation("Seq", []ir.Arg{
	{Key: "t", Sort: TimeSort},
	{Key: "c", Sort: CondSort},
}, ""))

// PhenotypeScore is the metadata relation for the enrichment-score analysis:
// an initial time, a final time, and a condition.
var PhenotypeScore = must(ir.NewRelation("PhenotypeScore", []ir.Arg{
	{Key: "ti", Sort: TimeSort},
	{Key: "tf", Sort: TimeSort},
	{Key: "c", Sort: CondSort},
}, ""))

// InfectCount is an auxiliary relation recording, per condition and time,
// how many Infect events share that (t, c) pair. A rule requiring unique
// infection times depends on it and checks the count equals one.
var InfectCount = must(ir.NewRelation("InfectCount", []ir.Arg{
	{Key: "t", Sort: TimeSort},
	{Key: "c", Sort: CondSort},
	{Key: "n", Sort: CountSort},
}, ""))

// TimeEq is the infix equality relation over Time terms.
var TimeEq = must(ir.NewRelation("TimeEq", []ir.Arg{
	{Key: "lhs", Sort: TimeSort},
	{Key: "rhs", Sort: TimeSort},
}, "="))

// TimeLt is the infix strict-order relation over Time terms.
var TimeLt = must(ir.NewRelation("TimeLt", []ir.Arg{
	{Key: "lhs", Sort: TimeSort},
	{Key: "rhs", Sort: TimeSort},
}, "<"))

// CondEq is the infix equality relation over Cond terms.
var CondEq = must(ir.NewRelation("CondEq", []ir.Arg{
	{Key: "lhs", Sort: CondSort},
	{Key: "rhs", Sort: CondSort},
}, "="))

// CountEq is the infix equality relation over occurrence-count terms.
var CountEq = must(ir.NewRelation("CountEq", []ir.Arg{
	{Key: "lhs", Sort: CountSort},
	{Key: "rhs", Sort: CountSort},
}, "="))

// Population is the metadata relation for a standing cell population,
// recorded independently of any particular infection event.
var Population = must(ir.NewRelation("Population", []ir.Arg{
	{Key: "p", Sort: PopSort},
}, ""))

// ReadCount is the metadata relation for an amplified-read-count result: a
// time and condition, mirroring the PCR-amplification step stdbiolib.py
// inserts between a sequencing round and its enrichment score.
var ReadCount = must(ir.NewRelation("ReadCount", []ir.Arg{
	{Key: "t", Sort: TimeSort},
	{Key: "c", Sort: CondSort},
}, ""))
