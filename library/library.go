// Package library implements the rule-engine registry: a Library
// accumulates event/analysis relations and rules from domain code via
// explicit registration calls, rather than by scanning global class state.
package library

import (
	"go.uber.org/multierr"

	"github.com/tidegate/protoplan/ir"
	"github.com/tidegate/protoplan/rulegen"
)

// Library is a collection of registered relations and rules. Duplicate
// rule labels are permitted; duplicate relations must be structurally
// equal.
type Library struct {
	events    []ir.Relation
	analyses  []ir.Relation
	rules     []ir.Rule
	relations map[string]ir.Relation
}

// New returns an empty Library.
func New() *Library {
	return &Library{relations: map[string]ir.Relation{}}
}

// RegisterEvent registers rel as an event-kind relation. It is an error for
// rel to collide under the same name with a previously registered,
// structurally different relation.
func (l *Library) RegisterEvent(rel ir.Relation) error {
	if err := l.trackRelation(rel); err != nil {
		return err
	}
	l.events = append(l.events, rel)
	return nil
}

// RegisterAnalysis registers rel as an analysis-kind (query) relation.
func (l *Library) RegisterAnalysis(rel ir.Relation) error {
	if err := l.trackRelation(rel); err != nil {
		return err
	}
	l.analyses = append(l.analyses, rel)
	return nil
}

// RegisterRule adds rule to the library.
func (l *Library) RegisterRule(rule ir.Rule) error {
	if err := l.trackRelation(rule.Head.Relation()); err != nil {
		return err
	}
	l.rules = append(l.rules, rule)
	return nil
}

// Synthesize synthesizes a rule from proc/sig/build via rulegen.Synthesize
// and registers it. Any synthesis failure is returned unregistered.
func (l *Library) Synthesize(proc rulegen.Procedure, sig rulegen.Signature, build rulegen.PreconditionBuilder) error {
	rule, err := rulegen.Synthesize(proc, sig, build)
	if err != nil {
		return err
	}
	return l.RegisterRule(rule)
}

func (l *Library) trackRelation(rel ir.Relation) error {
	existing, ok := l.relations[rel.RelName]
	if ok && !existing.Equal(rel) {
		return &ir.Error{
			Kind:    ir.KindDuplicateRelation,
			Message: "relation " + rel.RelName + " registered twice with incompatible shapes",
		}
	}
	l.relations[rel.RelName] = rel
	return nil
}

// Events returns the registered event relations.
func (l *Library) Events() []ir.Relation { return l.events }

// Analyses returns the registered analysis relations.
func (l *Library) Analyses() []ir.Relation { return l.analyses }

// Rules returns the registered rules.
func (l *Library) Rules() []ir.Rule { return l.rules }

// Relations returns events followed by analyses.
func (l *Library) Relations() []ir.Relation {
	out := make([]ir.Relation, 0, len(l.events)+len(l.analyses))
	out = append(out, l.events...)
	out = append(out, l.analyses...)
	return out
}

// Merge unions any number of libraries into a new Library. A relation name
// registered with incompatible shapes across the inputs is reported as a
// combined error via multierr, rather than failing on the first conflict,
// so a caller wiring many domain libraries together sees every clash at
// once.
func Merge(libs ...*Library) (*Library, error) {
	out := New()
	var errs error
	for _, lib := range libs {
		for _, r := range lib.events {
			errs = multierr.Append(errs, out.RegisterEvent(r))
		}
		for _, r := range lib.analyses {
			errs = multierr.Append(errs, out.RegisterAnalysis(r))
		}
		for _, r := range lib.rules {
			errs = multierr.Append(errs, out.RegisterRule(r))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}
