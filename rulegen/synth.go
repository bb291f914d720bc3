// Package rulegen turns a typed procedure description and a precondition
// builder into an ir.Rule, by lifting each parameter's metadata relation
// into a freshly-named-variable atom and letting the builder produce the
// rule's checks.
//
// The original system discovered a procedure's parameter names and types by
// inspecting the procedure's source (Python introspection). Go has no
// runtime access to parameter names, so this package makes that discovery
// explicit registration instead: callers declare a Procedure's Params up
// front, and Synthesize validates the precondition's declared signature
// against it before ever invoking the builder.
package rulegen

import "github.com/tidegate/protoplan/ir"

// Param names one input of a registered procedure and the metadata
// relation describing its companion type.
type Param struct {
	Name     string
	Metadata ir.Relation
}

// Procedure is the synthesiser's view of a domain computation: an ordered
// list of named, metadata-typed parameters plus a metadata-typed return.
type Procedure struct {
	Label  string
	Params []Param
	Return ir.Relation
}

// Args is the set of freshly-lifted metadata atoms passed to a
// PreconditionBuilder: one per procedure parameter (keyed by parameter
// name) plus "ret" for the return metadata.
type Args map[string]ir.Atom

// PreconditionBuilder receives one metadata instance per procedure
// parameter, with fresh variables already substituted in, plus a trailing
// "ret" instance, and returns the check atoms for the synthesised rule.
type PreconditionBuilder func(args Args) ([]ir.Atom, error)

// Signature is the precondition builder's explicitly declared parameter
// names, in order, not including the trailing "ret". Synthesize fails with
// a ValidationError if this does not match Procedure.Params positionally.
type Signature struct {
	ParamNames []string
}

// Synthesize runs the synthesis algorithm: validate the precondition's
// declared signature against the procedure's shape, lift one fresh-variable
// metadata atom per parameter (prefixed paramName__) plus "ret" (prefixed
// ret__), invoke build, and assemble the resulting ir.Rule.
func Synthesize(proc Procedure, sig Signature, build PreconditionBuilder) (ir.Rule, error) {
	if len(sig.ParamNames) != len(proc.Params) {
		return ir.Rule{}, &ir.Error{
			Kind: ir.KindValidationError,
			Message: "precondition for " + proc.Label +
				" declares a different parameter count than the procedure",
		}
	}
	for i, p := range proc.Params {
		if sig.ParamNames[i] != p.Name {
			return ir.Rule{}, &ir.Error{
				Kind: ir.KindValidationError,
				Message: "precondition for " + proc.Label +
					" parameter " + sig.ParamNames[i] + " does not match procedure parameter " + p.Name,
			}
		}
	}

	args := make(Args, len(proc.Params)+1)
	deps := make([]ir.Dependency, len(proc.Params))
	for i, p := range proc.Params {
		atom := ir.Free(p.Metadata, p.Name+"__")
		args[p.Name] = atom
		deps[i] = ir.Dependency{Key: p.Name, Atom: atom}
	}
	ret := ir.Free(proc.Return, "ret__")
	args["ret"] = ret

	checks, err := build(args)
	if err != nil {
		return ir.Rule{}, err
	}

	return ir.Rule{
		Label:        proc.Label,
		Head:         ret,
		Dependencies: deps,
		Checks:       checks,
	}, nil
}
