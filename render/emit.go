// Package render renders a completed derivation tree as an executable
// output program: a postorder walk binding a fresh name to each distinct
// consequent, first the trace-event initialisations, then the computed
// steps that consume them.
package render

import (
	"fmt"
	"strings"

	"github.com/tidegate/protoplan/derivation"
	"github.com/tidegate/protoplan/ir"
)

// EventData maps a recorded event atom's Key() to the data value that was
// attached to it at registration time (the "d=" side of its Value literal).
type EventData map[string]string

type pathedNode struct {
	path derivation.Breadcrumbs
	tree derivation.Tree
}

// Program renders tree as two sections, "# Load data" then "# Compute",
// using data to fill in each leaf's recorded value. tree must be fully
// derived: an OpenGoal anywhere in it is an error.
func Program(tree derivation.Tree, data EventData) (string, error) {
	nodes, err := postorderPaths(tree, nil)
	if err != nil {
		return "", err
	}

	nameOf := map[string]string{}
	var loads, computes []string

	for _, n := range nodes {
		atom, err := consequentOf(n.tree)
		if err != nil {
			return "", err
		}
		key := atom.Key()
		if _, seen := nameOf[key]; seen {
			continue
		}
		name := pathName(n.path)
		nameOf[key] = name

		switch t := n.tree.(type) {
		case derivation.Leaf:
			d, ok := data[key]
			if !ok {
				return "", fmt.Errorf("render: no recorded data for event %s", key)
			}
			loads = append(loads, fmt.Sprintf("%s = Value(d=%s, m=%s)", name, d, atom.Unparse()))
		case derivation.Step:
			bindings := make([]string, len(t.Keys))
			for i, k := range t.Keys {
				childAtom, err := consequentOf(t.Antecedents[k])
				if err != nil {
					return "", err
				}
				childName, ok := nameOf[childAtom.Key()]
				if !ok {
					return "", fmt.Errorf("render: dependency %q of %s has no assigned name yet", k, name)
				}
				bindings[i] = k + "=" + childName
			}
			computes = append(computes, fmt.Sprintf(
				"%s = Value(d=%s(%s), m=%s)", name, t.Label, strings.Join(bindings, ", "), atom.Unparse(),
			))
		}
	}

	var b strings.Builder
	b.WriteString("# Load data\n")
	for _, l := range loads {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n# Compute\n")
	for _, c := range computes {
		b.WriteString(c)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func consequentOf(t derivation.Tree) (ir.Atom, error) {
	switch n := t.(type) {
	case derivation.Leaf:
		return n.Event, nil
	case derivation.Step:
		return n.Consequent, nil
	default:
		return ir.Atom{}, fmt.Errorf("render: tree is not fully derived, found an open goal")
	}
}

func pathName(path derivation.Breadcrumbs) string {
	if len(path) == 0 {
		return "output"
	}
	return strings.Join([]string(path), "_")
}

func postorderPaths(t derivation.Tree, path derivation.Breadcrumbs) ([]pathedNode, error) {
	step, ok := t.(derivation.Step)
	if !ok {
		if _, isOpen := t.(derivation.OpenGoal); isOpen {
			return nil, fmt.Errorf("render: tree is not fully derived, found an open goal at %v", path)
		}
		return []pathedNode{{path: path, tree: t}}, nil
	}

	var out []pathedNode
	for _, k := range step.Keys {
		children, err := postorderPaths(step.Antecedents[k], path.Append(k))
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return append(out, pathedNode{path: path, tree: t}), nil
}
