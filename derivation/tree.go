// Package derivation implements the goal-directed derivation tree: given a
// reference program already known to satisfy a query, it grows a concrete
// proof tree by repeatedly asking an oracle which rules and assignments
// apply at each open subgoal.
package derivation

import (
	"fmt"

	"github.com/tidegate/protoplan/ir"
)

// Breadcrumbs is a path through a derivation tree, expressed as the
// sequence of dependency keys from the root. Breadcrumbs are plain values:
// nothing in this package mutates one in place, so a slice collected by
// Goals remains valid to pass to Replace later, and to reuse afterward.
type Breadcrumbs []string

// Append returns a new Breadcrumbs with key appended, leaving the receiver
// untouched.
func (b Breadcrumbs) Append(key string) Breadcrumbs {
	next := make(Breadcrumbs, len(b)+1)
	copy(next, b)
	next[len(b)] = key
	return next
}

// PathedAtom pairs an open goal's atom with its breadcrumb path from the
// tree root.
type PathedAtom struct {
	Atom ir.Atom
	Path Breadcrumbs
}

// Tree is a node in a derivation tree: an OpenGoal, a Step, or a Leaf.
type Tree interface {
	// Children returns this node's immediate subtrees, in dependency-key
	// order, or nil for OpenGoal and Leaf.
	Children() []Tree

	// Goals returns every open-goal descendant (including this node, if it
	// is itself an OpenGoal) paired with its breadcrumb path relative to
	// this node, in tree order.
	Goals() []PathedAtom

	// Replace descends by dependency-key and swaps in newSubtree at path.
	// An empty path replaces this node itself, except on a Leaf. It is a
	// KindTreeNavigation error to replace a Leaf (at any path), to descend
	// into an OpenGoal, or to name an unknown dependency key.
	Replace(path Breadcrumbs, newSubtree Tree) (Tree, error)

	// String renders the tree for display, most deeply nested node at the
	// highest indent.
	String() string
}

// Postorder returns every subtree of t, children before parents, ending
// with t itself.
func Postorder(t Tree) []Tree {
	var out []Tree
	for _, c := range t.Children() {
		out = append(out, Postorder(c)...)
	}
	return append(out, t)
}

// OpenGoal is an atom awaiting proof.
type OpenGoal struct {
	Goal ir.Atom
}

func (g OpenGoal) Children() []Tree { return nil }

func (g OpenGoal) Goals() []PathedAtom {
	return []PathedAtom{{Atom: g.Goal, Path: nil}}
}

func (g OpenGoal) Replace(path Breadcrumbs, newSubtree Tree) (Tree, error) {
	if len(path) == 0 {
		return newSubtree, nil
	}
	return nil, treeNavErr("cannot descend into an open goal at %v", path)
}

func (g OpenGoal) String() string {
	return "*** " + g.Goal.DLRepr()
}

// Leaf is a ground event atom drawn from the reference trace.
type Leaf struct {
	Event ir.Atom
}

func (l Leaf) Children() []Tree { return nil }

func (l Leaf) Goals() []PathedAtom { return nil }

func (l Leaf) Replace(path Breadcrumbs, _ Tree) (Tree, error) {
	return nil, treeNavErr("cannot replace a leaf (remaining path %v)", path)
}

func (l Leaf) String() string {
	return "[leaf] " + l.Event.DLRepr()
}

// Step is a consequent atom derived via a named rule from its ordered
// dependencies, each itself a subtree.
type Step struct {
	Label       string
	Consequent  ir.Atom
	Keys        []string
	Antecedents map[string]Tree
}

func (s Step) Children() []Tree {
	out := make([]Tree, len(s.Keys))
	for i, k := range s.Keys {
		out[i] = s.Antecedents[k]
	}
	return out
}

func (s Step) Goals() []PathedAtom {
	var out []PathedAtom
	for _, k := range s.Keys {
		for _, pg := range s.Antecedents[k].Goals() {
			out = append(out, PathedAtom{Atom: pg.Atom, Path: append(Breadcrumbs{k}, pg.Path...)})
		}
	}
	return out
}

func (s Step) Replace(path Breadcrumbs, newSubtree Tree) (Tree, error) {
	if len(path) == 0 {
		return newSubtree, nil
	}
	key, rest := path[0], path[1:]
	child, ok := s.Antecedents[key]
	if !ok {
		return nil, treeNavErr("unknown dependency key %q", key)
	}
	replaced, err := child.Replace(rest, newSubtree)
	if err != nil {
		return nil, err
	}
	nextAntecedents := make(map[string]Tree, len(s.Antecedents))
	for k, v := range s.Antecedents {
		nextAntecedents[k] = v
	}
	nextAntecedents[key] = replaced
	return Step{Label: s.Label, Consequent: s.Consequent, Keys: s.Keys, Antecedents: nextAntecedents}, nil
}

func (s Step) String() string {
	out := "[" + s.Label + "] " + s.Consequent.DLRepr()
	for _, k := range s.Keys {
		out += "\n  " + indent(s.Antecedents[k].String())
	}
	return out
}

func indent(s string) string {
	out := ""
	for i, line := range splitLines(s) {
		if i > 0 {
			out += "\n  "
		}
		out += line
	}
	return out
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func treeNavErr(format string, args ...any) error {
	return &ir.Error{Kind: ir.KindTreeNavigation, Message: fmt.Sprintf(format, args...)}
}
