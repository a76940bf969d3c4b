// Package particle implements the live, per-document instance of a
// compiled content-model particle tree: it tracks how many times each
// particle has fired, which branch of a choice is currently open, and
// whether the tree as a whole is in a state that would satisfy its
// occurrence constraints, so that callers can discover a legal place to
// attach a new child element one at a time as a document is built or
// parsed.
package particle

import (
	"fmt"

	"github.com/CognitoIQ/musicxml/schematab"
)

// ChildNotAllowed is returned by TryAttach when no legal position exists
// in the content model for an element of the given name given the
// model's current state.
type ChildNotAllowed struct {
	Name string
}

func (e *ChildNotAllowed) Error() string {
	return fmt.Sprintf("child element %q is not allowed here", e.Name)
}

// RequiredChildMissing is returned by Validate when the content model's
// minimum occurrence constraints are not yet met.
type RequiredChildMissing struct {
	Name string
}

func (e *RequiredChildMissing) Error() string {
	return fmt.Sprintf("required child element %q is missing", e.Name)
}

// openRep is the in-progress (not yet known to be complete) repetition
// of a compound particle. Which fields are meaningful depends on the
// owning Node's spec.Kind, as noted beside each field.
type openRep struct {
	pos      int     // Sequence: index of the branch currently being satisfied
	branches []*Node // Sequence/All: per-branch state, persists for the life of this repetition
	chosen   *Node   // Choice: the branch committed to for this repetition
	child    *Node   // GroupRef: state of the resolved group's content
}

// Node is the live state of one particle in a content model tree.
type Node struct {
	spec  *schematab.Particle
	count int // repetitions of this particle completed so far
	open  *openRep
}

// Model is a content-model container bound to one complex type's
// particle tree and the table it was compiled against (needed to
// resolve GroupRef particles by name).
type Model struct {
	tab  *schematab.Table
	root *Node
}

// New builds a fresh, empty Model over root. root is typically a
// ComplexType's Content field from a schematab.Table.
func New(tab *schematab.Table, root *schematab.Particle) *Model {
	return &Model{tab: tab, root: newNode(root)}
}

func newNode(spec *schematab.Particle) *Node {
	return &Node{spec: spec}
}

func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{spec: n.spec, count: n.count}
	if n.open != nil {
		o := &openRep{pos: n.open.pos, chosen: cloneNode(n.open.chosen), child: cloneNode(n.open.child)}
		if n.open.branches != nil {
			o.branches = make([]*Node, len(n.open.branches))
			for i, b := range n.open.branches {
				o.branches[i] = cloneNode(b)
			}
		}
		c.open = o
	}
	return c
}

// TryAttach attempts to place one occurrence of the named child element
// into the model's current state. On success, the model's state is
// committed to reflect the attach and TryAttach returns nil. On
// failure, the model is left exactly as it was and a *ChildNotAllowed
// error is returned.
func (m *Model) TryAttach(name string) error {
	scratch := cloneNode(m.root)
	if !attach(m.tab, scratch, name) {
		return &ChildNotAllowed{Name: name}
	}
	m.root = scratch
	return nil
}

// Validate reports whether the model's current state satisfies every
// particle's minOccurs constraint, i.e. whether the content built so
// far is a complete instance of the model, not merely a legal prefix
// of one.
func (m *Model) Validate() error {
	if missing, ok := firstMissing(m.root); !ok {
		return &RequiredChildMissing{Name: missing}
	}
	return nil
}

// attach mutates n (a private scratch copy) to reflect one more
// occurrence of name, returning whether that was legal.
func attach(tab *schematab.Table, n *Node, name string) bool {
	switch n.spec.Kind {
	case schematab.Element:
		if n.spec.Elem != name {
			return false
		}
		if !n.spec.Occurs.HasRoom(n.count) {
			return false
		}
		n.count++
		return true

	case schematab.GroupRef:
		if n.open == nil {
			if !n.spec.Occurs.HasRoom(n.count) {
				return false
			}
			group := tab.Group(n.spec.Group)
			if group == nil {
				return false
			}
			n.open = &openRep{child: newNode(group)}
		}
		if !attach(tab, n.open.child, name) {
			// The open repetition is done (isSatisfied) and won't take
			// name; name may only start a fresh repetition, which
			// requires room for one more beyond the one just finished.
			if isSatisfied(n.open.child) && n.spec.Occurs.HasRoom(n.count+1) {
				group := tab.Group(n.spec.Group)
				fresh := newNode(group)
				if attach(tab, fresh, name) {
					n.count++
					n.open = &openRep{child: fresh}
					return true
				}
			}
			return false
		}
		return true

	case schematab.Sequence:
		return attachSequence(tab, n, name)

	case schematab.All:
		return attachAll(tab, n, name)

	case schematab.Choice:
		return attachChoice(tab, n, name)
	}
	return false
}

func attachSequence(tab *schematab.Table, n *Node, name string) bool {
	if n.open == nil {
		if !n.spec.Occurs.HasRoom(n.count) {
			return false
		}
		n.open = &openRep{pos: 0, branches: make([]*Node, len(n.spec.Branches))}
		for i, b := range n.spec.Branches {
			n.open.branches[i] = newNode(b)
		}
	}
	o := n.open
	for o.pos < len(o.branches) {
		if attach(tab, o.branches[o.pos], name) {
			return true
		}
		if !isSatisfied(o.branches[o.pos]) {
			return false
		}
		o.pos++
	}
	// Every branch in this repetition is satisfied and none accepted
	// name; try starting a fresh repetition if the sequence allows it.
	// n.count only tracks repetitions already closed out, not the one
	// just finished, so room for a new one is checked against n.count+1.
	if isSatisfied(n) && n.spec.Occurs.HasRoom(n.count+1) {
		fresh := &openRep{pos: 0, branches: make([]*Node, len(n.spec.Branches))}
		for i, b := range n.spec.Branches {
			fresh.branches[i] = newNode(b)
		}
		save := n.open
		n.open = fresh
		if attachSequence(tab, n, name) {
			n.count++
			return true
		}
		n.open = save
	}
	return false
}

func attachAll(tab *schematab.Table, n *Node, name string) bool {
	if n.open == nil {
		if !n.spec.Occurs.HasRoom(n.count) {
			return false
		}
		n.open = &openRep{branches: make([]*Node, len(n.spec.Branches))}
		for i, b := range n.spec.Branches {
			n.open.branches[i] = newNode(b)
		}
	}
	for _, branch := range n.open.branches {
		if attach(tab, branch, name) {
			return true
		}
	}
	return false
}

func attachChoice(tab *schematab.Table, n *Node, name string) bool {
	if n.open != nil {
		if attach(tab, n.open.chosen, name) {
			return true
		}
		if !committed(n.open.chosen) {
			// Nothing has actually attached under the chosen branch yet
			// (it may merely satisfy a zero minOccurs), so this
			// repetition hasn't committed to it: retry the other
			// branches in place, without consuming an occurrence.
			if branch, ok := tryChoiceBranches(tab, n.spec, name); ok {
				n.open = &openRep{chosen: branch}
				return true
			}
			return false
		}
		// The chosen branch has committed children and is done
		// (isSatisfied) but refuses name; name may only start a fresh
		// repetition of the choice, which requires room for one more
		// occurrence beyond the one just finished.
		if isSatisfied(n.open.chosen) && n.spec.Occurs.HasRoom(n.count+1) {
			if branch, ok := tryChoiceBranches(tab, n.spec, name); ok {
				n.count++
				n.open = &openRep{chosen: branch}
				return true
			}
		}
		return false
	}
	if !n.spec.Occurs.HasRoom(n.count) {
		return false
	}
	if branch, ok := tryChoiceBranches(tab, n.spec, name); ok {
		n.open = &openRep{chosen: branch}
		return true
	}
	return false
}

// committed reports whether n's current repetition has ever had an
// element attached to it, as opposed to merely satisfying a zero
// minOccurs. A Choice may only retry sibling branches while its chosen
// branch is not yet committed; once committed, a refusal can only be
// resolved by duplicating the whole particle, never by switching
// branches underneath already-attached children.
func committed(n *Node) bool {
	if n.count > 0 {
		return true
	}
	if n.open == nil {
		return false
	}
	switch n.spec.Kind {
	case schematab.GroupRef:
		return committed(n.open.child)
	case schematab.Sequence, schematab.All:
		for _, b := range n.open.branches {
			if committed(b) {
				return true
			}
		}
		return false
	case schematab.Choice:
		return committed(n.open.chosen)
	}
	return false
}

// tryChoiceBranches tries each alternative of a choice particle against
// name in declaration order, returning the first branch state that
// accepts it.
func tryChoiceBranches(tab *schematab.Table, spec *schematab.Particle, name string) (*Node, bool) {
	for _, b := range spec.Branches {
		n := newNode(b)
		if attach(tab, n, name) {
			return n, true
		}
	}
	return nil, false
}

// isSatisfied reports whether n's minOccurs constraint, and those of
// everything currently open beneath it, are met.
func isSatisfied(n *Node) bool {
	switch n.spec.Kind {
	case schematab.Element:
		return n.spec.Occurs.Satisfied(n.count)
	case schematab.GroupRef:
		count := n.count
		if n.open != nil && isSatisfied(n.open.child) {
			count++
		}
		return n.spec.Occurs.Satisfied(count)
	case schematab.Sequence, schematab.All:
		count := n.count
		if n.open != nil {
			allDone := true
			for _, b := range n.open.branches {
				if !isSatisfied(b) {
					allDone = false
					break
				}
			}
			if allDone {
				count++
			}
		}
		return n.spec.Occurs.Satisfied(count)
	case schematab.Choice:
		count := n.count
		if n.open != nil && isSatisfied(n.open.chosen) {
			count++
		}
		return n.spec.Occurs.Satisfied(count)
	}
	return false
}

// firstMissing walks n looking for the first particle whose minOccurs
// is not met, returning the name of an element that would satisfy it
// (or, for a group reference not yet entered, the group's name) and
// false. If n is fully satisfied, it returns ("", true).
func firstMissing(n *Node) (string, bool) {
	if isSatisfied(n) {
		return "", true
	}
	switch n.spec.Kind {
	case schematab.Element:
		return n.spec.Elem, false
	case schematab.GroupRef:
		if n.open != nil {
			return firstMissing(n.open.child)
		}
		return firstGroupMember(n.spec), false
	case schematab.Sequence, schematab.All:
		if n.open != nil {
			for _, b := range n.open.branches {
				if !isSatisfied(b) {
					return firstMissing(b)
				}
			}
		}
		for _, b := range n.spec.Branches {
			blank := newNode(b)
			if !isSatisfied(blank) {
				return firstMissing(blank)
			}
		}
	case schematab.Choice:
		if n.open != nil {
			return firstMissing(n.open.chosen)
		}
		if len(n.spec.Branches) > 0 {
			return firstMissing(newNode(n.spec.Branches[0]))
		}
	}
	return "?", false
}

func firstGroupMember(spec *schematab.Particle) string {
	return spec.Group
}
