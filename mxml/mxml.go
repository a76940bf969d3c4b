// Package mxml implements the in-memory element tree MusicXML
// documents are built, mutated, and serialized through. Every Element
// is bound to the schematab.Table it was constructed against, so
// structural edits can be checked against that type's content model and
// attribute list as they happen, or left unchecked for callers that
// want to build non-conformant trees (fragments, fixtures, documents
// under construction) and validate once at the end.
package mxml

import (
	"fmt"

	"github.com/CognitoIQ/musicxml/mxml/mxerr"
	"github.com/CognitoIQ/musicxml/particle"
	"github.com/CognitoIQ/musicxml/schematab"
	"github.com/CognitoIQ/musicxml/simpletype"
)

// Attr is one attribute in declaration order.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of an element tree: a MusicXML element together
// with the schema type it was constructed against.
type Element struct {
	tab      *schematab.Table
	name     string
	typeRef  string // complex type name, simple type name, or builtin
	complex  *schematab.ComplexType
	model    *particle.Model // nil for simple-typed or childless elements
	parent   *Element // non-owning; nil for a detached or root element
	attrs    []Attr
	children []*Element
	text     string
	checkXSD bool
}

// Option configures a new Element at construction time.
type Option func(*Element)

// WithoutValidation disables content-model and attribute checking for
// this element and any children created under it with AddChild. This is
// meant for building intentionally non-conformant fixtures; call
// FinalCheck explicitly when ready to validate, or not at all.
func WithoutValidation() Option {
	return func(e *Element) { e.checkXSD = false }
}

// New constructs an element named name against tab's schema. name must
// be a key of tab.ElementTypes (every element the compiled schema
// knows about, global or local).
func New(tab *schematab.Table, name string, opts ...Option) (*Element, error) {
	typeRef, ok := tab.TypeOf(name)
	if !ok {
		return nil, fmt.Errorf("mxml: %q is not a known element name", name)
	}
	e := &Element{tab: tab, name: name, typeRef: typeRef, checkXSD: true}
	if ct := tab.ComplexType(typeRef); ct != nil {
		e.complex = ct
		if ct.Content != nil {
			e.model = particle.New(tab, ct.Content)
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Name returns the element's local name.
func (e *Element) Name() string { return e.name }

// TypeRef returns the schema type name this element was constructed
// against: a complex type name, a declared simple type name, or a
// builtin such as "xs:token".
func (e *Element) TypeRef() string { return e.typeRef }

// Parent returns the element e was attached to with AddChild, or nil
// if e is a root or has been detached by Remove.
func (e *Element) Parent() *Element { return e.parent }

// Checked reports whether e validates structural edits against its
// content model and attribute declarations as they happen.
func (e *Element) Checked() bool { return e.checkXSD }

// SetAttribute validates value against the attribute's declared type
// (when checking is enabled) and stores the normalized result,
// replacing any existing value for name.
func (e *Element) SetAttribute(name, value string) error {
	if e.checkXSD {
		decl, ok := e.findAttr(name)
		if !ok {
			return &mxerr.UnknownAttribute{Element: e.name, Attribute: name}
		}
		norm, err := simpletype.Validate(e.tab, decl.TypeRef, value)
		if err != nil {
			return &mxerr.BadValue{Element: e.name, Field: name, Value: value, Reason: errReason(err)}
		}
		value = norm
	}
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return nil
		}
	}
	at := len(e.attrs)
	if e.complex != nil {
		rank := func(n string) int {
			for i, d := range e.complex.Attributes {
				if d.Name == n {
					return i
				}
			}
			return len(e.complex.Attributes)
		}
		for i, a := range e.attrs {
			if rank(a.Name) > rank(name) {
				at = i
				break
			}
		}
	}
	e.attrs = append(e.attrs, Attr{})
	copy(e.attrs[at+1:], e.attrs[at:])
	e.attrs[at] = Attr{Name: name, Value: value}
	return nil
}

func (e *Element) findAttr(name string) (schematab.AttributeDecl, bool) {
	if e.complex == nil {
		return schematab.AttributeDecl{}, false
	}
	for _, a := range e.complex.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return schematab.AttributeDecl{}, false
}

// Attribute returns the current value of an attribute and whether it
// has been set.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ClearAttribute removes an attribute if present.
func (e *Element) ClearAttribute(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Attributes returns the element's attributes in declaration order;
// attributes the element's type does not declare (possible only when
// checking is disabled) follow the declared ones in the order they were
// set. The returned slice must not be mutated.
func (e *Element) Attributes() []Attr { return e.attrs }

// SetText sets the element's simple content or text-only content,
// validating it against the element's simple type when checking is
// enabled. It is an error to call SetText on an element whose type has
// element children (a pure complex content model).
func (e *Element) SetText(value string) error {
	typeRef := e.typeRef
	if e.complex != nil {
		if e.complex.Content != nil {
			return fmt.Errorf("mxml: %s has element content, not text content", e.name)
		}
		typeRef = e.complex.SimpleContent
	}
	if e.checkXSD {
		norm, err := simpletype.Validate(e.tab, typeRef, value)
		if err != nil {
			return &mxerr.BadValue{Element: e.name, Value: value, Reason: errReason(err)}
		}
		value = norm
	}
	e.text = value
	return nil
}

// Text returns the element's text content.
func (e *Element) Text() string { return e.text }

// AddChild constructs a new element named childName and appends it to
// e's children. When checking is enabled, the attach is validated
// against e's content model first and rejected with a
// *mxerr.ChildNotAllowed error if the model has no room for it.
func (e *Element) AddChild(childName string, opts ...Option) (*Element, error) {
	if e.checkXSD {
		if e.model == nil {
			return nil, &mxerr.ChildNotAllowed{Element: e.name, Child: childName}
		}
		if err := e.model.TryAttach(childName); err != nil {
			return nil, &mxerr.ChildNotAllowed{Element: e.name, Child: childName}
		}
	}
	child, err := New(e.tab, childName, opts...)
	if err != nil {
		return nil, err
	}
	if !e.checkXSD {
		child.checkXSD = false
	}
	child.parent = e
	e.children = append(e.children, child)
	return child, nil
}

// Children returns e's children in document order. The returned slice
// must not be mutated.
func (e *Element) Children() []*Element { return e.children }

// FindChild returns the first child named name, or nil.
func (e *Element) FindChild(name string) *Element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// FindChildren returns every child named name, in document order.
func (e *Element) FindChildren(name string) []*Element {
	var out []*Element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildrenByName returns e's children grouped by local name, an
// unordered view useful for lookups that don't care about document
// order. The returned slices must not be mutated.
func (e *Element) ChildrenByName() map[string][]*Element {
	out := make(map[string][]*Element, len(e.children))
	for _, c := range e.children {
		out[c.name] = append(out[c.name], c)
	}
	return out
}

// NamedChild returns the text content of the first child named
// localName, or "", false if no such child exists.
func (e *Element) NamedChild(localName string) (string, bool) {
	c := e.FindChild(localName)
	if c == nil {
		return "", false
	}
	return c.Text(), true
}

// SetNamedChild sets value as the text content of the first child
// named localName, creating that child (with AddChild) first if e has
// none. It is a convenience for the common case of a simple-content
// child element, such as <step>G</step> under <pitch>.
func (e *Element) SetNamedChild(localName, value string) error {
	c := e.FindChild(localName)
	if c == nil {
		var err error
		c, err = e.AddChild(localName)
		if err != nil {
			return err
		}
	}
	return c.SetText(value)
}

// Remove deletes child from e's children, rebuilding e's content-model
// state from the remaining children in order. It is a no-op if child
// is not one of e's children.
func (e *Element) Remove(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			e.rebuildModel()
			return
		}
	}
}

// ReplaceChild swaps old for replacement in e's children, rebuilding
// e's content-model state against the new sequence of children. It
// returns an error if the substitution would leave the content model
// in an invalid state and checking is enabled.
func (e *Element) ReplaceChild(old, replacement *Element) error {
	idx := -1
	for i, c := range e.children {
		if c == old {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("mxml: %s is not a child of %s", old.name, e.name)
	}
	saved := e.children[idx]
	e.children[idx] = replacement
	if e.checkXSD {
		if err := e.rebuildModelChecked(); err != nil {
			e.children[idx] = saved
			e.rebuildModel()
			return err
		}
		saved.parent = nil
		replacement.parent = e
		return nil
	}
	saved.parent = nil
	replacement.parent = e
	e.rebuildModel()
	return nil
}

func (e *Element) rebuildModel() {
	_ = e.rebuildModelChecked()
}

func (e *Element) rebuildModelChecked() error {
	if e.complex == nil || e.complex.Content == nil {
		return nil
	}
	fresh := particle.New(e.tab, e.complex.Content)
	for _, c := range e.children {
		if err := fresh.TryAttach(c.name); err != nil {
			return &mxerr.ChildNotAllowed{Element: e.name, Child: c.name}
		}
	}
	e.model = fresh
	return nil
}

// FinalCheck reports whether e, and recursively every descendant, is a
// complete instance of its content model: every required attribute is
// set and every required child is present. For an element built with
// checking disabled, its children are also checked for placement, and a
// misplaced child is reported as *mxerr.ChildNotAllowed. It does not
// mutate e.
func (e *Element) FinalCheck() error {
	if e.complex != nil {
		for _, a := range e.complex.Attributes {
			if a.Required {
				if _, ok := e.Attribute(a.Name); !ok {
					return &mxerr.RequiredAttributeMissing{Element: e.name, Attribute: a.Name}
				}
			}
		}
	}
	model := e.model
	if !e.checkXSD && e.complex != nil && e.complex.Content != nil {
		// Unchecked AddChild calls never advance e.model, so the
		// children are replayed against a fresh model here.
		model = particle.New(e.tab, e.complex.Content)
		for _, c := range e.children {
			if err := model.TryAttach(c.name); err != nil {
				return &mxerr.ChildNotAllowed{Element: e.name, Child: c.name}
			}
		}
	}
	if model != nil {
		if err := model.Validate(); err != nil {
			if missing, ok := err.(*particle.RequiredChildMissing); ok {
				return &mxerr.RequiredChildMissing{Element: e.name, Child: missing.Name}
			}
			return err
		}
	}
	for _, c := range e.children {
		if err := c.FinalCheck(); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a deep copy of e, detached from e's parent if any.
func (e *Element) Copy() *Element {
	c := &Element{
		tab: e.tab, name: e.name, typeRef: e.typeRef, complex: e.complex,
		text: e.text, checkXSD: e.checkXSD,
	}
	c.attrs = append([]Attr(nil), e.attrs...)
	for _, child := range e.children {
		c.children = append(c.children, child.Copy())
	}
	c.rebuildModel()
	return c
}

// ShallowCopy returns a copy of e with its own attribute and child
// slices, but sharing the child Element pointers themselves: mutating
// an attribute on the copy does not affect e, but mutating a shared
// child does. The copy is detached from e's parent and its children's
// parent pointers still reference e, not the copy; ReplaceChild on the
// copy is the way to hand one of them over if ownership needs to move
// (AddChild always constructs a new child).
func (e *Element) ShallowCopy() *Element {
	c := &Element{
		tab: e.tab, name: e.name, typeRef: e.typeRef, complex: e.complex,
		text: e.text, checkXSD: e.checkXSD,
	}
	c.attrs = append([]Attr(nil), e.attrs...)
	c.children = append([]*Element(nil), e.children...)
	c.rebuildModel()
	return c
}

func errReason(err error) string {
	if bv, ok := err.(*simpletype.BadValue); ok {
		return bv.Reason
	}
	return err.Error()
}
