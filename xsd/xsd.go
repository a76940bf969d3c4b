// Package xsd parses XML Schema documents into a content-model tree.
//
// Unlike a code-generation-oriented XSD reader, the xsd package keeps the
// particle tree (sequence/choice/all/group) exactly as declared, instead of
// flattening it. This preserves the ordering and multiplicity information
// that the schema-driven element engine (see the particle package) needs to
// do legal-placement search with backtracking. xsd is a build-time
// concern: its output feeds xsdgen, which emits the compiled-in schematab
// tables actually linked into the runtime engine.
package xsd // import "github.com/CognitoIQ/musicxml/xsd"

import (
	"encoding/xml"
	"regexp"
)

const schemaNS = "http://www.w3.org/2001/XMLSchema"

// Unbounded is the sentinel value used for a particle's Max field when
// the schema declares maxOccurs="unbounded".
const Unbounded = -1

// Occurs describes the minOccurs/maxOccurs facet pair shared by every
// particle in a content model.
type Occurs struct {
	Min int
	Max int // Unbounded if unbounded
}

// A ParticleKind identifies the shape of a content-model node.
type ParticleKind int

const (
	// SequenceParticle requires its Branches to appear in document order.
	SequenceParticle ParticleKind = iota
	// ChoiceParticle requires exactly one of its Branches.
	ChoiceParticle
	// AllParticle allows its Branches in any order, each at most once.
	AllParticle
	// GroupRefParticle stands in for a named group's content model.
	GroupRefParticle
	// ElementParticle is a leaf referring to a single element declaration.
	ElementParticle
)

// A Particle is one node of an XSD content model. Sequence, Choice, and
// All nodes carry child Branches; GroupRef carries the name of the group
// it stands for; ElementParticle is a leaf naming the element it admits.
//
// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#cContent_Model
type Particle struct {
	Kind     ParticleKind
	Occurs   Occurs
	Branches []*Particle
	Group    xml.Name
	Elem     xml.Name
	Doc      string
}

// Type is implemented by *ComplexType, *SimpleType, and Builtin.
type Type interface {
	isType()
}

// A linkedType is a placeholder for a type name that Parse could not
// resolve to a declaration in the referring schema's own target
// namespace, such as a type declared under another namespace. Parse
// leaves it in place.
type linkedType xml.Name

func (linkedType) isType() {}

// Attribute describes an XSD <attribute> declaration.
type Attribute struct {
	Name     xml.Name
	Doc      string
	Type     Type
	Default  string
	Optional bool
}

// Element describes an <element> declaration. Global declarations (ones
// that may be used as a document root, or referred to by a
// <element ref="..."> particle) and the local declarations found inside
// content models are both recorded in Schema.Elements.
type Element struct {
	Name     xml.Name
	Doc      string
	Type     Type
	Abstract bool
	Nillable bool
	Default  string
}

// A ComplexType binds an element's attributes and content-model root, as
// declared by an XSD <complexType>.
//
// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-complexType
type ComplexType struct {
	Name       xml.Name
	Doc        string
	Attributes []Attribute
	// Content is the root particle of this type's content model. Nil for
	// an empty-content complex type (e.g. one with only attributes).
	Content *Particle
	// SimpleContent is non-nil when this type derives its text content
	// from a simple type (a "simple content" complex type, e.g.
	// <xs:extension base="xs:string"> with attributes added).
	SimpleContent Type
	Mixed         bool
}

func (*ComplexType) isType() {}

// A SimpleType describes a scalar XSD type: an atomic restriction, a
// whitespace-delimited list, or a union of member types.
//
// http://www.w3.org/TR/2004/REC-xmlschema-2-20041028/datatypes.html#element-simpleType
type SimpleType struct {
	Name        xml.Name
	Doc         string
	Base        Type // restriction base, or list item type
	List        bool
	Union       []Type
	Restriction Restriction
}

func (*SimpleType) isType() {}

// Restriction carries the XSD facets this package understands. Other
// facets, such as whiteSpace and totalDigits, are not recorded.
type Restriction struct {
	Doc                        string
	Enum                       []string
	Min, Max                   float64
	HasMin, HasMax             bool
	MinLength, MaxLength       int
	HasMinLength, HasMaxLength bool
	Pattern                    *regexp.Regexp
	FractionDigits             int
}

// A Schema is the parsed form of one or more <schema> documents sharing a
// target namespace, with all internal type references resolved.
type Schema struct {
	TargetNS string
	Doc      string
	Elements map[xml.Name]*Element
	Types    map[xml.Name]Type
	Groups   map[xml.Name]*Particle
	// AttrGroups maps a named <attributeGroup> to the attributes it
	// contributes; attributeGroup refs within it are already inlined.
	AttrGroups map[xml.Name][]Attribute
}

// FindElement looks up a global element declaration by its canonical name.
func (s *Schema) FindElement(name xml.Name) *Element {
	return s.Elements[name]
}

// FindType looks up a type by its canonical name, including builtins.
func (s *Schema) FindType(name xml.Name) Type {
	if t, ok := s.Types[name]; ok {
		return t
	}
	if b, err := ParseBuiltin(name); err == nil {
		return b
	}
	return nil
}

// XMLName returns the canonical name of a Type.
func XMLName(t Type) xml.Name {
	switch t := t.(type) {
	case *SimpleType:
		return t.Name
	case *ComplexType:
		return t.Name
	case Builtin:
		return t.Name()
	case linkedType:
		return xml.Name(t)
	}
	return xml.Name{}
}

// Base returns the type a Type derives from, or nil if it has none that
// this package tracks.
func Base(t Type) Type {
	switch t := t.(type) {
	case *SimpleType:
		return t.Base
	default:
		return nil
	}
}
