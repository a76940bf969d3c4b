// Package schematab holds the compiled-in, immutable schema metadata the
// element engine runs against: for every declared element and type, its
// attribute list, its content-model particle tree, and its simple-type
// restriction facets.
//
// A Table is produced mechanically by xsdgen from an xsd.Schema; this
// package defines only the shape of that output and carries no dependency
// on the xsd package itself; at runtime the engine links against compiled
// Go literals (see tables_musicxml.go), never against the .xsd file or
// the xsd/xsdgen packages.
package schematab

// Unbounded is the sentinel maxOccurs value meaning "no upper bound".
const Unbounded = -1

// Occurs is the minOccurs/maxOccurs pair carried by every particle.
type Occurs struct {
	Min int
	Max int
}

// Satisfied reports whether count occurrences meet this Occurs' minimum.
func (o Occurs) Satisfied(count int) bool { return count >= o.Min }

// HasRoom reports whether one more occurrence fits under this Occurs'
// maximum.
func (o Occurs) HasRoom(count int) bool { return o.Max == Unbounded || count < o.Max }

// ParticleKind identifies the shape of a content-model node.
type ParticleKind int

const (
	Sequence ParticleKind = iota
	Choice
	All
	GroupRef
	Element
)

func (k ParticleKind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case Choice:
		return "choice"
	case All:
		return "all"
	case GroupRef:
		return "group"
	case Element:
		return "element"
	}
	return "unknown"
}

// Particle is one compiled node of a complex type's content model. Leaves
// (Kind == Element) name the child element they admit in Elem; internal
// nodes (Sequence/Choice/All) hold Branches; GroupRef names a group to
// resolve against Table.Groups.
type Particle struct {
	Kind     ParticleKind
	Occurs   Occurs
	Branches []*Particle
	Group    string
	Elem     string
}

// SimpleTypeKind identifies which of the XSD simple-type shapes a
// SimpleType describes.
type SimpleTypeKind int

const (
	Atomic SimpleTypeKind = iota
	Enum
	ListOf
	Union
	RestrictionOf
)

// SimpleType is a compiled XSD simple type: an atomic builtin, an
// enumeration, a list, a union, or a restriction of another simple type
// with facets.
type SimpleType struct {
	Name  string
	Kind  SimpleTypeKind
	Base  string // base/item type name, for Atomic/Enum/ListOf/RestrictionOf
	Union []string

	Enum []string

	Pattern string // RE2 source, "" if unset

	HasMinLength, HasMaxLength bool
	MinLength, MaxLength       int

	HasMin, HasMax bool
	Min, Max       float64

	FractionDigits int
}

// AttributeDecl describes one attribute a complex type admits.
type AttributeDecl struct {
	Name     string
	TypeRef  string
	Required bool
	Default  string
}

// ComplexType binds an element's attribute list and content-model root.
type ComplexType struct {
	Name          string
	Attributes    []AttributeDecl
	Content       *Particle
	SimpleContent string // type ref, "" if this type has no simple content
	Mixed         bool
}

// GlobalElement is a top-level <element> declaration: a name that may
// serve as a document root or be the target of an <element ref="...">.
type GlobalElement struct {
	Name          string
	ComplexTypeRef string // "" if this element is simple-typed
	SimpleTypeRef  string // type ref for a simple-typed element, else ""
}

// Table is the full compiled schema: every global element, complex type,
// simple type, and named group the engine may need to resolve.
//
// ElementTypes records, for every element name an Element particle may
// name, the type it carries (a complex type name, or a simple type name
// prefixed by nothing special; builtins are looked up by simpletype
// directly). Two elements of the same local name are assumed to share a
// type across the whole table, which holds for MusicXML's own schema
// and keeps particle trees from needing a locally-scoped declaration map.
type Table struct {
	Elements     map[string]GlobalElement
	ComplexTypes map[string]*ComplexType
	SimpleTypes  map[string]*SimpleType
	Groups       map[string]*Particle
	ElementTypes map[string]string
}

// ComplexType looks up a complex type descriptor by name, or nil.
func (t *Table) ComplexType(name string) *ComplexType { return t.ComplexTypes[name] }

// SimpleType looks up a simple type descriptor by name, or nil if name
// names a builtin (not present in this table) rather than a declared
// simple type.
func (t *Table) SimpleType(name string) *SimpleType { return t.SimpleTypes[name] }

// Group looks up a named content-model group by name, or nil.
func (t *Table) Group(name string) *Particle { return t.Groups[name] }

// Element looks up a global element declaration by name, or ok=false.
func (t *Table) Element(name string) (GlobalElement, bool) {
	e, ok := t.Elements[name]
	return e, ok
}

// TypeOf reports the type reference a given element name carries:
// the name of a ComplexType, a SimpleType, or a builtin such as
// "xs:string". ok is false if name is not declared anywhere in the table.
func (t *Table) TypeOf(name string) (typeRef string, ok bool) {
	typeRef, ok = t.ElementTypes[name]
	return
}
