package xsd

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/CognitoIQ/musicxml/xmltree"
)

// A Ref names a schema dependency: the namespace it belongs to, and,
// optionally, a location it can be fetched from. Mirrors the information
// carried by an XSD <import> or <include>.
type Ref struct {
	Namespace, Location string
}

// Imports reads a document containing one or more <schema> elements and
// reports the namespaces (and, where given, locations) it imports or
// includes.
func Imports(data []byte) ([]Ref, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}
	var schemas []*xmltree.Element
	if (root.Name == xml.Name{Space: schemaNS, Local: "schema"}) {
		schemas = []*xmltree.Element{root}
	} else {
		schemas = root.Search(schemaNS, "schema")
	}
	var result []Ref
	for _, s := range schemas {
		for _, v := range s.Search(schemaNS, "import") {
			result = append(result, Ref{v.Attr("", "namespace"), v.Attr("", "schemaLocation")})
		}
		ns := s.Attr("", "targetNamespace")
		for _, v := range s.Search(schemaNS, "include") {
			result = append(result, Ref{ns, v.Attr("", "schemaLocation")})
		}
	}
	return result, nil
}

// parser accumulates the xmltree declarations for a single target
// namespace and resolves them into a Schema. Declarations are indexed by
// name on a first pass, then parsed lazily (and memoized) so forward
// references and mutually-recursive groups/types resolve correctly.
type parser struct {
	targetNS string

	elementDecls map[xml.Name]*xmltree.Element
	typeDecls    map[xml.Name]*xmltree.Element
	groupDecls   map[xml.Name]*xmltree.Element
	attrGrpDecls map[xml.Name]*xmltree.Element

	schema *Schema

	anonCounter int
}

// Parse reads one or more documents containing <schema> declarations and
// returns a Schema per distinct target namespace found. Documents that
// share a target namespace are resolved together, so references between
// them work; a reference to a type in another namespace is left as an
// unresolved placeholder.
func Parse(docs ...[]byte) (schemas []*Schema, err error) {
	defer catchParseError(&err)

	byNS := make(map[string][]*xmltree.Element)
	var order []string
	for _, doc := range docs {
		root, perr := xmltree.Parse(doc)
		if perr != nil {
			return nil, perr
		}
		var roots []*xmltree.Element
		if (root.Name == xml.Name{Space: schemaNS, Local: "schema"}) {
			roots = []*xmltree.Element{root}
		} else {
			roots = root.Search(schemaNS, "schema")
		}
		for _, r := range roots {
			ns := r.Attr("", "targetNamespace")
			if _, ok := byNS[ns]; !ok {
				order = append(order, ns)
			}
			byNS[ns] = append(byNS[ns], r)
		}
	}

	for _, ns := range order {
		p := &parser{
			targetNS:     ns,
			elementDecls: make(map[xml.Name]*xmltree.Element),
			typeDecls:    make(map[xml.Name]*xmltree.Element),
			groupDecls:   make(map[xml.Name]*xmltree.Element),
			attrGrpDecls: make(map[xml.Name]*xmltree.Element),
			schema: &Schema{
				TargetNS:   ns,
				Elements:   make(map[xml.Name]*Element),
				Types:      make(map[xml.Name]Type),
				Groups:     make(map[xml.Name]*Particle),
				AttrGroups: make(map[xml.Name][]Attribute),
			},
		}
		for _, root := range byNS[ns] {
			p.index(root)
		}
		p.resolveAll()
		schemas = append(schemas, p.schema)
	}
	return schemas, nil
}

// index registers every named top-level declaration so later lookups by
// name succeed regardless of declaration order.
func (p *parser) index(root *xmltree.Element) {
	var doc annotation
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "element":
			name := el.ResolveDefault(el.Attr("", "name"), p.targetNS)
			p.elementDecls[name] = el
		case "complexType", "simpleType":
			name := el.Attr("", "name")
			if name == "" {
				return // anonymous; parsed in place by its owner
			}
			p.typeDecls[el.ResolveDefault(name, p.targetNS)] = el
		case "group":
			if name := el.Attr("", "name"); name != "" {
				p.groupDecls[el.ResolveDefault(name, p.targetNS)] = el
			}
		case "attributeGroup":
			if name := el.Attr("", "name"); name != "" {
				p.attrGrpDecls[el.ResolveDefault(name, p.targetNS)] = el
			}
		case "annotation":
			doc = doc.append(parseAnnotation(el))
		}
	})
	if string(doc) != "" {
		p.schema.Doc = annotation(p.schema.Doc).append(doc).String()
	}
}

// resolveAll parses every indexed declaration. Types, groups, and elements
// memoize themselves as they're first resolved, so order doesn't matter.
func (p *parser) resolveAll() {
	for name := range p.elementDecls {
		p.resolveElement(name)
	}
	for name := range p.typeDecls {
		p.resolveType(name)
	}
	for name := range p.groupDecls {
		p.resolveGroup(name)
	}
	for name := range p.attrGrpDecls {
		p.resolveAttrGroup(name)
	}
}

func (p *parser) resolveElement(name xml.Name) *Element {
	if e, ok := p.schema.Elements[name]; ok {
		return e
	}
	decl, ok := p.elementDecls[name]
	if !ok {
		return nil
	}
	e := &Element{Name: name}
	p.schema.Elements[name] = e // stub first: breaks substitution-group cycles
	*e = p.parseElementDecl(decl, name)
	return e
}

func (p *parser) resolveType(name xml.Name) Type {
	if t, ok := p.schema.Types[name]; ok {
		return t
	}
	decl, ok := p.typeDecls[name]
	if !ok {
		if b, err := ParseBuiltin(name); err == nil {
			return b
		}
		return linkedType(name)
	}
	switch decl.Name.Local {
	case "complexType":
		ct := &ComplexType{Name: name}
		p.schema.Types[name] = ct // stub first: breaks recursive content models
		p.parseComplexType(decl, ct)
		return ct
	case "simpleType":
		st := &SimpleType{Name: name}
		p.schema.Types[name] = st
		p.parseSimpleType(decl, st)
		return st
	}
	return linkedType(name)
}

func (p *parser) resolveGroup(name xml.Name) *Particle {
	if g, ok := p.schema.Groups[name]; ok {
		return g
	}
	decl, ok := p.groupDecls[name]
	if !ok {
		return nil
	}
	stub := &Particle{Kind: SequenceParticle}
	p.schema.Groups[name] = stub
	var content *xmltree.Element
	walk(decl, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "sequence", "choice", "all":
			content = el
		}
	})
	if content != nil {
		*stub = *p.parseParticle(content)
	}
	return stub
}

func (p *parser) resolveAttrGroup(name xml.Name) []Attribute {
	if a, ok := p.schema.AttrGroups[name]; ok {
		return a
	}
	decl, ok := p.attrGrpDecls[name]
	if !ok {
		return nil
	}
	var attrs []Attribute
	p.schema.AttrGroups[name] = attrs // breaks mutual attributeGroup refs
	walk(decl, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "attribute":
			attrs = append(attrs, p.parseAttribute(el))
		case "attributeGroup":
			ref := el.Resolve(el.Attr("", "ref"))
			attrs = append(attrs, p.resolveAttrGroup(ref)...)
		}
	})
	p.schema.AttrGroups[name] = attrs
	return attrs
}

func (p *parser) parseElementDecl(el *xmltree.Element, name xml.Name) Element {
	e := Element{
		Name:     name,
		Default:  el.Attr("", "default"),
		Abstract: parseBool(el.Attr("", "abstract")),
		Nillable: parseBool(el.Attr("", "nillable")),
	}
	if typeName := el.Attr("", "type"); typeName != "" {
		e.Type = p.resolveType(el.Resolve(typeName))
	} else if inline := p.inlineType(el); inline != nil {
		e.Type = inline
	} else {
		e.Type = AnyType
	}
	walk(el, func(child *xmltree.Element) {
		if child.Name.Local == "annotation" {
			e.Doc = annotation(e.Doc).append(parseAnnotation(child)).String()
		}
	})
	return e
}

// inlineType parses an anonymous <complexType>/<simpleType> declared
// directly inside an <element> or <attribute>, rather than referenced by
// name.
func (p *parser) inlineType(el *xmltree.Element) Type {
	var found Type
	walk(el, func(child *xmltree.Element) {
		if found != nil {
			return
		}
		switch child.Name.Local {
		case "complexType":
			name := p.anonName()
			ct := &ComplexType{Name: name}
			p.schema.Types[name] = ct
			p.parseComplexType(child, ct)
			found = ct
		case "simpleType":
			name := p.anonName()
			st := &SimpleType{Name: name}
			p.schema.Types[name] = st
			p.parseSimpleType(child, st)
			found = st
		}
	})
	return found
}

func (p *parser) anonName() xml.Name {
	p.anonCounter++
	return xml.Name{Space: p.targetNS, Local: "_anon" + strconv.Itoa(p.anonCounter)}
}

func (p *parser) parseComplexType(root *xmltree.Element, ct *ComplexType) {
	ct.Mixed = parseBool(root.Attr("", "mixed"))
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
			ct.Doc = annotation(ct.Doc).append(parseAnnotation(el)).String()
		case "attribute":
			ct.Attributes = append(ct.Attributes, p.parseAttribute(el))
		case "attributeGroup":
			ref := el.Resolve(el.Attr("", "ref"))
			ct.Attributes = append(ct.Attributes, p.resolveAttrGroup(ref)...)
		case "sequence", "choice", "all", "group":
			ct.Content = p.parseParticle(el)
		case "simpleContent", "complexContent":
			p.parseDerivedContent(el, ct)
		}
	})
}

// parseDerivedContent handles <simpleContent>/<complexContent>, each
// wrapping a single <restriction> or <extension> of a base type.
func (p *parser) parseDerivedContent(root *xmltree.Element, ct *ComplexType) {
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "extension", "restriction":
			base := el.Resolve(el.Attr("", "base"))
			if root.Name.Local == "simpleContent" {
				ct.SimpleContent = p.resolveType(base)
			} else if bt, ok := p.resolveType(base).(*ComplexType); ok {
				ct.Content = bt.Content
				ct.Attributes = append(ct.Attributes, bt.Attributes...)
				ct.SimpleContent = bt.SimpleContent
			}
			walk(el, func(sub *xmltree.Element) {
				switch sub.Name.Local {
				case "attribute":
					ct.Attributes = append(ct.Attributes, p.parseAttribute(sub))
				case "attributeGroup":
					ref := sub.Resolve(sub.Attr("", "ref"))
					ct.Attributes = append(ct.Attributes, p.resolveAttrGroup(ref)...)
				case "sequence", "choice", "all", "group":
					ct.Content = p.parseParticle(sub)
				}
			})
		}
	})
}

// parseParticle parses a <sequence>, <choice>, <all>, or <group ref="...">
// node into a Particle, recursing into nested particles and leaf element
// declarations/refs.
func (p *parser) parseParticle(el *xmltree.Element) *Particle {
	occ := parseOccurs(el)
	switch el.Name.Local {
	case "sequence":
		return &Particle{Kind: SequenceParticle, Occurs: occ, Branches: p.parseBranches(el)}
	case "choice":
		return &Particle{Kind: ChoiceParticle, Occurs: occ, Branches: p.parseBranches(el)}
	case "all":
		return &Particle{Kind: AllParticle, Occurs: occ, Branches: p.parseBranches(el)}
	case "group":
		ref := el.Resolve(el.Attr("", "ref"))
		return &Particle{Kind: GroupRefParticle, Occurs: occ, Group: ref}
	case "element":
		return p.parseElementParticle(el, occ)
	case "any":
		return &Particle{Kind: ElementParticle, Occurs: occ, Elem: xml.Name{Local: "*"}}
	}
	stop("unexpected particle " + el.Name.Local)
	return nil
}

func (p *parser) parseBranches(el *xmltree.Element) []*Particle {
	var out []*Particle
	walk(el, func(child *xmltree.Element) {
		switch child.Name.Local {
		case "sequence", "choice", "all", "group", "element", "any":
			out = append(out, p.parseParticle(child))
		}
	})
	return out
}

func (p *parser) parseElementParticle(el *xmltree.Element, occ Occurs) *Particle {
	if ref := el.Attr("", "ref"); ref != "" {
		name := el.Resolve(ref)
		p.resolveElement(name)
		return &Particle{Kind: ElementParticle, Occurs: occ, Elem: name}
	}
	name := el.ResolveDefault(el.Attr("", "name"), p.targetNS)
	p.elementDecls[name] = el
	p.resolveElement(name)
	return &Particle{Kind: ElementParticle, Occurs: occ, Elem: name}
}

func (p *parser) parseAttribute(el *xmltree.Element) Attribute {
	a := Attribute{
		Default:  el.Attr("", "default"),
		Optional: el.Attr("", "use") != "required",
	}
	if ref := el.Attr("", "ref"); ref != "" {
		a.Name = el.Resolve(ref)
	} else if name := el.Attr("", "name"); strings.Contains(name, ":") {
		a.Name = el.Resolve(name)
	} else {
		a.Name = xml.Name{Local: el.Attr("", "name")}
	}
	if typeName := el.Attr("", "type"); typeName != "" {
		a.Type = p.resolveType(el.Resolve(typeName))
	} else if st := p.inlineType(el); st != nil {
		a.Type = st
	} else {
		a.Type = String
	}
	walk(el, func(child *xmltree.Element) {
		if child.Name.Local == "annotation" {
			a.Doc = annotation(a.Doc).append(parseAnnotation(child)).String()
		}
	})
	return a
}

func (p *parser) parseSimpleType(root *xmltree.Element, st *SimpleType) {
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "restriction":
			st.Base = p.resolveType(el.Resolve(el.Attr("", "base")))
			st.Restriction = p.parseRestriction(el)
		case "list":
			st.List = true
			if itemType := el.Attr("", "itemType"); itemType != "" {
				st.Base = p.resolveType(el.Resolve(itemType))
			} else if inline := p.inlineType(el); inline != nil {
				st.Base = inline
			}
		case "union":
			for _, name := range strings.Fields(el.Attr("", "memberTypes")) {
				st.Union = append(st.Union, p.resolveType(el.Resolve(name)))
			}
			walk(el, func(sub *xmltree.Element) {
				if sub.Name.Local == "simpleType" {
					name := p.anonName()
					member := &SimpleType{Name: name}
					p.schema.Types[name] = member
					p.parseSimpleType(sub, member)
					st.Union = append(st.Union, member)
				}
			})
		case "annotation":
			st.Doc = annotation(st.Doc).append(parseAnnotation(el)).String()
		}
	})
}

func (p *parser) parseRestriction(root *xmltree.Element) Restriction {
	var r Restriction
	var doc annotation
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "enumeration":
			r.Enum = append(r.Enum, el.Attr("", "value"))
		case "minInclusive", "minExclusive":
			r.Min, r.HasMin = parseDecimal(el.Attr("", "value")), true
		case "maxInclusive", "maxExclusive":
			r.Max, r.HasMax = parseDecimal(el.Attr("", "value")), true
		case "length":
			n := parseInt(el.Attr("", "value"))
			r.MinLength, r.HasMinLength = n, true
			r.MaxLength, r.HasMaxLength = n, true
		case "minLength":
			r.MinLength, r.HasMinLength = parseInt(el.Attr("", "value")), true
		case "maxLength":
			r.MaxLength, r.HasMaxLength = parseInt(el.Attr("", "value")), true
		case "pattern":
			pat := el.Attr("", "value")
			if r.Pattern != nil {
				pat = r.Pattern.String() + "|" + pat
			}
			if reg, err := parsePattern(pat); err != nil {
				doc = doc.append(annotation(fmt.Sprintf(
					"pattern %q could not be compiled: %v", pat, err)))
			} else {
				r.Pattern = reg
			}
		case "fractionDigits":
			r.FractionDigits = parseInt(el.Attr("", "value"))
		case "annotation":
			doc = doc.append(parseAnnotation(el))
		}
	})
	r.Doc = string(doc)
	return r
}

func parseOccurs(el *xmltree.Element) Occurs {
	min := 1
	if v := el.Attr("", "minOccurs"); v != "" {
		min = parseInt(v)
	}
	max := 1
	if v := el.Attr("", "maxOccurs"); v != "" {
		if v == "unbounded" {
			max = Unbounded
		} else {
			max = parseInt(v)
		}
	}
	return Occurs{Min: min, Max: max}
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		stop(err.Error())
	}
	return n
}

func parseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		stop(err.Error())
	}
	return n
}

func parseBool(s string) bool {
	switch s {
	case "", "0", "false":
		return false
	case "1", "true":
		return true
	}
	stop("invalid boolean value " + s)
	return false
}
