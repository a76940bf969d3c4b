package xsdgen // import "github.com/CognitoIQ/musicxml/xsdgen"

import (
	"bytes"
	"encoding/xml"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"

	"github.com/CognitoIQ/musicxml/internal/commandline"
	"github.com/CognitoIQ/musicxml/internal/gen"
	"github.com/CognitoIQ/musicxml/internal/ordered"
	"github.com/CognitoIQ/musicxml/xmltree"
	"github.com/CognitoIQ/musicxml/xsd"
)

var defaultConfig Config

func init() {
	defaultConfig.Option(DefaultOptions...)
}

type errorList []error

func (l errorList) Error() string {
	var buf bytes.Buffer
	for _, err := range l {
		io.WriteString(&buf, err.Error()+"\n")
	}
	return buf.String()
}

// Generate reads one or more .xsd files, resolves their xs:import and
// xs:include dependencies, and writes a Go source file declaring a
// schematab.Table literal built from their combined content models. It
// is meant to be called from a command (see cmd/musicxmlgen) or a
// go:generate directive.
func (cfg *Config) Generate(arguments ...string) error {
	var (
		err         error
		elementSkip commandline.Strings
		namespaces  commandline.Strings
		fs          = flag.NewFlagSet("musicxmlgen", flag.ExitOnError)
		packageName = fs.String("pkg", "", "name of the generated package")
		varName     = fs.String("var", "", "name of the generated *schematab.Table variable")
		output      = fs.String("o", "schematab_generated.go", "name of the output file")
	)
	fs.Var(&elementSkip, "skip", "element name to omit from the generated table (can be used multiple times)")
	fs.Var(&namespaces, "ns", "target namespace(s) to generate a table for")

	fs.Parse(arguments)
	if fs.NArg() == 0 {
		return errors.New("Usage: musicxmlgen [-ns xmlns] [-skip name] [-o file] [-pkg pkg] [-var name] file ...")
	}
	if len(elementSkip) > 0 {
		cfg.Option(IgnoreElements(elementSkip...))
	}
	if *packageName != "" {
		cfg.Option(PackageName(*packageName))
	}
	if *varName != "" {
		cfg.Option(VarName(*varName))
	}
	var data [][]byte
	for _, filename := range fs.Args() {
		b, err := ioutil.ReadFile(filename)
		if err != nil {
			return err
		}
		cfg.logf("read %s", filename)
		data = append(data, b)
	}
	if len(namespaces) == 0 {
		namespaces = cfg.namespaces
	}
	if len(namespaces) == 0 {
		namespaces = lookupTargetNS(data...)
		cfg.logf("setting namespaces to %s", namespaces)
	}
	data, err = cfg.resolveDependencies(data...)
	if err != nil {
		return err
	}
	deps, err := xsd.Parse(data...)
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		return errors.New("no schema elements found")
	}

	var primaries []*xsd.Schema
	for _, s := range deps {
		for _, ns := range namespaces {
			if s.TargetNS == ns {
				primaries = append(primaries, s)
				break
			}
		}
	}
	if len(primaries) == 0 {
		return errors.New("no namespaces found")
	}
	var file *ast.File
	for _, s := range primaries {
		f, err := cfg.GenAST(s, deps...)
		if err != nil {
			return err
		}
		file = mergeASTFile(file, f)
	}

	var buf bytes.Buffer
	fileset := token.NewFileSet()
	if err := format.Node(&buf, fileset, file); err != nil {
		return err
	}
	out, err := imports.Process("", buf.Bytes(), nil)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(*output, out, 0666)
}

func lookupTargetNS(data ...[]byte) []string {
	var result []string
	for _, doc := range data {
		tree, err := xmltree.Parse(doc)
		if err != nil {
			continue
		}
		outer := xmltree.Element{
			Children: []xmltree.Element{*tree},
		}
		elts := outer.Search("http://www.w3.org/2001/XMLSchema", "schema")
		for _, el := range elts {
			ns := el.Attr("", "targetNamespace")
			if ns != "" {
				result = append(result, ns)
			}
		}
	}
	return result
}

// mergeASTFile appends src's declarations onto dst using astutil,
// which keeps import bookkeeping consistent across repeated merges
// the way a hand-rolled append of Decls slices would not once the
// merged file grows real imports of its own.
func mergeASTFile(dst, src *ast.File) *ast.File {
	if dst == nil {
		return src
	}
	for _, decl := range src.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			for _, spec := range gd.Specs {
				im := spec.(*ast.ImportSpec)
				path, _ := strconv.Unquote(im.Path.Value)
				name := ""
				if im.Name != nil {
					name = im.Name.Name
				}
				astutil.AddNamedImport(token.NewFileSet(), dst, name, path)
			}
			continue
		}
		dst.Decls = append(dst.Decls, decl)
	}
	return dst
}

func (cfg *Config) resolveDependencies(data ...[]byte) ([][]byte, error) {
	var imports []xsd.Ref
	have := make(map[string]bool)

	for _, b := range data {
		refs, err := xsd.Imports(b)
		if err != nil {
			return nil, err
		}
		imports = append(imports, refs...)
		for _, tns := range lookupTargetNS(b) {
			have[tns] = true
		}
	}
	for _, r := range imports {
		if have[r.Namespace] {
			continue
		}
		d, err := cfg.resolveDependencies1(r, have, 1)
		if err != nil {
			return nil, err
		}
		data = append(data, d...)
	}
	return data, nil
}

type xsdSet map[string]bool

func (cfg *Config) resolveDependencies1(ref xsd.Ref, have xsdSet, depth int) ([][]byte, error) {
	var result [][]byte
	const maxDepth = 10
	if have[ref.Namespace] {
		return nil, nil
	}

	if depth >= maxDepth {
		return nil, fmt.Errorf("maximum depth of %d reached", maxDepth)
	}

	if ref.Location == "" {
		return nil, fmt.Errorf("do not know where to find schema for %s", ref.Namespace)
	}
	rsp, err := http.Get(ref.Location)
	if err != nil {
		return nil, err
	}
	body, err := ioutil.ReadAll(rsp.Body)
	if err != nil {
		return nil, err
	}

	refs, err := xsd.Imports(body)
	if err != nil {
		return nil, err
	}

	for _, ns := range lookupTargetNS(body) {
		have[ns] = true
	}
	result = append(result, body)

	for _, r := range refs {
		if have[r.Namespace] {
			continue
		}
		d, err := cfg.resolveDependencies1(r, have, depth+1)
		if err != nil {
			return nil, err
		}
		result = append(result, d...)
	}
	return result, nil
}

// GenAST translates schema (plus any extra schema needed to resolve
// cross-references) into an *ast.File declaring a single
// *schematab.Table variable, using the default Config.
func GenAST(schema *xsd.Schema, extra ...*xsd.Schema) (*ast.File, error) {
	return defaultConfig.GenAST(schema, extra...)
}

// GenAST is the Config-aware form of the package-level GenAST: every
// element and group schema declares, and every complex and simple type
// schema or extra declares, becomes one entry of a generated
// schematab.Table literal,
// skipping anything IgnoreElements/IgnoreAttributes/OnlyTypes filters
// out.
func (cfg *Config) GenAST(schema *xsd.Schema, extra ...*xsd.Schema) (*ast.File, error) {
	all := make(map[xml.Name]xsd.Type)
	for k, v := range schema.Types {
		all[k] = v
	}
	for _, s := range extra {
		for k, v := range s.Types {
			if _, ok := all[k]; !ok {
				all[k] = v
			}
		}
	}

	qual := cfg.qualifier()
	pkg := cfg.pkgname
	if pkg == "" {
		pkg = "schematab"
	}
	v := cfg.varname
	if v == "" {
		v = "Default"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "var %s = &%sTable{\n", v, qual)

	names := sortedNames(schema.Elements)
	fmt.Fprintf(&buf, "Elements: map[string]%sGlobalElement{\n", qual)
	for _, name := range names {
		el := schema.Elements[name]
		if cfg.filterElements != nil && cfg.filterElements(el) {
			cfg.debugf("skipping filtered element %s", name.Local)
			continue
		}
		fmt.Fprintf(&buf, "%s: %s,\n", strconv.Quote(name.Local), cfg.globalElementLiteral(el, qual))
	}
	buf.WriteString("},\n")

	typeNames := sortedTypeNames(all)

	fmt.Fprintf(&buf, "ComplexTypes: map[string]*%sComplexType{\n", qual)
	var errList errorList
	for _, name := range typeNames {
		ct, ok := all[name].(*xsd.ComplexType)
		if !ok {
			continue
		}
		if cfg.filterTypes != nil && cfg.filterTypes(name.Local) {
			continue
		}
		lit, err := cfg.complexTypeLiteral(ct, qual)
		if err != nil {
			errList = append(errList, fmt.Errorf("complex type %s: %v", name.Local, err))
			continue
		}
		fmt.Fprintf(&buf, "%s: %s,\n", strconv.Quote(name.Local), lit)
	}
	buf.WriteString("},\n")

	fmt.Fprintf(&buf, "SimpleTypes: map[string]*%sSimpleType{\n", qual)
	for _, name := range typeNames {
		st, ok := all[name].(*xsd.SimpleType)
		if !ok {
			continue
		}
		if cfg.filterTypes != nil && cfg.filterTypes(name.Local) {
			continue
		}
		fmt.Fprintf(&buf, "%s: %s,\n", strconv.Quote(name.Local), cfg.simpleTypeLiteral(st, qual))
	}
	buf.WriteString("},\n")

	fmt.Fprintf(&buf, "Groups: map[string]*%sParticle{\n", qual)
	groupNames := sortedGroupNames(schema.Groups)
	for _, name := range groupNames {
		fmt.Fprintf(&buf, "%s: %s,\n", strconv.Quote(name.Local), cfg.particleLiteral(schema.Groups[name], qual))
	}
	buf.WriteString("},\n")

	fmt.Fprintf(&buf, "ElementTypes: map[string]string{\n")
	for _, name := range names {
		el := schema.Elements[name]
		if cfg.filterElements != nil && cfg.filterElements(el) {
			continue
		}
		fmt.Fprintf(&buf, "%s: %s,\n", strconv.Quote(name.Local), strconv.Quote(cfg.typeRef(el.Type)))
	}
	buf.WriteString("},\n")
	buf.WriteString("}\n")

	if len(errList) > 0 {
		return nil, errList
	}

	decls, err := gen.Declarations(buf.String())
	if err != nil {
		return nil, fmt.Errorf("generating schematab source: %v\nin:\n%s", err, buf.String())
	}
	file := &ast.File{Decls: decls, Name: ast.NewIdent(pkg)}
	return file, nil
}

// sortedNames, sortedGroupNames, and sortedTypeNames all key their
// maps by local name and drive internal/ordered.RangeStrings to walk
// them, the way the teacher uses ordered.RangeMap to make output from
// Go's randomized map iteration reproducible across runs.
func sortedNames(m map[xml.Name]*xsd.Element) []xml.Name {
	byLocal := make(map[string]xml.Name, len(m))
	for name := range m {
		byLocal[name.Local] = name
	}
	names := make([]xml.Name, 0, len(m))
	ordered.RangeStrings(byLocal, func(local string) {
		names = append(names, byLocal[local])
	})
	return names
}

func sortedGroupNames(m map[xml.Name]*xsd.Particle) []xml.Name {
	byLocal := make(map[string]xml.Name, len(m))
	for name := range m {
		byLocal[name.Local] = name
	}
	names := make([]xml.Name, 0, len(m))
	ordered.RangeStrings(byLocal, func(local string) {
		names = append(names, byLocal[local])
	})
	return names
}

func sortedTypeNames(all map[xml.Name]xsd.Type) []xml.Name {
	byLocal := make(map[string]xml.Name, len(all))
	for name := range all {
		byLocal[name.Local] = name
	}
	names := make([]xml.Name, 0, len(all))
	ordered.RangeStrings(byLocal, func(local string) {
		names = append(names, byLocal[local])
	})
	return names
}

// qualifier returns the "schematab." prefix generated literals need
// when the output package is not schematab itself.
func (cfg *Config) qualifier() string {
	if cfg.pkgname == "" || cfg.pkgname == "schematab" {
		return ""
	}
	return "schematab."
}

// typeRef reduces an xsd.Type to the string schematab.Table.ElementTypes
// and AttributeDecl.TypeRef carry: a declared type's local name, or a
// builtin spelled "xs:name" the way simpletype.Validate expects.
func (cfg *Config) typeRef(t xsd.Type) string {
	switch t := t.(type) {
	case xsd.Builtin:
		return builtinRef(t)
	case *xsd.SimpleType:
		return t.Name.Local
	case *xsd.ComplexType:
		return t.Name.Local
	}
	return ""
}

func (cfg *Config) globalElementLiteral(el *xsd.Element, qual string) string {
	var complexRef, simpleRef string
	switch el.Type.(type) {
	case *xsd.ComplexType:
		complexRef = cfg.typeRef(el.Type)
	default:
		simpleRef = cfg.typeRef(el.Type)
	}
	return fmt.Sprintf("%sGlobalElement{Name: %s, ComplexTypeRef: %s, SimpleTypeRef: %s}",
		qual, strconv.Quote(el.Name.Local), strconv.Quote(complexRef), strconv.Quote(simpleRef))
}

func (cfg *Config) complexTypeLiteral(t *xsd.ComplexType, qual string) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "&%sComplexType{Name: %s, Mixed: %t,\n", qual, strconv.Quote(t.Name.Local), t.Mixed)
	buf.WriteString("Attributes: []" + qual + "AttributeDecl{\n")
	for _, attr := range t.Attributes {
		if cfg.filterAttributes != nil && cfg.filterAttributes(&attr) {
			continue
		}
		fmt.Fprintf(&buf, "{Name: %s, TypeRef: %s, Required: %t, Default: %s},\n",
			strconv.Quote(attr.Name.Local), strconv.Quote(cfg.typeRef(attr.Type)), !attr.Optional, strconv.Quote(attr.Default))
	}
	buf.WriteString("},\n")
	if t.Content != nil {
		fmt.Fprintf(&buf, "Content: %s,\n", cfg.particleLiteral(t.Content, qual))
	}
	if t.SimpleContent != nil {
		fmt.Fprintf(&buf, "SimpleContent: %s,\n", strconv.Quote(cfg.typeRef(t.SimpleContent)))
	}
	buf.WriteString("}")
	return buf.String(), nil
}

func (cfg *Config) particleLiteral(p *xsd.Particle, qual string) string {
	if p == nil {
		return "nil"
	}
	occurs := fmt.Sprintf("%sOccurs{Min: %d, Max: %d}", qual, p.Occurs.Min, p.Occurs.Max)
	switch p.Kind {
	case xsd.ElementParticle:
		return fmt.Sprintf("&%sParticle{Kind: %sElement, Occurs: %s, Elem: %s}",
			qual, qual, occurs, strconv.Quote(p.Elem.Local))
	case xsd.GroupRefParticle:
		return fmt.Sprintf("&%sParticle{Kind: %sGroupRef, Occurs: %s, Group: %s}",
			qual, qual, occurs, strconv.Quote(p.Group.Local))
	default:
		kind := map[xsd.ParticleKind]string{
			xsd.SequenceParticle: "Sequence",
			xsd.ChoiceParticle:   "Choice",
			xsd.AllParticle:      "All",
		}[p.Kind]
		var branches bytes.Buffer
		for _, b := range p.Branches {
			fmt.Fprintf(&branches, "%s,\n", cfg.particleLiteral(b, qual))
		}
		return fmt.Sprintf("&%sParticle{Kind: %s%s, Occurs: %s, Branches: []*%sParticle{\n%s}}",
			qual, qual, kind, occurs, qual, branches.String())
	}
}

func (cfg *Config) simpleTypeLiteral(t *xsd.SimpleType, qual string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "&%sSimpleType{Name: %s, ", qual, strconv.Quote(t.Name.Local))
	switch {
	case t.List:
		fmt.Fprintf(&buf, "Kind: %sListOf, Base: %s", qual, strconv.Quote(cfg.typeRef(t.Base)))
	case len(t.Union) > 0:
		buf.WriteString("Kind: " + qual + "Union, Union: []string{")
		for _, m := range t.Union {
			fmt.Fprintf(&buf, "%s, ", strconv.Quote(cfg.typeRef(m)))
		}
		buf.WriteString("}")
	case len(t.Restriction.Enum) > 0:
		fmt.Fprintf(&buf, "Kind: %sEnum, Base: %s, Enum: []string{", qual, strconv.Quote(cfg.typeRef(t.Base)))
		for _, v := range t.Restriction.Enum {
			fmt.Fprintf(&buf, "%s, ", strconv.Quote(v))
		}
		buf.WriteString("}")
	case restrictionHasFacets(t.Restriction):
		fmt.Fprintf(&buf, "Kind: %sRestrictionOf, Base: %s", qual, strconv.Quote(cfg.typeRef(t.Base)))
		r := t.Restriction
		if r.Pattern != nil {
			fmt.Fprintf(&buf, ", Pattern: %s", strconv.Quote(r.Pattern.String()))
		}
		if r.HasMinLength {
			fmt.Fprintf(&buf, ", HasMinLength: true, MinLength: %d", r.MinLength)
		}
		if r.HasMaxLength {
			fmt.Fprintf(&buf, ", HasMaxLength: true, MaxLength: %d", r.MaxLength)
		}
		if r.HasMin {
			fmt.Fprintf(&buf, ", HasMin: true, Min: %s", strconv.FormatFloat(r.Min, 'g', -1, 64))
		}
		if r.HasMax {
			fmt.Fprintf(&buf, ", HasMax: true, Max: %s", strconv.FormatFloat(r.Max, 'g', -1, 64))
		}
		if r.FractionDigits != 0 {
			fmt.Fprintf(&buf, ", FractionDigits: %d", r.FractionDigits)
		}
	default:
		fmt.Fprintf(&buf, "Kind: %sAtomic, Base: %s", qual, strconv.Quote(cfg.typeRef(t.Base)))
	}
	buf.WriteString("}")
	return buf.String()
}

func restrictionHasFacets(r xsd.Restriction) bool {
	return r.Pattern != nil || r.HasMinLength || r.HasMaxLength || r.HasMin || r.HasMax || r.FractionDigits != 0
}
