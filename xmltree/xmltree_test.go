package xmltree

import (
	"testing"
)

// doc is a trimmed stand-in for the shape of MusicXML's .xsd schema
// files: an xs:schema root that imports the XML namespace schema, and
// three sibling complexTypes built from sequences of elements, two of
// which override the default namespace and refer to the others through
// the mxsd prefix.
var doc = []byte(`<?xml version="1.0" encoding="utf-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:mxsd="http://www.musicxml.org/xsd/MusicXML" targetNamespace="http://www.musicxml.org/xsd/MusicXML" elementFormDefault="qualified">
  <xs:import namespace="http://www.w3.org/XML/1998/namespace" schemaLocation="xml.xsd" />
  <xs:complexType name="pitch">
    <xs:sequence>
      <xs:element name="step" type="xs:string" />
      <xs:element name="alter" type="xs:decimal" minOccurs="0" />
      <xs:element name="octave" type="xs:integer" />
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="note" xmlns="http://custom2/">
    <xs:sequence>
      <xs:element name="pitch" type="mxsd:pitch" />
      <xs:element name="duration" type="xs:positiveInteger" />
    </xs:sequence>
    <xs:attribute ref="xml:id" />
  </xs:complexType>
  <xs:complexType name="measure" xmlns="http://custom/">
    <xs:sequence>
      <xs:element name="note" type="mxsd:note" minOccurs="0" maxOccurs="unbounded" />
    </xs:sequence>
    <xs:attribute name="number" type="xs:token" use="required" />
  </xs:complexType>
</xs:schema>`)

func TestParse(t *testing.T) {
	var buf struct {
		Data []byte `xml:",innerxml"`
	}
	el, err := Parse(doc)
	if err != nil {
		t.Fatal(err)
	}
	el.walk(func(el *Element) {
		if err := el.Unmarshal(&buf); err != nil {
			t.Error(err)
		}
		t.Logf("%s", buf.Data)
	})
}

func TestSearch(t *testing.T) {
	root, err := Parse(doc)
	if err != nil {
		t.Fatal(err)
	}

	result := root.Search(schemaNamespace, "complexType")
	if len(result) != 3 {
		t.Errorf("Expected Search(%q, \"complexType\") to return 3 results, got %d",
			schemaNamespace, len(result))
	}
}

func TestNSResolution(t *testing.T) {
	root, err := Parse(doc)
	if err != nil {
		t.Fatal(err)
	}

	for _, prefix := range []string{"xs", "mxsd"} {
		if name, ok := root.ResolveNS(prefix + ":foo"); !ok {
			t.Errorf("Failed to resolve %s: prefix at <%s>", prefix, root.Name.Local)
		} else if prefix == "xs" && name.Space != schemaNamespace {
			t.Errorf("resolved xs: prefix to %q, want %q", name.Space, schemaNamespace)
		}
	}

	measure := root.SearchFunc(func(el *Element) bool {
		return el.Name.Local == "complexType" && el.Attr("", "name") == "measure"
	})[0]

	name := measure.Resolve("foo")
	if name.Space != "http://custom/" {
		t.Errorf("Resolve default namespace at <%s name=%q>: wanted %q, got %q",
			measure.Prefix(measure.Name), measure.Attr("", "name"), "http://custom/", name.Space)
	}
}

const schemaNamespace = "http://www.w3.org/2001/XMLSchema"
