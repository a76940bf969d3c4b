package xsdgen

import (
	"bytes"
	"go/format"
	"go/token"
	"strings"
	"testing"

	"github.com/CognitoIQ/musicxml/xsd"
)

const pitchSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="http://www.musicxml.org/xsd/MusicXML"
           xmlns="http://www.musicxml.org/xsd/MusicXML"
           elementFormDefault="qualified">
  <xs:simpleType name="step">
    <xs:restriction base="xs:string">
      <xs:enumeration value="A"/>
      <xs:enumeration value="B"/>
      <xs:enumeration value="C"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:complexType name="pitch">
    <xs:sequence>
      <xs:element name="step" type="step"/>
      <xs:element name="alter" type="xs:decimal" minOccurs="0"/>
      <xs:element name="octave" type="xs:integer"/>
    </xs:sequence>
  </xs:complexType>
  <xs:element name="pitch" type="pitch"/>
</xs:schema>`

type testLogger testing.T

func (t *testLogger) Printf(format string, v ...interface{}) {
	t.Logf(format, v...)
}

func TestGenASTProducesTableLiteral(t *testing.T) {
	schema, err := xsd.Parse([]byte(pitchSchema))
	if err != nil {
		t.Fatalf("xsd.Parse: %v", err)
	}
	if len(schema) != 1 {
		t.Fatalf("expected one schema, got %d", len(schema))
	}

	var cfg Config
	cfg.Option(DefaultOptions...)
	cfg.Option(LogOutput((*testLogger)(t)), LogLevel(5))

	file, err := cfg.GenAST(schema[0])
	if err != nil {
		t.Fatalf("GenAST: %v", err)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), file); err != nil {
		t.Fatalf("format.Node: %v", err)
	}
	src := buf.String()
	t.Log(src)

	for _, want := range []string{
		`"pitch": GlobalElement{`,
		`ComplexTypes: map[string]*ComplexType{`,
		`"step": &SimpleType{`,
		`Kind: Enum`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestGenASTQualifiesNonSchematabPackage(t *testing.T) {
	schema, err := xsd.Parse([]byte(pitchSchema))
	if err != nil {
		t.Fatalf("xsd.Parse: %v", err)
	}

	var cfg Config
	cfg.Option(PackageName("generated"), VarName("Table1"))

	file, err := cfg.GenAST(schema[0])
	if err != nil {
		t.Fatalf("GenAST: %v", err)
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), file); err != nil {
		t.Fatalf("format.Node: %v", err)
	}
	src := buf.String()
	if !strings.Contains(src, "var Table1 = &schematab.Table{") {
		t.Errorf("expected qualified schematab.Table literal, got:\n%s", src)
	}
}
