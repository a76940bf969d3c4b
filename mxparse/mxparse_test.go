package mxparse

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/CognitoIQ/musicxml/mxml/mxerr"
	"github.com/CognitoIQ/musicxml/schematab"
)

func TestParsePitch(t *testing.T) {
	doc := `<pitch><step>C</step><octave>4</octave></pitch>`
	el, err := Parse(schematab.Default, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if el.Name() != "pitch" {
		t.Fatalf("expected root pitch, got %s", el.Name())
	}
	if err := el.FinalCheck(); err != nil {
		t.Fatalf("FinalCheck: %v", err)
	}
	step := el.FindChild("step")
	if step == nil || step.Text() != "C" {
		t.Fatalf("expected step text C, got %#v", step)
	}
}

func TestParseRejectsUnknownChild(t *testing.T) {
	doc := `<pitch><step>C</step><glissando/></pitch>`
	if _, err := Parse(schematab.Default, strings.NewReader(doc)); err == nil {
		t.Fatalf("expected parse to fail, glissando is not valid inside pitch")
	}
}

func TestParseWithoutValidationAllowsLiteralOrder(t *testing.T) {
	doc := `<pitch><octave>4</octave><step>C</step></pitch>`
	el, err := Parse(schematab.Default, strings.NewReader(doc), WithoutValidation())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	children := el.Children()
	if len(children) != 2 || children[0].Name() != "octave" || children[1].Name() != "step" {
		t.Fatalf("expected literal document order preserved, got %#v", children)
	}
}

func TestParseAttributes(t *testing.T) {
	doc := `<measure number="1" implicit="yes"><attributes><divisions>4</divisions></attributes></measure>`
	el, err := Parse(schematab.Default, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, ok := el.Attribute("number"); !ok || v != "1" {
		t.Fatalf("expected number=1, got %q ok=%v", v, ok)
	}
}

func TestParseErrorReportsLineAndColumn(t *testing.T) {
	doc := "<pitch>\n  <step>C</step>\n  <glissando/>\n</pitch>"
	_, err := Parse(schematab.Default, strings.NewReader(doc))
	if err == nil {
		t.Fatalf("expected parse to fail on glissando")
	}
	pe, ok := err.(*mxerr.ParseError)
	if !ok {
		t.Fatalf("expected *mxerr.ParseError, got %T", err)
	}
	if pe.Line != 3 {
		t.Fatalf("expected error on line 3, got line %d (%v)", pe.Line, err)
	}
}

func TestParseFileReadsDocumentAndReportsPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/pitch.xml"
	if err := ioutil.WriteFile(path, []byte(`<pitch><step>C</step><glissando/></pitch>`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := ParseFile(schematab.Default, path)
	if err == nil {
		t.Fatalf("expected parse to fail on glissando")
	}
	pe, ok := err.(*mxerr.ParseError)
	if !ok {
		t.Fatalf("expected *mxerr.ParseError, got %T", err)
	}
	if pe.File != path {
		t.Fatalf("expected File %q, got %q", path, pe.File)
	}
}
