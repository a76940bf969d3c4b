package mxwrite

import (
	"strings"
	"testing"

	"github.com/CognitoIQ/musicxml/mxml"
	"github.com/CognitoIQ/musicxml/schematab"
)

func buildPitch(t *testing.T) *mxml.Element {
	t.Helper()
	tab := schematab.Default
	p, err := mxml.New(tab, "pitch")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	step, _ := p.AddChild("step")
	step.SetText("C")
	octave, _ := p.AddChild("octave")
	octave.SetText("4")
	return p
}

func TestWritePitchIndented(t *testing.T) {
	p := buildPitch(t)
	var buf strings.Builder
	if err := Write(&buf, p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "<pitch>\n") {
		t.Fatalf("expected opening pitch tag on its own line, got %q", got)
	}
	if !strings.Contains(got, "  <step>C</step>\n") {
		t.Fatalf("expected indented step element, got %q", got)
	}
}

func TestWriteCompactNoIndent(t *testing.T) {
	p := buildPitch(t)
	var buf strings.Builder
	if err := Write(&buf, p, WithIndent("")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	if strings.Contains(got, "\n") {
		t.Fatalf("expected single-line output with no indent, got %q", got)
	}
	if got != "<pitch><step>C</step><octave>4</octave></pitch>" {
		t.Fatalf("unexpected compact output: %q", got)
	}
}

func TestWriteXMLDeclaration(t *testing.T) {
	p := buildPitch(t)
	var buf strings.Builder
	if err := Write(&buf, p, WithXMLDeclaration()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("expected xml declaration prefix, got %q", buf.String())
	}
}

func TestWriteEscapesAttributes(t *testing.T) {
	tab := schematab.Default
	m, _ := mxml.New(tab, "measure")
	m.SetAttribute("number", `1"&<>`)
	var buf strings.Builder
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `number="1&quot;&amp;&lt;&gt;"`) {
		t.Fatalf("expected escaped attribute value, got %q", buf.String())
	}
}
