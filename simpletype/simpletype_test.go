package simpletype

import (
	"testing"

	"github.com/CognitoIQ/musicxml/schematab"
)

func TestValidateEnum(t *testing.T) {
	tab := schematab.Default
	if _, err := Validate(tab, "step", "C"); err != nil {
		t.Fatalf("expected C to be a valid step: %v", err)
	}
	if _, err := Validate(tab, "step", "H"); err == nil {
		t.Fatalf("expected H to be rejected as an invalid step")
	}
}

func TestValidateRestrictionRange(t *testing.T) {
	tab := schematab.Default
	if _, err := Validate(tab, "octave", "4"); err != nil {
		t.Fatalf("expected octave 4 to be valid: %v", err)
	}
	if _, err := Validate(tab, "octave", "11"); err == nil {
		t.Fatalf("expected octave 11 to be rejected (max 9)")
	}
}

func TestValidateBuiltinNumeric(t *testing.T) {
	tab := schematab.Default
	if _, err := Validate(tab, "xs:decimal", "1.5"); err != nil {
		t.Fatalf("expected 1.5 to be a valid decimal: %v", err)
	}
	if _, err := Validate(tab, "xs:decimal", "abc"); err == nil {
		t.Fatalf("expected abc to be rejected as a decimal")
	}
}

func TestValidateUndeclaredType(t *testing.T) {
	tab := schematab.Default
	if _, err := Validate(tab, "not-a-real-type", "x"); err == nil {
		t.Fatalf("expected undeclared type to be rejected")
	}
}

func TestValidateWhitespaceCollapse(t *testing.T) {
	tab := schematab.Default
	v, err := Validate(tab, "xs:token", "  hello   world  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "hello world" {
		t.Fatalf("expected whitespace collapse, got %q", v)
	}
}
