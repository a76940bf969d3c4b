package schematab

import "testing"

func TestDefaultTablePitch(t *testing.T) {
	ct := Default.ComplexType("pitch")
	if ct == nil {
		t.Fatalf("pitch complex type not registered")
	}
	if ct.Content == nil || ct.Content.Kind != Sequence {
		t.Fatalf("expected pitch content to be a sequence")
	}
	if len(ct.Content.Branches) != 3 {
		t.Fatalf("expected 3 branches in pitch sequence, got %d", len(ct.Content.Branches))
	}
	alter := ct.Content.Branches[1]
	if alter.Elem != "alter" || alter.Occurs.Min != 0 {
		t.Fatalf("alter should be optional: %#v", alter)
	}
}

func TestDefaultTableArticulationsChoice(t *testing.T) {
	ct := Default.ComplexType("articulations")
	if ct == nil {
		t.Fatalf("articulations complex type not registered")
	}
	if ct.Content.Kind != Choice {
		t.Fatalf("expected choice content model")
	}
	if ct.Content.Occurs.Max != Unbounded {
		t.Fatalf("expected unbounded choice")
	}
	if len(ct.Attributes) == 0 {
		t.Fatalf("expected print-style attributes on articulations")
	}
}

func TestDefaultTableElementTypes(t *testing.T) {
	typeRef, ok := Default.TypeOf("step")
	if !ok || typeRef != "step" {
		t.Fatalf("expected step element to carry the step simple type, got %q ok=%v", typeRef, ok)
	}
	if _, ok := Default.Element("score-partwise"); !ok {
		t.Fatalf("score-partwise should be a global element")
	}
}

func TestOccursHelpers(t *testing.T) {
	o := Occurs{Min: 1, Max: 3}
	if !o.Satisfied(1) || o.Satisfied(0) {
		t.Fatalf("Satisfied failed basic cases")
	}
	if !o.HasRoom(2) || o.HasRoom(3) {
		t.Fatalf("HasRoom failed basic cases")
	}
	u := Occurs{Min: 0, Max: Unbounded}
	if !u.HasRoom(1000) {
		t.Fatalf("unbounded occurs should always have room")
	}
}
