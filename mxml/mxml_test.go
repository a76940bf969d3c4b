package mxml

import (
	"testing"

	"github.com/CognitoIQ/musicxml/mxml/mxerr"
	"github.com/CognitoIQ/musicxml/schematab"
)

func TestBuildValidPitch(t *testing.T) {
	tab := schematab.Default
	p, err := New(tab, "pitch")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	step, err := p.AddChild("step")
	if err != nil {
		t.Fatalf("AddChild step: %v", err)
	}
	if err := step.SetText("C"); err != nil {
		t.Fatalf("SetText step: %v", err)
	}
	octave, err := p.AddChild("octave")
	if err != nil {
		t.Fatalf("AddChild octave: %v", err)
	}
	if err := octave.SetText("4"); err != nil {
		t.Fatalf("SetText octave: %v", err)
	}
	if err := p.FinalCheck(); err != nil {
		t.Fatalf("FinalCheck: %v", err)
	}
}

func TestRejectsInvalidEnumValue(t *testing.T) {
	tab := schematab.Default
	p, _ := New(tab, "pitch")
	step, _ := p.AddChild("step")
	if err := step.SetText("H"); err == nil {
		t.Fatalf("expected SetText(H) on a step to fail, H is not a pitch letter")
	} else if _, ok := err.(*mxerr.BadValue); !ok {
		t.Fatalf("expected *mxerr.BadValue, got %T", err)
	}
}

func TestFinalCheckCatchesMissingRequiredChild(t *testing.T) {
	tab := schematab.Default
	p, _ := New(tab, "pitch")
	step, _ := p.AddChild("step")
	step.SetText("C")
	if err := p.FinalCheck(); err == nil {
		t.Fatalf("expected FinalCheck to fail, octave is required and missing")
	} else if _, ok := err.(*mxerr.RequiredChildMissing); !ok {
		t.Fatalf("expected *mxerr.RequiredChildMissing, got %T (%v)", err, err)
	}
}

func TestAttributeValidationRequiredAndTyped(t *testing.T) {
	tab := schematab.Default
	m, err := New(tab, "measure")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.FinalCheck(); err == nil {
		t.Fatalf("expected FinalCheck to fail, number attribute is required")
	}
	if err := m.SetAttribute("bogus", "x"); err == nil {
		t.Fatalf("expected unknown attribute to be rejected")
	} else if _, ok := err.(*mxerr.UnknownAttribute); !ok {
		t.Fatalf("expected *mxerr.UnknownAttribute, got %T", err)
	}
	if err := m.SetAttribute("implicit", "maybe"); err == nil {
		t.Fatalf("expected yes-no attribute to reject an out-of-enum value")
	}
	if err := m.SetAttribute("number", "1"); err != nil {
		t.Fatalf("SetAttribute number: %v", err)
	}
}

func TestChoiceBacktrackAndDuplication(t *testing.T) {
	tab := schematab.Default
	art, err := New(tab, "articulations")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{"accent", "accent", "staccato", "tenuto"} {
		if _, err := art.AddChild(name); err != nil {
			t.Fatalf("AddChild %s: %v", name, err)
		}
	}
	if _, err := art.AddChild("glissando"); err == nil {
		t.Fatalf("expected glissando to be rejected from the articulations choice")
	}
	if err := art.FinalCheck(); err != nil {
		t.Fatalf("FinalCheck: %v", err)
	}
	if len(art.Children()) != 4 {
		t.Fatalf("expected 4 articulation children, got %d", len(art.Children()))
	}
}

func TestNoteChoiceRejectsConflictingAlternative(t *testing.T) {
	tab := schematab.Default
	note, err := New(tab, "note")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := note.AddChild("rest"); err != nil {
		t.Fatalf("AddChild rest: %v", err)
	}
	if _, err := note.AddChild("pitch"); err == nil {
		t.Fatalf("AddChild pitch should be rejected: note's pitch/rest/unpitched choice already chose rest")
	}
	if len(note.Children()) != 1 || note.Children()[0].Name() != "rest" {
		t.Fatalf("rejected AddChild must not leave a second child behind, got %v", note.Children())
	}
}

func TestWithoutValidationAllowsOutOfOrderThenReports(t *testing.T) {
	tab := schematab.Default
	p, err := New(tab, "pitch", WithoutValidation())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	octave, err := p.AddChild("octave")
	if err != nil {
		t.Fatalf("AddChild octave out of order should be allowed unchecked: %v", err)
	}
	octave.SetText("4")
	step, err := p.AddChild("step")
	if err != nil {
		t.Fatalf("AddChild step: %v", err)
	}
	step.SetText("C")

	got := make([]string, 0, 2)
	for _, c := range p.Children() {
		got = append(got, c.Name())
	}
	if got[0] != "octave" || got[1] != "step" {
		t.Fatalf("unchecked build should preserve literal insertion order, got %v", got)
	}
	if err := p.FinalCheck(); err == nil {
		t.Fatalf("FinalCheck should report the out-of-order children")
	}
}

func TestRemoveRebuildsContentModel(t *testing.T) {
	tab := schematab.Default
	p, _ := New(tab, "pitch")
	step, _ := p.AddChild("step")
	step.SetText("C")
	octave, _ := p.AddChild("octave")
	octave.SetText("4")
	p.Remove(octave)
	if err := p.FinalCheck(); err == nil {
		t.Fatalf("expected FinalCheck to fail after removing the required octave")
	}
	if _, err := p.AddChild("octave"); err != nil {
		t.Fatalf("should be able to re-add octave after remove: %v", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	tab := schematab.Default
	p, _ := New(tab, "pitch")
	step, _ := p.AddChild("step")
	step.SetText("C")
	octave, _ := p.AddChild("octave")
	octave.SetText("4")

	dup := p.Copy()
	dup.Remove(dup.Children()[1])
	if err := p.FinalCheck(); err != nil {
		t.Fatalf("original should be unaffected by edits to the copy: %v", err)
	}
	if err := dup.FinalCheck(); err == nil {
		t.Fatalf("copy should be missing octave after Remove")
	}
}

func TestParentBackReferenceTracksAttachAndRemove(t *testing.T) {
	tab := schematab.Default
	p, _ := New(tab, "pitch")
	step, _ := p.AddChild("step")
	if step.Parent() != p {
		t.Fatalf("expected step's parent to be p")
	}
	p.Remove(step)
	if step.Parent() != nil {
		t.Fatalf("expected detached step to have nil parent, got %v", step.Parent())
	}
}

func TestNamedChildAccessor(t *testing.T) {
	tab := schematab.Default
	p, _ := New(tab, "pitch")
	if err := p.SetNamedChild("step", "C"); err != nil {
		t.Fatalf("SetNamedChild step: %v", err)
	}
	if err := p.SetNamedChild("octave", "4"); err != nil {
		t.Fatalf("SetNamedChild octave: %v", err)
	}
	if v, ok := p.NamedChild("step"); !ok || v != "C" {
		t.Fatalf("expected step=C, got %q ok=%v", v, ok)
	}
	if err := p.SetNamedChild("step", "D"); err != nil {
		t.Fatalf("SetNamedChild step again: %v", err)
	}
	if v, _ := p.NamedChild("step"); v != "D" {
		t.Fatalf("expected SetNamedChild to update the existing step, got %q", v)
	}
	if len(p.Children()) != 2 {
		t.Fatalf("expected the second SetNamedChild(step) to reuse the existing child, got %d children", len(p.Children()))
	}
	if err := p.FinalCheck(); err != nil {
		t.Fatalf("FinalCheck: %v", err)
	}
}

func TestShallowCopySharesChildrenButNotAttributes(t *testing.T) {
	tab := schematab.Default
	m, _ := New(tab, "measure")
	m.SetAttribute("number", "1")
	note, _ := m.AddChild("note")

	dup := m.ShallowCopy()
	dup.SetAttribute("number", "2")
	if v, _ := m.Attribute("number"); v != "1" {
		t.Fatalf("expected original's attribute to be unaffected by edits to the shallow copy, got %q", v)
	}
	if len(dup.Children()) != 1 || dup.Children()[0] != note {
		t.Fatalf("expected shallow copy to share the same child element")
	}
}

func TestFontSizeAcceptsDecimalOrCSSKeywordAndRejectsOther(t *testing.T) {
	tab := schematab.Default
	art, _ := New(tab, "articulations")
	if err := art.SetAttribute("font-size", "17.2"); err != nil {
		t.Fatalf("expected decimal font-size to validate, got %v", err)
	}
	if err := art.SetAttribute("font-size", "large"); err != nil {
		t.Fatalf("expected css-font-size keyword to validate, got %v", err)
	}
	if err := art.SetAttribute("font-size", "huge"); err == nil {
		t.Fatalf("expected font-size=huge to be rejected")
	} else if _, ok := err.(*mxerr.BadValue); !ok {
		t.Fatalf("expected *mxerr.BadValue, got %T", err)
	}
}
