package particle

import (
	"testing"

	"github.com/CognitoIQ/musicxml/schematab"
)

func TestAttachSequenceInOrder(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("pitch").Content)

	if err := m.TryAttach("step"); err != nil {
		t.Fatalf("step should attach: %v", err)
	}
	if err := m.TryAttach("octave"); err != nil {
		t.Fatalf("octave should attach once alter is skipped (it's optional): %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("pitch should be complete after step+octave: %v", err)
	}
}

func TestAttachSequenceRejectsOutOfOrder(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("pitch").Content)

	if err := m.TryAttach("octave"); err == nil {
		t.Fatalf("octave before step should be rejected")
	}
}

func TestAttachSequenceWithOptionalMiddle(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("pitch").Content)

	mustAttach(t, m, "step")
	mustAttach(t, m, "alter")
	mustAttach(t, m, "octave")
	if err := m.Validate(); err != nil {
		t.Fatalf("pitch with alter present should be complete: %v", err)
	}
}

func TestAttachSequenceIncomplete(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("pitch").Content)
	mustAttach(t, m, "step")
	if err := m.Validate(); err == nil {
		t.Fatalf("pitch missing octave should not validate")
	}
}

func TestAttachUnboundedChoice(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("articulations").Content)

	mustAttach(t, m, "accent")
	mustAttach(t, m, "accent")
	mustAttach(t, m, "strong-accent")
	if err := m.Validate(); err != nil {
		t.Fatalf("one or more articulation choices should already validate: %v", err)
	}
	if err := m.TryAttach("staccato"); err != nil {
		t.Fatalf("choice should accept further repetitions: %v", err)
	}
}

func TestAttachChoiceRejectsUnknownElement(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("articulations").Content)
	if err := m.TryAttach("glissando"); err == nil {
		t.Fatalf("expected glissando to be rejected, it is not a member of the choice")
	}
}

func TestAttachNoteNestedChoiceThenSequenceTail(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("note").Content)

	mustAttach(t, m, "pitch")
	mustAttach(t, m, "duration")
	mustAttach(t, m, "voice")
	mustAttach(t, m, "type")
	mustAttach(t, m, "notations")
	if err := m.Validate(); err != nil {
		t.Fatalf("note should validate once pitch/duration are present: %v", err)
	}
}

func TestAttachChoiceMaxOccursOneRejectsSecondBranch(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("note").Content)

	mustAttach(t, m, "rest")
	if err := m.TryAttach("pitch"); err == nil {
		t.Fatalf("pitch should be rejected once rest has committed the note's pitch/rest/unpitched choice")
	}
	if err := m.TryAttach("unpitched"); err == nil {
		t.Fatalf("unpitched should be rejected once rest has committed the note's pitch/rest/unpitched choice")
	}
}

func TestAttachChoiceNestedSequenceBranchRejectsSiblings(t *testing.T) {
	tab := schematab.Default
	m := New(tab, tab.ComplexType("note").Content)

	// pitch lives inside a Sequence branch of the choice; once it
	// commits that branch, later unrelated sequence elements
	// (duration) must not reopen rest/unpitched as alternatives.
	mustAttach(t, m, "pitch")
	mustAttach(t, m, "duration")
	if err := m.TryAttach("rest"); err == nil {
		t.Fatalf("rest should be rejected: pitch already committed the choice")
	}
	if err := m.TryAttach("unpitched"); err == nil {
		t.Fatalf("unpitched should be rejected: pitch already committed the choice")
	}
}

func mustAttach(t *testing.T, m *Model, name string) {
	t.Helper()
	if err := m.TryAttach(name); err != nil {
		t.Fatalf("expected %q to attach: %v", name, err)
	}
}
