package schematab

// Default is the compiled schema table for the MusicXML subset the
// engine ships with: score-partwise, its part-list/part/measure/note
// skeleton, the pitch and articulations families, and the print/font
// attribute groups those elements share. It stands in for the output
// xsdgen would otherwise produce from the full MusicXML 4.0 schema.
var Default = buildDefault()

func seq(occurs Occurs, branches ...*Particle) *Particle {
	return &Particle{Kind: Sequence, Occurs: occurs, Branches: branches}
}

func choice(occurs Occurs, branches ...*Particle) *Particle {
	return &Particle{Kind: Choice, Occurs: occurs, Branches: branches}
}

func elem(name string, occurs Occurs) *Particle {
	return &Particle{Kind: Element, Occurs: occurs, Elem: name}
}

func grp(name string, occurs Occurs) *Particle {
	return &Particle{Kind: GroupRef, Occurs: occurs, Group: name}
}

var one = Occurs{Min: 1, Max: 1}
var optional = Occurs{Min: 0, Max: 1}
var unbounded = Occurs{Min: 0, Max: Unbounded}
var oneOrMore = Occurs{Min: 1, Max: Unbounded}

func buildDefault() *Table {
	t := &Table{
		Elements:     make(map[string]GlobalElement),
		ComplexTypes: make(map[string]*ComplexType),
		SimpleTypes:  make(map[string]*SimpleType),
		Groups:       make(map[string]*Particle),
		ElementTypes: make(map[string]string),
	}

	t.SimpleTypes["step"] = &SimpleType{
		Name: "step", Kind: Enum, Base: "xs:string",
		Enum: []string{"A", "B", "C", "D", "E", "F", "G"},
	}
	t.SimpleTypes["semitones"] = &SimpleType{Name: "semitones", Kind: RestrictionOf, Base: "xs:decimal"}
	t.SimpleTypes["octave"] = &SimpleType{
		Name: "octave", Kind: RestrictionOf, Base: "xs:integer",
		HasMin: true, Min: 0, HasMax: true, Max: 9,
	}
	t.SimpleTypes["divisions"] = &SimpleType{Name: "divisions", Kind: RestrictionOf, Base: "xs:decimal"}
	t.SimpleTypes["note-type-value"] = &SimpleType{
		Name: "note-type-value", Kind: Enum, Base: "xs:string",
		Enum: []string{"1024th", "512th", "256th", "128th", "64th", "32nd", "16th",
			"eighth", "quarter", "half", "whole", "breve", "long", "maxima"},
	}
	t.SimpleTypes["fifths"] = &SimpleType{Name: "fifths", Kind: RestrictionOf, Base: "xs:integer"}
	t.SimpleTypes["mode"] = &SimpleType{
		Name: "mode", Kind: Enum, Base: "xs:string",
		Enum: []string{"major", "minor", "dorian", "phrygian", "lydian", "mixolydian",
			"aeolian", "locrian", "none"},
	}
	t.SimpleTypes["font-style"] = &SimpleType{
		Name: "font-style", Kind: Enum, Base: "xs:string",
		Enum: []string{"normal", "italic"},
	}
	t.SimpleTypes["font-weight"] = &SimpleType{
		Name: "font-weight", Kind: Enum, Base: "xs:string",
		Enum: []string{"normal", "bold"},
	}
	t.SimpleTypes["yes-no"] = &SimpleType{
		Name: "yes-no", Kind: Enum, Base: "xs:string",
		Enum: []string{"yes", "no"},
	}
	t.SimpleTypes["css-font-size"] = &SimpleType{
		Name: "css-font-size", Kind: Enum, Base: "xs:string",
		Enum: []string{"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large"},
	}
	t.SimpleTypes["font-size"] = &SimpleType{
		Name: "font-size", Kind: Union, Union: []string{"xs:decimal", "css-font-size"},
	}

	fontAttrs := []AttributeDecl{
		{Name: "font-family", TypeRef: "xs:token"},
		{Name: "font-style", TypeRef: "font-style"},
		{Name: "font-size", TypeRef: "font-size"},
		{Name: "font-weight", TypeRef: "font-weight"},
	}
	printStyleAttrs := append([]AttributeDecl{
		{Name: "default-x", TypeRef: "xs:decimal"},
		{Name: "default-y", TypeRef: "xs:decimal"},
		{Name: "relative-x", TypeRef: "xs:decimal"},
		{Name: "relative-y", TypeRef: "xs:decimal"},
	}, fontAttrs...)

	t.ComplexTypes["pitch"] = &ComplexType{
		Name: "pitch",
		Content: seq(one,
			elem("step", one),
			elem("alter", optional),
			elem("octave", one),
		),
	}

	t.ComplexTypes["articulations"] = &ComplexType{
		Name:       "articulations",
		Attributes: printStyleAttrs,
		Content: choice(unbounded,
			elem("accent", one),
			elem("strong-accent", one),
			elem("staccato", one),
			elem("tenuto", one),
			elem("staccatissimo", one),
		),
	}

	t.ComplexTypes["notations"] = &ComplexType{
		Name: "notations",
		Content: seq(one,
			elem("articulations", optional),
		),
	}

	t.ComplexTypes["note"] = &ComplexType{
		Name: "note",
		Attributes: []AttributeDecl{
			{Name: "print-object", TypeRef: "yes-no", Default: "yes"},
		},
		Content: seq(one,
			choice(one,
				seq(one, elem("pitch", one)),
				elem("rest", one),
				elem("unpitched", one),
			),
			elem("duration", one),
			elem("voice", optional),
			elem("type", optional),
			elem("dot", unbounded),
			elem("notations", unbounded),
		),
	}

	t.ComplexTypes["key"] = &ComplexType{
		Name: "key",
		Content: seq(one,
			elem("fifths", one),
			elem("mode", optional),
		),
	}

	t.ComplexTypes["time"] = &ComplexType{
		Name: "time",
		Content: seq(one,
			elem("beats", one),
			elem("beat-type", one),
		),
	}

	t.ComplexTypes["clef"] = &ComplexType{
		Name: "clef",
		Content: seq(one,
			elem("sign", one),
			elem("line", optional),
		),
	}

	t.ComplexTypes["attributes"] = &ComplexType{
		Name: "attributes",
		Content: seq(one,
			elem("divisions", optional),
			elem("key", unbounded),
			elem("time", unbounded),
			elem("clef", unbounded),
		),
	}

	t.ComplexTypes["measure"] = &ComplexType{
		Name: "measure",
		Attributes: []AttributeDecl{
			{Name: "number", TypeRef: "xs:token", Required: true},
			{Name: "implicit", TypeRef: "yes-no"},
		},
		Content: seq(unbounded,
			choice(oneOrMore,
				elem("note", one),
				elem("attributes", one),
				elem("direction", one),
				elem("backup", one),
				elem("forward", one),
			),
		),
	}

	t.ComplexTypes["score-instrument"] = &ComplexType{
		Name: "score-instrument",
		Attributes: []AttributeDecl{
			{Name: "id", TypeRef: "xs:ID", Required: true},
		},
		Content: seq(one, elem("instrument-name", one), elem("instrument-sound", optional)),
	}

	t.ComplexTypes["score-part"] = &ComplexType{
		Name: "score-part",
		Attributes: []AttributeDecl{
			{Name: "id", TypeRef: "xs:ID", Required: true},
		},
		Content: seq(one,
			elem("part-name", one),
			elem("score-instrument", unbounded),
		),
	}

	t.ComplexTypes["part-list"] = &ComplexType{
		Name: "part-list",
		Content: seq(one,
			elem("score-part", oneOrMore),
		),
	}

	t.ComplexTypes["part"] = &ComplexType{
		Name: "part",
		Attributes: []AttributeDecl{
			{Name: "id", TypeRef: "xs:IDREF", Required: true},
		},
		Content: seq(one,
			elem("measure", oneOrMore),
		),
	}

	t.ComplexTypes["score-partwise"] = &ComplexType{
		Name: "score-partwise",
		Attributes: []AttributeDecl{
			{Name: "version", TypeRef: "xs:token", Default: "1.0"},
		},
		Content: seq(one,
			elem("work", optional),
			elem("identification", optional),
			elem("part-list", one),
			elem("part", oneOrMore),
		),
	}

	t.Elements["score-partwise"] = GlobalElement{Name: "score-partwise", ComplexTypeRef: "score-partwise"}
	t.Elements["pitch"] = GlobalElement{Name: "pitch", ComplexTypeRef: "pitch"}
	t.Elements["note"] = GlobalElement{Name: "note", ComplexTypeRef: "note"}
	t.Elements["articulations"] = GlobalElement{Name: "articulations", ComplexTypeRef: "articulations"}
	t.Elements["measure"] = GlobalElement{Name: "measure", ComplexTypeRef: "measure"}
	t.Elements["part-list"] = GlobalElement{Name: "part-list", ComplexTypeRef: "part-list"}
	t.Elements["part"] = GlobalElement{Name: "part", ComplexTypeRef: "part"}

	for name, typeRef := range map[string]string{
		"step":              "step",
		"alter":             "semitones",
		"octave":            "octave",
		"accent":            "xs:token",
		"strong-accent":     "xs:token",
		"staccato":          "xs:token",
		"tenuto":            "xs:token",
		"staccatissimo":     "xs:token",
		"pitch":             "pitch",
		"rest":              "xs:token",
		"unpitched":         "xs:token",
		"duration":          "divisions",
		"voice":             "xs:token",
		"type":              "note-type-value",
		"dot":               "xs:token",
		"notations":         "notations",
		"articulations":     "articulations",
		"note":              "note",
		"fifths":            "fifths",
		"mode":              "mode",
		"key":               "key",
		"beats":             "xs:token",
		"beat-type":         "xs:token",
		"time":              "time",
		"sign":              "xs:token",
		"line":              "xs:integer",
		"clef":              "clef",
		"divisions":         "divisions",
		"attributes":        "attributes",
		"direction":         "xs:token",
		"backup":            "xs:token",
		"forward":           "xs:token",
		"measure":           "measure",
		"instrument-name":   "xs:token",
		"instrument-sound":  "xs:token",
		"score-instrument":  "score-instrument",
		"part-name":         "xs:token",
		"score-part":        "score-part",
		"part-list":         "part-list",
		"part":              "part",
		"work":              "xs:token",
		"identification":    "xs:token",
		"score-partwise":    "score-partwise",
	} {
		t.ElementTypes[name] = typeRef
	}

	return t
}
