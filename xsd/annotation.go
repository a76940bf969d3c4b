package xsd

import (
	"bytes"
	"encoding/xml"
	"regexp"

	"github.com/CognitoIQ/musicxml/xmltree"
)

// annotation joins the text of <documentation> children of an
// <xs:annotation> element, separated by blank lines.
type annotation string

func (a annotation) append(extra annotation) annotation {
	if extra == "" {
		return a
	}
	if a != "" {
		a += "\n\n"
	}
	return a + extra
}

func (a annotation) String() string { return string(a) }

func (doc *annotation) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var buf [][]byte
	for {
		tok, err := d.Token()
		if err != nil {
			*doc = annotation(bytes.TrimSpace(bytes.Join(buf, []byte("\n\n"))))
			return err
		}
		switch tok := tok.(type) {
		case xml.EndElement:
			*doc = annotation(bytes.TrimSpace(bytes.Join(buf, []byte("\n\n"))))
			return nil
		case xml.StartElement:
			if tok.Name.Local != "documentation" {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var frag []byte
			if err := d.DecodeElement(&frag, &tok); err != nil {
				return err
			}
			buf = append(buf, bytes.TrimSpace(frag))
		}
	}
}

func parseAnnotation(el *xmltree.Element) annotation {
	var doc annotation
	if err := el.Unmarshal(&doc); err != nil {
		stop(err.Error())
	}
	return doc
}

// parsePattern compiles an XSD regular expression as an RE2 expression.
// The two dialects are close enough for the patterns found in the
// MusicXML schema; anything RE2 can't parse is reported in the
// surrounding restriction's Doc rather than failing the whole parse.
//
// http://www.w3.org/TR/xmlschema-0/#regexAppendix
func parsePattern(pat string) (*regexp.Regexp, error) {
	return regexp.Compile(pat)
}
