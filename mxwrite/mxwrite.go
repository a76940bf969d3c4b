// Package mxwrite serializes an mxml.Element tree back to XML text,
// the mirror image of mxparse: a pre-order traversal that emits
// attributes in the order Element.Attributes returns them (schema
// declaration order) and indents nested elements two spaces per level.
package mxwrite

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/CognitoIQ/musicxml/mxml"
)

// Option configures a Write call.
type Option func(*config)

type config struct {
	indent  string
	declare bool
}

// WithIndent overrides the default two-space indentation. Pass "" to
// disable indentation and write the document on one line.
func WithIndent(indent string) Option {
	return func(c *config) { c.indent = indent }
}

// WithXMLDeclaration prepends a `<?xml version="1.0" encoding="UTF-8"?>`
// declaration to the output.
func WithXMLDeclaration() Option {
	return func(c *config) { c.declare = true }
}

// Write serializes root to w. If root was built with validation
// enabled (mxml.WithoutValidation was not used), Write runs
// root.FinalCheck first and returns its error without writing
// anything; a tree built without validation is written as-is.
func Write(w io.Writer, root *mxml.Element, opts ...Option) error {
	if root.Checked() {
		if err := root.FinalCheck(); err != nil {
			return err
		}
	}
	cfg := config{indent: "  "}
	for _, opt := range opts {
		opt(&cfg)
	}
	bw := bufio.NewWriter(w)
	if cfg.declare {
		if _, err := bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n"); err != nil {
			return err
		}
	}
	if err := writeElement(bw, root, cfg, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func writeElement(w *bufio.Writer, el *mxml.Element, cfg config, depth int) error {
	prefix := strings.Repeat(cfg.indent, depth)
	if _, err := w.WriteString(prefix); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<%s", el.Name()); err != nil {
		return err
	}
	for _, a := range el.Attributes() {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}

	children := el.Children()
	text := el.Text()

	if len(children) == 0 && text == "" {
		_, err := w.WriteString("/>")
		if err == nil && cfg.indent != "" {
			err = w.WriteByte('\n')
		}
		return err
	}

	if _, err := w.WriteString(">"); err != nil {
		return err
	}

	if len(children) == 0 {
		if _, err := w.WriteString(escapeText(text)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "</%s>", el.Name())
		if err == nil && cfg.indent != "" {
			err = w.WriteByte('\n')
		}
		return err
	}

	if cfg.indent != "" {
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	for _, c := range children {
		if err := writeElement(w, c, cfg, depth+1); err != nil {
			return err
		}
	}
	if _, err := w.WriteString(prefix); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>", el.Name())
	if err == nil && cfg.indent != "" {
		err = w.WriteByte('\n')
	}
	return err
}

func escapeAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}

func escapeText(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}
