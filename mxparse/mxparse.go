// Package mxparse reads XML text into an mxml.Element tree. It wraps
// encoding/xml's streaming decoder rather than parsing by hand, the way
// aqwari.net/xml/xmltree builds its own generic tree over the same
// decoder, and sniffs non-UTF-8 input the same way: by handing the
// decoder's CharsetReader hook to golang.org/x/net/html/charset.
package mxparse

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/CognitoIQ/musicxml/mxml"
	"github.com/CognitoIQ/musicxml/mxml/mxerr"
	"github.com/CognitoIQ/musicxml/schematab"
	"golang.org/x/net/html/charset"
)

// Option configures a Parse or ParseFragment call.
type Option func(*config)

type config struct {
	checkXSD bool
}

// WithoutValidation builds the element tree without checking attribute
// values or content-model placement against the schema as elements are
// read, the way mxml.WithoutValidation does for programmatic
// construction. Use FinalCheck on the result when ready to validate.
func WithoutValidation() Option {
	return func(c *config) { c.checkXSD = false }
}

func newConfig(opts []Option) config {
	c := config{checkXSD: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Parse reads a complete XML document from r and returns its root
// element as an mxml.Element bound to tab. The document's root element
// name must be one tab declares.
func Parse(tab *schematab.Table, r io.Reader, opts ...Option) (*mxml.Element, error) {
	cfg := newConfig(opts)
	lc := newLineCounter(r)
	dec := xml.NewDecoder(lc)
	dec.CharsetReader = charset.NewReaderLabel

	root, err := parseOne(tab, dec, lc, cfg, "", nil)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, &mxerr.ParseError{Path: "", Detail: "empty document"}
	}
	return root, nil
}

// ParseFragment reads a single XML element, not necessarily one
// MusicXML treats as a document root, from r. It is meant for reading
// one exported measure, part, or other substructure on its own, the
// way an editor might copy a single element out of a larger file.
func ParseFragment(tab *schematab.Table, r io.Reader, opts ...Option) (*mxml.Element, error) {
	return Parse(tab, r, opts...)
}

// ParseFile opens path and parses it as a complete MusicXML document.
// Any *mxerr.ParseError returned carries path so callers reporting
// diagnostics don't have to thread the file name through separately.
func ParseFile(tab *schematab.Table, path string, opts ...Option) (*mxml.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := newConfig(opts)
	lc := newLineCounter(f)
	dec := xml.NewDecoder(lc)
	dec.CharsetReader = charset.NewReaderLabel

	root, err := parseOne(tab, dec, lc, cfg, path, nil)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, &mxerr.ParseError{File: path, Detail: "empty document"}
	}
	return root, nil
}

func parseOne(tab *schematab.Table, dec *xml.Decoder, lc *lineCounter, cfg config, file string, path []string) (*mxml.Element, error) {
	var root *mxml.Element
	var stack []*mxml.Element

	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseErr(file, lc, path, offset, err.Error())
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			var el *mxml.Element
			var buildErr error
			if len(stack) == 0 {
				var mopts []mxml.Option
				if !cfg.checkXSD {
					mopts = append(mopts, mxml.WithoutValidation())
				}
				el, buildErr = mxml.New(tab, name, mopts...)
			} else {
				parent := stack[len(stack)-1]
				var mopts []mxml.Option
				if !cfg.checkXSD {
					mopts = append(mopts, mxml.WithoutValidation())
				}
				el, buildErr = parent.AddChild(name, mopts...)
			}
			if buildErr != nil {
				return nil, parseErr(file, lc, append(path, name), offset, buildErr.Error())
			}
			for _, a := range t.Attr {
				if err := el.SetAttribute(a.Name.Local, a.Value); err != nil {
					return nil, parseErr(file, lc, append(path, name), offset, err.Error())
				}
			}
			if root == nil {
				root = el
			}
			stack = append(stack, el)
			path = append(path, name)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, parseErr(file, lc, path, offset, fmt.Sprintf("unexpected closing tag %s", t.Name.Local))
			}
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			if len(stack) == 0 {
				return root, nil
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			cur := stack[len(stack)-1]
			if err := cur.SetText(cur.Text() + text); err != nil {
				return nil, parseErr(file, lc, path, offset, err.Error())
			}
		}
	}
	return root, nil
}

func parseErr(file string, lc *lineCounter, path []string, offset int64, detail string) error {
	line, col := lc.lineCol(offset)
	return &mxerr.ParseError{
		Path:   strings.Join(path, "/"),
		File:   file,
		Offset: offset,
		Line:   line,
		Column: col,
		Detail: detail,
	}
}

// lineCounter wraps an io.Reader, recording the byte offsets of every
// newline it passes through so a later byte offset reported by
// xml.Decoder.InputOffset can be translated into a 1-based line and
// column. The decoder may buffer ahead of the offsets it reports, but
// never behind, so every offset it later asks about has already been
// observed here.
type lineCounter struct {
	r       io.Reader
	seen    int64
	newline []int64
}

func newLineCounter(r io.Reader) *lineCounter {
	return &lineCounter{r: r}
}

func (lc *lineCounter) Read(p []byte) (int, error) {
	n, err := lc.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == '\n' {
			lc.newline = append(lc.newline, lc.seen+int64(i))
		}
	}
	lc.seen += int64(n)
	return n, err
}

func (lc *lineCounter) lineCol(offset int64) (line, column int) {
	n := sort.Search(len(lc.newline), func(i int) bool { return lc.newline[i] >= offset })
	line = n + 1
	start := int64(-1)
	if n > 0 {
		start = lc.newline[n-1]
	}
	return line, int(offset - start)
}
