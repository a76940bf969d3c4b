package xsd

import (
	"fmt"
	"strings"

	"github.com/CognitoIQ/musicxml/xmltree"
)

// Walking a schema document's xmltree naturally involves some pretty
// deep function calls (schema > complexType > sequence > element, and
// deeper once group and attributeGroup refs are followed). To save
// some typing, parse.go uses panic/recover to bubble errors up from
// wherever in that descent they're detected. These panics never
// escape the xsd package.
type parseError struct {
	message string
	path    []*xmltree.Element
}

func (err parseError) Error() string {
	breadcrumbs := make([]string, 0, len(err.path))
	for i := len(err.path) - 1; i >= 0; i-- {
		piece := err.path[i].Name.Local
		if name := err.path[i].Attr("", "name"); name != "" {
			piece = fmt.Sprintf("%s(%s)", piece, name)
		}
		breadcrumbs = append(breadcrumbs, piece)
	}
	return "Error at " + strings.Join(breadcrumbs, ">") + ": " + err.message
}

func stop(msg string) {
	panic(parseError{message: msg})
}

func walk(root *xmltree.Element, fn func(*xmltree.Element)) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(parseError); ok {
				err.path = append(err.path, root)
				panic(err)
			} else {
				panic(r)
			}
		}
	}()
	for i := 0; i < len(root.Children); i++ {
		// MusicXML's schema files can carry elements outside the
		// schema namespace; walk skips those and visits every direct
		// child in the schema namespace.
		if root.Children[i].Name.Space != schemaNS {
			continue
		}
		fn(&root.Children[i])
	}
}

// defer catchParseError(&err)
func catchParseError(err *error) {
	if r := recover(); r != nil {
		*err = r.(parseError)
	}
}
