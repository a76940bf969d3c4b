package xsd

import "github.com/CognitoIQ/musicxml/xmltree"

// Search predicates for the xmltree.Element.SearchFunc method.
type predicate func(el *xmltree.Element) bool

func isElem(space, local string) predicate {
	return func(el *xmltree.Element) bool {
		if el.Name.Local != local {
			return false
		}
		return space == "" || el.Name.Space == space
	}
}

func hasAttr(space, local string) predicate {
	return func(el *xmltree.Element) bool {
		return el.Attr(space, local) != ""
	}
}
