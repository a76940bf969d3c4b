package xsdgen

import "github.com/CognitoIQ/musicxml/xsd"

// builtinRef returns the schematab type reference string for an XSD
// builtin, e.g. "xs:decimal". simpletype.Validate recognizes the
// common ones (string and token types, decimal and integer types,
// boolean, date, dateTime) directly without consulting a
// schematab.Table; any other builtin is reported as undeclared.
func builtinRef(b xsd.Builtin) string {
	return "xs:" + b.Name().Local
}
