/*
musicxmlfmt reads a MusicXML document, optionally applies a small list
of scripted edits to its root element, and writes the result back out
in canonical indented form.

Usage:

	musicxmlfmt [-indent str] [-xml-declaration] [-no-check] [-set name=value] [-attr name=value] file.xml

-set may be given more than once; each instance sets the text content
of the named child of the document's root element, creating it if
necessary (mxml.Element.SetNamedChild). -attr, also repeatable, sets
an attribute on the root element directly. Patches are applied in the
order given on the command line, after the document has been parsed
and before it is re-serialized.

-indent controls the indentation string mxwrite uses between nested
elements; pass -indent="" to write the document on one line.
-xml-declaration prepends a `<?xml version="1.0" encoding="UTF-8"?>`
line. -no-check parses and serializes without content-model or
attribute validation (mxparse.WithoutValidation / mxml.WithoutValidation),
the way an editor might load a fragment it doesn't intend to fully
conform yet.
*/
package main
