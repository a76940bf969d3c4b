/*
musicxmlgen regenerates the compiled-in schematab.Table from one or
more XML Schema documents.

Usage:

	musicxmlgen [-o file] [-ns xmlns] [-pkg name] [-var name] [-skip name] file ...

Given a set of files containing <xsd:schema> declarations, musicxmlgen
resolves their xs:import/xs:include dependencies, walks the resulting
element, complex type, simple type, and group declarations, and writes
a Go source file declaring a *schematab.Table variable built from
their content models.

If the -ns flag is used, only schema documents with the given target
namespace contribute top-level elements to the table; -ns may be given
more than once. The default package and variable names match
schematab.Default ("schematab" and "Default"); -pkg and -var override
them, and -o overrides the output file name ("schematab_generated.go").

-skip omits an element name from the generated table entirely; this is
how a partial or in-progress schema can be generated without failing
on elements whose content model isn't needed yet.

musicxmlgen may be invoked from a go:generate directive:

	//go:generate musicxmlgen -ns "http://www.musicxml.org/xsd/MusicXML" musicxml.xsd
*/
package main
