// Package xsdgen translates a parsed XML Schema into Go source
// declaring a schematab.Table: the compiled-in element, attribute, and
// content-model data the runtime engine links against. It is a
// build-time tool, run once per schema revision (go:generate or the
// musicxmlgen command), never imported by the runtime packages it
// feeds.
package xsdgen
