package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/CognitoIQ/musicxml/internal/commandline"
	"github.com/CognitoIQ/musicxml/mxparse"
	"github.com/CognitoIQ/musicxml/mxwrite"
	"github.com/CognitoIQ/musicxml/schematab"
)

func main() {
	log.SetFlags(0)

	var (
		indent   = flag.String("indent", "  ", "indentation string between nested elements")
		declare  = flag.Bool("xml-declaration", false, "prepend an XML declaration")
		noCheck  = flag.Bool("no-check", false, "parse and serialize without schema validation")
		setChild commandline.Strings
		setAttr  commandline.Strings
	)
	flag.Var(&setChild, "set", "name=value: set a named child's text content (repeatable)")
	flag.Var(&setAttr, "attr", "name=value: set a root attribute (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("Usage: %s [-indent str] [-xml-declaration] [-no-check] [-set name=value] [-attr name=value] file.xml", os.Args[0])
	}
	path := flag.Arg(0)

	var parseOpts []mxparse.Option
	if *noCheck {
		parseOpts = append(parseOpts, mxparse.WithoutValidation())
	}
	root, err := mxparse.ParseFile(schematab.Default, path, parseOpts...)
	if err != nil {
		log.Fatal(err)
	}

	for _, kv := range setAttr {
		name, value, err := splitPatch(kv)
		if err != nil {
			log.Fatal(err)
		}
		if err := root.SetAttribute(name, value); err != nil {
			log.Fatal(err)
		}
	}
	for _, kv := range setChild {
		name, value, err := splitPatch(kv)
		if err != nil {
			log.Fatal(err)
		}
		if err := root.SetNamedChild(name, value); err != nil {
			log.Fatal(err)
		}
	}

	var writeOpts []mxwrite.Option
	writeOpts = append(writeOpts, mxwrite.WithIndent(*indent))
	if *declare {
		writeOpts = append(writeOpts, mxwrite.WithXMLDeclaration())
	}
	if err := mxwrite.Write(os.Stdout, root, writeOpts...); err != nil {
		log.Fatal(err)
	}
}

func splitPatch(kv string) (name, value string, err error) {
	parts := strings.SplitN(kv, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid patch %q, want name=value", kv)
	}
	return parts[0], parts[1], nil
}
