package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/CognitoIQ/musicxml/mxparse"
	"github.com/CognitoIQ/musicxml/schematab"
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("Usage: %s file.xml ...", os.Args[0])
	}

	failed := false
	for _, path := range flag.Args() {
		if err := lintOne(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func lintOne(path string) error {
	root, err := mxparse.ParseFile(schematab.Default, path)
	if err != nil {
		return err
	}
	if err := root.FinalCheck(); err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}
	return nil
}
