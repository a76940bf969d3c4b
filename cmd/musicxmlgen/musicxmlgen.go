package main

import (
	"log"
	"os"

	"github.com/CognitoIQ/musicxml/xsdgen"
)

func main() {
	log.SetFlags(0)
	var cfg xsdgen.Config
	cfg.Option(xsdgen.DefaultOptions...)
	cfg.Option(xsdgen.LogOutput(log.New(os.Stderr, "", 0)))
	cfg.Option(xsdgen.LogLevel(1))

	if err := cfg.Generate(os.Args[1:]...); err != nil {
		log.Fatal(err)
	}
}
