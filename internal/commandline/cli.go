// Package commandline contains helper types for collecting
// command-line arguments.
package commandline // import "github.com/CognitoIQ/musicxml/internal/commandline"

import (
	"strings"
)

// The Strings type can be used to collect multiple command-line options,
// in the order provided. musicxmlgen uses it (through xsdgen) for the
// repeatable -ns and -skip flags, and musicxmlfmt for the repeatable -set
// and -attr flags.
type Strings []string

func (s *Strings) String() string {
	return strings.Join(*s, ",")
}

func (s *Strings) Set(val string) error {
	*s = append(*s, val)
	return nil
}
