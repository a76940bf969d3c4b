package xsdgen

import (
	"fmt"
	"regexp"

	"github.com/CognitoIQ/musicxml/xsd"
)

// A Config holds user-defined overrides and filters used while
// translating an xsd.Schema into schematab Go source.
type Config struct {
	logger     Logger
	loglevel   int
	namespaces []string
	pkgname    string
	varname    string

	filterAttributes propertyFilter
	filterElements    propertyFilter
	filterTypes       propertyFilter
}

type propertyFilter func(interface{}) bool

func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}

func (cfg *Config) debugf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 3 {
		cfg.logger.Printf(format, v...)
	}
}

// An Option is used to customize a Config. Calling an Option returns
// another Option that reverts the change, the way flag packages in the
// standard library let callers save and restore state.
type Option func(*Config) Option

// DefaultOptions are the default options xsdgen applies unless
// overridden: a "schematab" package name and a "Default" table
// variable, matching what schematab.Default itself is named.
var DefaultOptions = []Option{
	PackageName("schematab"),
	VarName("Default"),
}

// Option applies opts to cfg, returning an Option that reverts the
// last applied change.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// Logger receives warnings and debug information about the
// translation process. It is implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// LogOutput sets the Logger that receives diagnostic output.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the Logger
// configured with LogOutput, from 1 (warnings only) to 5 (maximum
// detail).
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// Namespaces restricts translation to schema documents with one of the
// given target namespaces. If unset, every schema document passed to
// Generate is translated.
func Namespaces(xmlns ...string) Option {
	return func(cfg *Config) Option {
		prev := cfg.namespaces
		cfg.namespaces = xmlns
		return Namespaces(prev...)
	}
}

// PackageName sets the package clause of the generated Go source.
func PackageName(name string) Option {
	return func(cfg *Config) Option {
		prev := cfg.pkgname
		cfg.pkgname = name
		return PackageName(prev)
	}
}

// VarName sets the name of the generated *schematab.Table package
// variable.
func VarName(name string) Option {
	return func(cfg *Config) Option {
		prev := cfg.varname
		cfg.varname = name
		return VarName(prev)
	}
}

func replacePropertyFilter(p *propertyFilter, fn propertyFilter) Option {
	return func(*Config) Option {
		prev := *p
		*p = fn
		return replacePropertyFilter(p, prev)
	}
}

// IgnoreAttributes excludes the named attributes from every complex
// type's generated AttributeDecl list.
func IgnoreAttributes(names ...string) Option {
	return func(cfg *Config) Option {
		return replacePropertyFilter(&cfg.filterAttributes, func(v interface{}) bool {
			attr, ok := v.(*xsd.Attribute)
			if !ok {
				panic(fmt.Sprintf("non-attribute %[1]T %[1]v passed to cfg.filterAttributes", v))
			}
			for _, match := range names {
				if attr.Name.Local == match {
					return true
				}
			}
			return false
		})(cfg)
	}
}

// IgnoreElements excludes global elements with the given names from
// the generated table entirely; particles that still reference them
// by name are left unaffected.
func IgnoreElements(names ...string) Option {
	return func(cfg *Config) Option {
		return replacePropertyFilter(&cfg.filterElements, func(v interface{}) bool {
			el, ok := v.(*xsd.Element)
			if !ok {
				panic(fmt.Sprintf("non-element %[1]T %[1]v passed to cfg.filterElements", v))
			}
			for _, match := range names {
				if el.Name.Local == match {
					return true
				}
			}
			return false
		})(cfg)
	}
}

// OnlyTypes restricts generated complex and simple types to those
// whose local name matches one of the given regular expressions.
func OnlyTypes(patterns ...string) Option {
	var regs []*regexp.Regexp
	for _, p := range patterns {
		if r, err := regexp.Compile(p); err == nil {
			regs = append(regs, r)
		}
	}
	return func(cfg *Config) Option {
		return replacePropertyFilter(&cfg.filterTypes, func(v interface{}) bool {
			name, ok := v.(string)
			if !ok {
				panic(fmt.Sprintf("non-string %[1]T %[1]v passed to cfg.filterTypes", v))
			}
			for _, r := range regs {
				if r.MatchString(name) {
					return false
				}
			}
			return true
		})(cfg)
	}
}
