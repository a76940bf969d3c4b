// Package simpletype validates and normalizes the text content of a
// MusicXML simple type: an enumeration value, a restricted numeric or
// string facet set, a list, or a union of any of those, bottoming out in
// one of the fixed XSD builtin atomic types.
package simpletype

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/CognitoIQ/musicxml/schematab"
)

// BadValue reports that raw is not a legal value of the named type.
type BadValue struct {
	TypeName string
	Value    string
	Reason   string
}

func (e *BadValue) Error() string {
	return fmt.Sprintf("invalid value %q for type %s: %s", e.Value, e.TypeName, e.Reason)
}

var patternCache = make(map[string]*regexp.Regexp)

func compilePattern(src string) (*regexp.Regexp, error) {
	if re, ok := patternCache[src]; ok {
		return re, nil
	}
	re, err := regexp.Compile("^(?:" + src + ")$")
	if err != nil {
		return nil, err
	}
	patternCache[src] = re
	return re, nil
}

// Validate checks raw against the type named by typeRef in tab,
// returning the normalized (whitespace-collapsed) value on success. An
// unrecognized typeRef is first tried as a builtin atomic type before
// being reported as undeclared.
func Validate(tab *schematab.Table, typeRef, raw string) (string, error) {
	if st := tab.SimpleType(typeRef); st != nil {
		return validateDeclared(tab, st, raw)
	}
	if v, ok, err := validateBuiltin(typeRef, raw); ok {
		return v, err
	}
	return "", &BadValue{TypeName: typeRef, Value: raw, Reason: "type is not declared in this schema"}
}

func validateDeclared(tab *schematab.Table, st *schematab.SimpleType, raw string) (string, error) {
	norm := collapseWhitespace(raw)
	switch st.Kind {
	case schematab.Enum:
		for _, v := range st.Enum {
			if v == norm {
				return norm, nil
			}
		}
		return "", &BadValue{TypeName: st.Name, Value: raw, Reason: "not one of the enumerated values"}
	case schematab.ListOf:
		var out []string
		for _, tok := range strings.Fields(norm) {
			v, err := Validate(tab, st.Base, tok)
			if err != nil {
				return "", &BadValue{TypeName: st.Name, Value: raw, Reason: err.Error()}
			}
			out = append(out, v)
		}
		return strings.Join(out, " "), nil
	case schematab.Union:
		var lastErr error
		for _, member := range st.Union {
			v, err := Validate(tab, member, norm)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("union %s has no member types", st.Name)
		}
		return "", &BadValue{TypeName: st.Name, Value: raw, Reason: lastErr.Error()}
	case schematab.RestrictionOf:
		return validateRestriction(tab, st, norm)
	case schematab.Atomic:
		v, _, err := validateBuiltin(st.Base, norm)
		if err != nil {
			return "", &BadValue{TypeName: st.Name, Value: raw, Reason: err.Error()}
		}
		return v, nil
	}
	return "", &BadValue{TypeName: st.Name, Value: raw, Reason: "unrecognized simple type kind"}
}

func validateRestriction(tab *schematab.Table, st *schematab.SimpleType, norm string) (string, error) {
	base, _, err := validateBuiltin(st.Base, norm)
	if err != nil {
		if decl := tab.SimpleType(st.Base); decl != nil {
			base, err = validateDeclared(tab, decl, norm)
		}
		if err != nil {
			return "", &BadValue{TypeName: st.Name, Value: norm, Reason: err.Error()}
		}
	}
	if st.HasMinLength && len(base) < st.MinLength {
		return "", &BadValue{TypeName: st.Name, Value: norm, Reason: fmt.Sprintf("shorter than minLength %d", st.MinLength)}
	}
	if st.HasMaxLength && len(base) > st.MaxLength {
		return "", &BadValue{TypeName: st.Name, Value: norm, Reason: fmt.Sprintf("longer than maxLength %d", st.MaxLength)}
	}
	if st.Pattern != "" {
		re, err := compilePattern(st.Pattern)
		if err != nil {
			return "", &BadValue{TypeName: st.Name, Value: norm, Reason: "schema pattern does not compile: " + err.Error()}
		}
		if !re.MatchString(base) {
			return "", &BadValue{TypeName: st.Name, Value: norm, Reason: "does not match pattern " + st.Pattern}
		}
	}
	if st.HasMin || st.HasMax {
		f, err := strconv.ParseFloat(base, 64)
		if err != nil {
			return "", &BadValue{TypeName: st.Name, Value: norm, Reason: "value is not numeric"}
		}
		if st.HasMin && f < st.Min {
			return "", &BadValue{TypeName: st.Name, Value: norm, Reason: fmt.Sprintf("less than minimum %v", st.Min)}
		}
		if st.HasMax && f > st.Max {
			return "", &BadValue{TypeName: st.Name, Value: norm, Reason: fmt.Sprintf("greater than maximum %v", st.Max)}
		}
	}
	return base, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// validateBuiltin handles the fixed set of XSD atomic types MusicXML
// relies on directly, whether spelled with an "xs:" prefix or bare.
// ok is false when name is not recognized as a builtin at all.
func validateBuiltin(name, raw string) (value string, ok bool, err error) {
	norm := collapseWhitespace(raw)
	switch strings.TrimPrefix(name, "xs:") {
	case "string", "token", "normalizedString", "NMTOKEN", "ID", "IDREF", "language", "anyURI":
		return norm, true, nil
	case "decimal", "float", "double":
		if _, perr := strconv.ParseFloat(norm, 64); perr != nil {
			return "", true, &BadValue{TypeName: name, Value: raw, Reason: "not a valid number"}
		}
		return norm, true, nil
	case "integer", "int", "long", "short", "nonNegativeInteger", "positiveInteger":
		if _, perr := strconv.ParseInt(norm, 10, 64); perr != nil {
			return "", true, &BadValue{TypeName: name, Value: raw, Reason: "not a valid integer"}
		}
		return norm, true, nil
	case "boolean":
		switch norm {
		case "true", "1":
			return "true", true, nil
		case "false", "0":
			return "false", true, nil
		}
		return "", true, &BadValue{TypeName: name, Value: raw, Reason: "must be one of true, false, 1, 0"}
	case "date":
		if !dateRE.MatchString(norm) {
			return "", true, &BadValue{TypeName: name, Value: raw, Reason: "not a valid xs:date"}
		}
		return norm, true, nil
	case "dateTime":
		if !dateTimeRE.MatchString(norm) {
			return "", true, &BadValue{TypeName: name, Value: raw, Reason: "not a valid xs:dateTime"}
		}
		return norm, true, nil
	case "NMTOKENS", "IDREFS":
		return norm, true, nil
	}
	return "", false, nil
}

var dateRE = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)
var dateTimeRE = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
