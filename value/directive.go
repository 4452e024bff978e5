package value

import (
	"strings"
)

// Directive forces how a raw value is cast. The zero value means "infer".
type Directive string

const (
	DirectiveNone     Directive = ""
	DirectiveBoolean  Directive = "BOOLEAN"
	DirectiveNumber   Directive = "NUMBER"
	DirectiveDate     Directive = "DATE"
	DirectivePattern  Directive = "PATTERN"
	DirectiveString   Directive = "STRING"
	DirectiveObjectID Directive = "OBJECT_ID"
)

var directives = []Directive{
	DirectiveBoolean,
	DirectiveNumber,
	DirectiveDate,
	DirectivePattern,
	DirectiveString,
	DirectiveObjectID,
}

// ParseDirective parses a directive name case-insensitively.
// An empty name yields DirectiveNone.
func ParseDirective(s string) (Directive, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DirectiveNone, nil
	}
	for _, d := range directives {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return DirectiveNone, InvalidArgumentf("unknown cast directive %q", s)
}

func (d *Directive) UnmarshalText(text []byte) error {
	parsed, err := ParseDirective(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Directive) MarshalText() ([]byte, error) {
	return []byte(d), nil
}
