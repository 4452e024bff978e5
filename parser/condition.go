// Package parser turns query text into conditions and filter trees.
package parser

import (
	"net/url"
	"strings"

	"github.com/theplant/qsearch/filter"
	"github.com/theplant/qsearch/pattern"
	"github.com/theplant/qsearch/value"
)

// Decode percent-decodes s as UTF-8 query text. Text that is not validly
// escaped (a lone "%", for instance) is returned unchanged.
func Decode(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// EscapePlus protects literal "+" characters from being decoded as spaces.
func EscapePlus(s string) string {
	return strings.ReplaceAll(s, "+", "%2B")
}

// ParseCondition decodes fragment and splits it into a condition. ok is false
// when the fragment does not have the key<op>value shape; the caller decides
// whether that is an error. The caster is looked up in casters by key.
func ParseCondition(fragment string, casters map[string]value.Directive) (*filter.Condition, bool) {
	m, ok := pattern.MatchCondition(Decode(fragment))
	if !ok {
		return nil, false
	}
	return &filter.Condition{
		Negated:   m.Negated,
		Key:       m.Key,
		Operation: filter.OperationFromOperator(m.Operator),
		RawValue:  m.Value,
		Caster:    casters[m.Key],
	}, true
}
