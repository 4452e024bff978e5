// Package pattern holds the fixed matching rules shared by the value caster
// and the condition splitter. All patterns are anchored and match the whole
// input.
package pattern

import (
	"regexp"
)

var (
	// Condition captures an optional leading "!", the key, the comparison
	// operator (possibly empty) and the remaining text as the value.
	Condition = regexp.MustCompile(`(?s)^(!?)([^><!=]+)([><]=?|!?=|)(.*)$`)

	// Regex captures the body and the trailing flag letters of a /body/flags literal.
	Regex = regexp.MustCompile(`^/(.*)/([a-zA-Z]*)$`)

	// Sort captures an optional "+" or "-" direction prefix and the field name.
	Sort = regexp.MustCompile(`^(\+|-)?(.*)$`)

	// Number is a shape check only; the text still has to survive a decimal parse.
	Number = regexp.MustCompile(`^-?\d+[.0-9]*$`)
)

// ConditionMatch is the result of matching a fragment against Condition.
type ConditionMatch struct {
	Negated  bool
	Key      string
	Operator string
	Value    string
}

// MatchCondition applies the Condition rule to s.
func MatchCondition(s string) (*ConditionMatch, bool) {
	m := Condition.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	return &ConditionMatch{
		Negated:  m[1] != "",
		Key:      m[2],
		Operator: m[3],
		Value:    m[4],
	}, true
}

// MatchRegex splits a /body/flags literal. ok is false when s is not delimited.
func MatchRegex(s string) (body, flags string, ok bool) {
	m := Regex.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// MatchSort splits a sort term into its direction prefix and field name.
func MatchSort(s string) (prefix, field string, ok bool) {
	m := Sort.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// IsNumber reports whether s has the numeric shape.
func IsNumber(s string) bool {
	return Number.MatchString(s)
}
