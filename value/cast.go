package value

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/theplant/qsearch/pattern"
)

// DateLayout is the only accepted timestamp shape: yyyy-MM-dd'T'HH:mm:ss.SSS'Z'.
const DateLayout = "2006-01-02T15:04:05.000Z"

var decimalPattern = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)

// Cast converts raw into a typed value. With DirectiveNone the type is
// inferred and Cast never fails; with any other directive the raw text must
// satisfy it.
func Cast(raw string, directive Directive) (Value, error) {
	switch directive {
	case DirectiveNone:
		return Infer(raw), nil
	case DirectiveBoolean:
		return Bool(strings.EqualFold(raw, "true")), nil
	case DirectiveDate:
		t, ok := parseDate(raw)
		if !ok {
			return nil, InvalidArgumentf("%q cannot be cast to date, expected %s", raw, DateLayout)
		}
		return t, nil
	case DirectiveNumber:
		n, ok := parseNumber(raw)
		if !ok {
			return nil, InvalidArgumentf("%q cannot be cast to number", raw)
		}
		return n, nil
	case DirectivePattern:
		if body, flags, ok := pattern.MatchRegex(raw); ok {
			return NewRegex(body, ParseFlags(flags))
		}
		return NewRegex(raw, 0)
	case DirectiveString:
		return String(raw), nil
	case DirectiveObjectID:
		if !IsObjectID(raw) {
			return nil, InvalidArgumentf("%q cannot be cast to object id, expected 24 lowercase hex characters", raw)
		}
		return ObjectID(raw), nil
	default:
		return nil, InvalidArgumentf("unknown cast directive %q", string(directive))
	}
}

// Infer types raw by the first matching rule: list, boolean, null, date,
// number, regex, object id, and finally string.
func Infer(raw string) Value {
	if parts := splitList(raw); len(parts) > 1 {
		list := make(List, len(parts))
		for i, part := range parts {
			list[i] = inferScalar(part)
		}
		return list
	}
	return inferScalar(unescapeCommas(raw))
}

func inferScalar(raw string) Value {
	switch raw {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null{}
	}

	if t, ok := parseDate(raw); ok {
		return t
	}

	if pattern.IsNumber(raw) {
		if n, ok := parseNumber(raw); ok {
			return n
		}
	}

	if body, flags, ok := pattern.MatchRegex(raw); ok {
		if re, err := NewRegex(body, ParseFlags(flags)); err == nil {
			return re
		}
	}

	if IsObjectID(raw) {
		return ObjectID(raw)
	}

	return String(raw)
}

func parseDate(raw string) (Instant, bool) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Instant{}, false
	}
	return Instant{Time: t.UTC()}, true
}

func parseNumber(raw string) (Number, bool) {
	if !decimalPattern.MatchString(raw) {
		return Number{}, false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return NewInt(i), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Number{}, false
	}
	return NewFloat(f), true
}

// splitList splits on commas not preceded by a backslash. Trailing empty
// parts are discarded, so "a," is not a list.
func splitList(raw string) []string {
	var parts []string
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) && raw[i+1] == ',' {
			sb.WriteByte(',')
			i++
			continue
		}
		if c == ',' {
			parts = append(parts, sb.String())
			sb.Reset()
			continue
		}
		sb.WriteByte(c)
	}
	parts = append(parts, sb.String())

	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func unescapeCommas(raw string) string {
	return strings.ReplaceAll(raw, `\,`, ",")
}
