// Package value converts raw query text into typed values, either by an
// explicit Directive or by ordered inference.
package value

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Kind tags the variant of a Value.
type Kind int

const (
	KindBool Kind = iota + 1
	KindNumber
	KindInstant
	KindRegex
	KindObjectID
	KindList
	KindString
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindInstant:
		return "instant"
	case KindRegex:
		return "regex"
	case KindObjectID:
		return "objectId"
	case KindList:
		return "list"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a closed sum type over the castable kinds. Only this package
// provides implementations.
type Value interface {
	Kind() Kind
	// Interface returns the plain Go representation of the value.
	Interface() any
	isValue()
}

// Bool is a true or false literal.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (v Bool) Interface() any { return bool(v) }
func (Bool) isValue()         {}

// Number is either an integer or a decimal.
type Number struct {
	i       int64
	f       float64
	decimal bool
}

func NewInt(i int64) Number     { return Number{i: i, f: float64(i)} }
func NewFloat(f float64) Number { return Number{f: f, decimal: true} }

func (Number) Kind() Kind { return KindNumber }

func (v Number) Interface() any {
	if v.decimal {
		return v.f
	}
	return v.i
}

func (Number) isValue() {}

func (v Number) IsInteger() bool { return !v.decimal }

// Int64 truncates decimals toward zero, saturating at the int64 bounds.
func (v Number) Int64() int64 {
	if !v.decimal {
		return v.i
	}
	switch {
	case v.f >= math.MaxInt64:
		return math.MaxInt64
	case v.f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v.f)
}

// Int truncates decimals toward zero. It reports false when the number does
// not fit in an int.
func (v Number) Int() (int, bool) {
	if !v.decimal {
		if v.i < math.MinInt || v.i > math.MaxInt {
			return 0, false
		}
		return int(v.i), true
	}
	if math.IsNaN(v.f) || v.f < math.MinInt || v.f >= math.MaxInt {
		return 0, false
	}
	return int(v.f), true
}

func (v Number) Float64() float64 { return v.f }

func (v Number) String() string {
	if v.decimal {
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	}
	return strconv.FormatInt(v.i, 10)
}

// Instant is a UTC date-time.
type Instant struct {
	Time time.Time
}

func (Instant) Kind() Kind       { return KindInstant }
func (v Instant) Interface() any { return v.Time }
func (Instant) isValue()         {}

// ObjectID is a 24 lowercase hex digit document identifier.
type ObjectID string

func (ObjectID) Kind() Kind       { return KindObjectID }
func (v ObjectID) Interface() any { return string(v) }
func (ObjectID) isValue()         {}

// List holds the comma separated parts of a value, each cast on its own.
type List []Value

func (List) Kind() Kind { return KindList }

func (v List) Interface() any {
	return lo.Map(v, func(item Value, _ int) any {
		return item.Interface()
	})
}

func (List) isValue() {}

// String is the fallback for text no other kind accepts.
type String string

func (String) Kind() Kind       { return KindString }
func (v String) Interface() any { return string(v) }
func (String) isValue()         {}

// Null is the literal null.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) Interface() any { return nil }
func (Null) isValue()       {}

// IsObjectID reports whether s is exactly 24 lowercase hexadecimal characters.
func IsObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// Text renders v back to query text. It is used in error messages and by
// store builders that need a string form of any value.
func Text(v Value) string {
	switch v := v.(type) {
	case Bool:
		return strconv.FormatBool(bool(v))
	case Number:
		return v.String()
	case Instant:
		return v.Time.UTC().Format(DateLayout)
	case Regex:
		return v.Source
	case ObjectID:
		return string(v)
	case List:
		return strings.Join(lo.Map(v, func(item Value, _ int) string {
			return Text(item)
		}), ",")
	case String:
		return string(v)
	case Null:
		return "null"
	default:
		return ""
	}
}
