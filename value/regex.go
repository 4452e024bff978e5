package value

import (
	"regexp"
	"strings"
	"unicode"
)

// Flags modify how a regex source is compiled.
type Flags uint8

const (
	FlagCaseInsensitive Flags = 1 << iota // i
	FlagLiteral                           // g
	FlagMultiline                         // m
	FlagDotAll                            // s
	FlagExtended                          // x
)

var flagLetters = []struct {
	letter byte
	flag   Flags
}{
	{'i', FlagCaseInsensitive},
	{'g', FlagLiteral},
	{'m', FlagMultiline},
	{'s', FlagDotAll},
	{'x', FlagExtended},
}

// ParseFlags maps flag letters to Flags. Unknown letters are ignored.
func ParseFlags(letters string) Flags {
	var flags Flags
	for i := 0; i < len(letters); i++ {
		for _, fl := range flagLetters {
			if letters[i] == fl.letter {
				flags |= fl.flag
			}
		}
	}
	return flags
}

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// String returns the canonical letters, in "igmsx" order.
func (f Flags) String() string {
	var sb strings.Builder
	for _, fl := range flagLetters {
		if f.Has(fl.flag) {
			sb.WriteByte(fl.letter)
		}
	}
	return sb.String()
}

// Regex is a compiled regular expression together with the source and flags
// it was written with.
type Regex struct {
	Source string
	Flags  Flags
	re     *regexp.Regexp
}

func (Regex) Kind() Kind       { return KindRegex }
func (v Regex) Interface() any { return v.re }
func (Regex) isValue()         {}

// Regexp returns the compiled expression.
func (v Regex) Regexp() *regexp.Regexp { return v.re }

// NewRegex compiles source under flags.
func NewRegex(source string, flags Flags) (Regex, error) {
	re, err := compileRegex(source, flags)
	if err != nil {
		return Regex{}, InvalidArgumentf("%q cannot be compiled as a pattern: %s", source, err.Error())
	}
	return Regex{Source: source, Flags: flags, re: re}, nil
}

// Literal returns an expression matching the source text literally, without
// flags. Negated pattern matches are built from it.
func (v Regex) Literal() Regex {
	quoted := regexp.QuoteMeta(v.Source)
	return Regex{Source: quoted, re: regexp.MustCompile(quoted)}
}

func compileRegex(source string, flags Flags) (*regexp.Regexp, error) {
	expr := source
	switch {
	case flags.Has(FlagLiteral):
		expr = regexp.QuoteMeta(expr)
	case flags.Has(FlagExtended):
		expr = stripExtended(expr)
	}

	var inline strings.Builder
	if flags.Has(FlagCaseInsensitive) {
		inline.WriteByte('i')
	}
	if flags.Has(FlagMultiline) {
		inline.WriteByte('m')
	}
	if flags.Has(FlagDotAll) {
		inline.WriteByte('s')
	}
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + expr
	}
	return regexp.Compile(expr)
}

// stripExtended removes unescaped whitespace and #-comments outside of
// character classes.
func stripExtended(source string) string {
	var sb strings.Builder
	runes := []rune(source)
	inClass := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			sb.WriteRune(r)
			sb.WriteRune(runes[i+1])
			i++
		case inClass:
			if r == ']' {
				inClass = false
			}
			sb.WriteRune(r)
		case r == '[':
			inClass = true
			sb.WriteRune(r)
		case r == '#':
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}
		case unicode.IsSpace(r):
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
