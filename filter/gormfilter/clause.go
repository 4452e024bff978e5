package gormfilter

import (
	"gorm.io/gorm/clause"
)

// Regex is a postgres POSIX regular expression match: column ~ pattern.
type Regex struct {
	Column          any
	Pattern         string
	CaseInsensitive bool
}

func (re Regex) Build(builder clause.Builder) {
	re.build(builder, false)
}

// NegationBuild lets clause.Not render column !~ pattern.
func (re Regex) NegationBuild(builder clause.Builder) {
	re.build(builder, true)
}

func (re Regex) build(builder clause.Builder, negated bool) {
	builder.WriteQuoted(re.Column)
	op := " ~"
	if negated {
		op = " !~"
	}
	if re.CaseInsensitive {
		op += "*"
	}
	_, _ = builder.WriteString(op + " ")
	builder.AddVar(builder, re.Pattern)
}
