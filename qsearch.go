// Package qsearch translates URL query strings into query plans: a filter
// tree of typed conditions plus skip, limit, sort and projection
// instructions for a store-specific builder.
package qsearch

import (
	"strings"

	"github.com/theplant/qsearch/filter"
	"github.com/theplant/qsearch/parser"
	"github.com/theplant/qsearch/value"
)

var (
	// ErrInvalidArgument is returned, possibly wrapped, for every failed translation.
	ErrInvalidArgument = value.ErrInvalidArgument

	// ErrMalformedExpression is the ErrInvalidArgument returned for an
	// unparsable filter= expression.
	ErrMalformedExpression = parser.ErrMalformedExpression
)

// Reserved query keys.
const (
	KeySkip   = "skip"
	KeyLimit  = "limit"
	KeySort   = "sort"
	KeyFields = "fields"
	KeyFilter = "filter"
)

type OrderDirection string

const (
	OrderDirectionAsc  OrderDirection = "ASC"
	OrderDirectionDesc OrderDirection = "DESC"
)

func (d *OrderDirection) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "", string(OrderDirectionAsc):
		*d = OrderDirectionAsc
	case string(OrderDirectionDesc):
		*d = OrderDirectionDesc
	default:
		return value.InvalidArgumentf("unknown order direction %q", string(text))
	}
	return nil
}

type Order struct {
	Field     string         `json:"field" mapstructure:"field"`
	Direction OrderDirection `json:"direction" mapstructure:"direction"`
}

// QueryPlan is the result of a translation. Nil fields were not requested.
type QueryPlan struct {
	Filter  filter.Node
	Skip    *int
	Limit   *int
	OrderBy []Order
	Fields  []string
}

// IsEmpty reports whether the plan carries no instruction at all.
func (p *QueryPlan) IsEmpty() bool {
	return p.Filter == nil && p.Skip == nil && p.Limit == nil && len(p.OrderBy) == 0 && len(p.Fields) == 0
}
