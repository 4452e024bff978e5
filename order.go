package qsearch

import (
	"strings"

	"github.com/samber/lo"

	"github.com/theplant/qsearch/pattern"
)

// ParseSort parses a comma-separated sort list. A "-" prefix sorts
// descending, "+" or no prefix ascending. Empty terms are skipped and a
// repeated field keeps its first direction.
func ParseSort(raw string) []Order {
	var orderBy []Order
	for _, term := range strings.Split(raw, ",") {
		prefix, field, ok := pattern.MatchSort(strings.TrimSpace(term))
		if !ok || field == "" {
			continue
		}
		direction := OrderDirectionAsc
		if prefix == "-" {
			direction = OrderDirectionDesc
		}
		orderBy = append(orderBy, Order{Field: field, Direction: direction})
	}
	return lo.UniqBy(orderBy, func(order Order) string {
		return order.Field
	})
}

// ParseFields parses a comma-separated projection list, dropping empty and
// repeated names.
func ParseFields(raw string) []string {
	fields := lo.Map(strings.Split(raw, ","), func(field string, _ int) string {
		return strings.TrimSpace(field)
	})
	return lo.Uniq(lo.Compact(fields))
}

// AppendPrimaryOrderBy appends every primary order whose field orderBy does
// not sort on yet.
func AppendPrimaryOrderBy(orderBy []Order, primaryOrderBy ...Order) []Order {
	if len(primaryOrderBy) == 0 {
		return orderBy
	}
	orderByFields := lo.SliceToMap(orderBy, func(order Order) (string, bool) {
		return order.Field, true
	})
	for _, primary := range primaryOrderBy {
		if _, ok := orderByFields[primary.Field]; !ok {
			orderBy = append(orderBy, primary)
			orderByFields[primary.Field] = true
		}
	}
	return orderBy
}
