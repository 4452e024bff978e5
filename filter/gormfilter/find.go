package gormfilter

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/theplant/qsearch"
)

// Find loads the rows described by plan.
func Find[T any](ctx context.Context, db *gorm.DB, plan *qsearch.QueryPlan) ([]T, error) {
	var nodes []T
	if plan != nil && plan.Limit != nil && *plan.Limit == 0 {
		return nodes, nil
	}

	if db.Statement.Context != ctx {
		db = db.WithContext(ctx)
	}
	if err := db.Scopes(Scope(plan)).Find(&nodes).Error; err != nil {
		return nil, errors.Wrap(err, "find")
	}
	return nodes, nil
}

// Count counts the rows matching the filter of plan, ignoring its skip,
// limit, sort and projection.
func Count[T any](ctx context.Context, db *gorm.DB, plan *qsearch.QueryPlan) (int64, error) {
	if db.Statement.Context != ctx {
		db = db.WithContext(ctx)
	}
	if db.Statement.Model == nil {
		db = db.Model(new(T))
	}

	var where *qsearch.QueryPlan
	if plan != nil {
		where = &qsearch.QueryPlan{Filter: plan.Filter}
	}

	var count int64
	if err := db.Scopes(Scope(where)).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return count, nil
}
