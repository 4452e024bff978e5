// Package gormfilter applies query plans to gorm queries.
package gormfilter

import (
	"cmp"
	"reflect"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/theplant/qsearch"
	"github.com/theplant/qsearch/filter"
	"github.com/theplant/qsearch/value"
)

// Scope applies plan to db: where, offset, limit, order and select. Keys are
// resolved against the schema of the statement's model or destination.
// Failures are added to db.
func Scope(plan *qsearch.QueryPlan) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db == nil {
			return nil
		}
		fdb, err := applyPlan(db, plan)
		if err != nil {
			db.AddError(err)
			return db
		}
		return fdb
	}
}

// Where applies only the filter tree.
func Where(node filter.Node) func(db *gorm.DB) *gorm.DB {
	return Scope(&qsearch.QueryPlan{Filter: node})
}

func applyPlan(db *gorm.DB, plan *qsearch.QueryPlan) (*gorm.DB, error) {
	if plan == nil || plan.IsEmpty() {
		return db, nil
	}

	if plan.Skip != nil && *plan.Skip > 0 {
		db = db.Offset(*plan.Skip)
	}
	if plan.Limit != nil {
		db = db.Limit(*plan.Limit)
	}
	if plan.Filter == nil && len(plan.OrderBy) == 0 && len(plan.Fields) == 0 {
		return db, nil
	}

	stmt, err := parseStatement(db)
	if err != nil {
		return nil, err
	}

	expr, err := BuildExpr(stmt, plan.Filter)
	if err != nil {
		return nil, err
	}
	if expr != nil {
		db = db.Where(expr)
	}

	if len(plan.OrderBy) > 0 {
		columns := make([]clause.OrderByColumn, 0, len(plan.OrderBy))
		for _, order := range plan.OrderBy {
			field, err := lookUpField(stmt.Schema, order.Field)
			if err != nil {
				return nil, err
			}
			columns = append(columns, clause.OrderByColumn{
				Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName},
				Desc:   order.Direction == qsearch.OrderDirectionDesc,
			})
		}
		db = db.Order(clause.OrderBy{Columns: columns})
	}

	if len(plan.Fields) > 0 {
		columns := make([]string, 0, len(plan.Fields))
		for _, name := range plan.Fields {
			field, err := lookUpField(stmt.Schema, name)
			if err != nil {
				return nil, err
			}
			columns = append(columns, field.DBName)
		}
		db = db.Select(columns)
	}
	return db, nil
}

func parseStatement(db *gorm.DB) (*gorm.Statement, error) {
	model := cmp.Or(db.Statement.Model, db.Statement.Dest)
	if model == nil {
		return nil, errors.New("model is nil")
	}
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, errors.Wrap(err, "parse schema with db")
	}
	return stmt, nil
}

// BuildExpr converts node into a where expression for the schema parsed in
// stmt. A nil node yields a nil expression.
func BuildExpr(stmt *gorm.Statement, node filter.Node) (clause.Expression, error) {
	switch n := node.(type) {
	case nil:
		return nil, nil
	case *filter.Leaf:
		return buildLeafExpr(stmt, n.Predicate)
	case *filter.Binary:
		operands := filter.Operands(n)
		exprs := make([]clause.Expression, 0, len(operands))
		for _, operand := range operands {
			expr, err := BuildExpr(stmt, operand)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
		if n.Op == filter.LogicalOr {
			return clause.Or(exprs...), nil
		}
		return clause.And(exprs...), nil
	default:
		return nil, errors.Errorf("unknown node type %T", node)
	}
}

func buildLeafExpr(stmt *gorm.Statement, pred *filter.Predicate) (clause.Expression, error) {
	if pred == nil {
		return nil, errors.New("leaf has no predicate")
	}

	field, err := lookUpField(stmt.Schema, pred.Key)
	if err != nil {
		if head, path, ok := jsonPath(stmt.Schema, pred.Key); ok {
			return buildJSONExpr(head, path, pred)
		}
		return nil, err
	}
	column := clause.Column{Table: clause.CurrentTable, Name: field.DBName}

	switch pred.Kind {
	case filter.PredicateExists:
		if pred.Exists {
			return clause.Neq{Column: column, Value: nil}, nil
		}
		return clause.Eq{Column: column, Value: nil}, nil
	case filter.PredicateRegex, filter.PredicateNotRegex:
		re, ok := pred.Value.(value.Regex)
		if !ok {
			return nil, errors.Errorf("key %q: regex predicate on %s", pred.Key, pred.Value.Kind())
		}
		expr := regexExpr(column, re)
		if pred.Kind == filter.PredicateNotRegex {
			return clause.Not(expr), nil
		}
		return expr, nil
	case filter.PredicateIn, filter.PredicateNotIn:
		values, err := listVars(pred)
		if err != nil {
			return nil, err
		}
		expr := clause.IN{Column: column, Values: values}
		if pred.Kind == filter.PredicateNotIn {
			return clause.Not(expr), nil
		}
		return expr, nil
	}

	v, err := scalarVar(pred.Key, pred.Value)
	if err != nil {
		return nil, err
	}
	switch pred.Kind {
	case filter.PredicateEq:
		return clause.Eq{Column: column, Value: v}, nil
	case filter.PredicateNeq:
		return clause.Neq{Column: column, Value: v}, nil
	case filter.PredicateGt:
		return clause.Gt{Column: column, Value: v}, nil
	case filter.PredicateGte:
		return clause.Gte{Column: column, Value: v}, nil
	case filter.PredicateLt:
		return clause.Lt{Column: column, Value: v}, nil
	case filter.PredicateLte:
		return clause.Lte{Column: column, Value: v}, nil
	default:
		return nil, errors.Errorf("key %q: unknown predicate %q", pred.Key, pred.Kind)
	}
}

// regexExpr keeps the flags postgres can express: case-insensitivity as ~*
// and extended syntax as an embedded option.
func regexExpr(column clause.Column, re value.Regex) Regex {
	pattern := re.Source
	switch {
	case re.Flags.Has(value.FlagLiteral):
		pattern = regexp.QuoteMeta(pattern)
	case re.Flags.Has(value.FlagExtended):
		pattern = "(?x)" + pattern
	}
	return Regex{
		Column:          column,
		Pattern:         pattern,
		CaseInsensitive: re.Flags.Has(value.FlagCaseInsensitive),
	}
}

func scalarVar(key string, v value.Value) (any, error) {
	switch v := v.(type) {
	case value.Instant:
		return v.Time, nil
	case value.Regex, value.List:
		return nil, errors.Errorf("key %q: %s cannot be compared", key, v.Kind())
	default:
		return v.Interface(), nil
	}
}

func listVars(pred *filter.Predicate) ([]any, error) {
	list, ok := pred.Value.(value.List)
	if !ok {
		return nil, errors.Errorf("key %q: membership predicate on %s", pred.Key, pred.Value.Kind())
	}
	vars := make([]any, 0, len(list))
	for _, item := range list {
		v, err := scalarVar(pred.Key, item)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return vars, nil
}

// lookUpField resolves key by column name or field name, then by its
// PascalCase form, so "company_id", "CompanyID" and "companyId" all match.
func lookUpField(s *schema.Schema, key string) (*schema.Field, error) {
	if field := s.LookUpField(key); field != nil {
		return field, nil
	}
	if field, ok := s.FieldsByName[filter.SmartPascalCase(key)]; ok {
		return field, nil
	}
	return nil, errors.Errorf("missing field %q in schema %s", key, s.Name)
}

var jsonTypes = []reflect.Type{
	reflect.TypeOf(datatypes.JSON{}),
	reflect.TypeOf(datatypes.JSONMap{}),
}

// jsonPath splits a dotted key whose head is a JSON column.
func jsonPath(s *schema.Schema, key string) (*schema.Field, []string, bool) {
	head, rest, ok := strings.Cut(key, ".")
	if !ok || rest == "" {
		return nil, nil, false
	}
	field, err := lookUpField(s, head)
	if err != nil {
		return nil, nil, false
	}
	fieldType := field.FieldType
	for fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}
	if !lo.Contains(jsonTypes, fieldType) {
		return nil, nil, false
	}
	return field, strings.Split(rest, "."), true
}

func buildJSONExpr(field *schema.Field, path []string, pred *filter.Predicate) (clause.Expression, error) {
	switch pred.Kind {
	case filter.PredicateExists:
		expr := datatypes.JSONQuery(field.DBName).HasKey(path...)
		if pred.Exists {
			return expr, nil
		}
		return clause.Not(expr), nil
	case filter.PredicateEq:
		v, err := scalarVar(pred.Key, pred.Value)
		if err != nil {
			return nil, err
		}
		return datatypes.JSONQuery(field.DBName).Equals(v, path...), nil
	default:
		return nil, errors.Errorf("key %q: %s is not supported on JSON paths", pred.Key, pred.Kind)
	}
}
