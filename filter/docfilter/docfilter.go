// Package docfilter renders filter trees and query plans as MongoDB-shaped
// query documents.
package docfilter

import (
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/tidwall/sjson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/theplant/qsearch"
	"github.com/theplant/qsearch/filter"
	"github.com/theplant/qsearch/value"
)

// DateLayout renders instants inside {"$date": ...}.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

var jsoniterForDocument = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var comparisonOperators = map[filter.PredicateKind]string{
	filter.PredicateNeq:   "$ne",
	filter.PredicateIn:    "$in",
	filter.PredicateNotIn: "$nin",
	filter.PredicateGt:    "$gt",
	filter.PredicateGte:   "$gte",
	filter.PredicateLt:    "$lt",
	filter.PredicateLte:   "$lte",
}

// ToDocument converts node into a query document. A nil node yields an
// empty document. Chains of the same logical operator are flattened into one
// $and or $or array.
func ToDocument(node filter.Node) (map[string]any, error) {
	switch n := node.(type) {
	case nil:
		return map[string]any{}, nil
	case *filter.Leaf:
		return leafDocument(n.Predicate)
	case *filter.Binary:
		operands := filter.Operands(n)
		docs := make([]any, 0, len(operands))
		for _, operand := range operands {
			doc, err := ToDocument(operand)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return map[string]any{"$" + strings.ToLower(string(n.Op)): docs}, nil
	default:
		return nil, errors.Errorf("unknown node type %T", node)
	}
}

func leafDocument(pred *filter.Predicate) (map[string]any, error) {
	if pred == nil {
		return nil, errors.New("leaf has no predicate")
	}

	switch pred.Kind {
	case filter.PredicateExists:
		return map[string]any{pred.Key: map[string]any{"$exists": pred.Exists}}, nil
	case filter.PredicateEq:
		return map[string]any{pred.Key: Literal(pred.Value)}, nil
	case filter.PredicateRegex:
		re, ok := pred.Value.(value.Regex)
		if !ok {
			return nil, errors.Errorf("key %q: regex predicate on %s", pred.Key, pred.Value.Kind())
		}
		return map[string]any{pred.Key: regexDocument(re)}, nil
	case filter.PredicateNotRegex:
		re, ok := pred.Value.(value.Regex)
		if !ok {
			return nil, errors.Errorf("key %q: regex predicate on %s", pred.Key, pred.Value.Kind())
		}
		return map[string]any{pred.Key: map[string]any{"$not": regexDocument(re)}}, nil
	}

	op, ok := comparisonOperators[pred.Kind]
	if !ok {
		return nil, errors.Errorf("key %q: unknown predicate %q", pred.Key, pred.Kind)
	}
	return map[string]any{pred.Key: map[string]any{op: Literal(pred.Value)}}, nil
}

func regexDocument(re value.Regex) map[string]any {
	source := re.Source
	if re.Flags.Has(value.FlagLiteral) {
		source = regexp.QuoteMeta(source)
	}
	doc := map[string]any{"$regex": source}
	if options := mongoOptions(re.Flags); options != "" {
		doc["$options"] = options
	}
	return doc
}

// mongoOptions keeps the flags the server understands. The literal flag is
// applied to the source instead.
func mongoOptions(flags value.Flags) string {
	return strings.ReplaceAll(flags.String(), "g", "")
}

// Literal renders v in MongoDB extended JSON form.
func Literal(v value.Value) any {
	switch v := v.(type) {
	case nil, value.Null:
		return nil
	case value.Instant:
		return map[string]any{"$date": v.Time.UTC().Format(DateLayout)}
	case value.ObjectID:
		return map[string]any{"$oid": string(v)}
	case value.Regex:
		return regexDocument(v)
	case value.List:
		return lo.Map(v, func(item value.Value, _ int) any {
			return Literal(item)
		})
	default:
		return v.Interface()
	}
}

// Marshal renders node as JSON with sorted keys.
func Marshal(node filter.Node) ([]byte, error) {
	doc, err := ToDocument(node)
	if err != nil {
		return nil, err
	}
	b, err := jsoniterForDocument.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal query document")
	}
	return b, nil
}

// ToStruct renders node as a protobuf Struct.
func ToStruct(node filter.Node) (*structpb.Struct, error) {
	doc, err := ToDocument(node)
	if err != nil {
		return nil, err
	}
	s, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert query document to struct")
	}
	return s, nil
}

// FindCommand renders plan as the options of a find command:
//
//	{"filter": {...}, "skip": 10, "limit": 20, "sort": {"age": -1, "id": 1}, "projection": {"name": 1}}
//
// Sort keys keep the plan's order. Parts the plan does not carry are omitted.
func FindCommand(plan *qsearch.QueryPlan) ([]byte, error) {
	b := []byte("{}")
	if plan == nil {
		return b, nil
	}

	var err error
	if plan.Filter != nil {
		raw, err := Marshal(plan.Filter)
		if err != nil {
			return nil, err
		}
		if b, err = sjson.SetRawBytes(b, "filter", raw); err != nil {
			return nil, errors.Wrap(err, "failed to set filter")
		}
	}
	if plan.Skip != nil {
		if b, err = sjson.SetBytes(b, "skip", *plan.Skip); err != nil {
			return nil, errors.Wrap(err, "failed to set skip")
		}
	}
	if plan.Limit != nil {
		if b, err = sjson.SetBytes(b, "limit", *plan.Limit); err != nil {
			return nil, errors.Wrap(err, "failed to set limit")
		}
	}
	for _, order := range plan.OrderBy {
		direction := 1
		if order.Direction == qsearch.OrderDirectionDesc {
			direction = -1
		}
		if b, err = sjson.SetBytes(b, "sort."+escapePath(order.Field), direction); err != nil {
			return nil, errors.Wrapf(err, "failed to set sort %s", order.Field)
		}
	}
	for _, field := range plan.Fields {
		if b, err = sjson.SetBytes(b, "projection."+escapePath(field), 1); err != nil {
			return nil, errors.Wrapf(err, "failed to set projection %s", field)
		}
	}
	return b, nil
}

// escapePath makes a field name a single sjson path component, so dotted
// names stay one key.
func escapePath(field string) string {
	var sb strings.Builder
	for _, r := range field {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', ':', '!', '=':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
