package docfilter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/theplant/qsearch"
	"github.com/theplant/qsearch/filter"
)

func translate(t *testing.T, query string) *qsearch.QueryPlan {
	t.Helper()
	plan, err := qsearch.Translate(query, nil)
	require.NoError(t, err)
	return plan
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "equal", query: "country=Mexico", want: `{"country":"Mexico"}`},
		{name: "boolean", query: "active=true", want: `{"active":true}`},
		{name: "null", query: "deletedAt=null", want: `{"deletedAt":null}`},
		{name: "not equal", query: "status!=active", want: `{"status":{"$ne":"active"}}`},
		{name: "greater than equal", query: "age>=18", want: `{"age":{"$gte":18}}`},
		{name: "less than decimal", query: "price<9.5", want: `{"price":{"$lt":9.5}}`},
		{name: "regex", query: "name=/^jo/i", want: `{"name":{"$regex":"^jo","$options":"i"}}`},
		{name: "regex literal flag", query: "name=/a.b/g", want: `{"name":{"$regex":"a\\.b"}}`},
		{name: "negated regex", query: "name!=/a.b/i", want: `{"name":{"$not":{"$regex":"a\\.b"}}}`},
		{name: "in", query: "tags=a,b", want: `{"tags":{"$in":["a","b"]}}`},
		{name: "not in", query: "level!=1,2", want: `{"level":{"$nin":[1,2]}}`},
		{name: "exists", query: "email", want: `{"email":{"$exists":true}}`},
		{name: "not exists", query: "!email", want: `{"email":{"$exists":false}}`},
		{
			name:  "date",
			query: "createdAt>2021-01-08T10:20:30.123Z",
			want:  `{"createdAt":{"$gt":{"$date":"2021-01-08T10:20:30.123Z"}}}`,
		},
		{name: "object id", query: "owner=6674249e4d854906d60314ce", want: `{"owner":{"$oid":"6674249e4d854906d60314ce"}}`},
		{name: "and chain flattened", query: "a=1&b=2&c=3", want: `{"$and":[{"a":1},{"b":2},{"c":3}]}`},
		{
			name:  "group",
			query: "filter=(country=Mexico OR country=Spain) and gender=female",
			want:  `{"$and":[{"$or":[{"country":"Mexico"},{"country":"Spain"}]},{"gender":"female"}]}`,
		},
		{
			name:  "advanced and simple",
			query: "filter=(a=1 OR b=2) AND (c=3 OR d=4)&e=5",
			want:  `{"$and":[{"$and":[{"$or":[{"a":1},{"b":2}]},{"$or":[{"c":3},{"d":4}]}]},{"e":5}]}`,
		},
		{
			name:  "advanced kept whole among simple conditions",
			query: "filter=(city=Madrid or city=Barcelona) and gender=female&name=/^an/&age>=18&age<=21",
			want: `{"$and":[
				{"$and":[{"$or":[{"city":"Madrid"},{"city":"Barcelona"}]},{"gender":"female"}]},
				{"name":{"$regex":"^an"}},
				{"age":{"$gte":18}},
				{"age":{"$lte":21}}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Marshal(translate(t, tt.query).Filter)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(b))
		})
	}

	t.Run("nil", func(t *testing.T) {
		b, err := Marshal(nil)
		require.NoError(t, err)
		require.Equal(t, "{}", string(b))
	})

	t.Run("sorted keys", func(t *testing.T) {
		b, err := Marshal(translate(t, "name=/^jo/i").Filter)
		require.NoError(t, err)
		require.Equal(t, `{"name":{"$options":"i","$regex":"^jo"}}`, string(b))
	})
}

func TestToDocumentErrors(t *testing.T) {
	_, err := ToDocument(&filter.Leaf{Condition: &filter.Condition{Key: "a"}})
	require.ErrorContains(t, err, "leaf has no predicate")

	_, err = ToDocument(&filter.Leaf{
		Condition: &filter.Condition{Key: "a"},
		Predicate: &filter.Predicate{Key: "a", Kind: filter.PredicateKind("Near")},
	})
	require.ErrorContains(t, err, `unknown predicate "Near"`)
}

func TestToStruct(t *testing.T) {
	s, err := ToStruct(translate(t, "filter=(country=Mexico OR country=Spain) and age>18").Filter)
	require.NoError(t, err)

	and := s.Fields["$and"].GetListValue().GetValues()
	require.Len(t, and, 2)

	or := and[0].GetStructValue().Fields["$or"].GetListValue().GetValues()
	require.Len(t, or, 2)
	require.Equal(t, "Spain", or[1].GetStructValue().Fields["country"].GetStringValue())

	age := and[1].GetStructValue().Fields["age"].GetStructValue().Fields["$gt"]
	require.Equal(t, float64(18), age.GetNumberValue())
}

func TestFindCommand(t *testing.T) {
	plan := translate(t, "filter=age>18&sort=-age,name,+id&limit=20&skip=40&fields=name,address.city")

	b, err := FindCommand(plan)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"filter": {"age": {"$gt": 18}},
		"skip": 40,
		"limit": 20,
		"sort": {"age": -1, "name": 1, "id": 1},
		"projection": {"name": 1, "address.city": 1}
	}`, string(b))

	var keys []string
	gjson.GetBytes(b, "sort").ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	require.Equal(t, []string{"age", "name", "id"}, keys)
	require.Equal(t, int64(1), gjson.GetBytes(b, `projection.address\.city`).Int())

	t.Run("empty plan", func(t *testing.T) {
		b, err := FindCommand(translate(t, ""))
		require.NoError(t, err)
		require.Equal(t, "{}", string(b))

		b, err = FindCommand(nil)
		require.NoError(t, err)
		require.Equal(t, "{}", string(b))
	})

	t.Run("primary order", func(t *testing.T) {
		plan, err := qsearch.Translate("sort=-createdAt", &qsearch.Configuration{
			PrimaryOrderBy: []qsearch.Order{{Field: "_id", Direction: qsearch.OrderDirectionAsc}},
		})
		require.NoError(t, err)
		b, err := FindCommand(plan)
		require.NoError(t, err)
		require.JSONEq(t, `{"sort": {"createdAt": -1, "_id": 1}}`, string(b))
	})
}
