package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCondition(t *testing.T) {
	tests := []struct {
		input string
		want  *ConditionMatch
	}{
		{input: "name=john", want: &ConditionMatch{Key: "name", Operator: "=", Value: "john"}},
		{input: "age>=18", want: &ConditionMatch{Key: "age", Operator: ">=", Value: "18"}},
		{input: "age>18", want: &ConditionMatch{Key: "age", Operator: ">", Value: "18"}},
		{input: "age<=18", want: &ConditionMatch{Key: "age", Operator: "<=", Value: "18"}},
		{input: "status!=x", want: &ConditionMatch{Key: "status", Operator: "!=", Value: "x"}},
		{input: "email", want: &ConditionMatch{Key: "email"}},
		{input: "!email", want: &ConditionMatch{Negated: true, Key: "email"}},
		{input: "core:city=a=b", want: &ConditionMatch{Key: "core:city", Operator: "=", Value: "a=b"}},
		{input: "note=line1\nline2", want: &ConditionMatch{Key: "note", Operator: "=", Value: "line1\nline2"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := MatchCondition(tt.input)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	for _, input := range []string{"", "=x", "!", ">=1"} {
		_, ok := MatchCondition(input)
		assert.False(t, ok, input)
	}
}

func TestMatchRegex(t *testing.T) {
	body, flags, ok := MatchRegex("/^jo(hn)?/im")
	require.True(t, ok)
	require.Equal(t, "^jo(hn)?", body)
	require.Equal(t, "im", flags)

	body, flags, ok = MatchRegex("/a/b/")
	require.True(t, ok)
	require.Equal(t, "a/b", body)
	require.Empty(t, flags)

	for _, input := range []string{"abc", "/abc", "abc/", "/abc/1"} {
		_, _, ok := MatchRegex(input)
		assert.False(t, ok, input)
	}
}

func TestMatchSort(t *testing.T) {
	tests := []struct {
		input, prefix, field string
	}{
		{input: "+date", prefix: "+", field: "date"},
		{input: "-city", prefix: "-", field: "city"},
		{input: "id", prefix: "", field: "id"},
		{input: "", prefix: "", field: ""},
	}
	for _, tt := range tests {
		prefix, field, ok := MatchSort(tt.input)
		require.True(t, ok)
		assert.Equal(t, tt.prefix, prefix)
		assert.Equal(t, tt.field, field)
	}
}

func TestIsNumber(t *testing.T) {
	for _, s := range []string{"0", "-12", "134000000000", "1.5", "1.2.3", "1."} {
		assert.True(t, IsNumber(s), s)
	}
	for _, s := range []string{"", "-", "+34", ".5", "1e5", "a1", "1,2"} {
		assert.False(t, IsNumber(s), s)
	}
}
