package qsearch

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/theplant/qsearch/filter"
	"github.com/theplant/qsearch/value"
)

func TestDecodeConfiguration(t *testing.T) {
	conf, err := DecodeConfiguration(map[string]any{
		"casters": map[string]any{
			"mobile":    "string",
			"createdAt": "DATE",
			"ownerId":   "object_id",
		},
		"defaultLimit": 10,
		"maxLimit":     "500",
		"primaryOrderBy": []any{
			map[string]any{"field": "id", "direction": "desc"},
		},
		"complexityLimits": map[string]any{
			"maxDepth":  3,
			"maxLeaves": 8,
		},
	})
	require.NoError(t, err)
	require.Equal(t, &Configuration{
		Casters: map[string]value.Directive{
			"mobile":    value.DirectiveString,
			"createdAt": value.DirectiveDate,
			"ownerId":   value.DirectiveObjectID,
		},
		DefaultLimit:     lo.ToPtr(10),
		MaxLimit:         lo.ToPtr(500),
		PrimaryOrderBy:   []Order{{Field: "id", Direction: OrderDirectionDesc}},
		ComplexityLimits: &filter.ComplexityLimits{MaxDepth: 3, MaxLeaves: 8},
	}, conf)

	plan, err := Translate("mobile=134000000000&limit=1000", conf)
	require.NoError(t, err)
	require.Equal(t, value.String("134000000000"), plan.Filter.(*filter.Leaf).Predicate.Value)
	require.Equal(t, lo.ToPtr(500), plan.Limit)
	require.Equal(t, []Order{{Field: "id", Direction: OrderDirectionDesc}}, plan.OrderBy)
}

func TestDecodeConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		wantErr string
	}{
		{
			name:    "unknown directive",
			input:   map[string]any{"casters": map[string]any{"id": "uuid"}},
			wantErr: `unknown cast directive "uuid"`,
		},
		{
			name:    "unknown direction",
			input:   map[string]any{"primaryOrderBy": []any{map[string]any{"field": "id", "direction": "up"}}},
			wantErr: `unknown order direction "up"`,
		},
		{
			name:    "unknown key",
			input:   map[string]any{"maxLimits": 10},
			wantErr: "maxLimits",
		},
		{
			name:    "max below default",
			input:   map[string]any{"defaultLimit": 20, "maxLimit": 10},
			wantErr: "maxLimit must be greater than or equal to defaultLimit",
		},
		{
			name:    "negative default",
			input:   map[string]any{"defaultLimit": -1},
			wantErr: "defaultLimit cannot be negative",
		},
		{
			name:    "empty primary field",
			input:   map[string]any{"primaryOrderBy": []any{map[string]any{"direction": "asc"}}},
			wantErr: "primaryOrderBy field cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := DecodeConfiguration(tt.input)
			require.Nil(t, conf)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAppendPrimaryOrderBy(t *testing.T) {
	orderBy := []Order{{Field: "name", Direction: OrderDirectionAsc}}
	got := AppendPrimaryOrderBy(orderBy,
		Order{Field: "name", Direction: OrderDirectionDesc},
		Order{Field: "id", Direction: OrderDirectionAsc},
		Order{Field: "id", Direction: OrderDirectionDesc},
	)
	require.Equal(t, []Order{
		{Field: "name", Direction: OrderDirectionAsc},
		{Field: "id", Direction: OrderDirectionAsc},
	}, got)

	require.Nil(t, AppendPrimaryOrderBy(nil))
}
