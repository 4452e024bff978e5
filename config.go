package qsearch

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/theplant/qsearch/filter"
	"github.com/theplant/qsearch/value"
)

// Configuration is read-only during translation and may be shared by
// concurrent callers.
type Configuration struct {
	// Casters forces the cast directive of a field; other fields are inferred.
	Casters map[string]value.Directive `mapstructure:"casters"`
	// DefaultLimit replaces a non-numeric limit.
	DefaultLimit *int `mapstructure:"defaultLimit"`
	// MaxLimit caps the limit.
	MaxLimit *int `mapstructure:"maxLimit"`
	// PrimaryOrderBy is appended to the sort of every non-empty query for
	// fields it does not already sort on.
	PrimaryOrderBy []Order `mapstructure:"primaryOrderBy"`
	// ComplexityLimits bounds the final filter tree. Nil disables the check.
	ComplexityLimits *filter.ComplexityLimits `mapstructure:"complexityLimits"`
}

// DecodeConfiguration builds a Configuration from a generic map such as one
// read from a YAML or JSON file. Directive and direction names are
// case-insensitive and unknown keys are rejected.
func DecodeConfiguration(input map[string]any) (*Configuration, error) {
	conf := &Configuration{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           conf,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create configuration decoder")
	}
	if err := decoder.Decode(input); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks the limits for consistency.
func (c *Configuration) Validate() error {
	if c.DefaultLimit != nil && *c.DefaultLimit < 0 {
		return value.InvalidArgumentf("defaultLimit cannot be negative")
	}
	if c.MaxLimit != nil && c.DefaultLimit != nil && *c.MaxLimit < *c.DefaultLimit {
		return value.InvalidArgumentf("maxLimit must be greater than or equal to defaultLimit")
	}
	for _, order := range c.PrimaryOrderBy {
		if order.Field == "" {
			return value.InvalidArgumentf("primaryOrderBy field cannot be empty")
		}
	}
	return nil
}
