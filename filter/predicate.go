package filter

import (
	"github.com/pkg/errors"

	"github.com/theplant/qsearch/value"
)

// PredicateKind is the store-independent meaning of a leaf.
type PredicateKind string

const (
	PredicateEq       PredicateKind = "Eq"
	PredicateNeq      PredicateKind = "Neq"
	PredicateRegex    PredicateKind = "Regex"
	PredicateNotRegex PredicateKind = "NotRegex"
	PredicateIn       PredicateKind = "In"
	PredicateNotIn    PredicateKind = "NotIn"
	PredicateGt       PredicateKind = "Gt"
	PredicateGte      PredicateKind = "Gte"
	PredicateLt       PredicateKind = "Lt"
	PredicateLte      PredicateKind = "Lte"
	PredicateExists   PredicateKind = "Exists"
)

// Predicate is a condition whose value has been cast. Exists is set only for
// PredicateExists; Value is nil only for PredicateExists.
type Predicate struct {
	Key    string
	Kind   PredicateKind
	Value  value.Value
	Exists bool
}

// NewPredicate casts cond.RawValue, honoring cond.Caster, and selects the
// predicate semantics from the operation and the value's kind.
func NewPredicate(cond *Condition) (*Predicate, error) {
	if cond.Operation == OperationExists {
		return &Predicate{Key: cond.Key, Kind: PredicateExists, Exists: !cond.Negated}, nil
	}

	v, err := value.Cast(cond.RawValue, cond.Caster)
	if err != nil {
		return nil, errors.WithMessagef(err, "key %q", cond.Key)
	}

	pred := &Predicate{Key: cond.Key, Value: v}
	switch cond.Operation {
	case OperationEqual:
		switch v.(type) {
		case value.Regex:
			pred.Kind = PredicateRegex
		case value.List:
			pred.Kind = PredicateIn
		default:
			pred.Kind = PredicateEq
		}
	case OperationNotEqual:
		switch v := v.(type) {
		case value.Regex:
			pred.Kind = PredicateNotRegex
			pred.Value = v.Literal()
		case value.List:
			pred.Kind = PredicateNotIn
		default:
			pred.Kind = PredicateNeq
		}
	case OperationGreaterThan:
		pred.Kind = PredicateGt
	case OperationGreaterThanEqual:
		pred.Kind = PredicateGte
	case OperationLessThan:
		pred.Kind = PredicateLt
	case OperationLessThanEqual:
		pred.Kind = PredicateLte
	default:
		return nil, errors.Errorf("unknown operation %q for key %q", cond.Operation, cond.Key)
	}
	return pred, nil
}
