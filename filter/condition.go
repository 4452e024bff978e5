package filter

import (
	"github.com/theplant/qsearch/value"
)

// Operation is the comparison carried by a Condition.
type Operation string

const (
	OperationEqual            Operation = "EQUAL"
	OperationNotEqual         Operation = "NOT_EQUAL"
	OperationGreaterThan      Operation = "GREATER_THAN"
	OperationGreaterThanEqual Operation = "GREATER_THAN_EQUAL"
	OperationLessThan         Operation = "LESS_THAN"
	OperationLessThanEqual    Operation = "LESS_THAN_EQUAL"
	OperationExists           Operation = "EXISTS"
)

// OperationFromOperator maps operator text to an Operation. Anything that is
// not a comparison operator, including the empty string, means EXISTS.
func OperationFromOperator(op string) Operation {
	switch op {
	case "=":
		return OperationEqual
	case "!=":
		return OperationNotEqual
	case ">":
		return OperationGreaterThan
	case ">=":
		return OperationGreaterThanEqual
	case "<":
		return OperationLessThan
	case "<=":
		return OperationLessThanEqual
	default:
		return OperationExists
	}
}

// Operator is the inverse of OperationFromOperator.
func (o Operation) Operator() string {
	switch o {
	case OperationEqual:
		return "="
	case OperationNotEqual:
		return "!="
	case OperationGreaterThan:
		return ">"
	case OperationGreaterThanEqual:
		return ">="
	case OperationLessThan:
		return "<"
	case OperationLessThanEqual:
		return "<="
	default:
		return ""
	}
}

// Condition is one atomic predicate before its value is typed.
type Condition struct {
	// Negated is only meaningful for EXISTS: "!key" means the key must not exist.
	Negated   bool
	Key       string
	Operation Operation
	RawValue  string
	Caster    value.Directive
}

// String renders the condition back to query text.
func (c *Condition) String() string {
	if c.Operation == OperationExists {
		if c.Negated {
			return "!" + c.Key
		}
		return c.Key
	}
	return c.Key + c.Operation.Operator() + c.RawValue
}
