package filter

import (
	"github.com/theplant/qsearch/value"
)

// ComplexityLimits defines limits for filter complexity.
// A value of 0 means no limit for that metric.
type ComplexityLimits struct {
	MaxDepth            int `mapstructure:"maxDepth"`            // Maximum nesting depth, a lone leaf has depth 1
	MaxLeaves           int `mapstructure:"maxLeaves"`           // Maximum total number of conditions
	MaxLogicalOperators int `mapstructure:"maxLogicalOperators"` // Maximum number of And/Or groups
	MaxOrBranches       int `mapstructure:"maxOrBranches"`       // Maximum branches in a single Or group
}

// ComplexityResult contains the calculated complexity metrics of a filter.
// Chains of the same operator count as one group, so "a AND b AND c" has
// depth 2 and one logical operator.
type ComplexityResult struct {
	Depth            int
	Leaves           int
	LogicalOperators int
	OrBranches       int
}

// Predefined complexity limits
var (
	// DefaultLimits provides reasonable defaults for public endpoints.
	DefaultLimits = &ComplexityLimits{
		MaxDepth:            4,
		MaxLeaves:           20,
		MaxLogicalOperators: 10,
		MaxOrBranches:       10,
	}

	// StrictLimits provides tighter limits for security-sensitive contexts.
	StrictLimits = &ComplexityLimits{
		MaxDepth:            3,
		MaxLeaves:           10,
		MaxLogicalOperators: 4,
		MaxOrBranches:       5,
	}

	// RelaxedLimits provides looser limits for trusted/internal use.
	RelaxedLimits = &ComplexityLimits{
		MaxDepth:            8,
		MaxLeaves:           50,
		MaxLogicalOperators: 25,
		MaxOrBranches:       25,
	}
)

// CheckComplexity validates that a filter tree doesn't exceed the specified limits.
// If limits is nil, no validation is performed.
func CheckComplexity(node Node, limits *ComplexityLimits) error {
	if limits == nil || node == nil {
		return nil
	}

	result := CalculateComplexity(node)

	if limits.MaxDepth > 0 && result.Depth > limits.MaxDepth {
		return value.InvalidArgumentf("filter depth %d exceeds limit %d", result.Depth, limits.MaxDepth)
	}
	if limits.MaxLeaves > 0 && result.Leaves > limits.MaxLeaves {
		return value.InvalidArgumentf("filter condition count %d exceeds limit %d", result.Leaves, limits.MaxLeaves)
	}
	if limits.MaxLogicalOperators > 0 && result.LogicalOperators > limits.MaxLogicalOperators {
		return value.InvalidArgumentf("filter logical operator count %d exceeds limit %d", result.LogicalOperators, limits.MaxLogicalOperators)
	}
	if limits.MaxOrBranches > 0 && result.OrBranches > limits.MaxOrBranches {
		return value.InvalidArgumentf("filter Or branches %d exceeds limit %d", result.OrBranches, limits.MaxOrBranches)
	}

	return nil
}

// CalculateComplexity analyzes a filter tree and returns its complexity metrics.
func CalculateComplexity(node Node) *ComplexityResult {
	result := &ComplexityResult{}
	if node != nil {
		result.Depth = calculateComplexityRecursive(node, result)
	}
	return result
}

func calculateComplexityRecursive(node Node, result *ComplexityResult) int {
	switch n := node.(type) {
	case *Leaf:
		result.Leaves++
		return 1
	case *Binary:
		result.LogicalOperators++
		operands := Operands(n)
		if n.Op == LogicalOr && len(operands) > result.OrBranches {
			result.OrBranches = len(operands)
		}
		depth := 0
		for _, operand := range operands {
			if d := calculateComplexityRecursive(operand, result); d > depth {
				depth = d
			}
		}
		return depth + 1
	default:
		return 0
	}
}
