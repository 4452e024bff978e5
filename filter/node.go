package filter

import (
	"strings"

	"github.com/pkg/errors"
)

// LogicalOp combines two nodes.
type LogicalOp string

const (
	LogicalAnd LogicalOp = "AND"
	LogicalOr  LogicalOp = "OR"
)

// ParseLogicalOp classifies a combinator keyword case-insensitively.
// ok is false for anything other than and/or.
func ParseLogicalOp(s string) (LogicalOp, bool) {
	switch strings.ToUpper(s) {
	case "AND":
		return LogicalAnd, true
	case "OR":
		return LogicalOr, true
	default:
		return "", false
	}
}

// Node is a filter tree: either a *Leaf or a *Binary.
type Node interface {
	isNode()
}

// Leaf holds a condition together with its typed predicate.
type Leaf struct {
	Condition *Condition
	Predicate *Predicate
}

func (*Leaf) isNode() {}

// NewLeaf casts the condition's value and builds the leaf.
func NewLeaf(cond *Condition) (*Leaf, error) {
	if cond == nil {
		return nil, errors.New("condition is nil")
	}
	pred, err := NewPredicate(cond)
	if err != nil {
		return nil, err
	}
	return &Leaf{Condition: cond, Predicate: pred}, nil
}

type Binary struct {
	Op    LogicalOp
	Left  Node
	Right Node
	// Grouped keeps the binary as a single operand of an enclosing chain of
	// the same operator.
	Grouped bool
}

func (*Binary) isNode() {}

// Group marks node so that Operands does not merge it into its parent. Leaves
// and nil are returned unchanged.
func Group(node Node) Node {
	b, ok := node.(*Binary)
	if !ok || b.Grouped {
		return node
	}
	grouped := *b
	grouped.Grouped = true
	return &grouped
}

// And folds nodes left to right with AND. A single node is returned as is and
// nil is returned for no nodes.
func And(nodes ...Node) Node {
	return fold(LogicalAnd, nodes)
}

// Or folds nodes left to right with OR.
func Or(nodes ...Node) Node {
	return fold(LogicalOr, nodes)
}

func fold(op LogicalOp, nodes []Node) Node {
	var result Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if result == nil {
			result = n
			continue
		}
		result = &Binary{Op: op, Left: result, Right: n}
	}
	return result
}

// Operands flattens a chain of binaries that share b.Op, in order. Grouped
// children are kept whole.
func Operands(b *Binary) []Node {
	var nodes []Node
	for _, side := range []Node{b.Left, b.Right} {
		if child, ok := side.(*Binary); ok && child.Op == b.Op && !child.Grouped {
			nodes = append(nodes, Operands(child)...)
			continue
		}
		nodes = append(nodes, side)
	}
	return nodes
}

// Leaves returns the leaves of the tree from left to right.
func Leaves(node Node) []*Leaf {
	var leaves []*Leaf
	Walk(node, func(l *Leaf) {
		leaves = append(leaves, l)
	})
	return leaves
}

// Walk visits every leaf from left to right.
func Walk(node Node, fn func(*Leaf)) {
	switch n := node.(type) {
	case *Leaf:
		fn(n)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}

// String renders the tree in the advanced filter syntax, fully parenthesized.
func String(node Node) string {
	switch n := node.(type) {
	case *Leaf:
		return n.Condition.String()
	case *Binary:
		return "(" + String(n.Left) + " " + string(n.Op) + " " + String(n.Right) + ")"
	default:
		return ""
	}
}
