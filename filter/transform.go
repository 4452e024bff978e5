package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/theplant/qsearch/value"
)

// TransformFunc rewrites a leaf. Returning a nil leaf drops it from the tree.
type TransformFunc func(leaf *Leaf) (*Leaf, error)

// Transform applies transform to every leaf and rebuilds the tree. A binary
// that loses one side collapses to the other; a tree that loses every leaf
// becomes nil.
func Transform(node Node, transform TransformFunc) (Node, error) {
	if node == nil || transform == nil {
		return node, nil
	}
	switch n := node.(type) {
	case *Leaf:
		out, err := transform(n)
		if err != nil {
			return nil, errors.Wrapf(err, "transform key %s", n.Condition.Key)
		}
		if out == nil {
			return nil, nil
		}
		return out, nil
	case *Binary:
		left, err := Transform(n.Left, transform)
		if err != nil {
			return nil, err
		}
		right, err := Transform(n.Right, transform)
		if err != nil {
			return nil, err
		}
		if left == nil || right == nil {
			return fold(n.Op, []Node{left, right}), nil
		}
		return &Binary{Op: n.Op, Left: left, Right: right, Grouped: n.Grouped}, nil
	default:
		return nil, errors.Errorf("unknown node type %T", node)
	}
}

// Chain runs transforms in order, stopping at the first dropped leaf.
func Chain(transforms ...TransformFunc) TransformFunc {
	return func(leaf *Leaf) (*Leaf, error) {
		var err error
		for _, transform := range transforms {
			leaf, err = transform(leaf)
			if err != nil || leaf == nil {
				return nil, err
			}
		}
		return leaf, nil
	}
}

// RenameKeys returns a transform that replaces every key with rename(key).
func RenameKeys(rename func(key string) string) TransformFunc {
	return func(leaf *Leaf) (*Leaf, error) {
		key := rename(leaf.Condition.Key)
		if key == leaf.Condition.Key {
			return leaf, nil
		}
		cond := *leaf.Condition
		cond.Key = key
		pred := *leaf.Predicate
		pred.Key = key
		return &Leaf{Condition: &cond, Predicate: &pred}, nil
	}
}

// AllowKeys returns a transform that rejects any key outside keys.
func AllowKeys(keys ...string) TransformFunc {
	allowed := lo.SliceToMap(keys, func(key string) (string, bool) {
		return key, true
	})
	return func(leaf *Leaf) (*Leaf, error) {
		if !allowed[leaf.Condition.Key] {
			return nil, value.InvalidArgumentf("key %q is not filterable", leaf.Condition.Key)
		}
		return leaf, nil
	}
}

// DropKeys returns a transform that silently removes leaves on keys.
func DropKeys(keys ...string) TransformFunc {
	return func(leaf *Leaf) (*Leaf, error) {
		if lo.Contains(keys, leaf.Condition.Key) {
			return nil, nil
		}
		return leaf, nil
	}
}

var acronyms = map[string]bool{
	"id":   true,
	"url":  true,
	"uri":  true,
	"api":  true,
	"http": true,
	"json": true,
	"sql":  true,
	"uuid": true,
	"uid":  true,
	"ip":   true,
	"oid":  true,
}

// SmartPascalCase converts camelCase, snake_case and kebab-case keys to
// PascalCase, upper-casing common acronyms: "createdAt" -> "CreatedAt",
// "company_id" -> "CompanyID".
func SmartPascalCase(s string) string {
	if s == "" {
		return s
	}

	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
			continue
		case i > 0 && r >= 'A' && r <= 'Z':
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			// split "userID|Name" and "HTML|Parser" but keep "ID" together
			if (prev >= 'a' && prev <= 'z') || (prev >= 'A' && prev <= 'Z' && nextLower) {
				flush()
			}
		}
		current.WriteRune(r)
	}
	flush()

	var result strings.Builder
	for _, word := range words {
		if acronyms[word] {
			result.WriteString(strings.ToUpper(word))
			continue
		}
		result.WriteString(Capitalize(word))
	}
	return result.String()
}

// Capitalize simply capitalizes the first letter without acronym handling
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
