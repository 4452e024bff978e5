package parser

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/theplant/qsearch/filter"
	"github.com/theplant/qsearch/pattern"
	"github.com/theplant/qsearch/value"
)

// ErrMalformedExpression reports an advanced filter that cannot be parsed.
// It is an ErrInvalidArgument.
var ErrMalformedExpression = errors.WithMessage(value.ErrInvalidArgument, "malformed expression")

func malformedf(format string, args ...any) error {
	return errors.WithMessagef(ErrMalformedExpression, format, args...)
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLParen
	tokenRParen
	tokenWord
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// tokenize splits input into parentheses and words. A word runs until
// whitespace or a ")" that closes a group opened outside the word, so values
// such as /(a|b)/ stay whole.
func tokenize(input string) []token {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		default:
			start, depth := i, 0
		word:
			for i < len(input) {
				switch input[i] {
				case ' ', '\t', '\n', '\r':
					break word
				case '(':
					depth++
				case ')':
					if depth == 0 {
						break word
					}
					depth--
				}
				i++
			}
			tokens = append(tokens, token{kind: tokenWord, text: input[start:i], pos: start})
		}
	}
	return append(tokens, token{kind: tokenEOF, pos: len(input)})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

type exprParser struct {
	tokens  []token
	pos     int
	casters map[string]value.Directive
}

// ParseExpression parses the advanced filter language:
//
//	expr    := primary { [ AND | OR ] primary }
//	primary := '(' expr ')' | condition
//
// Operators are case-insensitive and left-associative with equal precedence;
// a missing operator means AND. An empty expression yields a nil node.
func ParseExpression(input string, casters map[string]value.Directive) (filter.Node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	p := &exprParser{tokens: tokenize(input), casters: casters}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, malformedf("unbalanced parentheses: unexpected %q at position %d", tok.text, tok.pos)
	}
	return node, nil
}

func (p *exprParser) peek() token {
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *exprParser) parseExpr() (filter.Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.kind == tokenEOF || tok.kind == tokenRParen {
			return left, nil
		}

		op := filter.LogicalAnd
		if tok.kind == tokenWord {
			if parsed, ok := filter.ParseLogicalOp(tok.text); ok {
				op = parsed
				p.next()
			}
		}

		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &filter.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *exprParser) parsePrimary() (filter.Node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenLParen:
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, malformedf("unbalanced parentheses: missing ')' for '(' at position %d", tok.pos)
		}
		return node, nil
	case tokenRParen:
		return nil, malformedf("unbalanced parentheses: unexpected ')' at position %d", tok.pos)
	case tokenEOF:
		return nil, malformedf("unexpected end of expression at position %d", tok.pos)
	default:
		if _, ok := filter.ParseLogicalOp(tok.text); ok {
			return nil, malformedf("unexpected operator %q at position %d", tok.text, tok.pos)
		}
		return p.parseAtom(tok)
	}
}

// parseAtom rebuilds the canonical key<op>value text of a word and runs it
// through the condition splitter, so keys with characters such as ":" and
// escaped values survive.
func (p *exprParser) parseAtom(tok token) (filter.Node, error) {
	m, ok := pattern.MatchCondition(tok.text)
	if !ok {
		return nil, malformedf("%q at position %d is not a condition", tok.text, tok.pos)
	}

	var sb strings.Builder
	if m.Negated {
		sb.WriteByte('!')
	}
	sb.WriteString(strings.TrimSpace(m.Key))
	sb.WriteString(m.Operator)
	sb.WriteString(strings.TrimSpace(m.Value))

	cond, ok := ParseCondition(EscapePlus(sb.String()), p.casters)
	if !ok {
		return nil, malformedf("%q at position %d is not a condition", tok.text, tok.pos)
	}
	return filter.NewLeaf(cond)
}
