package qsearch

import (
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/theplant/qsearch/filter"
	"github.com/theplant/qsearch/parser"
	"github.com/theplant/qsearch/value"
)

type translator struct {
	conf *Configuration
	opts *translateOptions
	plan *QueryPlan

	advanced   filter.Node
	conditions []*filter.Condition
}

// Translate parses a URL query string such as
//
//	name=/^jo/i&age>=18&sort=-createdAt&limit=20&filter=(country=Mexico OR country=Spain)
//
// into a QueryPlan. conf may be nil. A blank query yields an empty plan.
// Fragments that are not conditions are dropped. Every error is an
// ErrInvalidArgument.
func Translate(query string, conf *Configuration, opts ...Option) (*QueryPlan, error) {
	if conf == nil {
		conf = &Configuration{}
	}
	t := &translator{
		conf: conf,
		opts: newTranslateOptions(opts),
		plan: &QueryPlan{},
	}

	if strings.TrimSpace(query) == "" {
		return t.plan, nil
	}

	for _, fragment := range strings.Split(parser.EscapePlus(query), "&") {
		if fragment == "" {
			continue
		}
		cond, ok := parser.ParseCondition(fragment, conf.Casters)
		if !ok {
			t.opts.logger.WithField("fragment", fragment).Debug("qsearch: dropping fragment that is not a condition")
			continue
		}
		if err := t.route(cond); err != nil {
			return nil, err
		}
	}

	if err := t.buildFilter(); err != nil {
		return nil, err
	}

	t.plan.OrderBy = AppendPrimaryOrderBy(t.plan.OrderBy, conf.PrimaryOrderBy...)
	return t.plan, nil
}

func (t *translator) route(cond *filter.Condition) error {
	switch cond.Key {
	case KeySkip:
		return t.skip(cond.RawValue)
	case KeyLimit:
		return t.limit(cond.RawValue)
	case KeySort:
		t.plan.OrderBy = ParseSort(cond.RawValue)
	case KeyFields:
		t.plan.Fields = ParseFields(cond.RawValue)
	case KeyFilter:
		node, err := parser.ParseExpression(cond.RawValue, t.conf.Casters)
		if err != nil {
			return err
		}
		if t.advanced != nil {
			t.opts.logger.WithField("filter", cond.RawValue).Debug("qsearch: replacing earlier filter expression")
		}
		t.advanced = node
	default:
		t.conditions = append(t.conditions, cond)
	}
	return nil
}

func (t *translator) skip(raw string) error {
	n, err := value.Cast(raw, value.DirectiveNumber)
	if err != nil {
		return value.InvalidArgumentf("skip %q is not a number", raw)
	}
	num := n.(value.Number)
	if num.Float64() < 0 {
		return value.InvalidArgumentf("skip %q cannot be negative", raw)
	}
	skip, ok := num.Int()
	if !ok {
		return value.InvalidArgumentf("skip %q is out of range", raw)
	}
	t.plan.Skip = &skip
	return nil
}

func (t *translator) limit(raw string) error {
	n, err := value.Cast(raw, value.DirectiveNumber)
	if err != nil {
		if t.conf.DefaultLimit == nil {
			return value.InvalidArgumentf("limit %q is not a number and no default limit is configured", raw)
		}
		t.opts.logger.WithFields(logrus.Fields{
			"limit":        raw,
			"defaultLimit": *t.conf.DefaultLimit,
		}).Debug("qsearch: using default limit")
		t.plan.Limit = lo.ToPtr(*t.conf.DefaultLimit)
		return nil
	}

	num := n.(value.Number)
	if num.Float64() < 0 {
		return value.InvalidArgumentf("limit %q cannot be negative", raw)
	}
	limit, ok := num.Int()
	if t.conf.MaxLimit != nil && (!ok || limit > *t.conf.MaxLimit) {
		t.opts.logger.WithFields(logrus.Fields{
			"limit":    raw,
			"maxLimit": *t.conf.MaxLimit,
		}).Debug("qsearch: clamping limit")
		limit, ok = *t.conf.MaxLimit, true
	}
	if !ok {
		return value.InvalidArgumentf("limit %q is out of range", raw)
	}
	t.plan.Limit = &limit
	return nil
}

// buildFilter ANDs the advanced tree, if any, with the simple conditions in
// query order. The advanced tree stays a single operand of that AND.
func (t *translator) buildFilter() error {
	nodes := make([]filter.Node, 0, len(t.conditions)+1)
	if t.advanced != nil {
		nodes = append(nodes, filter.Group(t.advanced))
	}
	for _, cond := range t.conditions {
		leaf, err := filter.NewLeaf(cond)
		if err != nil {
			return err
		}
		nodes = append(nodes, leaf)
	}

	node, err := filter.Transform(filter.And(nodes...), t.opts.transform)
	if err != nil {
		return err
	}
	if err := filter.CheckComplexity(node, t.conf.ComplexityLimits); err != nil {
		return err
	}
	t.plan.Filter = node
	return nil
}
