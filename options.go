package qsearch

import (
	"github.com/sirupsen/logrus"

	"github.com/theplant/qsearch/filter"
)

type translateOptions struct {
	logger    logrus.FieldLogger
	transform filter.TransformFunc
}

type Option func(*translateOptions)

// WithLogger sets the logger used for debug messages about dropped
// fragments and adjusted limits. The logrus standard logger is the default.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *translateOptions) {
		o.logger = logger
	}
}

// WithTransform rewrites the leaves of the final filter tree, before the
// complexity check. Transforms given in several options run in order.
func WithTransform(transform filter.TransformFunc) Option {
	return func(o *translateOptions) {
		if o.transform == nil {
			o.transform = transform
			return
		}
		o.transform = filter.Chain(o.transform, transform)
	}
}

func newTranslateOptions(opts []Option) *translateOptions {
	o := &translateOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}
	return o
}
