package repository

import "github.com/okian/copa/pkg/logger"

// defaultMaxConcurrency loads every table at once.
const defaultMaxConcurrency = 3

// Option applies a configuration option to Load.
type Option func(*loadOptions)

type loadOptions struct {
	logger         logger.Logger
	maxConcurrency int
}

func newLoadOptions(opts ...Option) loadOptions {
	o := loadOptions{
		logger:         logger.Nop(),
		maxConcurrency: defaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used while loading.
func WithLogger(l logger.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxConcurrency bounds how many tables load in parallel.
func WithMaxConcurrency(n int) Option {
	return func(o *loadOptions) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}
