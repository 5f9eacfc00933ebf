package service

import (
	"github.com/okian/copa/internal/adapters/repository"
	"github.com/okian/copa/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where records are loaded from on Start.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithDefaultScorerLimit sets the ranking length used when a query passes no limit.
func WithDefaultScorerLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.defaultScorerLimit = limit
		}
	}
}

// WithLoadConcurrency bounds how many tables are read in parallel.
func WithLoadConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.loadConcurrency = n
		}
	}
}
