package repository

import "github.com/okian/tracker/pkg/logger"

// Option applies a configuration option to a store.
type Option func(*settings)

type settings struct {
	logger logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger sets the logger used to report recoveries and failed writes.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
