package reconciler

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// options configures a reconciler.
type options struct {
	logger *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		logger: logging.Default(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithLogger sets the logger used for reconciliation warnings.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}
