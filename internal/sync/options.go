package sync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/errors"
)

// Options controls one sync run.
type Options struct {
	DryRun  bool          // Reconcile and report without saving
	Timeout time.Duration // Timeout for the whole run, zero for none
	Logger  *zerolog.Logger
	Source  string // Listing source tagged on every log line
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		DryRun:  false,
		Timeout: 0,
	}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Apply applies the given options to the sync options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks if the sync options are valid.
func (o *Options) Validate() error {
	if o.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   o.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	return nil
}

// WithDryRun skips the final save.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithTimeout bounds the whole run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithLogger sets the base logger for the run. The run ID is attached to it.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithSource names the listing source in the run's log lines.
func WithSource(source string) Option {
	return func(o *Options) {
		o.Source = source
	}
}
