package store

import (
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// Format is the encoding of a catalog document.
type Format int

// Format constants.
const (
	FormatJSON Format = iota
	FormatYAML
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// FormatFromURL picks a format from the document extension. Anything other
// than .yaml or .yml is JSON.
func FormatFromURL(URL string) Format {
	switch strings.ToLower(path.Ext(URL)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type options struct {
	format    Format
	formatSet bool
	logger    *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		format: FormatJSON,
		logger: logging.Default(),
	}
}

// Option is a function that configures a file store.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithFormat overrides the format inferred from the document URL.
func WithFormat(f Format) Option {
	return func(o *options) error {
		if !f.IsValid() {
			return &errors.ValidationError{
				Field:   "format",
				Value:   int(f),
				Message: "unsupported document format",
			}
		}
		o.format = f
		o.formatSet = true
		return nil
	}
}

// WithLogger sets the logger used for load warnings.
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
