package gate

import (
	"math"
	"time"

	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
)

// Config holds the thresholds that decide whether a snapshot is complete.
type Config struct {
	// MaxRetries is the number of additional fetch passes after the first.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// MinExistingRatio is the fraction of the existing catalog a snapshot must
	// resolve. Values outside [0,1] are clamped.
	MinExistingRatio float64 `mapstructure:"min_existing_ratio" yaml:"min_existing_ratio"`

	// MinExistingDelta is the absolute shortfall tolerated against the
	// existing catalog size.
	MinExistingDelta int `mapstructure:"min_existing_delta" yaml:"min_existing_delta"`

	// Backoff is the pause between a rejected attempt and the next one.
	Backoff time.Duration `mapstructure:"backoff" yaml:"backoff"`
}

// DefaultConfig returns the default gate thresholds.
func DefaultConfig() Config {
	return Config{
		MaxRetries:       constants.DefaultMaxRetries,
		MinExistingRatio: constants.DefaultMinExistingRatio,
		MinExistingDelta: constants.DefaultMinExistingDelta,
	}
}

// Normalize clamps the ratio into [0,1].
func (c Config) Normalize() Config {
	c.MinExistingRatio = clamp01(c.MinExistingRatio)
	return c
}

// Validate rejects negative retry budgets, deltas, and backoffs.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.NewConfigError("gate", "max retries must be non-negative",
			errors.NewValidationError("max_retries", c.MaxRetries, "must be >= 0"))
	}
	if c.MinExistingDelta < 0 {
		return errors.NewConfigError("gate", "min existing delta must be non-negative",
			errors.NewValidationError("min_existing_delta", c.MinExistingDelta, "must be >= 0"))
	}
	if c.Backoff < 0 {
		return errors.NewConfigError("gate", "backoff must be non-negative",
			errors.NewValidationError("backoff", c.Backoff, "must be >= 0"))
	}
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return constants.DefaultMinExistingRatio
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
