// Package sync implements the resumable price refresh: a cursor into the
// Regular ledger and a pure batch step that advances it.
package sync

import (
	"time"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
)

// Options controls one price refresh invocation.
type Options struct {
	BatchSize int           // Rows refreshed per invocation
	Timeout   time.Duration // Upper bound for one invocation (0 means none)
	Restart   bool          // Drop the persisted cursor and start a new pass
}

// Defaults returns the default refresh options.
func Defaults() *Options {
	return &Options{
		BatchSize: constants.PriceBatchSize,
		Timeout:   constants.BatchTimeout,
	}
}

// Option is a function that configures refresh Options.
type Option func(*Options)

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.BatchSize <= 0 {
		return &errors.ValidationError{
			Field:   "BatchSize",
			Value:   o.BatchSize,
			Message: "batch size must be positive",
		}
	}
	if o.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   o.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	return nil
}

// WithBatchSize sets the number of rows per invocation.
func WithBatchSize(n int) Option {
	return func(o *Options) {
		o.BatchSize = n
	}
}

// WithTimeout bounds one invocation.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithRestart discards any pass in progress before running.
func WithRestart(restart bool) Option {
	return func(o *Options) {
		o.Restart = restart
	}
}
