package reconciler

import (
	"github.com/agentstation/artcards/pkg/errors"
)

type options struct {
	suggestions int
	maxDistance float64
}

func defaultOptions() *options {
	return &options{
		suggestions: 3,
		maxDistance: 0.4,
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

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithSuggestions sets how many near-miss catalog names are reported for an
// unmatched display name. Zero disables suggestions.
func WithSuggestions(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return &errors.ValidationError{
				Field:   "suggestions",
				Value:   n,
				Message: "cannot be negative",
			}
		}
		o.suggestions = n
		return nil
	}
}

// WithMaxDistance sets the largest edit distance, relative to the longer
// name, for a catalog name to be suggested. Must be in (0, 1].
func WithMaxDistance(ratio float64) Option {
	return func(o *options) error {
		if ratio <= 0 || ratio > 1 {
			return &errors.ValidationError{
				Field:   "max_distance",
				Value:   ratio,
				Message: "must be in (0, 1]",
			}
		}
		o.maxDistance = ratio
		return nil
	}
}
