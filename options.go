package artcards

import (
	"time"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/reconciler"
	"github.com/agentstation/artcards/pkg/sheets"
	"github.com/agentstation/artcards/pkg/sources"
	"github.com/agentstation/artcards/pkg/state"
)

// Option is a function that configures a Client.
type Option func(*options) error

type options struct {
	store         sheets.Store
	state         state.Store
	history       state.History
	catalogSource sources.CatalogSource
	priceSource   sources.PriceSource

	batchSize    int
	batchTimeout time.Duration
	schedule     string
	now          func() time.Time

	reconcilerOptions []reconciler.Option
}

func defaultOptions() *options {
	return &options{
		batchSize:    constants.PriceBatchSize,
		batchTimeout: constants.BatchTimeout,
		schedule:     constants.DefaultSchedule,
		now:          time.Now,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) validate() error {
	if o.store == nil {
		return errors.NewConfigError("client", "a sheet store is required", nil)
	}
	if o.state == nil {
		return errors.NewConfigError("client", "a state store is required", nil)
	}
	return nil
}

// WithStore sets the workbook the ledgers live in.
func WithStore(s sheets.Store) Option {
	return func(o *options) error {
		o.store = s
		return nil
	}
}

// WithState sets the persisted scalar state used for the refresh cursor.
// If the store also implements state.History and no history was set, it
// is used for price history too.
func WithState(s state.Store) Option {
	return func(o *options) error {
		o.state = s
		if h, ok := s.(state.History); ok && o.history == nil {
			o.history = h
		}
		return nil
	}
}

// WithHistory sets where price observations and batch runs are recorded.
func WithHistory(h state.History) Option {
	return func(o *options) error {
		o.history = h
		return nil
	}
}

// WithCatalogSource sets the source of the catalog listing.
func WithCatalogSource(src sources.CatalogSource) Option {
	return func(o *options) error {
		o.catalogSource = src
		return nil
	}
}

// WithPriceSource sets the source of per-item prices.
func WithPriceSource(src sources.PriceSource) Option {
	return func(o *options) error {
		o.priceSource = src
		return nil
	}
}

// WithBatchSize sets how many rows one price refresh invocation covers.
func WithBatchSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return &errors.ValidationError{
				Field:   "batchSize",
				Value:   n,
				Message: "batch size must be positive",
			}
		}
		o.batchSize = n
		return nil
	}
}

// WithBatchTimeout bounds one price refresh invocation. Zero disables
// the bound.
func WithBatchTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return &errors.ValidationError{
				Field:   "batchTimeout",
				Value:   d,
				Message: "timeout must be non-negative",
			}
		}
		o.batchTimeout = d
		return nil
	}
}

// WithSchedule sets the cron spec the scheduler runs batches on.
func WithSchedule(spec string) Option {
	return func(o *options) error {
		if spec == "" {
			return &errors.ValidationError{Field: "schedule", Message: "schedule must not be empty"}
		}
		o.schedule = spec
		return nil
	}
}

// WithClock replaces the clock used for status and history timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now != nil {
			o.now = now
		}
		return nil
	}
}

// WithReconcilerOptions passes options through to the reconciler.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(o *options) error {
		o.reconcilerOptions = append(o.reconcilerOptions, opts...)
		return nil
	}
}
