// Package app provides the application context and dependency management
// for the artcards CLI. It centralizes configuration, logging, and the
// lifecycle of the workbook and state database.
package app

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/artcards"
	"github.com/agentstation/artcards/internal/cmd/application"
	"github.com/agentstation/artcards/internal/sources/scryfall"
	"github.com/agentstation/artcards/internal/state/sqlite"
	"github.com/agentstation/artcards/internal/transport"
	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/sheets/xlsx"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the artcards application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Client and the stores it owns (lazy-initialized, singleton)
	mu       sync.Mutex
	client   artcards.Client
	workbook *xlsx.Store
	db       *sqlite.Store
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration, which can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string { return a.config.Format }

// Client returns the artcards client, opening the workbook and the state
// database on first use.
func (a *App) Client() (artcards.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	workbook, err := xlsx.Open(a.config.Workbook)
	if err != nil {
		return nil, err
	}
	db, err := sqlite.Open(a.config.StateDB)
	if err != nil {
		_ = workbook.Close()
		return nil, err
	}

	tc := transport.New(
		transport.WithRateLimit(a.config.RateLimit, constants.BurstSize),
		transport.WithUserAgent(a.config.UserAgent),
	)
	src := scryfall.New(tc, a.config.ScryfallURL)

	client, err := artcards.New(
		artcards.WithStore(workbook),
		artcards.WithState(db),
		artcards.WithCatalogSource(src),
		artcards.WithPriceSource(src),
		artcards.WithBatchSize(a.config.BatchSize),
		artcards.WithSchedule(a.config.Schedule),
	)
	if err != nil {
		_ = db.Close()
		_ = workbook.Close()
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.logger.Debug().
		Str("workbook", workbook.Path()).
		Str("state_db", db.Path()).
		Msg("Opened inventory")

	a.client, a.workbook, a.db = client, workbook, db
	return client, nil
}

// Shutdown stops the scheduler and closes the workbook and state database.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		return nil
	}
	var errs []error
	if err := a.client.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, errors.WrapResource("close", "state", a.db.Path(), err))
		}
	}
	if a.workbook != nil {
		if err := a.workbook.Close(); err != nil {
			errs = append(errs, errors.WrapResource("close", "workbook", a.workbook.Path(), err))
		}
	}
	a.client, a.workbook, a.db = nil, nil, nil
	return stderrors.Join(errs...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(client artcards.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
