// Package artcards keeps an inventory of collectible art-series cards in a
// workbook. It mirrors the catalog from an external API into two ownership
// ledgers (Regular and Signed), reconciles imported quantity and price lists
// into them, and refreshes market prices in resumable batches.
//
// Example usage:
//
//	store, err := xlsx.Open("inventory.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db, err := sqlite.Open("state.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src := scryfall.New(transport.New(), "")
//
//	ac, err := artcards.New(
//	    artcards.WithStore(store),
//	    artcards.WithState(db),
//	    artcards.WithCatalogSource(src),
//	    artcards.WithPriceSource(src),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ac.Close()
//
//	// Build both ledgers from the catalog, then refresh one price batch
//	if _, err := ac.RefreshCatalog(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := ac.RefreshPrices(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package artcards

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/ledger"
	"github.com/agentstation/artcards/pkg/logging"
	"github.com/agentstation/artcards/pkg/reconciler"
	"github.com/agentstation/artcards/pkg/sheets"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client runs inventory commands against a workbook.
type Client interface {

	// Cataloger rebuilds the ledgers from the catalog source
	Cataloger

	// Pricer drives the resumable price refresh
	Pricer

	// Importer reconciles imported lists into the ledgers
	Importer

	// Ledgers maintains the ledger and summary sheets
	Ledgers

	// Scheduler re-invokes price batches on a schedule
	Scheduler

	// Hooks provides access to event callback registration
	Hooks

	// Close stops the scheduler. Stores passed in stay open.
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	// mu serializes commands so a scheduled batch never interleaves with
	// a command issued in the same process
	mu         sync.Mutex
	reconciler reconciler.Reconciler

	// scheduler state
	schedMu     sync.Mutex
	cron        *cron.Cron
	schedCancel context.CancelFunc

	hooks *hooks
}

// New creates a new Client with the given options. A sheet store and a
// state store are required.
func New(opts ...Option) (Client, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	rec, err := reconciler.New(o.reconcilerOptions...)
	if err != nil {
		return nil, errors.WrapResource("create", "reconciler", "", err)
	}

	return &client{
		options:    o,
		reconciler: rec,
		hooks:      newHooks(),
	}, nil
}

func (c *client) OnCatalogRefreshed(fn CatalogRefreshedHook) { c.hooks.OnCatalogRefreshed(fn) }
func (c *client) OnBatchComplete(fn BatchCompleteHook)       { c.hooks.OnBatchComplete(fn) }
func (c *client) OnPassComplete(fn PassCompleteHook)         { c.hooks.OnPassComplete(fn) }

// Close stops the scheduler if it runs.
func (c *client) Close() error {
	return c.StopSchedule()
}

// readLedger reads one ledger sheet. A missing sheet is a prerequisite
// error naming the operation that needed it.
func (c *client) readLedger(ctx context.Context, v ledger.Variant, operation string) (*ledger.Ledger, error) {
	grid, err := c.readRequired(ctx, v.Sheet(), operation, "run catalog refresh first")
	if err != nil {
		return nil, err
	}
	l := ledger.FromGrid(v, grid)
	logging.FromContext(ctx).Debug().
		Str("sheet", v.Sheet()).
		Int("rows", l.Len()).
		Msg("Ledger loaded")
	return l, nil
}

func (c *client) readRequired(ctx context.Context, name, operation, hint string) ([][]string, error) {
	ok, err := c.options.store.Exists(ctx, name)
	if err != nil {
		return nil, errors.WrapResource("check", "sheet", name, err)
	}
	if !ok {
		return nil, errors.NewPrerequisiteError(operation, name, hint)
	}
	grid, err := c.options.store.Read(ctx, name)
	if err != nil {
		return nil, errors.WrapResource("read", "sheet", name, err)
	}
	return grid, nil
}

// writeRows writes the given data rows of l back to their sheet rows.
func (c *client) writeRows(ctx context.Context, l *ledger.Ledger, rows []int) error {
	name := l.Variant.Sheet()
	for _, i := range rows {
		if err := c.options.store.WriteBlock(ctx, name, l.SheetRow(i), 0, [][]any{ledger.Encode(l.Rows[i])}); err != nil {
			return errors.WrapResource("write", "sheet", name, err)
		}
	}
	return nil
}

// replaceSheet clears name and writes grid.
func (c *client) replaceSheet(ctx context.Context, name string, grid [][]any) error {
	if err := sheets.Replace(ctx, c.options.store, name, grid); err != nil {
		return errors.WrapResource("replace", "sheet", name, err)
	}
	return nil
}
