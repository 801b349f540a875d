package artcards

import (
	"context"
	"time"

	"github.com/agentstation/artcards/pkg/catalog"
	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/ledger"
	"github.com/agentstation/artcards/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Cataloger = (*client)(nil)

// Cataloger rebuilds the ledgers from the catalog source.
type Cataloger interface {
	// RefreshCatalog fetches the full catalog, rewrites the Regular ledger,
	// derives the Signed ledger from it and rebuilds the summary. Nothing
	// is written when the listing fails.
	RefreshCatalog(ctx context.Context) (*CatalogResult, error)
}

// CatalogResult describes a catalog refresh.
type CatalogResult struct {
	Items []catalog.Item `json:"items" yaml:"items"`
	// Carried counts rows whose owner-entered values were kept from the
	// previous ledgers, per variant.
	CarriedRegular int           `json:"carried_regular" yaml:"carried_regular"`
	CarriedSigned  int           `json:"carried_signed" yaml:"carried_signed"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

// RefreshCatalog implements Cataloger.
func (c *client) RefreshCatalog(ctx context.Context) (*CatalogResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.options.catalogSource == nil {
		return nil, errors.NewConfigError("catalog", "no catalog source configured", nil)
	}

	ctx = logging.WithOperation(ctx, "catalog_refresh")
	logger := logging.FromContext(ctx)
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, constants.CatalogRefreshTimeout)
	items, err := c.options.catalogSource.FetchCatalog(fetchCtx)
	cancel()
	if err != nil {
		return nil, err
	}
	catalog.Sort(items)

	prevRegular, err := c.previousLedger(ctx, ledger.Unsigned)
	if err != nil {
		return nil, err
	}
	prevSigned, err := c.previousLedger(ctx, ledger.Signed)
	if err != nil {
		return nil, err
	}

	result := &CatalogResult{Items: items}

	rows := make([]ledger.Row, len(items))
	for i, item := range items {
		rows[i] = ledger.NewRow(item, ledger.Unsigned)
	}
	regular := ledger.New(ledger.Unsigned, rows)
	signed := ledger.DeriveSigned(regular)
	result.CarriedRegular = carry(regular, prevRegular)
	result.CarriedSigned = carry(signed, prevSigned)

	if err := c.replaceSheet(ctx, ledger.SheetRegular, regular.Grid()); err != nil {
		return nil, err
	}
	if err := c.replaceSheet(ctx, ledger.SheetSigned, signed.Grid()); err != nil {
		return nil, err
	}
	if _, err := c.writeSummary(ctx, regular, signed); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	logger.Info().
		Int("items", len(items)).
		Int("carried_regular", result.CarriedRegular).
		Int("carried_signed", result.CarriedSigned).
		Dur("duration", result.Duration).
		Msg("Catalog refreshed")

	c.hooks.catalogRefreshed(items)
	return result, nil
}

// previousLedger returns the ledger as it is before a refresh, or nil when
// its sheet does not exist yet.
func (c *client) previousLedger(ctx context.Context, v ledger.Variant) (*ledger.Ledger, error) {
	ok, err := c.options.store.Exists(ctx, v.Sheet())
	if err != nil {
		return nil, errors.WrapResource("check", "sheet", v.Sheet(), err)
	}
	if !ok {
		return nil, nil
	}
	grid, err := c.options.store.Read(ctx, v.Sheet())
	if err != nil {
		return nil, errors.WrapResource("read", "sheet", v.Sheet(), err)
	}
	return ledger.FromGrid(v, grid), nil
}

// carry copies owner-entered values from prev onto the rows of l that
// share a key and returns how many rows it touched.
func carry(l, prev *ledger.Ledger) int {
	if prev == nil {
		return 0
	}
	n := 0
	for i, r := range l.Rows {
		j, ok := prev.Find(r.Key())
		if !ok {
			continue
		}
		l.Rows[i] = r.Carry(prev.Rows[j])
		n++
	}
	return n
}
