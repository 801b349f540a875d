package artcards

import (
	"context"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/ledger"
	"github.com/agentstation/artcards/pkg/logging"
	"github.com/agentstation/artcards/pkg/summary"
)

// Compile-time interface check to ensure proper implementation.
var _ Ledgers = (*client)(nil)

// Ledgers maintains the ledger and summary sheets.
type Ledgers interface {
	// RebuildSummary recomputes the Collection Summary sheet from both
	// ledgers and returns its rows, grand total last.
	RebuildSummary(ctx context.Context) ([]summary.Row, error)

	// SortLedgers orders both ledgers by (set, collector number). Rows
	// with equal keys keep their order.
	SortLedgers(ctx context.Context) error
}

// RebuildSummary implements Ledgers.
func (c *client) RebuildSummary(ctx context.Context) ([]summary.Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuildSummary(ctx)
}

func (c *client) rebuildSummary(ctx context.Context) ([]summary.Row, error) {
	regular, err := c.readLedger(ctx, ledger.Unsigned, "summary")
	if err != nil {
		return nil, err
	}
	signed, err := c.readLedger(ctx, ledger.Signed, "summary")
	if err != nil {
		return nil, err
	}
	return c.writeSummary(ctx, regular, signed)
}

func (c *client) writeSummary(ctx context.Context, regular, signed *ledger.Ledger) ([]summary.Row, error) {
	rows := summary.Aggregate(regular.Rows, signed.Rows)
	if err := c.replaceSheet(ctx, constants.SheetSummary, summary.Grid(rows)); err != nil {
		return nil, err
	}
	total := rows[len(rows)-1]
	logging.FromContext(ctx).Info().
		Int("sets", len(rows)-1).
		Int("quantity", total.TotalQuantity).
		Str("value", total.TotalValue.StringFixed(2)).
		Msg("Collection summary rebuilt")
	return rows, nil
}

// SortLedgers implements Ledgers.
func (c *client) SortLedgers(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range []ledger.Variant{ledger.Unsigned, ledger.Signed} {
		l, err := c.readLedger(ctx, v, "sort")
		if err != nil {
			return err
		}
		l.Sort()
		if err := c.replaceSheet(ctx, v.Sheet(), l.Grid()); err != nil {
			return err
		}
		logging.FromContext(ctx).Info().Str("sheet", v.Sheet()).Int("rows", l.Len()).Msg("Ledger sorted")
	}
	return nil
}
