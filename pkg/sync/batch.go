package sync

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/ledger"
	"github.com/agentstation/artcards/pkg/logging"
)

// PriceFetcher fetches the current price of one catalog item by external id.
type PriceFetcher interface {
	FetchPrice(ctx context.Context, id string) (decimal.Decimal, error)
}

// PriceFetcherFunc adapts a function to PriceFetcher.
type PriceFetcherFunc func(ctx context.Context, id string) (decimal.Decimal, error)

// FetchPrice calls f.
func (f PriceFetcherFunc) FetchPrice(ctx context.Context, id string) (decimal.Decimal, error) {
	return f(ctx, id)
}

// ProcessBatch refreshes prices for rows[cursor.Offset : cursor.Offset+batchSize]
// and returns the result with the cursor for the next invocation. It does
// not persist anything.
//
// A failed fetch degrades that row to zero prices and is flagged in its
// PriceResult; it never stops the batch. When the slice reaches the end of
// rows, or the cursor already points past it, the pass is complete and the
// next cursor is Idle. If ctx is canceled mid-batch the cursor is returned
// unchanged so the same slice is refreshed again.
func ProcessBatch(ctx context.Context, cursor Cursor, rows []ledger.Row, batchSize int, fetcher PriceFetcher) (*BatchResult, Cursor) {
	logger := logging.FromContext(ctx)
	result := &BatchResult{
		Start:     cursor.Offset,
		Total:     len(rows),
		StartTime: time.Now(),
	}
	done := func(next Cursor) (*BatchResult, Cursor) {
		result.Next = next
		result.finalize()
		return result, next
	}

	if batchSize <= 0 {
		batchSize = 1
	}
	start := max(cursor.Offset, 0)
	if start >= len(rows) {
		result.End = start
		result.Completed = true
		if len(rows) > 0 && start > 0 {
			logger.Warn().
				Int("offset", start).
				Int("rows", len(rows)).
				Msg("Cursor beyond ledger, treating pass as complete")
		}
		return done(Idle)
	}
	end := min(start+batchSize, len(rows))

	canceled := func(i int) (*BatchResult, Cursor) {
		result.End = i
		result.Canceled = true
		logger.Warn().Int("offset", i).Msg("Price batch canceled, cursor kept")
		return done(cursor)
	}
	for i := start; i < end; i++ {
		if ctx.Err() != nil {
			return canceled(i)
		}
		item := fetchOne(ctx, i, rows[i], fetcher)
		if ctx.Err() != nil {
			// The failure is the cancellation, not the item.
			return canceled(i)
		}
		result.Items = append(result.Items, item)
	}
	result.End = end

	if end >= len(rows) {
		result.Completed = true
		return done(Idle)
	}
	return done(Cursor{Offset: start + batchSize})
}

func fetchOne(ctx context.Context, index int, row ledger.Row, fetcher PriceFetcher) PriceResult {
	res := PriceResult{
		Index:   index,
		Key:     row.Key(),
		ID:      row.Item.ID,
		Pricing: ledger.Pricing{},
	}
	if row.Item.ID == "" {
		res.Err = errors.NewValidationError("id", nil, "row has no catalog id")
	} else {
		price, err := fetcher.FetchPrice(ctx, row.Item.ID)
		if err != nil {
			res.Err = err
		} else {
			res.OK = true
			res.Pricing = ledger.Pricing{Low: price, Avg: price, Market: price}
		}
	}
	if res.Err != nil {
		logging.FromContext(ctx).Debug().
			Err(res.Err).
			Str("key", res.Key).
			Str("id", res.ID).
			Msg("Price fetch failed, using zero")
	}
	return res
}
