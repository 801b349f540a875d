package sync

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/pkg/catalog"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/ledger"
)

func testRows(n int) []ledger.Row {
	rows := make([]ledger.Row, n)
	for i := range rows {
		rows[i] = ledger.NewRow(catalog.Item{
			ID:       fmt.Sprintf("id-%d", i),
			Group:    "NEO",
			Sequence: i + 1,
		}, ledger.Unsigned)
	}
	return rows
}

type countingFetcher struct {
	calls map[string]int
	fail  map[string]bool
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{calls: map[string]int{}, fail: map[string]bool{}}
}

func (f *countingFetcher) FetchPrice(_ context.Context, id string) (decimal.Decimal, error) {
	f.calls[id]++
	if f.fail[id] {
		return decimal.Zero, errors.ErrSourceUnavailable
	}
	return decimal.RequireFromString("1.25"), nil
}

func TestParseCursor(t *testing.T) {
	c, err := ParseCursor("", false)
	require.NoError(t, err)
	assert.True(t, c.IsIdle())

	c, err = ParseCursor(" 400 ", true)
	require.NoError(t, err)
	assert.Equal(t, 400, c.Offset)
	assert.Equal(t, "400", c.String())

	c, err = ParseCursor("abc", true)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, Idle, c)

	_, err = ParseCursor("-3", true)
	assert.Error(t, err)
}

func TestProcessBatchFullPass(t *testing.T) {
	tests := []struct {
		rows, batch, invocations int
	}{
		{rows: 1, batch: 200, invocations: 1},
		{rows: 200, batch: 200, invocations: 1},
		{rows: 201, batch: 200, invocations: 2},
		{rows: 450, batch: 200, invocations: 3},
		{rows: 10, batch: 3, invocations: 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d rows batch %d", tt.rows, tt.batch), func(t *testing.T) {
			rows := testRows(tt.rows)
			fetcher := newCountingFetcher()
			cursor := Idle
			invocations := 0
			for {
				invocations++
				require.LessOrEqual(t, invocations, tt.invocations, "too many invocations")
				var result *BatchResult
				result, cursor = ProcessBatch(context.Background(), cursor, rows, tt.batch, fetcher)
				assert.Equal(t, cursor, result.Next)
				if cursor.IsIdle() {
					assert.True(t, result.Completed)
					break
				}
				assert.False(t, result.Completed)
			}
			assert.Equal(t, tt.invocations, invocations)
			require.Len(t, fetcher.calls, tt.rows)
			for id, n := range fetcher.calls {
				assert.Equal(t, 1, n, "row %s refreshed more than once", id)
			}
		})
	}
}

func TestProcessBatchDegradesFailures(t *testing.T) {
	rows := testRows(3)
	rows[2].Item.ID = ""
	fetcher := newCountingFetcher()
	fetcher.fail["id-1"] = true

	result, next := ProcessBatch(context.Background(), Idle, rows, 10, fetcher)
	assert.True(t, next.IsIdle())
	require.Len(t, result.Items, 3)

	assert.True(t, result.Items[0].OK)
	assert.True(t, result.Items[0].Pricing.Market.Equal(decimal.RequireFromString("1.25")))
	assert.True(t, result.Items[0].Pricing.Low.Equal(result.Items[0].Pricing.Avg))

	assert.False(t, result.Items[1].OK)
	assert.True(t, result.Items[1].Pricing.Market.IsZero())
	assert.ErrorIs(t, result.Items[1].Err, errors.ErrSourceUnavailable)

	assert.False(t, result.Items[2].OK)
	assert.Equal(t, 1, result.Updated())
	assert.Equal(t, 2, result.Failed())
	assert.Contains(t, result.Summary(), "pass complete")
}

func TestProcessBatchEdgeCases(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		result, next := ProcessBatch(context.Background(), Cursor{Offset: 400}, nil, 200, newCountingFetcher())
		assert.True(t, next.IsIdle())
		assert.True(t, result.Completed)
		assert.Empty(t, result.Items)
		assert.Equal(t, "Ledger is empty, nothing to refresh", result.Summary())
	})

	t.Run("cursor beyond shrunken ledger", func(t *testing.T) {
		fetcher := newCountingFetcher()
		result, next := ProcessBatch(context.Background(), Cursor{Offset: 400}, testRows(300), 200, fetcher)
		assert.True(t, next.IsIdle())
		assert.True(t, result.Completed)
		assert.Empty(t, fetcher.calls)
	})

	t.Run("resumes mid pass", func(t *testing.T) {
		fetcher := newCountingFetcher()
		result, next := ProcessBatch(context.Background(), Cursor{Offset: 2}, testRows(5), 2, fetcher)
		assert.Equal(t, Cursor{Offset: 4}, next)
		assert.Equal(t, 2, result.Start)
		assert.Equal(t, 4, result.End)
		assert.Equal(t, map[string]int{"id-2": 1, "id-3": 1}, fetcher.calls)
		assert.Contains(t, result.Summary(), "next batch starts at 4")
	})

	t.Run("canceled keeps cursor", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		fetcher := PriceFetcherFunc(func(context.Context, string) (decimal.Decimal, error) {
			calls++
			if calls == 2 {
				cancel()
				return decimal.Zero, context.Canceled
			}
			return decimal.NewFromInt(1), nil
		})
		start := Cursor{Offset: 1}
		result, next := ProcessBatch(ctx, start, testRows(10), 5, fetcher)
		assert.Equal(t, start, next)
		assert.True(t, result.Canceled)
		assert.Len(t, result.Items, 1, "the canceled fetch is not reported as a zero price")
		assert.Equal(t, 2, result.End)
	})
}

func TestOptions(t *testing.T) {
	opts := Defaults().Apply(WithBatchSize(50), WithRestart(true))
	require.NoError(t, opts.Validate())
	assert.Equal(t, 50, opts.BatchSize)
	assert.True(t, opts.Restart)

	assert.Error(t, Defaults().Apply(WithBatchSize(0)).Validate())
	assert.Error(t, Defaults().Apply(WithTimeout(-1)).Validate())
}
