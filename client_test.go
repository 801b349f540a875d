package artcards

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/pkg/catalog"
	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/ledger"
	"github.com/agentstation/artcards/pkg/sheets"
	sheetmem "github.com/agentstation/artcards/pkg/sheets/memory"
	"github.com/agentstation/artcards/pkg/sources"
	statemem "github.com/agentstation/artcards/pkg/state/memory"
	pricesync "github.com/agentstation/artcards/pkg/sync"
)

// fakeSource serves a fixed catalog and price table.
type fakeSource struct {
	mu     sync.Mutex
	items  []catalog.Item
	prices map[string]decimal.Decimal
	err    error
	calls  []string
}

func (f *fakeSource) ID() sources.ID { return "fake" }

func (f *fakeSource) FetchCatalog(_ context.Context) ([]catalog.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.items), nil
}

func (f *fakeSource) FetchPrice(_ context.Context, id string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	p, ok := f.prices[id]
	if !ok {
		return decimal.Zero, errors.NewNotFoundError("usd price", id)
	}
	return p, nil
}

func testItems() []catalog.Item {
	return []catalog.Item{
		{ID: "id-shock", Group: "NEO", Sequence: 43, DisplayName: "Shock", Artist: "B"},
		{ID: "id-bolt", Group: "NEO", Sequence: 42, DisplayName: "Lightning Bolt", Artist: "A"},
		{ID: "id-rag", Group: "MH2", Sequence: 7, DisplayName: "Ragavan", Artist: "C"},
	}
}

type fixture struct {
	client Client
	store  sheets.Store
	state  *statemem.Store
	source *fakeSource
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	return newFixtureOn(t, sheetmem.New(), opts...)
}

// newFixtureOn builds a fixture over the given sheet store.
func newFixtureOn(t *testing.T, store sheets.Store, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store: store,
		state: statemem.New(),
		source: &fakeSource{
			items: testItems(),
			prices: map[string]decimal.Decimal{
				"id-shock": decimal.RequireFromString("0.50"),
				"id-bolt":  decimal.RequireFromString("2"),
				"id-rag":   decimal.RequireFromString("10"),
			},
		},
	}
	base := []Option{
		WithStore(f.store),
		WithState(f.state),
		WithCatalogSource(f.source),
		WithPriceSource(f.source),
		WithClock(func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }),
	}
	c, err := New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	f.client = c
	return f
}

func (f *fixture) read(t *testing.T, name string) [][]string {
	t.Helper()
	grid, err := f.store.Read(context.Background(), name)
	require.NoError(t, err)
	return grid
}

func (f *fixture) ledger(t *testing.T, v ledger.Variant) *ledger.Ledger {
	t.Helper()
	return ledger.FromGrid(v, f.read(t, v.Sheet()))
}

func (f *fixture) write(t *testing.T, name string, grid [][]any) {
	t.Helper()
	require.NoError(t, sheets.Replace(context.Background(), f.store, name, grid))
}

func TestNewRequiresStores(t *testing.T) {
	_, err := New()
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = New(WithStore(sheetmem.New()), WithBatchSize(0))
	assert.True(t, errors.IsValidationError(err))
}

func TestRefreshCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var refreshed []catalog.Item
	f.client.OnCatalogRefreshed(func(items []catalog.Item) { refreshed = items })

	result, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	assert.Len(t, refreshed, 3)

	regular := f.read(t, ledger.SheetRegular)
	require.Len(t, regular, 4)
	assert.Equal(t, ledger.Header, regular[0])
	assert.Equal(t, []string{"MH2", "7", "Ragavan"}, regular[1][:3])
	assert.Equal(t, "NEO", regular[2][0])
	assert.Equal(t, "42", regular[2][1])
	assert.Equal(t, "Regular", regular[2][ledger.ColVariant])
	assert.Equal(t, "id-bolt", regular[2][ledger.ColID])

	signed := f.ledger(t, ledger.Signed)
	require.Equal(t, 3, signed.Len())
	for _, r := range signed.Rows {
		assert.Equal(t, ledger.Signed, r.Variant)
		assert.Nil(t, r.Pricing)
	}
	raw := f.read(t, ledger.SheetSigned)
	assert.Equal(t, "Signed", raw[1][ledger.ColVariant])
	assert.Equal(t, "", raw[1][ledger.ColMarket])

	summary := f.read(t, constants.SheetSummary)
	require.Len(t, summary, 4)
	assert.Equal(t, []string{"Grand Total", "0", "0"}, summary[3])
}

func TestRefreshCatalogFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.source.err = &errors.APIError{Source: "fake", StatusCode: 503, Message: "down"}

	_, err := f.client.RefreshCatalog(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Empty(t, sheetmem.Names(f.store))
}

func TestRefreshCatalogKeepsOwnerValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)

	f.write(t, constants.SheetStaging, [][]any{
		{"Set", "Number", "Signature", "Price", "Quantity"},
		{"NEO", 42, "", "3.00", 2},
		{"NEO", 42, "S", "25", 1},
	})
	_, err = f.client.ApplyImport(ctx)
	require.NoError(t, err)

	f.source.items = append(f.source.items, catalog.Item{ID: "id-new", Group: "AFR", Sequence: 1, DisplayName: "New"})
	result, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.CarriedRegular)
	assert.Equal(t, 3, result.CarriedSigned)

	regular := f.ledger(t, ledger.Unsigned)
	require.Equal(t, 4, regular.Len())
	i, ok := regular.Find("NEO-42")
	require.True(t, ok)
	assert.Equal(t, ledger.IntOf(2), regular.Rows[i].Quantity)
	assert.True(t, decimal.RequireFromString("3").Equal(regular.Rows[i].Pricing.Market))

	signed := f.ledger(t, ledger.Signed)
	i, ok = signed.Find("NEO-42")
	require.True(t, ok)
	assert.Equal(t, ledger.IntOf(1), signed.Rows[i].Quantity)
	assert.True(t, decimal.RequireFromString("25").Equal(signed.Rows[i].ListedPrice.Decimal))
	assert.Nil(t, signed.Rows[i].Pricing)
}

func TestRefreshPricesRequiresCatalog(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.RefreshPrices(context.Background())
	var pre *errors.PrerequisiteError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, ledger.SheetRegular, pre.Sheet)
	assert.True(t, errors.IsNotFound(err))
}

func TestRefreshPricesResumesAcrossInvocations(t *testing.T) {
	items := make([]catalog.Item, 5)
	prices := make(map[string]decimal.Decimal)
	for i := range items {
		id := string(rune('a' + i))
		items[i] = catalog.Item{ID: id, Group: "NEO", Sequence: i + 1, DisplayName: "Card " + id}
		if i != 3 {
			prices[id] = decimal.NewFromInt(int64(i + 1))
		}
	}
	f := newFixture(t, WithBatchSize(2))
	f.source.items = items
	f.source.prices = prices
	ctx := context.Background()

	_, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)

	var batches, passes int
	f.client.OnBatchComplete(func(*pricesync.BatchResult) { batches++ })
	f.client.OnPassComplete(func(*pricesync.BatchResult) { passes++ })

	wantCursor := []string{"2", "4", ""}
	for i, want := range wantCursor {
		result, err := f.client.RefreshPrices(ctx)
		require.NoError(t, err, "invocation %d", i)
		v, found, err := f.state.Get(ctx, constants.StateKeyCursor)
		require.NoError(t, err)
		assert.Equal(t, want, v, "invocation %d", i)
		assert.Equal(t, want != "", found)
		assert.Equal(t, i == 2, result.Completed)
	}

	// ceil(5/2) invocations, every row fetched exactly once
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, f.source.calls)
	assert.Equal(t, 3, batches)
	assert.Equal(t, 1, passes)

	regular := f.ledger(t, ledger.Unsigned)
	assert.True(t, decimal.NewFromInt(3).Equal(regular.Rows[2].Pricing.Market))
	assert.True(t, decimal.NewFromInt(3).Equal(regular.Rows[2].Pricing.Low))
	assert.True(t, regular.Rows[3].Pricing.Market.IsZero(), "failed fetch degrades to zero")

	status := f.read(t, constants.SheetStatus)
	assert.Equal(t, []string{"Cards Updated", "1"}, status[1])
	assert.Equal(t, []string{"Fetch Failures", "0"}, status[2])

	last, found, err := f.state.Get(ctx, constants.StateKeyLastPass)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2025-03-01T12:00:00Z", last)

	changes, err := f.client.PriceHistory(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, changes, 4)

	runs, err := f.client.RecentRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRefreshPricesWritesTotalValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)

	f.write(t, constants.SheetStaging, [][]any{
		{"Code", "#", "Signed", "Market Price", "Qty"},
		{"NEO", "42", "", "", "3"},
	})
	_, err = f.client.ApplyImport(ctx)
	require.NoError(t, err)

	result, err := f.client.RefreshPrices(ctx)
	require.NoError(t, err)
	assert.True(t, result.Completed)

	regular := f.read(t, ledger.SheetRegular)
	assert.Equal(t, "6", regular[2][ledger.ColTotalValue])

	summary := f.read(t, constants.SheetSummary)
	assert.Equal(t, []string{"Grand Total", "3", "6"}, summary[len(summary)-1])
}

func TestRefreshPricesCursorBeyondLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)
	require.NoError(t, f.state.Set(ctx, constants.StateKeyCursor, "400"))

	result, err := f.client.RefreshPrices(ctx)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Empty(t, result.Items)
	assert.Empty(t, f.source.calls)

	_, found, err := f.state.Get(ctx, constants.StateKeyCursor)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRefreshPricesEmptyLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.source.items = nil
	_, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)
	require.NoError(t, f.state.Set(ctx, constants.StateKeyCursor, "200"))

	result, err := f.client.RefreshPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)

	_, found, err := f.state.Get(ctx, constants.StateKeyCursor)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRefreshPricesCanceledKeepsCursor(t *testing.T) {
	f := newFixture(t, WithBatchSize(1))
	ctx := context.Background()
	_, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)
	_, err = f.client.RefreshPrices(ctx)
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	result, err := f.client.RefreshPrices(canceled)
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.True(t, result.Canceled)

	v, _, err := f.state.Get(ctx, constants.StateKeyCursor)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestPriceStatusAndReset(t *testing.T) {
	f := newFixture(t, WithBatchSize(2))
	ctx := context.Background()
	_, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)
	_, err = f.client.RefreshPrices(ctx)
	require.NoError(t, err)

	status, err := f.client.PriceStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.InProgress)
	assert.Equal(t, 2, status.Cursor.Offset)
	assert.Equal(t, 3, status.Rows)
	assert.Equal(t, 1, status.Remaining())
	require.NotNil(t, status.LastRun)
	assert.Equal(t, 2, status.LastRun.Updated)

	require.NoError(t, f.client.ResetCursor(ctx))
	status, err = f.client.PriceStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.InProgress)
	assert.Equal(t, 0, status.Remaining())
}

func TestRefreshPricesRestart(t *testing.T) {
	f := newFixture(t, WithBatchSize(2))
	ctx := context.Background()
	_, err := f.client.RefreshCatalog(ctx)
	require.NoError(t, err)
	require.NoError(t, f.state.Set(ctx, constants.StateKeyCursor, "2"))

	result, err := f.client.RefreshPrices(ctx, pricesync.WithRestart(true))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Start)
}

func TestSortLedgers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grid := [][]any{ledger.HeaderCells()}
	for _, it := range testItems() {
		grid = append(grid, ledger.Encode(ledger.NewRow(it, ledger.Unsigned)))
	}
	f.write(t, ledger.SheetRegular, grid)
	f.write(t, ledger.SheetSigned, [][]any{ledger.HeaderCells()})

	require.NoError(t, f.client.SortLedgers(ctx))
	regular := f.ledger(t, ledger.Unsigned)
	var keys []string
	for _, r := range regular.Rows {
		keys = append(keys, r.Key())
	}
	assert.Equal(t, []string{"MH2-7", "NEO-42", "NEO-43"}, keys)
}

func TestRebuildSummaryRequiresLedgers(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.RebuildSummary(context.Background())
	var pre *errors.PrerequisiteError
	require.ErrorAs(t, err, &pre)
}
