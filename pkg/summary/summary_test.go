package summary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/pkg/catalog"
	"github.com/agentstation/artcards/pkg/ledger"
)

func row(group string, seq int, v ledger.Variant, market string, qty int) ledger.Row {
	r := ledger.NewRow(catalog.Item{Group: group, Sequence: seq}, v)
	if market != "" {
		r.Pricing.Market = decimal.RequireFromString(market)
	}
	if qty >= 0 {
		r.Quantity = ledger.IntOf(qty)
	}
	return r
}

func TestAggregate(t *testing.T) {
	unsigned := []ledger.Row{
		row("NEO", 1, ledger.Unsigned, "2.50", 2),
		row("MH2", 1, ledger.Unsigned, "10", 1),
		row("NEO", 2, ledger.Unsigned, "1", -1),
	}
	signed := []ledger.Row{
		row("NEO", 1, ledger.Signed, "", 3),
		row("ALR", 1, ledger.Signed, "", 1),
	}
	signed[0].ListedPrice = decimal.NewNullDecimal(decimal.NewFromInt(100))

	rows := Aggregate(unsigned, signed)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"NEO", "MH2", "ALR", GrandTotal},
		[]string{rows[0].Group, rows[1].Group, rows[2].Group, rows[3].Group})

	assert.Equal(t, 5, rows[0].TotalQuantity)
	assert.True(t, rows[0].TotalValue.Equal(decimal.NewFromInt(5)), "signed rows add quantity, not value")
	assert.Equal(t, 1, rows[2].TotalQuantity)
	assert.True(t, rows[2].TotalValue.IsZero())

	grand := rows[3]
	sumQty, sumValue := 0, decimal.Zero
	for _, r := range rows[:3] {
		sumQty += r.TotalQuantity
		sumValue = sumValue.Add(r.TotalValue)
	}
	assert.Equal(t, sumQty, grand.TotalQuantity)
	assert.True(t, sumValue.Equal(grand.TotalValue))
	assert.True(t, grand.TotalValue.Equal(decimal.NewFromInt(15)))
}

func TestAggregateEmpty(t *testing.T) {
	rows := Aggregate(nil, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, GrandTotal, rows[0].Group)
	assert.Zero(t, rows[0].TotalQuantity)
}

func TestGrid(t *testing.T) {
	grid := Grid(Aggregate(nil, nil))
	require.Len(t, grid, 2)
	assert.Equal(t, "Total Quantity Owned", grid[0][1])
	assert.Equal(t, GrandTotal, grid[1][0])
}
