// Package summary folds both ledgers into per-set totals.
package summary

import (
	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/ledger"
)

// GrandTotal labels the final row.
const GrandTotal = "Grand Total"

// Header is the header row of the summary sheet.
var Header = []string{"Set", "Total Quantity Owned", "Total Market Value"}

// Row is the total of one set, or the grand total.
type Row struct {
	Group         string          `json:"group" yaml:"group"`
	TotalQuantity int             `json:"total_quantity" yaml:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value" yaml:"total_value"`
}

// Cells lays the row out for the summary sheet.
func (r Row) Cells() []any {
	return []any{r.Group, r.TotalQuantity, r.TotalValue}
}

// Aggregate groups unsigned then signed rows by set in first-encounter
// order. Quantities come from both ledgers; value only from Unsigned rows.
// The last row is the grand total.
func Aggregate(unsigned, signed []ledger.Row) []Row {
	var out []Row
	pos := make(map[string]int)

	add := func(r ledger.Row) {
		i, ok := pos[r.Item.Group]
		if !ok {
			i = len(out)
			pos[r.Item.Group] = i
			out = append(out, Row{Group: r.Item.Group, TotalValue: decimal.Zero})
		}
		if r.Quantity.Valid {
			out[i].TotalQuantity += r.Quantity.Int
		}
		if r.Variant == ledger.Unsigned {
			if v, ok := r.TotalValue(); ok {
				out[i].TotalValue = out[i].TotalValue.Add(v)
			}
		}
	}
	for _, r := range unsigned {
		add(r)
	}
	for _, r := range signed {
		add(r)
	}

	total := Row{Group: GrandTotal, TotalValue: decimal.Zero}
	for _, r := range out {
		total.TotalQuantity += r.TotalQuantity
		total.TotalValue = total.TotalValue.Add(r.TotalValue)
	}
	return append(out, total)
}

// Grid lays the summary out as sheet cells including the header.
func Grid(rows []Row) [][]any {
	grid := make([][]any, 0, len(rows)+1)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	grid = append(grid, header)
	for _, r := range rows {
		grid = append(grid, r.Cells())
	}
	return grid
}
