package reconciler

import (
	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/ledger"
)

// Mutation is a requested update of one existing ledger row. Unset or
// non-positive fields request no change.
type Mutation struct {
	Key      string              `json:"key" yaml:"key"`
	Variant  ledger.Variant      `json:"variant" yaml:"variant"`
	Row      int                 `json:"row" yaml:"row"`
	Price    decimal.NullDecimal `json:"price" yaml:"price"`
	Quantity ledger.NullInt      `json:"quantity" yaml:"quantity"`
}

// HasPrice reports whether the mutation carries a price to write.
func (m Mutation) HasPrice() bool {
	return m.Price.Valid && m.Price.Decimal.IsPositive()
}

// HasQuantity reports whether the mutation carries a quantity to write.
func (m Mutation) HasQuantity() bool {
	return m.Quantity.Valid && m.Quantity.Int > 0
}

// Merge applies m to row and reports whether the row changed. A price goes
// to Market Price on Unsigned rows and to Listed Price on Signed rows; the
// catalog pricing of a Signed row stays not applicable. Existing values are
// never replaced by zero or blank.
func Merge(row *ledger.Row, m Mutation) bool {
	changed := false
	if m.HasPrice() {
		switch row.Variant {
		case ledger.Signed:
			if !row.ListedPrice.Valid || !row.ListedPrice.Decimal.Equal(m.Price.Decimal) {
				row.ListedPrice = m.Price
				changed = true
			}
		default:
			if row.Pricing == nil {
				row.Pricing = &ledger.Pricing{}
			}
			if !row.Pricing.Market.Equal(m.Price.Decimal) {
				row.Pricing.Market = m.Price.Decimal
				changed = true
			}
		}
	}
	if m.HasQuantity() && row.Quantity != m.Quantity {
		row.Quantity = m.Quantity
		changed = true
	}
	return changed
}

// Apply merges every mutation targeting l's variant into l and returns the
// indexes of rows that changed, in mutation order without repeats.
func Apply(l *ledger.Ledger, mutations []Mutation) []int {
	var changed []int
	seen := make(map[int]bool)
	for _, m := range mutations {
		if m.Variant != l.Variant || m.Row < 0 || m.Row >= l.Len() {
			continue
		}
		if Merge(&l.Rows[m.Row], m) && !seen[m.Row] {
			seen[m.Row] = true
			changed = append(changed, m.Row)
		}
	}
	return changed
}
