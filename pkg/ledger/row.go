// Package ledger models the two ownership ledgers (Unsigned and Signed) and
// their fixed sheet layout.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/catalog"
)

// Variant tags a ledger row as the regular or the gold-stamped signed copy.
type Variant int

const (
	// Unsigned is the regular, catalog-priced variant.
	Unsigned Variant = iota
	// Signed is the gold-stamped variant; it has no catalog pricing.
	Signed
)

// String returns the value stored in the Signed/Regular column.
func (v Variant) String() string {
	if v == Signed {
		return "Signed"
	}
	return "Regular"
}

// Sheet returns the name of the sheet holding rows of this variant.
func (v Variant) Sheet() string {
	if v == Signed {
		return SheetSigned
	}
	return SheetRegular
}

// Pricing holds the catalog prices of an Unsigned row.
type Pricing struct {
	Low    decimal.Decimal `json:"low" yaml:"low"`
	Avg    decimal.Decimal `json:"avg" yaml:"avg"`
	Market decimal.Decimal `json:"market" yaml:"market"`
}

// NullInt is an integer that may be unset.
type NullInt struct {
	Int   int
	Valid bool
}

// IntOf returns a set NullInt.
func IntOf(n int) NullInt {
	return NullInt{Int: n, Valid: true}
}

// Row is one ownership record. Pricing is nil for Signed rows, which marks
// the catalog price columns as not applicable rather than zero.
type Row struct {
	Item        catalog.Item
	Variant     Variant
	Pricing     *Pricing
	Quantity    NullInt
	ListedPrice decimal.NullDecimal
}

// NewRow creates an empty ledger row of the given variant for a catalog item.
func NewRow(item catalog.Item, v Variant) Row {
	r := Row{Item: item, Variant: v}
	if v == Unsigned {
		r.Pricing = &Pricing{}
	}
	return r
}

// Key returns the composite key string ("NEO-42").
func (r Row) Key() string {
	return r.Item.Key().String()
}

// TotalValue returns market price times quantity. The second result is
// false when the value is undefined (an Unsigned row without a quantity).
// Signed rows are always worth zero.
func (r Row) TotalValue() (decimal.Decimal, bool) {
	if r.Variant == Signed {
		return decimal.Zero, true
	}
	if !r.Quantity.Valid {
		return decimal.Zero, false
	}
	market := decimal.Zero
	if r.Pricing != nil {
		market = r.Pricing.Market
	}
	return market.Mul(decimal.NewFromInt(int64(r.Quantity.Int))), true
}

// AsSigned derives the Signed copy of an Unsigned row. Only the catalog
// item is carried over; the signed copy starts with nothing owned.
func (r Row) AsSigned() Row {
	return Row{Item: r.Item, Variant: Signed}
}

// Carry copies the owner-supplied fields (quantity, listed price and, for
// Unsigned rows, pricing) from prev onto r.
func (r Row) Carry(prev Row) Row {
	r.Quantity = prev.Quantity
	r.ListedPrice = prev.ListedPrice
	if r.Variant == Unsigned && prev.Pricing != nil {
		p := *prev.Pricing
		r.Pricing = &p
	}
	return r
}
