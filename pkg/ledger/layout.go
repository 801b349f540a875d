package ledger

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/catalog"
	"github.com/agentstation/artcards/pkg/constants"
)

// Sheet names of the two ledgers.
const (
	SheetRegular = constants.SheetRegular
	SheetSigned  = constants.SheetSigned
)

// Column positions (0-based) of the ledger sheet layout.
const (
	ColSet = iota
	ColNumber
	ColName
	ColArtist
	ColReleaseDate
	ColVariant
	ColLow
	ColAvg
	ColMarket
	ColQuantity
	ColTotalValue
	ColID
	ColListedPrice

	Width
)

// Header is the header row shared by both ledger sheets.
var Header = []string{
	"Set", "Collector Number", "Card Name", "Artist", "Release Date",
	"Signed/Regular", "Low Price", "Average Price", "Market Price",
	"Quantity Owned", "Total Value", "Scryfall ID", "Listed Price",
}

// HeaderCells returns Header as a cell slice ready to append.
func HeaderCells() []any {
	cells := make([]any, len(Header))
	for i, h := range Header {
		cells[i] = h
	}
	return cells
}

// Encode lays a row out as sheet cells. Blank cells are nil.
func Encode(r Row) []any {
	cells := make([]any, Width)
	cells[ColSet] = r.Item.Group
	cells[ColNumber] = r.Item.Sequence
	cells[ColName] = r.Item.DisplayName
	cells[ColArtist] = r.Item.Artist
	cells[ColReleaseDate] = r.Item.ReleaseDate
	cells[ColVariant] = r.Variant.String()
	if r.Pricing != nil {
		cells[ColLow] = r.Pricing.Low
		cells[ColAvg] = r.Pricing.Avg
		cells[ColMarket] = r.Pricing.Market
	}
	if r.Quantity.Valid {
		cells[ColQuantity] = r.Quantity.Int
	}
	if r.Variant == Unsigned {
		if v, ok := r.TotalValue(); ok {
			cells[ColTotalValue] = v
		}
	}
	cells[ColID] = r.Item.ID
	if r.ListedPrice.Valid {
		cells[ColListedPrice] = r.ListedPrice.Decimal
	}
	return cells
}

// PriceCells returns the Low..Market block followed by Quantity and Total
// Value, the contiguous range a price refresh rewrites.
func PriceCells(r Row) []any {
	return Encode(r)[ColLow : ColTotalValue+1]
}

// Decode reads a row from sheet cells. Missing trailing cells are blank.
// The variant comes from the Signed/Regular column, falling back to def.
func Decode(cells []string, def Variant) Row {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	seq, _ := catalog.ParseSequence(cell(ColNumber))
	r := Row{
		Item: catalog.Item{
			ID:          cell(ColID),
			Group:       strings.ToUpper(cell(ColSet)),
			Sequence:    seq,
			DisplayName: cell(ColName),
			Artist:      cell(ColArtist),
			ReleaseDate: cell(ColReleaseDate),
		},
		Variant: def,
	}
	switch cell(ColVariant) {
	case "Signed":
		r.Variant = Signed
	case "Regular":
		r.Variant = Unsigned
	}

	if r.Variant == Unsigned {
		r.Pricing = &Pricing{
			Low:    ParsePrice(cell(ColLow)).Decimal,
			Avg:    ParsePrice(cell(ColAvg)).Decimal,
			Market: ParsePrice(cell(ColMarket)).Decimal,
		}
	}
	r.Quantity = ParseQuantity(cell(ColQuantity))
	r.ListedPrice = ParsePrice(cell(ColListedPrice))
	return r
}

// ParsePrice reads a currency cell such as "$4.00" or "4". Blank or
// unparseable cells are not valid.
func ParsePrice(s string) decimal.NullDecimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, "$", ""))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseQuantity reads an integer cell. Spreadsheets may hand back "2.0".
func ParseQuantity(s string) NullInt {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullInt{}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return IntOf(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return IntOf(int(f))
	}
	return NullInt{}
}
