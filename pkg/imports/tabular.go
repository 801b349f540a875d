package imports

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/catalog"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/ledger"
)

// StagingHeader is the header of the Inventory Import sheet. Rows staged
// from free text leave Signature blank.
var StagingHeader = []string{"Set", "Collector Number", "Signature", "Quantity", "Price"}

// TabularRecord is one row of a structured import.
type TabularRecord struct {
	Row       int                 `json:"row" yaml:"row"`
	GroupCode string              `json:"group_code" yaml:"group_code"`
	Sequence  string              `json:"sequence" yaml:"sequence"`
	Signed    bool                `json:"signed" yaml:"signed"`
	UnitPrice decimal.NullDecimal `json:"unit_price" yaml:"unit_price"`
	Quantity  ledger.NullInt      `json:"quantity" yaml:"quantity"`
}

// Key returns the ledger key the record targets.
func (r TabularRecord) Key() string {
	return catalog.KeyString(r.GroupCode, r.Sequence)
}

// Valid reports whether the record names both a set and a number.
func (r TabularRecord) Valid() bool {
	return r.GroupCode != "" && r.Sequence != ""
}

// StagingRow lays out a staged entry in StagingHeader order.
func StagingRow(group string, sequence int, quantity int, price decimal.NullDecimal) []any {
	var p any
	if price.Valid {
		p = price.Decimal
	}
	return []any{group, sequence, nil, quantity, p}
}

// IsSigned interprets a signature cell: exactly "S", or anything
// mentioning gold ("Gold-Stamped").
func IsSigned(cell string) bool {
	cell = strings.TrimSpace(cell)
	return cell == "S" || strings.Contains(strings.ToLower(cell), "gold")
}

// DecodeTable resolves the header (first row) of grid and decodes every
// following row. Fully blank rows are skipped. Schema problems abort the
// decode before any record is produced.
func DecodeTable(grid [][]string, table SynonymTable) ([]TabularRecord, Columns, error) {
	if len(grid) == 0 {
		return nil, Columns{}, errors.NewValidationError("header", nil, "import table is empty")
	}
	cols, err := Resolve(grid[0], table)
	if err != nil {
		return nil, cols, err
	}

	records := make([]TabularRecord, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		if isEmptyRow(cells) {
			continue
		}
		rec := DecodeRow(cells, cols)
		rec.Row = i + 2
		records = append(records, rec)
	}
	return records, cols, nil
}

// DecodeRow reads one data row using resolved columns.
func DecodeRow(cells []string, cols Columns) TabularRecord {
	cell := func(i int) string {
		if i >= 0 && i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	rec := TabularRecord{
		GroupCode: strings.ToUpper(cell(cols.Code)),
		Sequence:  cell(cols.Number),
		Signed:    IsSigned(cell(cols.Signature)),
		UnitPrice: ledger.ParsePrice(cell(cols.Price)),
	}
	if cols.Quantity >= 0 {
		rec.Quantity = ledger.ParseQuantity(cell(cols.Quantity))
	}
	return rec
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
