package imports

import (
	"strings"

	"github.com/agentstation/artcards/pkg/errors"
)

// Field is a semantic column of a structured import.
type Field string

// Import fields.
const (
	FieldCode      Field = "code"
	FieldNumber    Field = "number"
	FieldSignature Field = "signature"
	FieldPrice     Field = "price"
	FieldQuantity  Field = "quantity"
)

// Synonym lists the header substrings accepted for one field.
type Synonym struct {
	Field     Field
	Names     []string
	Mandatory bool
}

// SynonymTable is an ordered set of field synonyms.
type SynonymTable []Synonym

// DefaultSynonyms covers the headers of the staging sheet as well as
// TCGplayer and MTGStocks exports.
var DefaultSynonyms = SynonymTable{
	{Field: FieldCode, Names: []string{"Code", "Set Code", "Set", "Code Abbr"}, Mandatory: true},
	{Field: FieldNumber, Names: []string{"Number", "Collector Number", "#"}, Mandatory: true},
	{Field: FieldSignature, Names: []string{"Signature", "Signed", "Gold-Stamped Signature"}, Mandatory: true},
	{Field: FieldPrice, Names: []string{"Market Price", "Price", "TCG Market Price"}, Mandatory: true},
	{Field: FieldQuantity, Names: []string{"Quantity", "Qty", "Count", "Amount"}},
}

// Columns holds the resolved column index of each field, -1 if absent.
type Columns struct {
	Code      int `json:"code" yaml:"code"`
	Number    int `json:"number" yaml:"number"`
	Signature int `json:"signature" yaml:"signature"`
	Price     int `json:"price" yaml:"price"`
	Quantity  int `json:"quantity" yaml:"quantity"`
}

// Index returns the column of a field.
func (c Columns) Index(f Field) int {
	switch f {
	case FieldCode:
		return c.Code
	case FieldNumber:
		return c.Number
	case FieldSignature:
		return c.Signature
	case FieldPrice:
		return c.Price
	case FieldQuantity:
		return c.Quantity
	}
	return -1
}

func (c *Columns) set(f Field, i int) {
	switch f {
	case FieldCode:
		c.Code = i
	case FieldNumber:
		c.Number = i
	case FieldSignature:
		c.Signature = i
	case FieldPrice:
		c.Price = i
	case FieldQuantity:
		c.Quantity = i
	}
}

// FindColumn returns the first header cell, left to right, whose lower
// case form contains any of names, or -1.
func FindColumn(header []string, names []string) int {
	for i, h := range header {
		lc := strings.ToLower(h)
		for _, name := range names {
			if strings.Contains(lc, strings.ToLower(name)) {
				return i
			}
		}
	}
	return -1
}

// Resolve maps every field of table to a column of header. A missing
// mandatory field fails the whole resolution with a *errors.SchemaError
// naming all of them.
func Resolve(header []string, table SynonymTable) (Columns, error) {
	cols := Columns{Code: -1, Number: -1, Signature: -1, Price: -1, Quantity: -1}
	var missing []string
	for _, syn := range table {
		i := FindColumn(header, syn.Names)
		cols.set(syn.Field, i)
		if i < 0 && syn.Mandatory {
			missing = append(missing, string(syn.Field))
		}
	}
	if len(missing) > 0 {
		return cols, &errors.SchemaError{Missing: missing, Header: header}
	}
	return cols, nil
}
