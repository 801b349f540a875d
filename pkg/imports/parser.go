// Package imports turns pasted price lists and exported tables into
// transient import records for the reconciler.
package imports

import (
	"iter"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/constants"
)

// Record is one candidate entry parsed from a line of free text.
type Record struct {
	Line        int                 `json:"line" yaml:"line"`
	Quantity    int                 `json:"quantity" yaml:"quantity"`
	DisplayName string              `json:"display_name" yaml:"display_name"`
	UnitPrice   decimal.NullDecimal `json:"unit_price" yaml:"unit_price"`
	Signed      bool                `json:"signed" yaml:"signed"`
}

var (
	// "3 Bolt", "3x Bolt" and "3 × Bolt" all carry a quantity of three.
	leadingQuantity = regexp.MustCompile(`^(\d+)(?:\s*[xX×]\s+)?`)
	currencyAmount  = regexp.MustCompile(`\$\s?(\d[\d,]*(?:\.\d+)?|\.\d+)`)
)

// Parse returns the records found in text, one per line containing the
// item marker. The sequence is lazy and can be ranged over more than once.
func Parse(text string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		n := 0
		for line := range strings.Lines(text) {
			n++
			line = strings.TrimRight(line, "\r\n")
			rec, ok := ParseLine(line)
			if !ok {
				continue
			}
			rec.Line = n
			if !yield(rec) {
				return
			}
		}
	}
}

// ParseLines parses cells read from the raw import sheet. Cells are joined
// with newlines first, so a cell holding several lines yields several
// records.
func ParseLines(cells []string) iter.Seq[Record] {
	return Parse(strings.Join(cells, "\n"))
}

// ParseLine extracts a record from one line. The boolean is false when the
// line does not carry the item marker.
func ParseLine(line string) (Record, bool) {
	marker := strings.Index(line, constants.ItemMarker)
	if marker < 0 {
		return Record{}, false
	}

	rec := Record{Quantity: 1}
	head := line[:marker]
	if m := leadingQuantity.FindStringSubmatch(line); m != nil {
		if q, err := strconv.Atoi(m[1]); err == nil && q > 0 {
			rec.Quantity = q
		}
		head = head[len(m[0]):]
	}
	rec.DisplayName = strings.TrimSpace(head)

	if m := currencyAmount.FindStringSubmatch(line); m != nil {
		if d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil {
			rec.UnitPrice = decimal.NewNullDecimal(d)
		}
	}
	rec.Signed = strings.Contains(line, constants.SignedMarker)
	return rec, true
}

// Collect drains a record sequence into a slice.
func Collect(seq iter.Seq[Record]) []Record {
	var out []Record
	for r := range seq {
		out = append(out, r)
	}
	return out
}
