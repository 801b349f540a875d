package ledger

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agentstation/artcards/pkg/catalog"
)

// Ledger is the decoded content of one ledger sheet. Row i of Rows lives
// on sheet row SheetRow(i); row 0 is the header.
type Ledger struct {
	Variant Variant
	Rows    []Row

	sheetRows []int
	byKey     map[string]int
	byName    map[string]int
}

// New builds a ledger over rows and indexes them by key and display name.
// When keys or names repeat, the first row wins.
func New(v Variant, rows []Row) *Ledger {
	l := &Ledger{Variant: v, Rows: rows}
	l.Reindex()
	return l
}

// FromGrid decodes a sheet read back from storage. The header row is
// skipped, as are rows with neither a set nor a collector number.
func FromGrid(v Variant, grid [][]string) *Ledger {
	rows := make([]Row, 0, max(len(grid)-1, 0))
	pos := make([]int, 0, cap(rows))
	for i, cells := range grid {
		if i == 0 || blank(cells) {
			continue
		}
		rows = append(rows, Decode(cells, v))
		pos = append(pos, i)
	}
	l := New(v, rows)
	l.sheetRows = pos
	return l
}

// SheetRow returns the storage row of data row i. Rows decoded from a
// sheet keep their position even when blank rows sit between them.
func (l *Ledger) SheetRow(i int) int {
	if i >= 0 && i < len(l.sheetRows) {
		return l.sheetRows[i]
	}
	return i + 1
}

func blank(cells []string) bool {
	get := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	return get(ColSet) == "" && get(ColNumber) == ""
}

// Reindex rebuilds the lookup maps after Rows was replaced or reordered.
func (l *Ledger) Reindex() {
	l.byKey = make(map[string]int, len(l.Rows))
	l.byName = make(map[string]int, len(l.Rows))
	for i, r := range l.Rows {
		if _, ok := l.byKey[r.Key()]; !ok {
			l.byKey[r.Key()] = i
		}
		name := catalog.NormalizeName(r.Item.DisplayName)
		if _, ok := l.byName[name]; !ok && name != "" {
			l.byName[name] = i
		}
	}
}

// Len returns the number of data rows.
func (l *Ledger) Len() int {
	return len(l.Rows)
}

// Find returns the index of the row with the given key.
func (l *Ledger) Find(key string) (int, bool) {
	i, ok := l.byKey[key]
	return i, ok
}

// FindName returns the index of the first row with the given display name.
func (l *Ledger) FindName(name string) (int, bool) {
	i, ok := l.byName[catalog.NormalizeName(name)]
	return i, ok
}

// Items returns the catalog items behind the rows, in row order.
func (l *Ledger) Items() []catalog.Item {
	items := make([]catalog.Item, len(l.Rows))
	for i, r := range l.Rows {
		items[i] = r.Item
	}
	return items
}

// Index builds a CatalogIndex from the ledger rows.
func (l *Ledger) Index() *catalog.Index {
	return catalog.NewIndex(l.Items())
}

// Grid encodes the ledger as sheet cells including the header row.
func (l *Ledger) Grid() [][]any {
	grid := make([][]any, 0, len(l.Rows)+1)
	grid = append(grid, HeaderCells())
	for _, r := range l.Rows {
		grid = append(grid, Encode(r))
	}
	return grid
}

// Sort orders rows by (set, collector number) and keeps the relative order
// of equal keys. Afterwards rows are laid out densely, as Grid writes them.
func (l *Ledger) Sort() {
	slices.SortStableFunc(l.Rows, func(a, b Row) int {
		if c := strings.Compare(a.Item.Group, b.Item.Group); c != 0 {
			return c
		}
		return cmp.Compare(a.Item.Sequence, b.Item.Sequence)
	})
	l.sheetRows = nil
	l.Reindex()
}

// DeriveSigned builds the Signed ledger from the Unsigned one: same keys
// and item fields, no pricing, no value.
func DeriveSigned(unsigned *Ledger) *Ledger {
	rows := make([]Row, len(unsigned.Rows))
	for i, r := range unsigned.Rows {
		rows[i] = r.AsSigned()
	}
	return New(Signed, rows)
}
