package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Index looks up catalog items by composite key and by display name.
// Display names are not unique across groups; a name lookup returns the
// first item in catalog order.
type Index struct {
	items  []Item
	byKey  map[string]int
	byName map[string]int
}

// NewIndex builds an index over items. The slice is not copied.
func NewIndex(items []Item) *Index {
	ix := &Index{
		items:  items,
		byKey:  make(map[string]int, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for i, item := range items {
		key := item.Key().String()
		if _, ok := ix.byKey[key]; !ok {
			ix.byKey[key] = i
		}
		name := NormalizeName(item.DisplayName)
		if name == "" {
			continue
		}
		if _, ok := ix.byName[name]; !ok {
			ix.byName[name] = i
		}
	}
	return ix
}

// Len returns the number of indexed items.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Items returns the indexed items in catalog order.
func (ix *Index) Items() []Item {
	return ix.items
}

// Lookup finds an item by composite key.
func (ix *Index) Lookup(key Key) (Item, bool) {
	return ix.LookupKey(key.String())
}

// LookupKey finds an item by its string key ("NEO-42").
func (ix *Index) LookupKey(key string) (Item, bool) {
	i, ok := ix.byKey[key]
	if !ok {
		return Item{}, false
	}
	return ix.items[i], true
}

// LookupName finds an item by exact display name.
func (ix *Index) LookupName(name string) (Item, bool) {
	i, ok := ix.byName[NormalizeName(name)]
	if !ok {
		return Item{}, false
	}
	return ix.items[i], true
}

// Names returns every distinct normalized display name.
func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.byName))
	for i, item := range ix.items {
		name := NormalizeName(item.DisplayName)
		if first, ok := ix.byName[name]; ok && first == i {
			names = append(names, name)
		}
	}
	return names
}

// NormalizeName trims a display name and folds it to Unicode NFC so that
// composed and decomposed accents ("Lórien") compare equal. Matching stays
// case sensitive.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
