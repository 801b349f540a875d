// Package catalog holds the canonical art-card records mirrored from the
// catalog API and the CatalogIndex used to match imported data against them.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Item is the canonical record of one printed art card.
type Item struct {
	ID          string `json:"id" yaml:"id"`
	Group       string `json:"group" yaml:"group"`
	Sequence    int    `json:"sequence" yaml:"sequence"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Artist      string `json:"artist,omitempty" yaml:"artist,omitempty"`
	ReleaseDate string `json:"release_date,omitempty" yaml:"release_date,omitempty"`
}

// Key returns the composite (group, sequence) key of the item.
func (i Item) Key() Key {
	return Key{Group: i.Group, Sequence: i.Sequence}
}

// Key is the composite natural key of a card: release group plus the
// card's position inside the group.
type Key struct {
	Group    string
	Sequence int
}

// String renders the key the way ledger rows are keyed, e.g. "NEO-42".
func (k Key) String() string {
	return fmt.Sprintf("%s-%d", k.Group, k.Sequence)
}

// Compare orders keys by group, then sequence.
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Group, o.Group); c != 0 {
		return c
	}
	return cmp.Compare(k.Sequence, o.Sequence)
}

// KeyString builds the lookup key for raw cell values. Groups are
// upper-cased and numeric sequences lose leading zeros, so "neo"/"042"
// and "NEO"/"42" meet on "NEO-42". Non-numeric numbers are kept verbatim.
func KeyString(group, number string) string {
	group = strings.ToUpper(strings.TrimSpace(group))
	number = strings.TrimSpace(number)
	if n, ok := ParseSequence(number); ok {
		number = strconv.Itoa(n)
	}
	return group + "-" + number
}

// ParseSequence reads a collector number. Scryfall numbers can carry
// suffixes ("12a", "★5"); only a leading run of digits counts.
func ParseSequence(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		// Spreadsheet cells may hold numbers as floats ("42.0").
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
			return int(f), true
		}
		return 0, false
	}
	if end < len(raw) && raw[end] == '.' {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
			return int(f), true
		}
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Sort orders items by (group, sequence) ascending. The sort is stable so
// items sharing a key keep their fetch order.
func Sort(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return a.Key().Compare(b.Key())
	})
}
