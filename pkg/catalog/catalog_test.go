package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{ID: "a1", Group: "NEO", Sequence: 42, DisplayName: "Lightning Bolt", Artist: "Christopher Rush"},
		{ID: "a2", Group: "MH2", Sequence: 7, DisplayName: "L\u00f3rien Revealed"},
		{ID: "a3", Group: "ALR", Sequence: 3, DisplayName: "Lightning Bolt"},
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		group, number, want string
	}{
		{"NEO", "42", "NEO-42"},
		{"neo", "042", "NEO-42"},
		{" NEO ", " 42 ", "NEO-42"},
		{"NEO", "42.0", "NEO-42"},
		{"NEO", "12a", "NEO-12"},
		{"NEO", "", "NEO-"},
		{"NEO", "★", "NEO-★"},
	}
	for _, tt := range tests {
		t.Run(tt.group+"/"+tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyString(tt.group, tt.number))
		})
	}
}

func TestParseSequence(t *testing.T) {
	n, ok := ParseSequence("17")
	assert.True(t, ok)
	assert.Equal(t, 17, n)

	n, ok = ParseSequence("5b")
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = ParseSequence("abc")
	assert.False(t, ok)
}

func TestKeyCompareAndSort(t *testing.T) {
	items := []Item{
		{Group: "NEO", Sequence: 10},
		{Group: "MH2", Sequence: 2},
		{Group: "NEO", Sequence: 2},
	}
	Sort(items)
	assert.Equal(t, "MH2-2", items[0].Key().String())
	assert.Equal(t, "NEO-2", items[1].Key().String())
	assert.Equal(t, "NEO-10", items[2].Key().String())
	assert.Equal(t, 0, Key{"A", 1}.Compare(Key{"A", 1}))
}

func TestIndexLookup(t *testing.T) {
	ix := NewIndex(testItems())
	require.Equal(t, 3, ix.Len())

	item, ok := ix.Lookup(Key{Group: "NEO", Sequence: 42})
	require.True(t, ok)
	assert.Equal(t, "a1", item.ID)

	item, ok = ix.LookupKey("MH2-7")
	require.True(t, ok)
	assert.Equal(t, "a2", item.ID)

	_, ok = ix.LookupKey("NEO-1")
	assert.False(t, ok)
}

func TestIndexLookupName(t *testing.T) {
	ix := NewIndex(testItems())

	t.Run("first in catalog order wins", func(t *testing.T) {
		item, ok := ix.LookupName("Lightning Bolt")
		require.True(t, ok)
		assert.Equal(t, "NEO", item.Group)
	})

	t.Run("surrounding whitespace ignored", func(t *testing.T) {
		_, ok := ix.LookupName("  Lightning Bolt ")
		assert.True(t, ok)
	})

	t.Run("decomposed accents match", func(t *testing.T) {
		item, ok := ix.LookupName("Lo\u0301rien Revealed")
		require.True(t, ok)
		assert.Equal(t, "a2", item.ID)
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, ok := ix.LookupName("lightning bolt")
		assert.False(t, ok)
	})

	assert.Equal(t, []string{"Lightning Bolt", "L\u00f3rien Revealed"}, ix.Names())
}
