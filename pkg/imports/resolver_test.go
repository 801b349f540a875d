package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/pkg/errors"
)

func TestResolve(t *testing.T) {
	t.Run("staging header", func(t *testing.T) {
		cols, err := Resolve(StagingHeader, DefaultSynonyms)
		require.NoError(t, err)
		assert.Equal(t, Columns{Code: 0, Number: 1, Signature: 2, Quantity: 3, Price: 4}, cols)
	})

	t.Run("synonyms and case", func(t *testing.T) {
		header := []string{"QTY", "Card", "code abbr", "#", "Gold-Stamped Signature", "TCG Market Price"}
		cols, err := Resolve(header, DefaultSynonyms)
		require.NoError(t, err)
		assert.Equal(t, 2, cols.Code)
		assert.Equal(t, 3, cols.Number)
		assert.Equal(t, 4, cols.Signature)
		assert.Equal(t, 5, cols.Price)
		assert.Equal(t, 0, cols.Quantity)
	})

	t.Run("first matching cell wins", func(t *testing.T) {
		header := []string{"Set", "Number", "Signed", "Low Price", "Market Price"}
		cols, err := Resolve(header, DefaultSynonyms)
		require.NoError(t, err)
		assert.Equal(t, 3, cols.Price)
	})

	t.Run("quantity optional", func(t *testing.T) {
		cols, err := Resolve([]string{"Set", "Number", "Signature", "Price"}, DefaultSynonyms)
		require.NoError(t, err)
		assert.Equal(t, -1, cols.Quantity)
		assert.Equal(t, -1, cols.Index(FieldQuantity))
	})

	t.Run("missing mandatory fields", func(t *testing.T) {
		_, err := Resolve([]string{"Set", "Quantity"}, DefaultSynonyms)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)

		var schemaErr *errors.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"number", "signature", "price"}, schemaErr.Missing)
		assert.Contains(t, err.Error(), "number, signature, price")
	})
}

func TestFindColumn(t *testing.T) {
	assert.Equal(t, 1, FindColumn([]string{"Name", "Set Code"}, []string{"code"}))
	assert.Equal(t, -1, FindColumn([]string{"Name"}, []string{"code"}))
	assert.Equal(t, -1, FindColumn(nil, []string{"code"}))
}
