// Package storetest checks a sheets.Store implementation against the
// behavior the ledgers rely on.
package storetest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/sheets"
)

// Run exercises a fresh store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) sheets.Store) {
	ctx := context.Background()

	t.Run("ensure", func(t *testing.T) {
		s := newStore(t)
		ok, err := s.Exists(ctx, "Ledger")
		require.NoError(t, err)
		assert.False(t, ok)

		created, err := s.Ensure(ctx, "Ledger")
		require.NoError(t, err)
		assert.True(t, created)

		created, err = s.Ensure(ctx, "Ledger")
		require.NoError(t, err)
		assert.False(t, created)

		ok, err = s.Exists(ctx, "Ledger")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing sheet", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Read(ctx, "Nope")
		assert.True(t, errors.IsNotFound(err))
		assert.True(t, errors.IsNotFound(s.AppendRow(ctx, "Nope", []any{"x"})))
		assert.True(t, errors.IsNotFound(s.Clear(ctx, "Nope")))
		assert.True(t, errors.IsNotFound(s.WriteBlock(ctx, "Nope", 0, 0, [][]any{{"x"}})))
	})

	t.Run("append and read", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Ensure(ctx, "Ledger")
		require.NoError(t, err)
		require.NoError(t, s.AppendRow(ctx, "Ledger", []any{"Set", "Collector Number", "Price"}))
		require.NoError(t, s.AppendRow(ctx, "Ledger", []any{"NEO", 42, decimal.RequireFromString("4.5")}))

		rows, err := s.Read(ctx, "Ledger")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"Set", "Collector Number", "Price"}, rows[0])
		assert.Equal(t, []string{"NEO", "42", "4.5"}, rows[1])
	})

	t.Run("write block", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Ensure(ctx, "Ledger")
		require.NoError(t, err)
		require.NoError(t, s.WriteBlock(ctx, "Ledger", 0, 0, [][]any{
			{"a", "b", "c"},
			{"d", "e", "f"},
		}))
		require.NoError(t, s.WriteBlock(ctx, "Ledger", 1, 1, [][]any{{"E", nil}}))

		rows, err := s.Read(ctx, "Ledger")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "E", rows[1][1])
		assert.Equal(t, "d", rows[1][0])
		if len(rows[1]) > 2 {
			assert.Equal(t, "", rows[1][2])
		}

		assert.Error(t, s.WriteBlock(ctx, "Ledger", -1, 0, nil))
	})

	t.Run("write into blank cell after read", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, sheets.Replace(ctx, s, "Signed", [][]any{
			{"Set", "Number", "Name", "Quantity", "Total", "ID", "Listed"},
			{"NEO", 42, "Bolt", nil, nil, "id-bolt", nil},
		}))
		_, err := s.Read(ctx, "Signed")
		require.NoError(t, err)

		require.NoError(t, s.WriteBlock(ctx, "Signed", 1, 3, [][]any{{3}}))

		rows, err := s.Read(ctx, "Signed")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Greater(t, len(rows[1]), 5)
		assert.Equal(t, "3", rows[1][3])
		assert.Equal(t, "id-bolt", rows[1][5])
		if len(rows[1]) > 6 {
			assert.Equal(t, "", rows[1][6])
		}
	})

	t.Run("clear", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Ensure(ctx, "Ledger")
		require.NoError(t, err)
		require.NoError(t, s.AppendRow(ctx, "Ledger", []any{"x"}))
		require.NoError(t, s.Clear(ctx, "Ledger"))

		rows, err := s.Read(ctx, "Ledger")
		require.NoError(t, err)
		assert.Empty(t, rows)

		require.NoError(t, s.AppendRow(ctx, "Ledger", []any{"y"}))
		rows, err = s.Read(ctx, "Ledger")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"y"}}, rows)
	})

	t.Run("replace", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, sheets.Replace(ctx, s, "Summary", [][]any{{"old"}, {"old"}}))
		require.NoError(t, sheets.Replace(ctx, s, "Summary", [][]any{{"new"}}))
		rows, err := s.Read(ctx, "Summary")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"new"}}, rows)
	})

	t.Run("find row", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, sheets.Replace(ctx, s, "Ledger", [][]any{
			{"Set", "Name"},
			{"NEO", "Bolt"},
			{"MH2", "Bolt"},
		}))
		i, ok, err := s.FindRow(ctx, "Ledger", 1, "Bolt")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, i)

		_, ok, err = s.FindRow(ctx, "Ledger", 1, "bolt")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.FindRow(ctx, "Ledger", 9, "Bolt")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
