package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/pkg/state"
)

func TestStoreValues(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Get(ctx, "currentIndex")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "currentIndex", "200"))
	v, ok, err := s.Get(ctx, "currentIndex")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "200", v)

	require.NoError(t, s.Delete(ctx, "currentIndex"))
	require.NoError(t, s.Delete(ctx, "currentIndex"))
	_, ok, _ = s.Get(ctx, "currentIndex")
	assert.False(t, ok)
	assert.NoError(t, s.Close())
}

func TestStoreHistory(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	require.NoError(t, s.RecordPrices(ctx, []state.PricePoint{
		{Key: "NEO-42", Market: decimal.NewFromInt(1), RecordedAt: now.Add(-8 * 24 * time.Hour)},
		{Key: "NEO-42", Market: decimal.NewFromInt(2), RecordedAt: now},
	}))
	changes, err := s.PriceChanges(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	d, ok := changes[0].Delta()
	require.True(t, ok)
	assert.Equal(t, "1", d.String())

	for i := range 3 {
		require.NoError(t, s.RecordRun(ctx, state.Run{ID: string(rune('a' + i)), StartedAt: now.Add(time.Duration(i) * time.Minute)}))
	}
	runs, err := s.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}
