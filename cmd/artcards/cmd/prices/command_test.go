package prices

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards"
	"github.com/agentstation/artcards/internal/cmd/application"
	"github.com/agentstation/artcards/internal/state/sqlite"
	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/sheets/memory"
	"github.com/agentstation/artcards/pkg/sources"
)

type zeroSource struct{}

func (zeroSource) ID() sources.ID { return "zero" }

func (zeroSource) FetchPrice(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newApp(t *testing.T) (*application.Mock, *sqlite.Store) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	client, err := artcards.New(
		artcards.WithStore(memory.New()),
		artcards.WithState(db),
		artcards.WithPriceSource(zeroSource{}),
	)
	require.NoError(t, err)

	return &application.Mock{
		ClientFunc:       func() (artcards.Client, error) { return client, nil },
		OutputFormatFunc: func() string { return "json" },
	}, db
}

func run(t *testing.T, app *application.Mock, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestStatusCommand(t *testing.T) {
	app, db := newApp(t)
	require.NoError(t, db.Set(context.Background(), constants.StateKeyCursor, "3"))

	out, err := run(t, app, "status")
	require.NoError(t, err)

	var status artcards.PriceStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.InProgress)
	assert.Equal(t, 3, status.Cursor.Offset)
	assert.Zero(t, status.Rows)
}

func TestResetCommand(t *testing.T) {
	app, db := newApp(t)
	ctx := context.Background()
	require.NoError(t, db.Set(ctx, constants.StateKeyCursor, "7"))

	out, err := run(t, app, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "reset")

	_, found, err := db.Get(ctx, constants.StateKeyCursor)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRefreshCommandRequiresCatalog(t *testing.T) {
	app, _ := newApp(t)
	_, err := run(t, app, "refresh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog refresh")
}

func TestHistoryRunsCommand(t *testing.T) {
	app, _ := newApp(t)
	out, err := run(t, app, "history", "--runs")
	require.NoError(t, err)
	assert.JSONEq(t, "null", out)
}
