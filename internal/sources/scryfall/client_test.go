package scryfall

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/artcards/internal/transport"
	"github.com/agentstation/artcards/pkg/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(transport.New(transport.WithRateLimit(0, 0)), srv.URL), srv
}

func TestFetchCatalogPaginates(t *testing.T) {
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "":
			assert.Equal(t, "layout:art-series", r.URL.Query().Get("q"))
			assert.Equal(t, "released", r.URL.Query().Get("order"))
			assert.Equal(t, "asc", r.URL.Query().Get("dir"))
			fmt.Fprintf(w, `{"has_more":true,"next_page":%q,"total_cards":3,"data":[
				{"id":"b","name":"Bolt","set":"neo","collector_number":"12","artist":"A","released_at":"2022-02-18"},
				{"id":"a","name":"Sword","set":"neo","collector_number":"3a","artist":"","released_at":"2022-02-18"}]}`,
				srvURL+"/cards/search?page=2")
		case "2":
			fmt.Fprint(w, `{"has_more":false,"data":[
				{"id":"c","name":"Odd","set":"afr","collector_number":"★","artist":"C","released_at":"2021-07-23"}]}`)
		}
	})
	srvURL = srv.URL

	items, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "AFR", items[0].Group)
	assert.Equal(t, 0, items[0].Sequence)
	assert.Equal(t, "NEO", items[1].Group)
	assert.Equal(t, 3, items[1].Sequence)
	assert.Equal(t, UnknownArtist, items[1].Artist)
	assert.Equal(t, "Bolt", items[2].DisplayName)
	assert.Equal(t, 12, items[2].Sequence)
	assert.Equal(t, "2022-02-18", items[2].ReleaseDate)
}

func TestFetchCatalogFailureAborts(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	items, err := c.FetchCatalog(context.Background())
	require.Error(t, err)
	assert.Nil(t, items)
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestFetchCatalogHasMoreWithoutNextPage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"has_more":true,"data":[]}`)
	})

	_, err := c.FetchCatalog(context.Background())
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestFetchPrice(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cards/priced":
			fmt.Fprint(w, `{"id":"priced","prices":{"usd":"1.25"}}`)
		case "/cards/unpriced":
			fmt.Fprint(w, `{"id":"unpriced","prices":{"usd":null}}`)
		default:
			http.Error(w, `{"object":"error"}`, http.StatusNotFound)
		}
	})
	ctx := context.Background()

	price, err := c.FetchPrice(ctx, "priced")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.25").Equal(price))

	_, err = c.FetchPrice(ctx, "unpriced")
	assert.True(t, errors.IsNotFound(err))

	_, err = c.FetchPrice(ctx, "missing")
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = c.FetchPrice(ctx, " ")
	assert.True(t, errors.IsValidationError(err))
}
