// Package scryfall implements the catalog and price sources on top of the
// public Scryfall API.
package scryfall

import (
	"context"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/internal/transport"
	"github.com/agentstation/artcards/pkg/catalog"
	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/logging"
	"github.com/agentstation/artcards/pkg/sources"
)

// UnknownArtist is recorded when the API leaves the artist blank.
const UnknownArtist = "Unknown"

// Client talks to the Scryfall API.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// New creates a Scryfall client. An empty baseURL selects the public API.
func New(tc *transport.Client, baseURL string) *Client {
	if tc == nil {
		tc = transport.New()
	}
	if baseURL == "" {
		baseURL = constants.ScryfallAPIURL
	}
	return &Client{
		transport: tc,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// ID returns the source identifier.
func (c *Client) ID() sources.ID {
	return sources.Scryfall
}

type searchPage struct {
	Data       []card `json:"data"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page"`
	TotalCards int    `json:"total_cards"`
}

type card struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Set             string `json:"set"`
	CollectorNumber string `json:"collector_number"`
	Artist          string `json:"artist"`
	ReleasedAt      string `json:"released_at"`
	Prices          prices `json:"prices"`
}

type prices struct {
	USD *string `json:"usd"`
}

// SearchURL returns the first page URL of the art-series listing.
func (c *Client) SearchURL() string {
	q := url.Values{}
	q.Set("q", constants.ArtSeriesQuery)
	q.Set("order", "released")
	q.Set("dir", "asc")
	return c.baseURL + "/cards/search?" + q.Encode()
}

// FetchCatalog pages through every art-series card and returns the items
// sorted by (group, sequence). A failure on any page aborts the listing.
func (c *Client) FetchCatalog(ctx context.Context) ([]catalog.Item, error) {
	logger := logging.FromContext(ctx)

	var items []catalog.Item
	next := c.SearchURL()
	pages := 0
	for next != "" {
		if err := ctx.Err(); err != nil {
			return nil, errors.ErrCanceled
		}
		var page searchPage
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		pages++
		for _, cd := range page.Data {
			items = append(items, toItem(cd))
		}
		logger.Debug().
			Int("page", pages).
			Int("cards", len(page.Data)).
			Int("total", page.TotalCards).
			Msg("Fetched catalog page")

		next = ""
		if page.HasMore {
			if page.NextPage == "" {
				return nil, errors.NewAPIError(sources.Scryfall.String(), 0, "has_more set without next_page")
			}
			next = page.NextPage
		}
	}

	catalog.Sort(items)
	logger.Info().Int("items", len(items)).Int("pages", pages).Msg("Catalog fetched")
	return items, nil
}

// FetchPrice returns the current USD market price of one card. A card
// without a USD price is an error.
func (c *Client) FetchPrice(ctx context.Context, id string) (decimal.Decimal, error) {
	if strings.TrimSpace(id) == "" {
		return decimal.Zero, errors.NewValidationError("id", id, "card id is empty")
	}
	var cd card
	if err := c.get(ctx, c.baseURL+"/cards/"+url.PathEscape(id), &cd); err != nil {
		return decimal.Zero, err
	}
	if cd.Prices.USD == nil || strings.TrimSpace(*cd.Prices.USD) == "" {
		return decimal.Zero, errors.NewNotFoundError("usd price", id)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(*cd.Prices.USD))
	if err != nil {
		return decimal.Zero, errors.NewParseError("decimal", id, "invalid usd price", err)
	}
	return price, nil
}

func (c *Client) get(ctx context.Context, u string, target any) error {
	resp, err := c.transport.Get(ctx, u)
	if err != nil {
		return err
	}
	return transport.DecodeResponse(resp, sources.Scryfall.String(), target)
}

func toItem(cd card) catalog.Item {
	seq, _ := catalog.ParseSequence(cd.CollectorNumber)
	artist := strings.TrimSpace(cd.Artist)
	if artist == "" {
		artist = UnknownArtist
	}
	return catalog.Item{
		ID:          cd.ID,
		Group:       strings.ToUpper(cd.Set),
		Sequence:    seq,
		DisplayName: cd.Name,
		Artist:      artist,
		ReleaseDate: cd.ReleasedAt,
	}
}
