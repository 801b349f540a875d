// Package sources defines the external data sources the inventory is
// built from: a catalog listing and a per-item price lookup.
package sources

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/catalog"
)

// ID identifies a source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Scryfall is the default catalog and price source.
const Scryfall ID = "scryfall"

// CatalogSource lists every art card in the catalog.
type CatalogSource interface {
	ID() ID
	// FetchCatalog returns all items sorted by (group, sequence). Any
	// failure aborts the listing.
	FetchCatalog(ctx context.Context) ([]catalog.Item, error)
}

// PriceSource looks up the current market price of one item by external id.
type PriceSource interface {
	ID() ID
	FetchPrice(ctx context.Context, id string) (decimal.Decimal, error)
}
