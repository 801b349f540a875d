// Package constants provides shared constants used throughout the artcards codebase.
// This includes timeouts, batch sizes, sheet names, persisted state keys and the
// marker strings recognized in pasted price lists.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the catalog API
	DefaultHTTPTimeout = 30 * time.Second

	// CatalogRefreshTimeout bounds a full paginated catalog listing
	CatalogRefreshTimeout = 10 * time.Minute

	// BatchTimeout is the execution-time ceiling of a single price batch invocation
	BatchTimeout = 6 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout is how long the scheduler waits for a running batch on stop
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Price refresh constants
const (
	// PriceBatchSize is the number of catalog rows refreshed per invocation.
	// 200 calls at the default rate fit inside BatchTimeout with headroom.
	PriceBatchSize = 200

	// DefaultRateLimit is the sustained request rate against the pricing API (req/s)
	DefaultRateLimit = 10.0

	// BurstSize is the token bucket burst size for rate limiting
	BurstSize = 1

	// DefaultSchedule is the cron spec used to re-invoke the batch job
	DefaultSchedule = "@every 5m"

	// HistoryWindow is the look-back used for price change reports
	HistoryWindow = 7 * 24 * time.Hour
)

// Sheet names of the workbook
const (
	SheetRegular  = "Regular Art Cards"
	SheetSigned   = "Signed Art Cards"
	SheetRaw      = "Raw Import"
	SheetStaging  = "Inventory Import"
	SheetSummary  = "Collection Summary"
	SheetStatus   = "Status"
	RawImportHint = "Paste your price list here"
)

// Persisted state keys
const (
	// StateKeyCursor holds the price refresh offset of the current pass
	StateKeyCursor = "currentIndex"

	// StateKeyLastPass holds the RFC3339 time of the last completed pass
	StateKeyLastPass = "lastPassCompleted"
)

// Import markers recognized in pasted price lists
const (
	// ItemMarker identifies a line that describes an art card
	ItemMarker = "Art Card"

	// SignedMarker identifies the gold-stamped signature variant (case-sensitive)
	SignedMarker = "Gold-Stamped"
)

// External endpoints
const (
	// ScryfallAPIURL is the base URL of the Scryfall API
	ScryfallAPIURL = "https://api.scryfall.com"

	// ArtSeriesQuery selects every art-series card
	ArtSeriesQuery = "layout:art-series"

	// DefaultUserAgent identifies artcards to remote APIs
	DefaultUserAgent = "artcards/1.0"
)

// Format constants
const (
	// TimeFormatStatus is the timestamp format written to the Status sheet
	TimeFormatStatus = "2006-01-02 15:04 MST"

	// DateFormat is the release date format used by the catalog API
	DateFormat = "2006-01-02"
)
