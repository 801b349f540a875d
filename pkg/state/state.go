// Package state persists the small amount of scalar state that must
// survive between invocations (the price refresh cursor) and the price
// history behind weekly change reports.
package state

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Store gets, sets and deletes named string values.
type Store interface {
	// Get returns the value of key and whether it is set.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the store.
	Close() error
}

// PricePoint is one successful market price observation.
type PricePoint struct {
	Key        string          `json:"key" yaml:"key"`
	ID         string          `json:"id" yaml:"id"`
	Market     decimal.Decimal `json:"market" yaml:"market"`
	RecordedAt time.Time       `json:"recorded_at" yaml:"recorded_at"`
	RunID      string          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// PriceChange compares an item's latest price with the latest one at
// least a window older. Previous is invalid when no such price exists.
type PriceChange struct {
	Key        string              `json:"key" yaml:"key"`
	ID         string              `json:"id" yaml:"id"`
	Current    decimal.Decimal     `json:"current" yaml:"current"`
	CurrentAt  time.Time           `json:"current_at" yaml:"current_at"`
	Previous   decimal.NullDecimal `json:"previous" yaml:"previous"`
	PreviousAt time.Time           `json:"previous_at,omitzero" yaml:"previous_at,omitempty"`
}

// Delta returns Current - Previous, or false without a previous price.
func (c PriceChange) Delta() (decimal.Decimal, bool) {
	if !c.Previous.Valid {
		return decimal.Zero, false
	}
	return c.Current.Sub(c.Previous.Decimal), true
}

// Percent returns the relative change in percent, or false when there is
// no previous price or it was zero.
func (c PriceChange) Percent() (decimal.Decimal, bool) {
	d, ok := c.Delta()
	if !ok || c.Previous.Decimal.IsZero() {
		return decimal.Zero, false
	}
	return d.Div(c.Previous.Decimal).Mul(decimal.NewFromInt(100)).Round(2), true
}

// Run records one price batch invocation.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Start      int       `json:"start" yaml:"start"`
	End        int       `json:"end" yaml:"end"`
	Total      int       `json:"total" yaml:"total"`
	Updated    int       `json:"updated" yaml:"updated"`
	Failed     int       `json:"failed" yaml:"failed"`
	Completed  bool      `json:"completed" yaml:"completed"`
}

// History keeps price observations and the batch run journal.
type History interface {
	RecordPrices(ctx context.Context, points []PricePoint) error
	PriceChanges(ctx context.Context, window time.Duration) ([]PriceChange, error)
	RecordRun(ctx context.Context, run Run) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
}

// ComputeChanges derives per-item changes from raw points, ordered by key.
// Points of one key are taken in slice order, later points being newer.
func ComputeChanges(points []PricePoint, window time.Duration) []PriceChange {
	byKey := make(map[string][]PricePoint)
	var keys []string
	for _, p := range points {
		if _, ok := byKey[p.Key]; !ok {
			keys = append(keys, p.Key)
		}
		byKey[p.Key] = append(byKey[p.Key], p)
	}
	slices.Sort(keys)

	changes := make([]PriceChange, 0, len(keys))
	for _, key := range keys {
		pts := byKey[key]
		latest := pts[len(pts)-1]
		c := PriceChange{Key: key, ID: latest.ID, Current: latest.Market, CurrentAt: latest.RecordedAt}
		cutoff := latest.RecordedAt.Add(-window)
		for i := len(pts) - 2; i >= 0; i-- {
			if !pts[i].RecordedAt.After(cutoff) {
				c.Previous = decimal.NewNullDecimal(pts[i].Market)
				c.PreviousAt = pts[i].RecordedAt
				break
			}
		}
		changes = append(changes, c)
	}
	return changes
}

// SortRunsNewestFirst orders runs by start time, newest first.
func SortRunsNewestFirst(runs []Run) {
	slices.SortStableFunc(runs, func(a, b Run) int {
		return cmp.Compare(b.StartedAt.UnixNano(), a.StartedAt.UnixNano())
	})
}
