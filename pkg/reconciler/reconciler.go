// Package reconciler matches imported records against the catalog and the
// ownership ledgers and turns them into ledger mutations. It never creates
// ledger rows; unmatched input is counted, not fatal.
package reconciler

import (
	"context"
	"iter"
	"time"

	"github.com/agentstation/artcards/pkg/catalog"
	"github.com/agentstation/artcards/pkg/imports"
	"github.com/agentstation/artcards/pkg/ledger"
	"github.com/agentstation/artcards/pkg/logging"
)

// Reconciler turns import records into ledger mutations.
type Reconciler interface {
	// ReconcileText matches free-text records by display name. Unsigned
	// records are staged for review; signed records become quantity
	// mutations of the Signed ledger.
	ReconcileText(ctx context.Context, records iter.Seq[imports.Record], index *catalog.Index, signed *ledger.Ledger) (*TextResult, error)

	// ReconcileTable matches structured records by (set, number) key and
	// routes them to the ledger of their variant.
	ReconcileTable(ctx context.Context, records []imports.TabularRecord, unsigned, signed *ledger.Ledger) (*TableResult, error)
}

type reconciler struct {
	suggestions int
	maxDistance float64
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		suggestions: options.suggestions,
		maxDistance: options.maxDistance,
	}, nil
}

func (r *reconciler) ReconcileText(ctx context.Context, records iter.Seq[imports.Record], index *catalog.Index, signed *ledger.Ledger) (*TextResult, error) {
	logger := logging.FromContext(ctx)
	result := &TextResult{Metadata: Metadata{StartTime: time.Now()}}
	var names []string

	for rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Records++

		item, ok := index.LookupName(rec.DisplayName)
		if !ok {
			if names == nil && r.suggestions > 0 {
				names = index.Names()
			}
			u := Unmatched{Record: rec, Suggestions: suggest(rec.DisplayName, names, r.suggestions, r.maxDistance)}
			result.Unmatched = append(result.Unmatched, u)
			logger.Debug().
				Int("line", rec.Line).
				Str("name", rec.DisplayName).
				Strs("suggestions", u.Suggestions).
				Msg("No catalog item with this name")
			continue
		}

		if rec.Signed {
			row, found := -1, false
			if signed != nil {
				row, found = signed.FindName(rec.DisplayName)
			}
			if !found {
				result.MissingSigned++
				logger.Debug().Str("name", rec.DisplayName).Msg("No signed ledger row for item")
				continue
			}
			result.Mutations = append(result.Mutations, Mutation{
				Key:      signed.Rows[row].Key(),
				Variant:  ledger.Signed,
				Row:      row,
				Quantity: ledger.IntOf(rec.Quantity),
			})
			continue
		}

		result.Staged = append(result.Staged, Staged{
			Group:     item.Group,
			Sequence:  item.Sequence,
			Quantity:  rec.Quantity,
			UnitPrice: rec.UnitPrice,
		})
	}

	result.Metadata.finalize()
	logger.Info().
		Int("records", result.Records).
		Int("staged", len(result.Staged)).
		Int("signed", len(result.Mutations)).
		Int("unmatched", len(result.Unmatched)).
		Msg("Reconciled free-text import")
	return result, nil
}

func (r *reconciler) ReconcileTable(ctx context.Context, records []imports.TabularRecord, unsigned, signed *ledger.Ledger) (*TableResult, error) {
	logger := logging.FromContext(ctx)
	result := &TableResult{Metadata: Metadata{StartTime: time.Now()}}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Records++

		if !rec.Valid() {
			result.Invalid++
			continue
		}

		key := rec.Key()
		target := unsigned
		if rec.Signed {
			target = signed
		}
		row, ok := -1, false
		if target != nil {
			row, ok = target.Find(key)
		}
		if !ok {
			result.Dropped = append(result.Dropped, rec)
			logger.Debug().Str("key", key).Bool("signed", rec.Signed).Msg("No ledger row for key")
			continue
		}

		result.Mutations = append(result.Mutations, Mutation{
			Key:      key,
			Variant:  target.Variant,
			Row:      row,
			Price:    rec.UnitPrice,
			Quantity: rec.Quantity,
		})
	}

	result.Metadata.finalize()
	logger.Info().
		Int("records", result.Records).
		Int("applied", result.Applied()).
		Int("dropped", len(result.Dropped)).
		Int("invalid", result.Invalid).
		Msg("Reconciled structured import")
	return result, nil
}
