package artcards

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/ledger"
	"github.com/agentstation/artcards/pkg/logging"
	"github.com/agentstation/artcards/pkg/state"
	pricesync "github.com/agentstation/artcards/pkg/sync"
)

// Compile-time interface check to ensure proper implementation.
var _ Pricer = (*client)(nil)

// Pricer drives the resumable price refresh of the Regular ledger.
type Pricer interface {
	// RefreshPrices runs one batch: it resumes at the persisted cursor,
	// refreshes up to the batch size of rows, writes their prices back and
	// persists the next cursor last. The batch that ends a pass rebuilds
	// the summary and returns the cursor to idle.
	RefreshPrices(ctx context.Context, opts ...pricesync.Option) (*pricesync.BatchResult, error)

	// PriceStatus reports the progress of the current pass.
	PriceStatus(ctx context.Context) (*PriceStatus, error)

	// ResetCursor abandons the pass in progress.
	ResetCursor(ctx context.Context) error

	// PriceHistory compares each item's latest market price with the
	// latest one recorded at least window earlier.
	PriceHistory(ctx context.Context, window time.Duration) ([]state.PriceChange, error)

	// RecentRuns returns the latest batch runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]state.Run, error)
}

// PriceStatus is the progress of the price refresh.
type PriceStatus struct {
	Cursor     pricesync.Cursor `json:"cursor" yaml:"cursor"`
	InProgress bool             `json:"in_progress" yaml:"in_progress"`
	Rows       int              `json:"rows" yaml:"rows"`
	LastPass   time.Time        `json:"last_pass,omitzero" yaml:"last_pass,omitempty"`
	LastRun    *state.Run       `json:"last_run,omitempty" yaml:"last_run,omitempty"`
}

// Remaining returns the number of rows left in the current pass.
func (s *PriceStatus) Remaining() int {
	if !s.InProgress {
		return 0
	}
	return max(s.Rows-s.Cursor.Offset, 0)
}

// RefreshPrices implements Pricer.
func (c *client) RefreshPrices(ctx context.Context, opts ...pricesync.Option) (*pricesync.BatchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o := pricesync.Defaults()
	o.BatchSize = c.options.batchSize
	o.Timeout = c.options.batchTimeout
	o.Apply(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if c.options.priceSource == nil {
		return nil, errors.NewConfigError("prices", "no price source configured", nil)
	}

	runID := uuid.NewString()
	ctx = logging.WithOperation(logging.WithRunID(ctx, runID), "price_refresh")
	logger := logging.FromContext(ctx)
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	if o.Restart {
		if err := c.deleteCursor(ctx); err != nil {
			return nil, err
		}
	}

	regular, err := c.readLedger(ctx, ledger.Unsigned, "price refresh")
	if err != nil {
		return nil, err
	}
	cursor, err := c.readCursor(ctx)
	if err != nil {
		return nil, err
	}

	if regular.Len() == 0 {
		logger.Info().Msg("Regular ledger is empty, nothing to refresh")
		if err := c.deleteCursor(ctx); err != nil {
			return nil, err
		}
		return &pricesync.BatchResult{RunID: runID, StartTime: time.Now(), Next: pricesync.Idle}, nil
	}

	logger.Info().
		Int("offset", cursor.Offset).
		Int("rows", regular.Len()).
		Int("batch_size", o.BatchSize).
		Msg("Starting price batch")

	result, next := pricesync.ProcessBatch(ctx, cursor, regular.Rows, o.BatchSize, c.options.priceSource)
	result.RunID = runID
	if result.Canceled {
		// Nothing is persisted; the same slice runs again next time.
		return result, errors.NewSyncError(result.End, errors.ErrCanceled)
	}

	changed := make([]int, 0, len(result.Items))
	for _, it := range result.Items {
		p := it.Pricing
		regular.Rows[it.Index].Pricing = &p
		changed = append(changed, it.Index)
	}
	if err := c.writePrices(ctx, regular, changed); err != nil {
		return nil, errors.NewSyncError(result.Start, err)
	}

	now := c.options.now()
	if err := c.writeStatus(ctx, result, now); err != nil {
		return nil, err
	}
	c.recordHistory(ctx, result, now)

	if result.Completed {
		signed, err := c.previousLedger(ctx, ledger.Signed)
		if err != nil {
			return nil, err
		}
		if signed == nil {
			signed = ledger.New(ledger.Signed, nil)
		}
		if _, err := c.writeSummary(ctx, regular, signed); err != nil {
			return nil, err
		}
		if err := c.options.state.Set(ctx, constants.StateKeyLastPass, now.UTC().Format(time.RFC3339)); err != nil {
			return nil, errors.WrapResource("set", "state", constants.StateKeyLastPass, err)
		}
	}

	// The cursor goes last so a failure above repeats this batch.
	if next.IsIdle() {
		err = c.deleteCursor(ctx)
	} else {
		err = c.options.state.Set(ctx, constants.StateKeyCursor, next.String())
	}
	if err != nil {
		return nil, errors.WrapResource("persist", "cursor", next.String(), err)
	}

	logger.Info().
		Int("start", result.Start).
		Int("end", result.End).
		Int("updated", result.Updated()).
		Int("failed", result.Failed()).
		Bool("completed", result.Completed).
		Dur("duration", result.Duration).
		Msg("Price batch finished")

	c.hooks.batchComplete(result)
	return result, nil
}

// writePrices rewrites the price block (Low through Total Value) of the
// given rows.
func (c *client) writePrices(ctx context.Context, l *ledger.Ledger, rows []int) error {
	for _, i := range rows {
		cells := [][]any{ledger.PriceCells(l.Rows[i])}
		if err := c.options.store.WriteBlock(ctx, ledger.SheetRegular, l.SheetRow(i), ledger.ColLow, cells); err != nil {
			return errors.WrapResource("write", "prices", l.Rows[i].Key(), err)
		}
	}
	return nil
}

func (c *client) writeStatus(ctx context.Context, result *pricesync.BatchResult, now time.Time) error {
	grid := [][]any{
		{"Last Updated", now.Format(constants.TimeFormatStatus)},
		{"Cards Updated", result.Updated()},
		{"Fetch Failures", result.Failed()},
		{"Cursor", result.Next.Offset},
		{"Run ID", result.RunID},
	}
	return c.replaceSheet(ctx, constants.SheetStatus, grid)
}

// recordHistory stores the batch's prices and run. History is auxiliary,
// so failures are logged and the batch still counts.
func (c *client) recordHistory(ctx context.Context, result *pricesync.BatchResult, now time.Time) {
	h := c.options.history
	if h == nil {
		return
	}
	logger := logging.FromContext(ctx)

	points := make([]state.PricePoint, 0, len(result.Items))
	for _, it := range result.Items {
		if !it.OK {
			continue
		}
		points = append(points, state.PricePoint{
			Key:        it.Key,
			ID:         it.ID,
			Market:     it.Pricing.Market,
			RecordedAt: now,
			RunID:      result.RunID,
		})
	}
	if len(points) > 0 {
		if err := h.RecordPrices(ctx, points); err != nil {
			logger.Warn().Err(err).Int("points", len(points)).Msg("Failed to record price history")
		}
	}

	run := state.Run{
		ID:         result.RunID,
		StartedAt:  result.StartTime,
		FinishedAt: result.StartTime.Add(result.Duration),
		Start:      result.Start,
		End:        result.End,
		Total:      result.Total,
		Updated:    result.Updated(),
		Failed:     result.Failed(),
		Completed:  result.Completed,
	}
	if err := h.RecordRun(ctx, run); err != nil {
		logger.Warn().Err(err).Msg("Failed to record batch run")
	}
}

func (c *client) readCursor(ctx context.Context) (pricesync.Cursor, error) {
	raw, found, err := c.options.state.Get(ctx, constants.StateKeyCursor)
	if err != nil {
		return pricesync.Idle, errors.WrapResource("get", "cursor", constants.StateKeyCursor, err)
	}
	cursor, err := pricesync.ParseCursor(raw, found)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("value", raw).Msg("Ignoring corrupt cursor, starting a new pass")
	}
	return cursor, nil
}

func (c *client) deleteCursor(ctx context.Context) error {
	if err := c.options.state.Delete(ctx, constants.StateKeyCursor); err != nil {
		return errors.WrapResource("delete", "cursor", constants.StateKeyCursor, err)
	}
	return nil
}

// PriceStatus implements Pricer.
func (c *client) PriceStatus(ctx context.Context) (*PriceStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cursor, err := c.readCursor(ctx)
	if err != nil {
		return nil, err
	}
	status := &PriceStatus{Cursor: cursor, InProgress: !cursor.IsIdle()}

	regular, err := c.previousLedger(ctx, ledger.Unsigned)
	if err != nil {
		return nil, err
	}
	if regular != nil {
		status.Rows = regular.Len()
	}

	raw, found, err := c.options.state.Get(ctx, constants.StateKeyLastPass)
	if err != nil {
		return nil, errors.WrapResource("get", "state", constants.StateKeyLastPass, err)
	}
	if found {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			status.LastPass = t
		}
	}

	if c.options.history != nil {
		runs, err := c.options.history.RecentRuns(ctx, 1)
		if err != nil {
			return nil, errors.WrapResource("read", "runs", "", err)
		}
		if len(runs) > 0 {
			status.LastRun = &runs[0]
		}
	}
	return status, nil
}

// ResetCursor implements Pricer.
func (c *client) ResetCursor(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.deleteCursor(ctx); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Msg("Price refresh cursor reset")
	return nil
}

// PriceHistory implements Pricer.
func (c *client) PriceHistory(ctx context.Context, window time.Duration) ([]state.PriceChange, error) {
	if c.options.history == nil {
		return nil, errors.NewConfigError("history", "no price history configured", nil)
	}
	if window <= 0 {
		window = constants.HistoryWindow
	}
	return c.options.history.PriceChanges(ctx, window)
}

// RecentRuns implements Pricer.
func (c *client) RecentRuns(ctx context.Context, limit int) ([]state.Run, error) {
	if c.options.history == nil {
		return nil, errors.NewConfigError("history", "no price history configured", nil)
	}
	return c.options.history.RecentRuns(ctx, limit)
}
