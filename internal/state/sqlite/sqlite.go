// Package sqlite persists state and price history in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/state"
)

// Store implements state.Store and state.History on SQLite.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ state.Store   = (*Store)(nil)
	_ state.History = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// ":memory:" databases are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("open", path, err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value of key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.WrapResource("read", "state", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	return errors.WrapResource("update", "state", key, err)
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key)
	return errors.WrapResource("delete", "state", key, err)
}

// RecordPrices appends price observations in one transaction.
func (s *Store) RecordPrices(ctx context.Context, points []state.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("update", "price history", "", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO price_history (item_key, item_id, market, recorded_at, run_id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.WrapResource("update", "price history", "", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range points {
		runID := sql.NullString{String: p.RunID, Valid: p.RunID != ""}
		if _, err := stmt.ExecContext(ctx, p.Key, p.ID, p.Market.String(), p.RecordedAt.UnixMilli(), runID); err != nil {
			return errors.WrapResource("update", "price history", p.Key, err)
		}
	}
	return errors.WrapResource("update", "price history", "", tx.Commit())
}

// PriceChanges compares each item's latest price with its latest price at
// least window older.
func (s *Store) PriceChanges(ctx context.Context, window time.Duration) ([]state.PriceChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.item_key, c.item_id, c.market, c.recorded_at,
		       p.market, p.recorded_at
		FROM price_history c
		JOIN (SELECT item_key, MAX(id) AS id FROM price_history GROUP BY item_key) l
		  ON c.id = l.id
		LEFT JOIN price_history p
		  ON p.id = (
		    SELECT id FROM price_history
		    WHERE item_key = c.item_key AND recorded_at <= c.recorded_at - ?
		    ORDER BY recorded_at DESC, id DESC
		    LIMIT 1
		  )
		ORDER BY c.item_key`, window.Milliseconds())
	if err != nil {
		return nil, errors.WrapResource("read", "price history", "", err)
	}
	defer func() { _ = rows.Close() }()

	var changes []state.PriceChange
	for rows.Next() {
		var (
			c          state.PriceChange
			current    string
			currentAt  int64
			previous   sql.NullString
			previousAt sql.NullInt64
		)
		if err := rows.Scan(&c.Key, &c.ID, &current, &currentAt, &previous, &previousAt); err != nil {
			return nil, errors.WrapResource("read", "price history", "", err)
		}
		c.Current, err = decimal.NewFromString(current)
		if err != nil {
			return nil, errors.WrapParse("decimal", "price_history", err)
		}
		c.CurrentAt = time.UnixMilli(currentAt)
		if previous.Valid {
			d, err := decimal.NewFromString(previous.String)
			if err != nil {
				return nil, errors.WrapParse("decimal", "price_history", err)
			}
			c.Previous = decimal.NewNullDecimal(d)
			c.PreviousAt = time.UnixMilli(previousAt.Int64)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("read", "price history", "", err)
	}
	return changes, nil
}

// RecordRun stores a batch run.
func (s *Store) RecordRun(ctx context.Context, run state.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batch_runs (id, started_at, finished_at, start_row, end_row, total_rows, updated, failed, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		run.Start, run.End, run.Total, run.Updated, run.Failed, run.Completed,
	)
	return errors.WrapResource("create", "batch run", run.ID, err)
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]state.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, start_row, end_row, total_rows, updated, failed, completed
		 FROM batch_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.WrapResource("read", "batch runs", "", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []state.Run
	for rows.Next() {
		var (
			r                 state.Run
			started, finished int64
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Start, &r.End, &r.Total, &r.Updated, &r.Failed, &r.Completed); err != nil {
			return nil, errors.WrapResource("read", "batch runs", "", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("read", "batch runs", "", err)
	}
	return runs, nil
}
