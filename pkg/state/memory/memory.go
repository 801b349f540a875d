// Package memory keeps state and price history in process memory.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/agentstation/artcards/pkg/state"
)

// Store is an in-memory state.Store and state.History.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	points []state.PricePoint
	runs   []state.Run
}

var (
	_ state.Store   = (*Store)(nil)
	_ state.History = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value of key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// RecordPrices appends price observations.
func (s *Store) RecordPrices(_ context.Context, points []state.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, points...)
	return nil
}

// PriceChanges reports the change of every recorded item over window.
func (s *Store) PriceChanges(_ context.Context, window time.Duration) ([]state.PriceChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return state.ComputeChanges(s.points, window), nil
}

// RecordRun appends a run to the journal.
func (s *Store) RecordRun(_ context.Context, run state.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(_ context.Context, limit int) ([]state.Run, error) {
	s.mu.RLock()
	runs := slices.Clone(s.runs)
	s.mu.RUnlock()
	state.SortRunsNewestFirst(runs)
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
