// Package memory is an in-memory sheets.Store for tests and dry runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/artcards/pkg/sheets"
)

type store struct {
	mu     sync.RWMutex
	order  []string
	sheets map[string][][]string
}

// New creates an empty in-memory store.
func New() sheets.Store {
	return &store{sheets: make(map[string][][]string)}
}

// NewWithSheets creates a store preloaded with sheets.
func NewWithSheets(data map[string][][]string) sheets.Store {
	s := &store{sheets: make(map[string][][]string, len(data))}
	for name, grid := range data {
		s.order = append(s.order, name)
		s.sheets[name] = clone(grid)
	}
	slices.Sort(s.order)
	return s
}

func (s *store) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sheets[name]
	return ok, nil
}

func (s *store) Ensure(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sheets[name]; ok {
		return false, nil
	}
	s.sheets[name] = nil
	s.order = append(s.order, name)
	return true, nil
}

func (s *store) Clear(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sheets[name]; !ok {
		return sheets.ErrSheetNotFound(name)
	}
	s.sheets[name] = nil
	return nil
}

func (s *store) AppendRow(_ context.Context, name string, values []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid, ok := s.sheets[name]
	if !ok {
		return sheets.ErrSheetNotFound(name)
	}
	s.sheets[name] = append(grid, format(values))
	return nil
}

func (s *store) WriteBlock(_ context.Context, name string, row, col int, values [][]any) error {
	if err := sheets.CheckPosition(row, col); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grid, ok := s.sheets[name]
	if !ok {
		return sheets.ErrSheetNotFound(name)
	}
	for i, vals := range values {
		r := row + i
		for len(grid) <= r {
			grid = append(grid, nil)
		}
		cells := grid[r]
		for len(cells) < col+len(vals) {
			cells = append(cells, "")
		}
		for j, v := range vals {
			cells[col+j] = sheets.FormatCell(v)
		}
		grid[r] = cells
	}
	s.sheets[name] = grid
	return nil
}

func (s *store) Read(_ context.Context, name string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grid, ok := s.sheets[name]
	if !ok {
		return nil, sheets.ErrSheetNotFound(name)
	}
	return clone(grid), nil
}

func (s *store) FindRow(_ context.Context, name string, col int, text string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grid, ok := s.sheets[name]
	if !ok {
		return -1, false, sheets.ErrSheetNotFound(name)
	}
	for i, cells := range grid {
		if col < len(cells) && cells[col] == text {
			return i, true, nil
		}
	}
	return -1, false, nil
}

func (s *store) Close() error {
	return nil
}

// Names returns the sheet names in creation order.
func Names(st sheets.Store) []string {
	s, ok := st.(*store)
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

func format(values []any) []string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = sheets.FormatCell(v)
	}
	return cells
}

func clone(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = slices.Clone(row)
	}
	return out
}
