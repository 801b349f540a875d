// Package xlsx stores sheets in an .xlsx workbook on disk. The workbook is
// written back after every mutation.
package xlsx

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/logging"
	"github.com/agentstation/artcards/pkg/sheets"
)

// scratch is the temporary sheet used while clearing.
const scratch = "~clear"

// Store is a workbook-backed sheets.Store.
type Store struct {
	mu   sync.Mutex
	path string
	file *excelize.File
	// placeholder is the default sheet of a new workbook, reused by the
	// first Ensure.
	placeholder string
}

var _ sheets.Store = (*Store)(nil)

// Open opens the workbook at path, or starts a new one if it does not
// exist yet. A new workbook is only written on the first mutation.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, errors.WrapIO("open", path, err)
		}
		s.file = f
		return s, nil
	} else if !os.IsNotExist(err) {
		return nil, errors.WrapIO("stat", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}
	s.file = excelize.NewFile()
	s.placeholder = s.file.GetSheetName(0)
	logging.Debug().Str("path", path).Msg("Starting new workbook")
	return s, nil
}

// Path returns the workbook location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) exists(name string) bool {
	idx, err := s.file.GetSheetIndex(name)
	return err == nil && idx != -1
}

func (s *Store) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}

// Exists reports whether the sheet exists.
func (s *Store) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists(name), nil
}

// Ensure creates the sheet if absent.
func (s *Store) Ensure(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exists(name) {
		return false, nil
	}
	if s.placeholder != "" {
		if err := s.file.SetSheetName(s.placeholder, name); err != nil {
			return false, errors.WrapResource("create", "sheet", name, err)
		}
		s.placeholder = ""
	} else if _, err := s.file.NewSheet(name); err != nil {
		return false, errors.WrapResource("create", "sheet", name, err)
	}
	return true, s.save()
}

// Clear empties the sheet by swapping in a fresh sheet of the same name.
func (s *Store) Clear(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(name) {
		return sheets.ErrSheetNotFound(name)
	}
	if _, err := s.file.NewSheet(scratch); err != nil {
		return errors.WrapResource("clear", "sheet", name, err)
	}
	if err := s.file.DeleteSheet(name); err != nil {
		return errors.WrapResource("clear", "sheet", name, err)
	}
	if err := s.file.SetSheetName(scratch, name); err != nil {
		return errors.WrapResource("clear", "sheet", name, err)
	}
	return s.save()
}

// AppendRow writes values below the last row.
func (s *Store) AppendRow(_ context.Context, name string, values []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(name)
	if err != nil {
		return err
	}
	if err := s.writeRow(name, len(rows), 0, values); err != nil {
		return err
	}
	return s.save()
}

// WriteBlock writes values with their top-left cell at (row, col).
func (s *Store) WriteBlock(_ context.Context, name string, row, col int, values [][]any) error {
	if err := sheets.CheckPosition(row, col); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(name) {
		return sheets.ErrSheetNotFound(name)
	}
	for i, vals := range values {
		if err := s.writeRow(name, row+i, col, vals); err != nil {
			return err
		}
	}
	return s.save()
}

// Read returns every row as text.
func (s *Store) Read(_ context.Context, name string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows(name)
}

// FindRow returns the first row whose cell in col equals text.
func (s *Store) FindRow(_ context.Context, name string, col int, text string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(name)
	if err != nil {
		return -1, false, err
	}
	for i, cells := range rows {
		if col < len(cells) && cells[col] == text {
			return i, true, nil
		}
	}
	return -1, false, nil
}

// Close releases the workbook.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *Store) rows(name string) ([][]string, error) {
	if !s.exists(name) {
		return nil, sheets.ErrSheetNotFound(name)
	}
	rows, err := s.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.WrapResource("read", "sheet", name, err)
	}
	return rows, nil
}

func (s *Store) writeRow(name string, row, col int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return errors.WrapValidation("position", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = cellValue(v)
	}
	if err := s.file.SetSheetRow(name, cell, &cells); err != nil {
		return errors.WrapResource("write", "sheet", name, err)
	}
	return nil
}

// cellValue converts prices to numbers so the workbook can compute with them.
// Blank values become empty strings: a nil leaves no cell behind, and a
// later single-cell write into that gap lands out of column order.
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return x.InexactFloat64()
	case decimal.NullDecimal:
		if !x.Valid {
			return ""
		}
		return x.Decimal.InexactFloat64()
	}
	return v
}
