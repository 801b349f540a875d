// Package sheets defines the tabular storage the ledgers live in: named
// grids of cells that can be created, cleared, appended to and read back.
// Every call is a full round trip; callers never rely on caching.
package sheets

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/agentstation/artcards/pkg/errors"
)

// Store is a workbook of named sheets. Row and column positions are
// 0-based; row 0 is the header row.
type Store interface {
	// Exists reports whether a sheet exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Ensure creates the sheet if it is absent and reports whether it did.
	Ensure(ctx context.Context, name string) (bool, error)

	// Clear removes every cell of an existing sheet.
	Clear(ctx context.Context, name string) error

	// AppendRow writes values below the last row of the sheet.
	AppendRow(ctx context.Context, name string, values []any) error

	// WriteBlock writes a rectangular block with its top-left cell at
	// (row, col).
	WriteBlock(ctx context.Context, name string, row, col int, values [][]any) error

	// Read returns every row of the sheet as text.
	Read(ctx context.Context, name string) ([][]string, error)

	// FindRow returns the first row whose cell in col equals text.
	FindRow(ctx context.Context, name string, col int, text string) (int, bool, error)

	// Close releases the store.
	Close() error
}

// Replace clears (or creates) a sheet and writes grid from its first row.
func Replace(ctx context.Context, s Store, name string, grid [][]any) error {
	created, err := s.Ensure(ctx, name)
	if err != nil {
		return err
	}
	if !created {
		if err := s.Clear(ctx, name); err != nil {
			return err
		}
	}
	if len(grid) == 0 {
		return nil
	}
	return s.WriteBlock(ctx, name, 0, 0, grid)
}

// FormatCell renders a cell value the way it reads back from storage.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case decimal.Decimal:
		return x.String()
	case decimal.NullDecimal:
		if !x.Valid {
			return ""
		}
		return x.Decimal.String()
	case interface{ String() string }:
		return x.String()
	}
	return ""
}

// ErrSheetNotFound returns the error for a missing sheet.
func ErrSheetNotFound(name string) error {
	return &errors.NotFoundError{Resource: "sheet", ID: name}
}

// CheckPosition validates a 0-based cell position.
func CheckPosition(row, col int) error {
	if row < 0 || col < 0 {
		return &errors.ValidationError{
			Field:   "position",
			Value:   [2]int{row, col},
			Message: "row and column must be non-negative",
		}
	}
	return nil
}
