package artcards

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/imports"
	"github.com/agentstation/artcards/pkg/ledger"
	"github.com/agentstation/artcards/pkg/logging"
	"github.com/agentstation/artcards/pkg/reconciler"
)

// Compile-time interface check to ensure proper implementation.
var _ Importer = (*client)(nil)

// Importer reconciles imported lists into the ledgers.
type Importer interface {
	// ParseImport reads the pasted list on the Raw Import sheet. Regular
	// cards are staged on the Inventory Import sheet for review; signed
	// cards update quantities on the Signed ledger directly. When Raw
	// Import does not exist it is created and ErrRawImportCreated returned.
	ParseImport(ctx context.Context) (*reconciler.TextResult, error)

	// ApplyImport merges the Inventory Import sheet into both ledgers by
	// (set, collector number). Unresolvable headers abort before any write.
	ApplyImport(ctx context.Context) (*reconciler.TableResult, error)

	// ImportCSV replaces the Inventory Import sheet with a CSV or .xlsx
	// export and applies it.
	ImportCSV(ctx context.Context, path string, r io.Reader) (*reconciler.TableResult, error)
}

// ParseImport implements Importer.
func (c *client) ParseImport(ctx context.Context) (*reconciler.TextResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = logging.WithOperation(ctx, "import_parse")
	store := c.options.store

	created, err := store.Ensure(ctx, constants.SheetRaw)
	if err != nil {
		return nil, errors.WrapResource("create", "sheet", constants.SheetRaw, err)
	}
	if created {
		if err := store.AppendRow(ctx, constants.SheetRaw, []any{constants.RawImportHint}); err != nil {
			return nil, errors.WrapResource("write", "sheet", constants.SheetRaw, err)
		}
		logging.FromContext(ctx).Info().Str("sheet", constants.SheetRaw).Msg("Created raw import sheet")
		return nil, errors.ErrRawImportCreated
	}

	regular, err := c.readLedger(ctx, ledger.Unsigned, "import parse")
	if err != nil {
		return nil, err
	}
	signed, err := c.previousLedger(ctx, ledger.Signed)
	if err != nil {
		return nil, err
	}

	raw, err := store.Read(ctx, constants.SheetRaw)
	if err != nil {
		return nil, errors.WrapResource("read", "sheet", constants.SheetRaw, err)
	}
	var cells []string
	for _, row := range raw {
		cells = append(cells, row...)
	}

	result, err := c.reconciler.ReconcileText(ctx, imports.ParseLines(cells), regular.Index(), signed)
	if err != nil {
		return nil, err
	}

	staging := make([][]any, 0, len(result.Staged)+1)
	staging = append(staging, stringCells(imports.StagingHeader))
	for _, s := range result.Staged {
		staging = append(staging, s.Cells())
	}
	if err := c.replaceSheet(ctx, constants.SheetStaging, staging); err != nil {
		return nil, err
	}

	if signed != nil && len(result.Mutations) > 0 {
		changed := reconciler.Apply(signed, result.Mutations)
		if err := c.writeSignedQuantities(ctx, signed, changed); err != nil {
			return nil, err
		}
		if _, err := c.writeSummary(ctx, regular, signed); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// writeSignedQuantities locates each changed Signed row by its card name,
// the first exact match on the sheet, and rewrites its quantity cell.
func (c *client) writeSignedQuantities(ctx context.Context, signed *ledger.Ledger, rows []int) error {
	store := c.options.store
	for _, i := range rows {
		r := signed.Rows[i]
		at, found, err := store.FindRow(ctx, ledger.SheetSigned, ledger.ColName, r.Item.DisplayName)
		if err != nil {
			return errors.WrapResource("find", "row", r.Key(), err)
		}
		if !found {
			at = signed.SheetRow(i)
		}
		if err := store.WriteBlock(ctx, ledger.SheetSigned, at, ledger.ColQuantity, [][]any{{r.Quantity.Int}}); err != nil {
			return errors.WrapResource("write", "quantity", r.Key(), err)
		}
	}
	return nil
}

// ApplyImport implements Importer.
func (c *client) ApplyImport(ctx context.Context) (*reconciler.TableResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	grid, err := c.readRequired(ctx, constants.SheetStaging, "import apply", "run import parse or import csv first")
	if err != nil {
		return nil, err
	}
	return c.applyTable(logging.WithOperation(ctx, "import_apply"), grid)
}

// ImportCSV implements Importer.
func (c *client) ImportCSV(ctx context.Context, path string, r io.Reader) (*reconciler.TableResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = logging.WithOperation(ctx, "import_csv")
	grid, err := imports.ReadFile(path, r)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, errors.NewValidationError("file", path, "import file has no rows")
	}
	// Reject a table the apply step could not read before replacing
	// whatever is staged.
	if _, err := imports.Resolve(grid[0], imports.DefaultSynonyms); err != nil {
		return nil, withSheet(err, path)
	}

	rows := make([][]any, len(grid))
	for i, row := range grid {
		rows[i] = stringCells(row)
	}
	if err := c.replaceSheet(ctx, constants.SheetStaging, rows); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Str("file", path).Int("rows", len(grid)-1).Msg("Staged import file")

	return c.applyTable(ctx, grid)
}

func (c *client) applyTable(ctx context.Context, grid [][]string) (*reconciler.TableResult, error) {
	records, _, err := imports.DecodeTable(grid, imports.DefaultSynonyms)
	if err != nil {
		return nil, withSheet(err, constants.SheetStaging)
	}

	regular, err := c.readLedger(ctx, ledger.Unsigned, "import apply")
	if err != nil {
		return nil, err
	}
	signed, err := c.readLedger(ctx, ledger.Signed, "import apply")
	if err != nil {
		return nil, err
	}

	result, err := c.reconciler.ReconcileTable(ctx, records, regular, signed)
	if err != nil {
		return nil, err
	}

	if err := c.writeRows(ctx, regular, reconciler.Apply(regular, result.Mutations)); err != nil {
		return nil, err
	}
	if err := c.writeRows(ctx, signed, reconciler.Apply(signed, result.Mutations)); err != nil {
		return nil, err
	}
	if _, err := c.writeSummary(ctx, regular, signed); err != nil {
		return nil, err
	}
	return result, nil
}

// withSheet names the table a schema error was raised for.
func withSheet(err error, sheet string) error {
	var schemaErr *errors.SchemaError
	if stderrors.As(err, &schemaErr) && schemaErr.Sheet == "" {
		schemaErr.Sheet = sheet
	}
	return err
}

func stringCells(row []string) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
