package imports

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/artcards/pkg/errors"
)

// ReadCSV reads a pasted or exported CSV into rows. Ragged rows and stray
// quotes are tolerated; exports from TCGplayer and MTGStocks have both.
func ReadCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "csv", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewValidationError("csv", nil, "no CSV data")
	}

	rdr := csv.NewReader(bytes.NewReader(data))
	rdr.FieldsPerRecord = -1
	rdr.LazyQuotes = true
	rdr.TrimLeadingSpace = true
	rows, err := rdr.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", "", err)
	}
	return rows, nil
}

// ReadWorkbook reads the first sheet of an .xlsx export.
func ReadWorkbook(r io.Reader) ([][]string, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WrapParse("xlsx", "", err)
	}
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows(xl.GetSheetName(0))
	if err != nil {
		return nil, errors.WrapParse("xlsx", "", err)
	}
	return rows, nil
}

// ReadLegacyWorkbook reads the first sheet of a BIFF .xls export.
func ReadLegacyWorkbook(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "xls", err)
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, errors.WrapParse("xls", "", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.NewValidationError("xls", nil, "workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// ReadFile picks a reader by file extension: .xlsx and .xls files are
// opened as workbooks, anything else as CSV.
func ReadFile(path string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadWorkbook(r)
	case ".xls":
		return ReadLegacyWorkbook(r)
	default:
		return ReadCSV(r)
	}
}
