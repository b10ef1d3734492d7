// Package xlio reads input spreadsheets into tables and writes styled output
// spreadsheets. It supports .xlsx and .xlsm via excelize and legacy .xls via
// a BIFF reader; legacy files have no reliable header metadata, so the header
// row is located heuristically before the table is built.
package xlio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/javajack/xlform"
)

// ErrUnsupportedFormat is returned for file extensions the reader does not
// recognize.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrNotFound is returned when the input file does not exist.
var ErrNotFound = errors.New("file not found")

// SupportedExtensions are the input formats the reader accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xls"}

// Reader reads a spreadsheet file into a table.
type Reader struct {
	// HeaderScanRows bounds the header-location scan for legacy files.
	// Zero means the default window.
	HeaderScanRows int
	// Diag receives warnings (header fallback, unreadable cells). Nil
	// allocates a discard recorder.
	Diag *xlform.Diagnostics
}

// Read reads the first sheet of the spreadsheet at path into a table using
// default reader settings.
func Read(path string, diag *xlform.Diagnostics) (xlform.Table, error) {
	r := &Reader{Diag: diag}
	return r.Read(path)
}

// Read reads the first sheet of the spreadsheet at path into a table. Column
// names are taken from the header row and trimmed; empty or duplicate header
// cells get positional fallback names so table lookups stay unambiguous.
func (r *Reader) Read(path string) (xlform.Table, error) {
	if r.Diag == nil {
		r.Diag = xlform.NewDiagnostics(nil)
	}
	if _, err := os.Stat(path); err != nil {
		return xlform.Table{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return r.readExcelize(path)
	case ".xls":
		return r.readLegacy(path)
	default:
		return xlform.Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// readExcelize reads an xlsx/xlsm file. These formats carry reliable headers,
// so the first row is the header row.
func (r *Reader) readExcelize(path string) (xlform.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return xlform.Table{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return xlform.Table{}, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	grid := make([][]xlform.Value, len(rows))
	for i, row := range rows {
		cells := make([]xlform.Value, len(row))
		for j, v := range row {
			cells[j] = v
		}
		grid[i] = cells
	}
	return tableFromGrid(grid, 0), nil
}

// readLegacy reads a .xls file as a raw grid, locates the header row by
// keyword scoring, and falls back to row 0 with a warning when no row
// qualifies.
func (r *Reader) readLegacy(path string) (xlform.Table, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return xlform.Table{}, fmt.Errorf("open %q: %w", path, err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return xlform.Table{}, fmt.Errorf("no worksheet found in %q", path)
	}

	var grid [][]xlform.Value
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]xlform.Value, row.LastCol()+1)
		for j := row.FirstCol(); j <= row.LastCol(); j++ {
			if text := row.Col(j); text != "" {
				cells[j] = text
			}
		}
		grid = append(grid, cells)
	}

	headerRow, found := xlform.LocateHeader(grid, r.HeaderScanRows)
	if found {
		r.Diag.Infof("reader", "found headers at row %d", headerRow)
	} else {
		r.Diag.Warnf("reader", "no header row detected in %q, using first row", filepath.Base(path))
	}
	return tableFromGrid(grid, headerRow), nil
}

// tableFromGrid builds a table from a raw grid using the given row as the
// header. Ragged rows are padded with missing cells.
func tableFromGrid(grid [][]xlform.Value, headerRow int) xlform.Table {
	if headerRow >= len(grid) {
		return xlform.Table{}
	}
	width := 0
	for _, row := range grid[headerRow:] {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return xlform.Table{}
	}

	names := headerNames(grid[headerRow], width)
	dataRows := grid[headerRow+1:]

	cols := make([]xlform.Column, width)
	for j := 0; j < width; j++ {
		cells := make([]xlform.Value, len(dataRows))
		for i, row := range dataRows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		cols[j] = xlform.Column{Name: names[j], Cells: cells}
	}
	return xlform.Table{Columns: cols}
}

// headerNames derives unique, trimmed column names from a header row. Empty
// cells become "Column N"; duplicates get a numeric suffix.
func headerNames(header []xlform.Value, width int) []string {
	names := make([]string, width)
	used := make(map[string]int)
	for j := 0; j < width; j++ {
		name := ""
		if j < len(header) {
			name = strings.TrimSpace(xlform.ValueText(header[j]))
		}
		if name == "" {
			name = fmt.Sprintf("Column %d", j+1)
		}
		if n, dup := used[name]; dup {
			used[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		}
		if _, seen := used[name]; !seen {
			used[name] = 1
		}
		names[j] = name
	}
	return names
}
